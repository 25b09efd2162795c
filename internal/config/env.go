package config

import (
	"fmt"
	"math/big"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

// EnvPrefix is prepended to every variable name, e.g. NEUTARO_REST_URL.
const EnvPrefix = "NEUTARO"

// Config contains all configuration parameters for the application.
// Empty paths mean the default location under ~/.neutaro-wallet.
type Config struct {
	KeystorePath  string `envconfig:"KEYSTORE_PATH"`
	AllowlistPath string `envconfig:"ALLOWLIST_PATH"`
	ReceiptsPath  string `envconfig:"RECEIPTS_PATH"`

	RESTURL          string        `envconfig:"REST_URL" default:"https://api2.neutaro.io"`
	ChainID          string        `envconfig:"CHAIN_ID" default:"Neutaro-1"`
	Denom            string        `envconfig:"DENOM" default:"uneutaro"`
	GasPrice         string        `envconfig:"GAS_PRICE" default:"0.025"`
	GasLimit         uint64        `envconfig:"GAS_LIMIT" default:"200000"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	TxTimeout        time.Duration `envconfig:"TX_TIMEOUT" default:"60s"` // inclusion wait after broadcast
	WaitForInclusion bool          `envconfig:"WAIT_FOR_INCLUSION" default:"true"`

	Port          string `envconfig:"PORT" default:"8080"`
	PayCooldown   int    `envconfig:"PAY_COOLDOWN_MINUTES" default:"0"`
	MaxSendAmount string `envconfig:"MAX_SEND_AMOUNT" default:"1000"` // NTMPI
	ConfirmAbove  string `envconfig:"CONFIRM_ABOVE" default:"100"`    // NTMPI

	// PriceCurrency enables the CoinGecko price lookup on balance (e.g. "usd").
	PriceCurrency string `envconfig:"PRICE_CURRENCY"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Password is read from NEUTARO_PASSWORD for non-interactive use.
	// Unlike prompted passwords it lives in an immutable string.
	Password string `envconfig:"PASSWORD"`
}

// Load reads the configuration from NEUTARO_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.PayCooldown < 0 {
		return nil, fmt.Errorf("failed to process config: PAY_COOLDOWN_MINUTES must not be negative")
	}
	if _, _, err := cfg.Limits(); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// Limits returns MaxSendAmount and ConfirmAbove in base units.
func (c *Config) Limits() (maxSend, confirmAbove *big.Int, err error) {
	maxSend, err = common.ParseDisplayAmount(c.MaxSendAmount)
	if err != nil {
		return nil, nil, fmt.Errorf("MAX_SEND_AMOUNT: %w", err)
	}
	confirmAbove, err = common.ParseDisplayAmount(c.ConfirmAbove)
	if err != nil {
		return nil, nil, fmt.Errorf("CONFIRM_ABOVE: %w", err)
	}
	return maxSend, confirmAbove, nil
}

// PayCooldownDuration returns the pay cooldown as a duration.
func (c *Config) PayCooldownDuration() time.Duration {
	return time.Duration(c.PayCooldown) * time.Minute
}

// SetupLogging applies LogLevel to the standard logrus logger.
func (c *Config) SetupLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}
