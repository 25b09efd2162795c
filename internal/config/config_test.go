package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://api2.neutaro.io", cfg.RESTURL)
	require.Equal(t, "Neutaro-1", cfg.ChainID)
	require.Equal(t, "uneutaro", cfg.Denom)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 0, cfg.PayCooldown)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 60*time.Second, cfg.TxTimeout)
	require.Equal(t, uint64(200000), cfg.GasLimit)
	require.True(t, cfg.WaitForInclusion)

	maxSend, confirmAbove, err := cfg.Limits()
	require.NoError(t, err)
	require.Equal(t, "1000000000", maxSend.String())
	require.Equal(t, "100000000", confirmAbove.String())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NEUTARO_KEYSTORE_PATH", "/tmp/ks.enc")
	t.Setenv("NEUTARO_REST_URL", "http://localhost:1317")
	t.Setenv("NEUTARO_PAY_COOLDOWN_MINUTES", "4")
	t.Setenv("NEUTARO_MAX_SEND_AMOUNT", "50.5")
	t.Setenv("NEUTARO_HTTP_TIMEOUT", "5s")
	t.Setenv("NEUTARO_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/ks.enc", cfg.KeystorePath)
	require.Equal(t, "http://localhost:1317", cfg.RESTURL)
	require.Equal(t, 4*time.Minute, cfg.PayCooldownDuration())
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.NoError(t, cfg.SetupLogging())

	maxSend, _, err := cfg.Limits()
	require.NoError(t, err)
	require.Equal(t, "50500000", maxSend.String())
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("NEUTARO_MAX_SEND_AMOUNT", "lots")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("NEUTARO_MAX_SEND_AMOUNT", "10")
	t.Setenv("NEUTARO_PAY_COOLDOWN_MINUTES", "-1")
	_, err = Load()
	require.Error(t, err)

	cfg := &Config{LogLevel: "loud"}
	require.Error(t, cfg.SetupLogging())
}

func scripted(answers ...string) func(string) ([]byte, error) {
	return func(string) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		a := answers[0]
		answers = answers[1:]
		return []byte(a), nil
	}
}

func TestPasswordReader(t *testing.T) {
	r := &PasswordReader{Flag: "from-flag", Env: "from-env", Prompt: scripted()}
	pw, err := r.Read("pw: ", true)
	require.NoError(t, err)
	require.Equal(t, "from-flag", string(pw))

	r = &PasswordReader{Env: "from-env", Prompt: scripted()}
	pw, err = r.Read("pw: ", false)
	require.NoError(t, err)
	require.Equal(t, "from-env", string(pw))

	r = &PasswordReader{Prompt: scripted("typed-secret", "typed-secret")}
	pw, err = r.Read("pw: ", true)
	require.NoError(t, err)
	require.Equal(t, "typed-secret", string(pw))

	r = &PasswordReader{Prompt: scripted("typed-secret", "typo-secret")}
	_, err = r.Read("pw: ", true)
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestReadLine(t *testing.T) {
	line, err := ReadLine(strings.NewReader("word one two\r\nnext"))
	require.NoError(t, err)
	require.Equal(t, "word one two", string(line))

	line, err = ReadLine(strings.NewReader("no newline"))
	require.NoError(t, err)
	require.Equal(t, "no newline", string(line))
}

func TestPasswordHolder(t *testing.T) {
	h := NewPasswordHolder([]byte("server-secret"))
	pw, err := h.Bytes()
	require.NoError(t, err)
	require.Equal(t, "server-secret", string(pw))

	clear(pw)
	again, err := h.Bytes()
	require.NoError(t, err)
	require.Equal(t, "server-secret", string(again), "callers get a copy")

	h.Wipe()
	_, err = h.Bytes()
	require.ErrorIs(t, err, ErrPasswordNotSet)
}
