package allowlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"
)

const FileName = "allowlist.json"

var (
	ErrNotConfigured       = errors.New("allowlist is not configured")
	ErrInvalidConfig       = errors.New("invalid allowlist")
	ErrAlreadyConfigured   = errors.New("allowlist already exists")
	ErrDestinationNotFound = errors.New("destination not in allowlist")
)

// Mode selects the default policy written by Init.
type Mode string

const (
	// ModeEnforce blocks every destination that has no entry.
	ModeEnforce Mode = "enforce"
	// ModeAllow lets unknown destinations through.
	ModeAllow Mode = "allow"
)

// DefaultPath returns ~/.neutaro-wallet/allowlist.json.
func DefaultPath() string {
	return filepath.Join(common.DataDir(), FileName)
}

func resolvePath(path string) string {
	if path == "" {
		return DefaultPath()
	}
	return path
}

// Exists reports whether an allowlist file is present.
func Exists(path string) bool {
	info, err := os.Stat(resolvePath(path))
	return err == nil && info.Mode().IsRegular()
}

// Load reads the allowlist. It returns ErrNotConfigured when the file does not exist.
func Load(path string) (*model.AllowlistConfig, error) {
	path = resolvePath(path)
	data, err := common.ReadFileNoBOM(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("failed to read allowlist: %w", err)
	}

	var cfg model.AllowlistConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	for i := range cfg.Destinations {
		dest := &cfg.Destinations[i]
		dest.Address = strings.TrimSpace(dest.Address)
		if dest.Address == "" {
			return nil, fmt.Errorf("%w: destination %d has no address", ErrInvalidConfig, i+1)
		}
	}
	return &cfg, nil
}

// Save writes the allowlist atomically with mode 0600.
func Save(path string, cfg *model.AllowlistConfig) error {
	if cfg.Destinations == nil {
		cfg.Destinations = []model.Destination{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal allowlist: %w", err)
	}
	if err := common.WriteFileAtomic(resolvePath(path), data, true); err != nil {
		return fmt.Errorf("failed to save allowlist: %w", err)
	}
	return nil
}

// Init creates an allowlist with no destinations. An existing file is only
// replaced when force is set.
func Init(path string, mode Mode, force bool) (*model.AllowlistConfig, error) {
	var policy model.DefaultPolicy
	switch mode {
	case ModeEnforce:
		policy.BlockUnknown = true
	case ModeAllow:
	default:
		return nil, fmt.Errorf("unknown allowlist mode %q (use %s or %s)", mode, ModeEnforce, ModeAllow)
	}

	cfg := &model.AllowlistConfig{DefaultPolicy: &policy, Destinations: []model.Destination{}}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal allowlist: %w", err)
	}

	if err := common.WriteFileAtomic(resolvePath(path), data, force); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrAlreadyConfigured
		}
		return nil, fmt.Errorf("failed to save allowlist: %w", err)
	}
	return cfg, nil
}

// Add inserts dest, replacing any entry with the same address. A missing
// allowlist is created with no default policy.
func Add(path string, dest model.Destination) (*model.AllowlistConfig, error) {
	dest.Address = strings.TrimSpace(dest.Address)
	if err := validate.Address(dest.Address); err != nil {
		return nil, err
	}
	if dest.MaxAmount != nil {
		if _, err := common.ParseDisplayAmount(dest.MaxAmount.String()); err != nil {
			return nil, fmt.Errorf("invalid max amount: %w", err)
		}
	}

	cfg, err := Load(path)
	if errors.Is(err, ErrNotConfigured) {
		cfg = &model.AllowlistConfig{}
	} else if err != nil {
		return nil, err
	}

	cfg.Destinations = append(without(cfg.Destinations, dest.Address), dest)
	if err := Save(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Remove deletes every entry for address.
func Remove(path string, address string) (*model.AllowlistConfig, error) {
	address = strings.TrimSpace(address)
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	kept := without(cfg.Destinations, address)
	if len(kept) == len(cfg.Destinations) {
		return nil, fmt.Errorf("%w: %s", ErrDestinationNotFound, address)
	}
	cfg.Destinations = kept
	if err := Save(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func without(destinations []model.Destination, address string) []model.Destination {
	kept := make([]model.Destination, 0, len(destinations))
	for _, d := range destinations {
		if d.Address != address {
			kept = append(kept, d)
		}
	}
	return kept
}
