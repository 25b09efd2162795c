package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AllowlistConfig represents the allowlist file structure
type AllowlistConfig struct {
	DefaultPolicy *DefaultPolicy `json:"defaultPolicy,omitempty"`
	Destinations  []Destination  `json:"destinations"`
}

// DefaultPolicy applies to destinations that have no explicit entry.
// A nil DefaultPolicy allows every destination.
type DefaultPolicy struct {
	MaxAmount    *DisplayAmount `json:"maxAmount"` // NTMPI, null means no cap
	RequireMemo  bool           `json:"requireMemo"`
	BlockUnknown bool           `json:"blockUnknown"`
}

// Destination is an explicitly trusted recipient.
type Destination struct {
	Address   string         `json:"address"`
	Name      string         `json:"name,omitempty"`
	MaxAmount *DisplayAmount `json:"maxAmount,omitempty"` // NTMPI
	NeedsMemo bool           `json:"needsMemo,omitempty"`
	Notes     string         `json:"notes,omitempty"`
}

// Label returns the name of the destination, or its address when unnamed.
func (d *Destination) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Address
}

// DisplayAmount is an NTMPI amount stored as a JSON number. The literal text is
// kept so that it never passes through float64.
type DisplayAmount string

// UnmarshalJSON accepts a JSON number or a JSON string.
func (a *DisplayAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = DisplayAmount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number: %w", err)
	}
	*a = DisplayAmount(n)
	return nil
}

// MarshalJSON writes the amount as a JSON number when it is one.
func (a DisplayAmount) MarshalJSON() ([]byte, error) {
	if json.Valid([]byte(a)) && isJSONNumber(string(a)) {
		return []byte(a), nil
	}
	return json.Marshal(string(a))
}

func (a DisplayAmount) String() string {
	return string(a)
}

func isJSONNumber(s string) bool {
	if s == "" {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}
