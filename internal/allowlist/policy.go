// Package allowlist decides whether an outbound transfer may go ahead.
//
// Evaluate is a pure function over an AllowlistConfig. The store in this
// package loads and saves that config; honouring an override flag is left to
// the caller.
package allowlist

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
)

// ReasonUnknownBlocked is the fixed reason for destinations rejected by
// blockUnknown.
const ReasonUnknownBlocked = "destination is not in the allowlist and unknown destinations are blocked"

// Verdict is the outcome of Evaluate.
type Verdict struct {
	Allowed     bool
	RequireMemo bool
	Reason      string
	// Destination is the matched entry, nil when the default policy applied.
	Destination *model.Destination
}

// Evaluate checks a transfer of amount base units to destination.
// A destination entry always takes precedence over the default policy.
func Evaluate(cfg *model.AllowlistConfig, destination string, amount *big.Int, memo string) Verdict {
	destination = strings.TrimSpace(destination)

	if amount == nil {
		return Verdict{Reason: "amount is missing"}
	}
	if amount.Sign() < 0 {
		return Verdict{Reason: "amount must not be negative"}
	}

	if dest := Find(cfg, destination); dest != nil {
		v := applyRule(dest.MaxAmount, dest.NeedsMemo, "for "+dest.Label(), amount, memo)
		v.Destination = copyDestination(dest)
		return v
	}

	if cfg == nil || cfg.DefaultPolicy == nil {
		return Verdict{Allowed: true}
	}
	policy := cfg.DefaultPolicy
	if policy.BlockUnknown {
		return Verdict{Reason: ReasonUnknownBlocked}
	}
	return applyRule(policy.MaxAmount, policy.RequireMemo, "for unknown destinations", amount, memo)
}

// Find returns the entry for address. When the list holds duplicates the
// last one wins.
func Find(cfg *model.AllowlistConfig, address string) *model.Destination {
	if cfg == nil {
		return nil
	}
	address = strings.TrimSpace(address)
	for i := len(cfg.Destinations) - 1; i >= 0; i-- {
		if strings.TrimSpace(cfg.Destinations[i].Address) == address {
			return &cfg.Destinations[i]
		}
	}
	return nil
}

func applyRule(maxAmount *model.DisplayAmount, needsMemo bool, scope string, amount *big.Int, memo string) Verdict {
	if maxAmount != nil {
		limit, err := common.ParseDisplayAmount(maxAmount.String())
		if err != nil {
			return Verdict{RequireMemo: needsMemo, Reason: fmt.Sprintf("allowlist cap %s is invalid", scope)}
		}
		if amount.Cmp(limit) > 0 {
			return Verdict{
				RequireMemo: needsMemo,
				Reason: fmt.Sprintf("amount %s exceeds the cap of %s %s",
					common.FormatWithDenom(amount), common.FormatWithDenom(limit), scope),
			}
		}
	}

	if needsMemo && strings.TrimSpace(memo) == "" {
		return Verdict{RequireMemo: true, Reason: fmt.Sprintf("memo is required %s", scope)}
	}

	return Verdict{Allowed: true, RequireMemo: needsMemo}
}

func copyDestination(dest *model.Destination) *model.Destination {
	d := *dest
	if dest.MaxAmount != nil {
		amount := *dest.MaxAmount
		d.MaxAmount = &amount
	}
	return &d
}
