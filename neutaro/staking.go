package neutaro

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"

	log "github.com/sirupsen/logrus"
)

// StakingSource reads staking state from the chain.
type StakingSource interface {
	GetValidators(ctx context.Context, status string) ([]model.Validator, error)
	GetValidator(ctx context.Context, operatorAddress string) (*model.Validator, error)
	GetDelegations(ctx context.Context, delegatorAddress string) (*model.DelegationsResponse, error)
	GetUnbondingDelegations(ctx context.Context, delegatorAddress string) (*model.UnbondingResponse, error)
}

// GetValidators lists validators with the given bond status.
func GetValidators(ctx context.Context, chain StakingSource, status string) ([]model.Validator, error) {
	validators, err := chain.GetValidators(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("validators: %w", err)
	}
	return validators, nil
}

// GetValidator looks up one validator by its neutarovaloper address.
func GetValidator(ctx context.Context, chain StakingSource, operatorAddress string) (*model.Validator, error) {
	operatorAddress = strings.TrimSpace(operatorAddress)
	if err := validate.ValidatorAddress(operatorAddress); err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	v, err := chain.GetValidator(ctx, operatorAddress)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	return v, nil
}

// GetDelegations lists the delegations of address, or of the keystore's
// address when address is empty, with validator monikers filled in. A
// non-empty validator keeps only the delegation to that operator.
func GetDelegations(ctx context.Context, keystorePath, address, validator string, chain StakingSource) (*model.DelegationsResponse, error) {
	address, err := delegatorAddress(keystorePath, address)
	if err != nil {
		return nil, fmt.Errorf("delegations: %w", err)
	}
	validator = strings.TrimSpace(validator)
	if validator != "" {
		if err := validate.ValidatorAddress(validator); err != nil {
			return nil, fmt.Errorf("delegations: %w", err)
		}
	}

	resp, err := chain.GetDelegations(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("delegations: %w", err)
	}

	if validator != "" {
		kept := resp.Delegations[:0]
		for _, d := range resp.Delegations {
			if d.ValidatorAddress == validator {
				kept = append(kept, d)
			}
		}
		resp.Delegations = kept
	}
	if len(resp.Delegations) == 0 {
		return resp, nil
	}

	monikers := make(map[string]string)
	validators, err := chain.GetValidators(ctx, "")
	if err != nil {
		log.WithError(err).Warn("failed to get validator monikers")
	}
	for _, v := range validators {
		monikers[v.OperatorAddress] = v.Moniker
	}
	for i := range resp.Delegations {
		moniker, ok := monikers[resp.Delegations[i].ValidatorAddress]
		if !ok {
			moniker = "Unknown"
		}
		resp.Delegations[i].ValidatorMoniker = moniker
	}
	return resp, nil
}

// GetUnbondingDelegations lists the unbonding entries of address, or of the
// keystore's address when address is empty.
func GetUnbondingDelegations(ctx context.Context, keystorePath, address string, chain StakingSource) (*model.UnbondingResponse, error) {
	address, err := delegatorAddress(keystorePath, address)
	if err != nil {
		return nil, fmt.Errorf("unbonding: %w", err)
	}
	resp, err := chain.GetUnbondingDelegations(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("unbonding: %w", err)
	}
	return resp, nil
}

func delegatorAddress(keystorePath, address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		stored, ok := crypto.PeekAddress(keystorePath)
		if !ok {
			return "", crypto.ErrKeystoreNotFound
		}
		return stored, nil
	}
	if err := validate.Address(address); err != nil {
		return "", err
	}
	return address, nil
}
