package client

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
)

const (
	BondStatusBonded = "BOND_STATUS_BONDED"

	validatorPageLimit = "100"
)

type validatorJSON struct {
	OperatorAddress string `json:"operator_address"`
	Jailed          bool   `json:"jailed"`
	Status          string `json:"status"`
	Tokens          string `json:"tokens"`
	Description     struct {
		Moniker string `json:"moniker"`
	} `json:"description"`
	Commission struct {
		CommissionRates struct {
			Rate string `json:"rate"`
		} `json:"commission_rates"`
	} `json:"commission"`
}

func (v *validatorJSON) model() (model.Validator, error) {
	tokens, err := common.ParseBaseUnits(v.Tokens)
	if err != nil {
		return model.Validator{}, fmt.Errorf("validator %s tokens: %w", v.OperatorAddress, err)
	}
	commission, err := percent(v.Commission.CommissionRates.Rate)
	if err != nil {
		return model.Validator{}, fmt.Errorf("validator %s commission: %w", v.OperatorAddress, err)
	}
	moniker := v.Description.Moniker
	if moniker == "" {
		moniker = "Unknown"
	}
	return model.Validator{
		OperatorAddress: v.OperatorAddress,
		Moniker:         moniker,
		Commission:      commission,
		Status:          v.Status,
		Tokens:          tokens.String(),
		DisplayTokens:   common.FormatBaseUnits(tokens),
		Jailed:          v.Jailed,
	}, nil
}

// percent renders a decimal rate such as "0.050000000000000000" as "5.00%".
func percent(rate string) (string, error) {
	if rate == "" {
		rate = "0"
	}
	r, ok := new(big.Rat).SetString(rate)
	if !ok || r.Sign() < 0 {
		return "", fmt.Errorf("invalid rate %q", rate)
	}
	return r.Mul(r, big.NewRat(100, 1)).FloatString(2) + "%", nil
}

// GetValidators lists validators with the given bond status (first page of
// 100). An empty status lists every validator.
func (c *NeutaroClient) GetValidators(ctx context.Context, status string) ([]model.Validator, error) {
	query := url.Values{"pagination.limit": {validatorPageLimit}}
	if status != "" {
		query.Set("status", status)
	}

	var resp struct {
		Validators []validatorJSON `json:"validators"`
	}
	if err := c.get(ctx, "/cosmos/staking/v1beta1/validators?"+query.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get validators: %w", err)
	}

	validators := make([]model.Validator, 0, len(resp.Validators))
	for i := range resp.Validators {
		v, err := resp.Validators[i].model()
		if err != nil {
			return nil, err
		}
		validators = append(validators, v)
	}
	return validators, nil
}

// GetValidator returns one validator by operator address.
func (c *NeutaroClient) GetValidator(ctx context.Context, operatorAddress string) (*model.Validator, error) {
	var resp struct {
		Validator validatorJSON `json:"validator"`
	}
	if err := c.get(ctx, "/cosmos/staking/v1beta1/validators/"+url.PathEscape(operatorAddress), &resp); err != nil {
		return nil, fmt.Errorf("failed to get validator: %w", err)
	}
	v, err := resp.Validator.model()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type delegationsResponse struct {
	DelegationResponses []struct {
		Delegation struct {
			ValidatorAddress string `json:"validator_address"`
		} `json:"delegation"`
		Balance model.Coin `json:"balance"`
	} `json:"delegation_responses"`
}

// GetDelegations lists the stake delegated by delegatorAddress. Monikers are
// left empty.
func (c *NeutaroClient) GetDelegations(ctx context.Context, delegatorAddress string) (*model.DelegationsResponse, error) {
	var resp delegationsResponse
	if err := c.get(ctx, "/cosmos/staking/v1beta1/delegations/"+url.PathEscape(delegatorAddress), &resp); err != nil {
		return nil, fmt.Errorf("failed to get delegations: %w", err)
	}

	total := new(big.Int)
	delegations := make([]model.Delegation, 0, len(resp.DelegationResponses))
	for _, d := range resp.DelegationResponses {
		amount, err := common.ParseBaseUnits(d.Balance.Amount)
		if err != nil {
			return nil, fmt.Errorf("delegation to %s: %w", d.Delegation.ValidatorAddress, err)
		}
		total.Add(total, amount)
		delegations = append(delegations, model.Delegation{
			ValidatorAddress: d.Delegation.ValidatorAddress,
			Amount:           amount.String(),
			DisplayAmount:    common.FormatBaseUnits(amount),
		})
	}

	return &model.DelegationsResponse{
		DelegatorAddress:   delegatorAddress,
		Delegations:        delegations,
		TotalStaked:        total.String(),
		TotalStakedDisplay: common.FormatWithDenom(total),
	}, nil
}

type unbondingResponse struct {
	UnbondingResponses []struct {
		ValidatorAddress string `json:"validator_address"`
		Entries          []struct {
			CompletionTime time.Time `json:"completion_time"`
			Balance        string    `json:"balance"`
		} `json:"entries"`
	} `json:"unbonding_responses"`
}

// GetUnbondingDelegations lists every unbonding entry of delegatorAddress.
func (c *NeutaroClient) GetUnbondingDelegations(ctx context.Context, delegatorAddress string) (*model.UnbondingResponse, error) {
	var resp unbondingResponse
	path := "/cosmos/staking/v1beta1/delegators/" + url.PathEscape(delegatorAddress) + "/unbonding_delegations"
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to get unbonding delegations: %w", err)
	}

	total := new(big.Int)
	entries := make([]model.UnbondingEntry, 0)
	for _, ub := range resp.UnbondingResponses {
		for _, e := range ub.Entries {
			amount, err := common.ParseBaseUnits(e.Balance)
			if err != nil {
				return nil, fmt.Errorf("unbonding from %s: %w", ub.ValidatorAddress, err)
			}
			total.Add(total, amount)
			entries = append(entries, model.UnbondingEntry{
				ValidatorAddress: ub.ValidatorAddress,
				Amount:           amount.String(),
				DisplayAmount:    common.FormatBaseUnits(amount),
				CompletionTime:   e.CompletionTime,
			})
		}
	}

	return &model.UnbondingResponse{
		DelegatorAddress:      delegatorAddress,
		Entries:               entries,
		TotalUnbonding:        total.String(),
		TotalUnbondingDisplay: common.FormatWithDenom(total),
	}, nil
}
