package model

import "time"

// Validator is a staking validator as reported by the node.
type Validator struct {
	OperatorAddress string `json:"operatorAddress"`
	Moniker         string `json:"moniker"`
	Commission      string `json:"commission"` // percent, 2 decimals, e.g. "5.00%"
	Status          string `json:"status"`
	Tokens          string `json:"tokens"`        // uneutaro
	DisplayTokens   string `json:"displayTokens"` // NTMPI, 6 decimals
	Jailed          bool   `json:"jailed"`
}

// Delegation is stake bonded from the wallet to one validator.
type Delegation struct {
	ValidatorAddress string `json:"validatorAddress"`
	ValidatorMoniker string `json:"validatorMoniker,omitempty"`
	Amount           string `json:"amount"`        // uneutaro
	DisplayAmount    string `json:"displayAmount"` // NTMPI, 6 decimals
}

// DelegationsResponse lists the delegations of an address with their total.
type DelegationsResponse struct {
	DelegatorAddress   string       `json:"delegatorAddress"`
	Delegations        []Delegation `json:"delegations"`
	TotalStaked        string       `json:"totalStaked"`
	TotalStakedDisplay string       `json:"totalStakedDisplay"`
}

// UnbondingEntry is stake on its way out of a validator.
type UnbondingEntry struct {
	ValidatorAddress string    `json:"validatorAddress"`
	Amount           string    `json:"amount"`
	DisplayAmount    string    `json:"displayAmount"`
	CompletionTime   time.Time `json:"completionTime"`
}

// UnbondingResponse lists the unbonding entries of an address with their total.
type UnbondingResponse struct {
	DelegatorAddress      string           `json:"delegatorAddress"`
	Entries               []UnbondingEntry `json:"entries"`
	TotalUnbonding        string           `json:"totalUnbonding"`
	TotalUnbondingDisplay string           `json:"totalUnbondingDisplay"`
}
