package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/model"

	"github.com/stretchr/testify/require"
)

const testValoper = "neutarovaloper1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5abcdef"

func TestGetValidators(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/validators", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, BondStatusBonded, r.URL.Query().Get("status"))
		require.Equal(t, "100", r.URL.Query().Get("pagination.limit"))
		w.Write([]byte(`{"validators":[
			{"operator_address":"` + testValoper + `","jailed":false,"status":"BOND_STATUS_BONDED","tokens":"1234567890123",
			 "description":{"moniker":"alpha"},"commission":{"commission_rates":{"rate":"0.050000000000000000"}}},
			{"operator_address":"neutarovaloper1other","jailed":true,"status":"BOND_STATUS_BONDED","tokens":"1",
			 "description":{"moniker":""},"commission":{"commission_rates":{"rate":"0.125500000000000000"}}}
		],"pagination":{"total":"2"}}`))
	})
	c := newTestClient(t, mux, nil, false)

	validators, err := c.GetValidators(context.Background(), BondStatusBonded)
	require.NoError(t, err)
	require.Equal(t, []model.Validator{
		{
			OperatorAddress: testValoper,
			Moniker:         "alpha",
			Commission:      "5.00%",
			Status:          "BOND_STATUS_BONDED",
			Tokens:          "1234567890123",
			DisplayTokens:   "1234567.890123",
		},
		{
			OperatorAddress: "neutarovaloper1other",
			Moniker:         "Unknown",
			Commission:      "12.55%",
			Status:          "BOND_STATUS_BONDED",
			Tokens:          "1",
			DisplayTokens:   "0.000001",
			Jailed:          true,
		},
	}, validators)
}

func TestGetValidatorsBadTokens(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"validators":[{"operator_address":"x","tokens":"1.5"}]}`))
	}), nil, false)

	_, err := c.GetValidators(context.Background(), "")
	require.Error(t, err)
}

func TestGetValidator(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/validators/"+testValoper, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"validator":{"operator_address":"` + testValoper + `","status":"BOND_STATUS_UNBONDING","tokens":"0",
			"description":{"moniker":"alpha"},"commission":{"commission_rates":{"rate":"1.000000000000000000"}}}}`))
	})
	mux.HandleFunc("/cosmos/staking/v1beta1/validators/neutarovaloper1missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":5,"message":"validator does not exist"}`))
	})
	c := newTestClient(t, mux, nil, false)

	v, err := c.GetValidator(context.Background(), testValoper)
	require.NoError(t, err)
	require.Equal(t, "100.00%", v.Commission)
	require.Equal(t, "0.000000", v.DisplayTokens)

	_, err = c.GetValidator(context.Background(), "neutarovaloper1missing")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestGetDelegations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/delegations/"+testAddress, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"delegation_responses":[
			{"delegation":{"delegator_address":"` + testAddress + `","validator_address":"` + testValoper + `","shares":"1500000.000000000000000000"},
			 "balance":{"denom":"uneutaro","amount":"1500000"}},
			{"delegation":{"delegator_address":"` + testAddress + `","validator_address":"neutarovaloper1other","shares":"2.5"},
			 "balance":{"denom":"uneutaro","amount":"99999999999999999999"}}
		]}`))
	})
	mux.HandleFunc("/cosmos/staking/v1beta1/delegations/neutaro1empty", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"delegation_responses":[],"pagination":{}}`))
	})
	c := newTestClient(t, mux, nil, false)

	resp, err := c.GetDelegations(context.Background(), testAddress)
	require.NoError(t, err)
	require.Len(t, resp.Delegations, 2)
	require.Equal(t, model.Delegation{ValidatorAddress: testValoper, Amount: "1500000", DisplayAmount: "1.500000"}, resp.Delegations[0])
	require.Equal(t, "100000000000001499999", resp.TotalStaked)
	require.Equal(t, "100000000000001.499999 NTMPI", resp.TotalStakedDisplay)

	resp, err = c.GetDelegations(context.Background(), "neutaro1empty")
	require.NoError(t, err)
	require.Empty(t, resp.Delegations)
	require.Equal(t, "0", resp.TotalStaked)
	require.Equal(t, "0.000000 NTMPI", resp.TotalStakedDisplay)
}

func TestGetUnbondingDelegations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/delegators/"+testAddress+"/unbonding_delegations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unbonding_responses":[
			{"delegator_address":"` + testAddress + `","validator_address":"` + testValoper + `","entries":[
				{"creation_height":"10","completion_time":"2026-11-08T10:00:00Z","initial_balance":"2000000","balance":"2000000"},
				{"creation_height":"12","completion_time":"2026-11-09T10:00:00Z","initial_balance":"500","balance":"500"}
			]}
		]}`))
	})
	c := newTestClient(t, mux, nil, false)

	resp, err := c.GetUnbondingDelegations(context.Background(), testAddress)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, testValoper, resp.Entries[1].ValidatorAddress)
	require.Equal(t, "0.000500", resp.Entries[1].DisplayAmount)
	require.Equal(t, time.Date(2026, 11, 8, 10, 0, 0, 0, time.UTC), resp.Entries[0].CompletionTime.UTC())
	require.Equal(t, "2000500", resp.TotalUnbonding)
	require.Equal(t, "2.000500 NTMPI", resp.TotalUnbondingDisplay)
}

func TestPercent(t *testing.T) {
	for rate, want := range map[string]string{
		"":                     "0.00%",
		"0.100000000000000000": "10.00%",
		"0.000050000000000000": "0.01%",
		"0.07":                 "7.00%",
	} {
		got, err := percent(rate)
		require.NoError(t, err)
		require.Equal(t, want, got, rate)
	}
	_, err := percent("-0.1")
	require.Error(t, err)
}
