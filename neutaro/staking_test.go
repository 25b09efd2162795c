package neutaro

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStaking struct {
	mock.Mock
}

func (m *mockStaking) GetValidators(ctx context.Context, status string) ([]model.Validator, error) {
	args := m.Called(ctx, status)
	v, _ := args.Get(0).([]model.Validator)
	return v, args.Error(1)
}

func (m *mockStaking) GetValidator(ctx context.Context, operatorAddress string) (*model.Validator, error) {
	args := m.Called(ctx, operatorAddress)
	v, _ := args.Get(0).(*model.Validator)
	return v, args.Error(1)
}

func (m *mockStaking) GetDelegations(ctx context.Context, delegatorAddress string) (*model.DelegationsResponse, error) {
	args := m.Called(ctx, delegatorAddress)
	r, _ := args.Get(0).(*model.DelegationsResponse)
	return r, args.Error(1)
}

func (m *mockStaking) GetUnbondingDelegations(ctx context.Context, delegatorAddress string) (*model.UnbondingResponse, error) {
	args := m.Called(ctx, delegatorAddress)
	r, _ := args.Get(0).(*model.UnbondingResponse)
	return r, args.Error(1)
}

func operatorAddress(t *testing.T, seed byte) string {
	t.Helper()
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = seed + byte(i*7)
	}
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode(validate.ValidatorBech32Prefix, conv)
	require.NoError(t, err)
	return addr
}

func TestGetValidator(t *testing.T) {
	chain := &mockStaking{}
	valoper := operatorAddress(t, 1)
	chain.On("GetValidator", mock.Anything, valoper).Return(&model.Validator{OperatorAddress: valoper, Moniker: "alpha"}, nil).Once()

	v, err := GetValidator(context.Background(), chain, " "+valoper+" ")
	require.NoError(t, err)
	require.Equal(t, "alpha", v.Moniker)

	// an account address is not an operator address
	_, err = GetValidator(context.Background(), chain, destinationAddress(t, 1))
	require.ErrorIs(t, err, validate.ErrInvalidAddress)
	chain.AssertExpectations(t)
}

func TestGetDelegationsFromKeystore(t *testing.T) {
	path := filepath.Join(t.TempDir(), crypto.KeystoreFileName)
	address, err := ImportWallet(path, []byte(testMnemonic), []byte(testPassword), testParams)
	require.NoError(t, err)

	alpha, beta, gone := operatorAddress(t, 1), operatorAddress(t, 2), operatorAddress(t, 3)
	chain := &mockStaking{}
	chain.On("GetDelegations", mock.Anything, address).Return(&model.DelegationsResponse{
		DelegatorAddress: address,
		Delegations: []model.Delegation{
			{ValidatorAddress: alpha, Amount: "1000000", DisplayAmount: "1.000000"},
			{ValidatorAddress: beta, Amount: "2000000", DisplayAmount: "2.000000"},
			{ValidatorAddress: gone, Amount: "1", DisplayAmount: "0.000001"},
		},
		TotalStaked: "3000001",
	}, nil).Once()
	chain.On("GetValidators", mock.Anything, "").Return([]model.Validator{
		{OperatorAddress: alpha, Moniker: "alpha"},
		{OperatorAddress: beta, Moniker: "beta"},
	}, nil).Once()

	resp, err := GetDelegations(context.Background(), path, "", "", chain)
	require.NoError(t, err)
	require.Len(t, resp.Delegations, 3)
	require.Equal(t, "alpha", resp.Delegations[0].ValidatorMoniker)
	require.Equal(t, "beta", resp.Delegations[1].ValidatorMoniker)
	require.Equal(t, "Unknown", resp.Delegations[2].ValidatorMoniker)
	chain.AssertExpectations(t)
}

func TestGetDelegationsFilterByValidator(t *testing.T) {
	delegator := destinationAddress(t, 20)
	alpha, beta := operatorAddress(t, 1), operatorAddress(t, 2)

	chain := &mockStaking{}
	chain.On("GetDelegations", mock.Anything, delegator).Return(&model.DelegationsResponse{
		Delegations: []model.Delegation{
			{ValidatorAddress: alpha, Amount: "1"},
			{ValidatorAddress: beta, Amount: "2"},
		},
	}, nil).Once()
	// monikers are best effort
	chain.On("GetValidators", mock.Anything, "").Return(nil, errors.New("node down")).Once()

	resp, err := GetDelegations(context.Background(), "", delegator, beta, chain)
	require.NoError(t, err)
	require.Equal(t, []model.Delegation{{ValidatorAddress: beta, Amount: "2", ValidatorMoniker: "Unknown"}}, resp.Delegations)

	_, err = GetDelegations(context.Background(), "", delegator, "neutarovaloper1bad", chain)
	require.ErrorIs(t, err, validate.ErrInvalidAddress)
	chain.AssertExpectations(t)
}

func TestGetDelegationsErrors(t *testing.T) {
	chain := &mockStaking{}

	_, err := GetDelegations(context.Background(), filepath.Join(t.TempDir(), "missing.enc"), "", "", chain)
	require.ErrorIs(t, err, crypto.ErrKeystoreNotFound)

	_, err = GetDelegations(context.Background(), "", "cosmos1abc", "", chain)
	require.ErrorIs(t, err, validate.ErrInvalidAddress)

	delegator := destinationAddress(t, 21)
	chain.On("GetDelegations", mock.Anything, delegator).Return(nil, errors.New("boom")).Once()
	_, err = GetDelegations(context.Background(), "", delegator, "", chain)
	require.ErrorContains(t, err, "delegations: boom")
}

func TestGetUnbondingDelegations(t *testing.T) {
	delegator := destinationAddress(t, 22)
	chain := &mockStaking{}
	chain.On("GetUnbondingDelegations", mock.Anything, delegator).Return(&model.UnbondingResponse{
		DelegatorAddress: delegator,
		TotalUnbonding:   "5",
	}, nil).Once()

	resp, err := GetUnbondingDelegations(context.Background(), "", delegator, chain)
	require.NoError(t, err)
	require.Equal(t, "5", resp.TotalUnbonding)
	chain.AssertExpectations(t)
}
