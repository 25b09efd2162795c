package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlexZinkM/neutaro-wallet/internal/allowlist"
	"github.com/AlexZinkM/neutaro-wallet/internal/client"
	"github.com/AlexZinkM/neutaro-wallet/internal/config"
	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/receipts"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"
	"github.com/AlexZinkM/neutaro-wallet/neutaro"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testPassword = "test-password-very-secure-123456"
)

var testParams = crypto.WithScryptParams(1<<10, 8, 1)

type mockChain struct {
	mock.Mock
}

func (m *mockChain) GetBalance(ctx context.Context, address string) (*big.Int, []model.Coin, error) {
	args := m.Called(ctx, address)
	n, _ := args.Get(0).(*big.Int)
	return n, nil, args.Error(2)
}

func (m *mockChain) SendTokens(ctx context.Context, signer client.Signer, fromAddress, toAddress string, amount *big.Int, memo string) (*model.BroadcastResult, error) {
	args := m.Called(ctx, signer, fromAddress, toAddress, amount, memo)
	res, _ := args.Get(0).(*model.BroadcastResult)
	return res, args.Error(1)
}

func testAddress(t *testing.T, seed byte) string {
	t.Helper()
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = seed + byte(i)
	}
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode(validate.Bech32Prefix, conv)
	require.NoError(t, err)
	return addr
}

type fixture struct {
	handler   *NeutaroHandler
	chain     *mockChain
	keystore  string
	allowlist string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	store, err := receipts.Open(filepath.Join(dir, receipts.FileName))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		chain:     &mockChain{},
		keystore:  filepath.Join(dir, crypto.KeystoreFileName),
		allowlist: filepath.Join(dir, allowlist.FileName),
	}

	sender := neutaro.NewSender(neutaro.SenderConfig{
		KeystorePath:  f.keystore,
		AllowlistPath: f.allowlist,
		ConfirmAbove:  big.NewInt(100_000000),
	}, f.chain, store)

	f.handler, err = NewNeutaroHandler(Deps{
		KeystorePath: f.keystore,
		Password:     config.NewPasswordHolder([]byte(testPassword)),
		Chain:        f.chain,
		Receipts:     store,
		Sender:       sender,
		KeystoreOpts: []crypto.Option{testParams},
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) importWallet(t *testing.T) string {
	t.Helper()
	address, err := neutaro.ImportWallet(f.keystore, []byte(testMnemonic), []byte(testPassword), testParams)
	require.NoError(t, err)
	return address
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNewNeutaroHandlerRequiresDeps(t *testing.T) {
	_, err := NewNeutaroHandler(Deps{})
	require.Error(t, err)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Generate(rec, httptest.NewRequest(http.MethodPost, "/neutaro/generate", nil))
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	require.False(t, crypto.Exists(f.keystore))

	rec = httptest.NewRecorder()
	f.handler.Generate(rec, jsonRequest(http.MethodPost, "/neutaro/generate", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NoError(t, validate.Address(resp.Address))
	require.True(t, crypto.Exists(f.keystore))

	rec = httptest.NewRecorder()
	f.handler.Generate(rec, jsonRequest(http.MethodPost, "/neutaro/generate", ""))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, model.CodeKeystoreExists, decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	f.handler.Generate(rec, httptest.NewRequest(http.MethodGet, "/neutaro/generate", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetBalance(t *testing.T) {
	f := newFixture(t)
	address := f.importWallet(t)

	f.chain.On("GetBalance", mock.Anything, address).Return(big.NewInt(12_345678), nil, nil).Once()

	rec := httptest.NewRecorder()
	f.handler.GetBalance(rec, httptest.NewRequest(http.MethodGet, "/neutaro/balance", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "12.345678", resp.DisplayAmount)
	require.Equal(t, address, resp.Address)

	rec = httptest.NewRecorder()
	f.handler.GetBalance(rec, httptest.NewRequest(http.MethodGet, "/neutaro/balance?address=cosmos1abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, model.CodeInvalidAddress, decodeError(t, rec).Code)

	f.chain.On("GetBalance", mock.Anything, address).Return(nil, nil, &client.HTTPError{StatusCode: 503}).Once()
	rec = httptest.NewRecorder()
	f.handler.GetBalance(rec, httptest.NewRequest(http.MethodGet, "/neutaro/balance", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, model.CodeChainUnavailable, decodeError(t, rec).Code)
}

func payRequest(to, amount string, extra string) *http.Request {
	return jsonRequest(http.MethodPost, "/neutaro/pay", fmt.Sprintf(`{"toAddress":%q,"amount":%q%s}`, to, amount, extra))
}

func TestPay(t *testing.T) {
	f := newFixture(t)
	address := f.importWallet(t)
	to := testAddress(t, 1)

	f.chain.On("SendTokens", mock.Anything, mock.Anything, address, to, mock.MatchedBy(func(n *big.Int) bool {
		return n.String() == "2500000"
	}), "rent").Return(&model.BroadcastResult{TransactionHash: "HASH1", Height: 10, GasUsed: 70000}, nil).Once()

	rec := httptest.NewRecorder()
	f.handler.Pay(rec, payRequest(to, "2.5", `,"memo":"rent"`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.PayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, model.PayResponse{TxHash: "HASH1", Height: 10, GasUsed: 70000, Amount: "2.500000"}, resp)
	f.chain.AssertExpectations(t)

	rec = httptest.NewRecorder()
	f.handler.TransactionHistory(rec, httptest.NewRequest(http.MethodGet, "/neutaro/transactions?status=confirmed", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var logResp model.LogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logResp))
	require.Len(t, logResp.Receipts, 1)
	require.Equal(t, "2.500000", logResp.TotalSpent)
	require.Equal(t, "rent", logResp.Receipts[0].Memo)
}

func TestPayErrors(t *testing.T) {
	f := newFixture(t)
	f.importWallet(t)
	to := testAddress(t, 2)

	_, err := allowlist.Init(f.allowlist, allowlist.ModeEnforce, false)
	require.NoError(t, err)

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{
			name:   "malformed body",
			req:    jsonRequest(http.MethodPost, "/neutaro/pay", "{"),
			status: http.StatusBadRequest,
			code:   model.CodeInvalidRequest,
		},
		{
			name: "text/plain body",
			req: func() *http.Request {
				req := payRequest(to, "1", `,"overrideAllowlist":true`)
				req.Header.Set("Content-Type", "text/plain")
				return req
			}(),
			status: http.StatusUnsupportedMediaType,
			code:   model.CodeInvalidRequest,
		},
		{
			name:   "invalid amount",
			req:    payRequest(to, "1.2.3", ""),
			status: http.StatusBadRequest,
			code:   model.CodeInvalidAmount,
		},
		{
			name:   "invalid address",
			req:    payRequest("neutaro1nope", "1", ""),
			status: http.StatusBadRequest,
			code:   model.CodeInvalidAddress,
		},
		{
			name:   "needs confirmation",
			req:    payRequest(to, "150", ""),
			status: http.StatusPreconditionRequired,
			code:   model.CodeConfirmationRequired,
		},
		{
			name:   "blocked by allowlist",
			req:    payRequest(to, "1", ""),
			status: http.StatusForbidden,
			code:   model.CodePolicyDenied,
		},
		{
			name:   "override in body ignored",
			req:    payRequest(to, "1", `,"overrideAllowlist":true`),
			status: http.StatusForbidden,
			code:   model.CodePolicyDenied,
		},
		{
			name:   "confirm in body ignored",
			req:    payRequest(to, "150", `,"overrideAllowlist":true,"confirm":true`),
			status: http.StatusPreconditionRequired,
			code:   model.CodeConfirmationRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.handler.Pay(rec, tt.req)
			require.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			require.Equal(t, tt.code, resp.Code)
			require.NotContains(t, resp.Error, testPassword)
		})
	}
	f.chain.AssertNotCalled(t, "SendTokens")
}

func TestPayAllowOverride(t *testing.T) {
	f := newFixture(t)
	address := f.importWallet(t)
	to := testAddress(t, 3)
	f.handler.deps.AllowOverride = true

	_, err := allowlist.Init(f.allowlist, allowlist.ModeEnforce, false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.handler.Pay(rec, payRequest(to, "150", ""))
	require.Equal(t, http.StatusPreconditionRequired, rec.Code)

	f.chain.On("SendTokens", mock.Anything, mock.Anything, address, to, mock.Anything, "").
		Return(&model.BroadcastResult{TransactionHash: "HASH2", Height: 11}, nil).Once()

	rec = httptest.NewRecorder()
	f.handler.Pay(rec, payRequest(to, "150", `,"overrideAllowlist":true,"confirm":true`))
	require.Equal(t, http.StatusOK, rec.Code)
	f.chain.AssertExpectations(t)
}

func TestReceive(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Receive(rec, httptest.NewRequest(http.MethodGet, "/neutaro/receive", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, model.CodeKeystoreNotFound, decodeError(t, rec).Code)

	address := f.importWallet(t)
	rec = httptest.NewRecorder()
	f.handler.Receive(rec, httptest.NewRequest(http.MethodGet, "/neutaro/receive?amount=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.ReceiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, address, resp.Address)
	require.Equal(t, "neutaro:"+address+"?amount=5", resp.URI)
}

func TestTransactionHistoryBadQuery(t *testing.T) {
	f := newFixture(t)

	for _, query := range []string{"from=01-02-2026", "limit=ten", "status=lost", "minAmount=5&maxAmount=1"} {
		t.Run(query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.handler.TransactionHistory(rec, httptest.NewRequest(http.MethodGet, "/neutaro/transactions?"+query, nil))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, model.CodeInvalidRequest, decodeError(t, rec).Code)
		})
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{err: fmt.Errorf("send: %w", crypto.ErrDecryptionFailed), status: http.StatusUnauthorized, code: model.CodeDecryptionFailed},
		{err: crypto.ErrCorruptKeystore, status: http.StatusInternalServerError, code: model.CodeCorruptKeystore},
		{err: crypto.ErrUnsupportedVersion, status: http.StatusInternalServerError, code: model.CodeUnsupportedVersion},
		{err: &neutaro.CooldownError{}, status: http.StatusTooManyRequests, code: model.CodeCooldown},
		{err: neutaro.ErrLimitExceeded, status: http.StatusUnprocessableEntity, code: model.CodeLimitExceeded},
		{err: neutaro.ErrTxRejected, status: http.StatusBadGateway, code: model.CodeTxRejected},
		{err: validate.ErrWeakPassword, status: http.StatusBadRequest, code: model.CodeWeakPassword},
		{err: errors.New("boom"), status: http.StatusInternalServerError, code: model.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := errorStatus(tt.err)
			require.Equal(t, tt.status, status)
			require.Equal(t, tt.code, code)
		})
	}
}
