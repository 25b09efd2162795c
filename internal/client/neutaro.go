package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultRESTURL   = "https://api2.neutaro.io"
	DefaultChainID   = "Neutaro-1"
	DefaultGasLimit  = 200000
	DefaultGasPrice  = "0.025" // uneutaro per unit of gas
	DefaultTimeout   = 30 * time.Second
	DefaultTxTimeout = 60 * time.Second // cosmjs broadcast timeout

	broadcastModeSync = "BROADCAST_MODE_SYNC"
	txPollInterval    = 2 * time.Second
)

var (
	ErrNoTxEncoder     = errors.New("no transaction encoder configured")
	ErrAccountNotFound = errors.New("account not found on chain")
	ErrTxNotFound      = errors.New("transaction not found")
	ErrTxNotIncluded   = errors.New("transaction not included")
)

// PendingTxError is returned by SendTokens when the node accepted the
// transaction but its inclusion could not be confirmed. It may still land.
type PendingTxError struct {
	TxHash string
	Err    error
}

func (e *PendingTxError) Error() string {
	return fmt.Sprintf("transaction %s pending: %v", e.TxHash, e.Err)
}

func (e *PendingTxError) Unwrap() error {
	return e.Err
}

// Signer is the key that authorises a transfer.
type Signer interface {
	Sign(msg []byte) ([]byte, error)
	PubKeyBytes() []byte
}

// SendTx is everything needed to encode a bank send.
type SendTx struct {
	ChainID       string
	AccountNumber uint64
	Sequence      uint64
	FromAddress   string
	ToAddress     string
	Amount        model.Coin
	Memo          string
	GasLimit      uint64
	Fee           model.Coin
}

// TxEncoder builds and signs the protobuf transaction bytes for a send.
// The wire encoding lives outside this module.
type TxEncoder interface {
	EncodeSend(ctx context.Context, tx SendTx, signer Signer) ([]byte, error)
}

// Config configures a NeutaroClient. Zero values fall back to the defaults above.
type Config struct {
	RESTURL  string
	ChainID  string
	Denom    string
	GasPrice string
	GasLimit uint64
	Timeout  time.Duration
	// WaitForInclusion polls for the transaction after a successful sync
	// broadcast so the result carries its height and gas used.
	WaitForInclusion bool
	// TxTimeout bounds the inclusion wait.
	TxTimeout time.Duration
}

// NeutaroClient talks to a Neutaro node over the Cosmos REST (LCD) API.
type NeutaroClient struct {
	baseURL   string
	chainID   string
	denom     string
	gasPrice  *big.Rat
	gasLimit  uint64
	wait      bool
	txTimeout time.Duration
	client    *http.Client
	encoder   TxEncoder
}

// NewNeutaroClient creates a client. encoder may be nil for read-only use.
func NewNeutaroClient(cfg Config, encoder TxEncoder) (*NeutaroClient, error) {
	if cfg.RESTURL == "" {
		cfg.RESTURL = DefaultRESTURL
	}
	if _, err := url.ParseRequestURI(cfg.RESTURL); err != nil {
		return nil, fmt.Errorf("invalid REST URL: %w", err)
	}
	if cfg.ChainID == "" {
		cfg.ChainID = DefaultChainID
	}
	if cfg.Denom == "" {
		cfg.Denom = common.Denom
	}
	if cfg.GasPrice == "" {
		cfg.GasPrice = DefaultGasPrice
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultGasLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = DefaultTxTimeout
	}

	gasPrice, ok := new(big.Rat).SetString(cfg.GasPrice)
	if !ok || gasPrice.Sign() < 0 {
		return nil, fmt.Errorf("invalid gas price %q", cfg.GasPrice)
	}

	return &NeutaroClient{
		baseURL:   strings.TrimRight(cfg.RESTURL, "/"),
		chainID:   cfg.ChainID,
		denom:     cfg.Denom,
		gasPrice:  gasPrice,
		gasLimit:  cfg.GasLimit,
		wait:      cfg.WaitForInclusion,
		txTimeout: cfg.TxTimeout,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		encoder: encoder,
	}, nil
}

// Endpoint returns the REST base URL.
func (c *NeutaroClient) Endpoint() string {
	return c.baseURL
}

// ChainID returns the configured chain id.
func (c *NeutaroClient) ChainID() string {
	return c.chainID
}

type balancesResponse struct {
	Balances []model.Coin `json:"balances"`
}

// GetBalances returns every coin held by address, amounts in base units.
func (c *NeutaroClient) GetBalances(ctx context.Context, address string) ([]model.Coin, error) {
	var resp balancesResponse
	if err := c.get(ctx, "/cosmos/bank/v1beta1/balances/"+url.PathEscape(address), &resp); err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	return resp.Balances, nil
}

// GetBalance returns the balance of the configured denom in base units.
func (c *NeutaroClient) GetBalance(ctx context.Context, address string) (*big.Int, []model.Coin, error) {
	coins, err := c.GetBalances(ctx, address)
	if err != nil {
		return nil, nil, err
	}

	amount := new(big.Int)
	others := make([]model.Coin, 0, len(coins))
	for _, coin := range coins {
		if coin.Denom != c.denom {
			others = append(others, coin)
			continue
		}
		n, err := common.ParseBaseUnits(coin.Amount)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s balance: %w", c.denom, err)
		}
		amount = n
	}
	return amount, others, nil
}

type latestBlockResponse struct {
	Block struct {
		Header struct {
			ChainID string `json:"chain_id"`
			Height  string `json:"height"`
		} `json:"header"`
	} `json:"block"`
}

// GetStatus reports the chain id and latest height seen by the node.
// An unreachable node is not an error: Connected is false instead.
func (c *NeutaroClient) GetStatus(ctx context.Context) *model.ChainStatus {
	status := &model.ChainStatus{ChainID: c.chainID, Endpoint: c.baseURL}

	var resp latestBlockResponse
	if err := c.get(ctx, "/cosmos/base/tendermint/v1beta1/blocks/latest", &resp); err != nil {
		log.WithError(err).Debug("chain status unavailable")
		return status
	}
	height, err := strconv.ParseInt(resp.Block.Header.Height, 10, 64)
	if err != nil {
		log.WithError(err).Debug("invalid block height")
		return status
	}

	status.Connected = true
	status.Height = height
	if resp.Block.Header.ChainID != "" {
		status.ChainID = resp.Block.Header.ChainID
	}
	return status
}

// AccountInfo is the signing state of an on-chain account.
type AccountInfo struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
}

type accountResponse struct {
	Account struct {
		Address       string `json:"address"`
		AccountNumber string `json:"account_number"`
		Sequence      string `json:"sequence"`
		// vesting accounts nest the base account
		BaseAccount *struct {
			Address       string `json:"address"`
			AccountNumber string `json:"account_number"`
			Sequence      string `json:"sequence"`
		} `json:"base_account,omitempty"`
	} `json:"account"`
}

// GetAccount returns the account number and sequence of address.
func (c *NeutaroClient) GetAccount(ctx context.Context, address string) (*AccountInfo, error) {
	var resp accountResponse
	if err := c.get(ctx, "/cosmos/auth/v1beta1/accounts/"+url.PathEscape(address), &resp); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	acc := resp.Account
	number, sequence := acc.AccountNumber, acc.Sequence
	if acc.BaseAccount != nil {
		number, sequence = acc.BaseAccount.AccountNumber, acc.BaseAccount.Sequence
	}

	info := &AccountInfo{Address: address}
	var err error
	if info.AccountNumber, err = parseUint(number); err != nil {
		return nil, fmt.Errorf("invalid account number: %w", err)
	}
	if info.Sequence, err = parseUint(sequence); err != nil {
		return nil, fmt.Errorf("invalid sequence: %w", err)
	}
	return info, nil
}

// Fee returns gasLimit * gasPrice rounded up, in the configured denom.
func (c *NeutaroClient) Fee() model.Coin {
	fee := new(big.Rat).Mul(c.gasPrice, new(big.Rat).SetInt64(int64(c.gasLimit)))
	amount := new(big.Int).Quo(fee.Num(), fee.Denom())
	if new(big.Int).Mul(amount, fee.Denom()).Cmp(fee.Num()) != 0 {
		amount.Add(amount, big.NewInt(1))
	}
	return model.Coin{Denom: c.denom, Amount: amount.String()}
}

// SendTokens encodes a bank send from fromAddress, broadcasts it and returns
// the chain's verdict. A non-zero StatusCode is returned as a result, not an error.
// If the inclusion wait fails after an accepted broadcast the error is a
// *PendingTxError carrying the hash.
func (c *NeutaroClient) SendTokens(ctx context.Context, signer Signer, fromAddress, toAddress string, amount *big.Int, memo string) (*model.BroadcastResult, error) {
	if c.encoder == nil {
		return nil, ErrNoTxEncoder
	}

	account, err := c.GetAccount(ctx, fromAddress)
	if err != nil {
		return nil, err
	}

	txBytes, err := c.encoder.EncodeSend(ctx, SendTx{
		ChainID:       c.chainID,
		AccountNumber: account.AccountNumber,
		Sequence:      account.Sequence,
		FromAddress:   fromAddress,
		ToAddress:     toAddress,
		Amount:        model.Coin{Denom: c.denom, Amount: amount.String()},
		Memo:          memo,
		GasLimit:      c.gasLimit,
		Fee:           c.Fee(),
	}, signer)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	result, err := c.Broadcast(ctx, txBytes)
	if err != nil {
		return nil, err
	}
	if result.StatusCode != 0 || !c.wait {
		return result, nil
	}

	included, err := c.WaitForTx(ctx, result.TransactionHash)
	if err != nil {
		return nil, &PendingTxError{TxHash: result.TransactionHash, Err: err}
	}
	return included, nil
}

type broadcastRequest struct {
	TxBytes string `json:"tx_bytes"`
	Mode    string `json:"mode"`
}

type txResponse struct {
	TxResponse struct {
		Height  string `json:"height"`
		TxHash  string `json:"txhash"`
		Code    uint32 `json:"code"`
		RawLog  string `json:"raw_log"`
		GasUsed string `json:"gas_used"`
	} `json:"tx_response"`
}

func (r *txResponse) result() *model.BroadcastResult {
	height, _ := strconv.ParseInt(r.TxResponse.Height, 10, 64)
	gasUsed, _ := strconv.ParseInt(r.TxResponse.GasUsed, 10, 64)
	return &model.BroadcastResult{
		StatusCode:      r.TxResponse.Code,
		TransactionHash: r.TxResponse.TxHash,
		Height:          height,
		GasUsed:         gasUsed,
		RawLog:          r.TxResponse.RawLog,
	}
}

// Broadcast submits signed transaction bytes in sync mode.
func (c *NeutaroClient) Broadcast(ctx context.Context, txBytes []byte) (*model.BroadcastResult, error) {
	body, err := json.Marshal(broadcastRequest{
		TxBytes: base64.StdEncoding.EncodeToString(txBytes),
		Mode:    broadcastModeSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal broadcast request: %w", err)
	}

	var resp txResponse
	if err := c.do(ctx, http.MethodPost, "/cosmos/tx/v1beta1/txs", bytes.NewReader(body), &resp); err != nil {
		return nil, fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	result := resp.result()
	log.WithFields(log.Fields{
		"txhash": result.TransactionHash,
		"code":   result.StatusCode,
	}).Info("transaction broadcast")
	return result, nil
}

// GetTx looks up a transaction by hash.
func (c *NeutaroClient) GetTx(ctx context.Context, hash string) (*model.BroadcastResult, error) {
	var resp txResponse
	if err := c.get(ctx, "/cosmos/tx/v1beta1/txs/"+url.PathEscape(hash), &resp); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrTxNotFound, hash)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return resp.result(), nil
}

// WaitForTx polls until the transaction is included, the client's TxTimeout
// passes or ctx is done.
func (c *NeutaroClient) WaitForTx(ctx context.Context, hash string) (*model.BroadcastResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()

	ticker := time.NewTicker(txPollInterval)
	defer ticker.Stop()

	for {
		result, err := c.GetTx(ctx, hash)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTxNotIncluded, hash, ctx.Err())
		}
		if !errors.Is(err, ErrTxNotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ErrTxNotIncluded, hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

// HTTPError is a non-2xx response from the node.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

func (c *NeutaroClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *NeutaroClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseUint(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
