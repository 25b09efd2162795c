package neutaro

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/allowlist"
	"github.com/AlexZinkM/neutaro-wallet/internal/client"
	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"

	log "github.com/sirupsen/logrus"
)

var (
	ErrLimitExceeded        = errors.New("amount exceeds the maximum send amount")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrAddressMismatch      = errors.New("seed phrase does not match keystore address")
	ErrTxRejected           = errors.New("transaction rejected by chain")
	ErrTxPending            = errors.New("transaction broadcast but not confirmed")
)

// CooldownError is returned while the pay cooldown is active.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, please wait %v", e.Remaining.Round(time.Second))
}

// IsCooldownError reports whether err is a CooldownError.
func IsCooldownError(err error) bool {
	var cErr *CooldownError
	return errors.As(err, &cErr)
}

// PolicyDeniedError is an allowlist denial. The caller may retry with
// OverrideAllowlist set.
type PolicyDeniedError struct {
	Destination string
	Reason      string
}

func (e *PolicyDeniedError) Error() string {
	return "allowlist denied transfer: " + e.Reason
}

// IsPolicyDeniedError reports whether err is a PolicyDeniedError.
func IsPolicyDeniedError(err error) bool {
	var pErr *PolicyDeniedError
	return errors.As(err, &pErr)
}

// Broadcaster signs and broadcasts a bank send.
type Broadcaster interface {
	SendTokens(ctx context.Context, signer client.Signer, fromAddress, toAddress string, amount *big.Int, memo string) (*model.BroadcastResult, error)
}

// ReceiptRecorder stores the audit record of a broadcast.
type ReceiptRecorder interface {
	Record(r *model.Receipt) error
}

// SenderConfig holds the files and limits a Sender works with.
// A nil limit is not enforced.
type SenderConfig struct {
	KeystorePath  string
	AllowlistPath string
	MaxSendAmount *big.Int // base units
	ConfirmAbove  *big.Int // base units
	Cooldown      time.Duration
}

// Sender runs outbound transfers one at a time.
type Sender struct {
	cfg      SenderConfig
	chain    Broadcaster
	receipts ReceiptRecorder

	mu      sync.Mutex
	lastPay time.Time
	now     func() time.Time
}

// NewSender creates a Sender. receipts may be nil.
func NewSender(cfg SenderConfig, chain Broadcaster, receipts ReceiptRecorder) *Sender {
	return &Sender{
		cfg:      cfg,
		chain:    chain,
		receipts: receipts,
		now:      time.Now,
	}
}

// SendRequest describes one transfer.
type SendRequest struct {
	To     string
	Amount string
	Unit   common.Unit
	Memo   string
	// Password must be []byte for security (caller should zero it after use)
	Password          []byte
	OverrideAllowlist bool
	Confirmed         bool
}

// Send validates, checks limits and the allowlist, unlocks the keystore and
// broadcasts the transfer. The receipt of a confirmed send is returned.
func (s *Sender) Send(ctx context.Context, req SendRequest) (*model.Receipt, error) {
	receipt, err := s.send(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	return receipt, nil
}

func (s *Sender) send(ctx context.Context, req SendRequest) (*model.Receipt, error) {
	req.To = strings.TrimSpace(req.To)
	if err := validate.Address(req.To); err != nil {
		return nil, err
	}
	if err := validate.Amount(req.Amount, req.Unit); err != nil {
		return nil, err
	}
	if req.Memo != "" {
		if err := validate.Memo(req.Memo); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lastPay.IsZero() && s.cfg.Cooldown > 0 {
		if elapsed := s.now().Sub(s.lastPay); elapsed < s.cfg.Cooldown {
			return nil, &CooldownError{Remaining: s.cfg.Cooldown - elapsed}
		}
	}

	amount, err := common.ParseAmount(req.Amount, req.Unit)
	if err != nil {
		return nil, err
	}

	if err := s.checkLimits(amount, req.Confirmed); err != nil {
		return nil, err
	}

	if err := s.checkAllowlist(req.To, amount, req.Memo, req.OverrideAllowlist); err != nil {
		return nil, err
	}

	wallet, err := crypto.Unlock(req.Password, s.cfg.KeystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock keystore: %w", err)
	}
	account, err := crypto.DeriveAccount(wallet.Mnemonic, validate.Bech32Prefix)
	wallet.Wipe()
	if err != nil {
		return nil, fmt.Errorf("failed to derive account: %w", err)
	}
	defer account.Wipe()

	if account.Address != wallet.Address {
		return nil, ErrAddressMismatch
	}
	if account.Address == req.To {
		log.WithField("address", req.To).Warn("sending to own address")
	}

	newReceipt := func(hash string, status model.ReceiptStatus) *model.Receipt {
		return &model.Receipt{
			Type:          model.ReceiptTypeSend,
			TxHash:        hash,
			FromAddress:   account.Address,
			ToAddress:     req.To,
			Amount:        amount.String(),
			DisplayAmount: common.FormatBaseUnits(amount),
			Denom:         common.Denom,
			Memo:          req.Memo,
			Timestamp:     s.now().UTC(),
			Status:        status,
		}
	}

	result, err := s.chain.SendTokens(ctx, account, account.Address, req.To, amount, req.Memo)
	var pendingErr *client.PendingTxError
	if errors.As(err, &pendingErr) {
		// accepted by the node, so it may still land: keep the hash and
		// start the cooldown
		s.lastPay = s.now()
		s.record(newReceipt(pendingErr.TxHash, model.ReceiptStatusPending))
		log.WithError(pendingErr.Err).WithField("txHash", pendingErr.TxHash).Warn("transaction pending")
		return nil, fmt.Errorf("%w: tx %s: %v", ErrTxPending, pendingErr.TxHash, pendingErr.Err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	receipt := newReceipt(result.TransactionHash, model.ReceiptStatusConfirmed)
	receipt.Height = result.Height
	receipt.GasUsed = result.GasUsed
	receipt.StatusCode = result.StatusCode

	if result.StatusCode != 0 {
		receipt.Status = model.ReceiptStatusFailed
		s.record(receipt)
		log.WithFields(log.Fields{
			"txHash": result.TransactionHash,
			"code":   result.StatusCode,
		}).Error("transaction rejected")
		return nil, fmt.Errorf("%w: code %d, tx %s: %s", ErrTxRejected, result.StatusCode, result.TransactionHash, result.RawLog)
	}

	s.lastPay = s.now()
	s.record(receipt)

	log.WithFields(log.Fields{
		"txHash": receipt.TxHash,
		"to":     receipt.ToAddress,
		"amount": common.FormatWithDenom(amount),
		"height": receipt.Height,
	}).Info("transaction sent")

	return receipt, nil
}

func (s *Sender) checkLimits(amount *big.Int, confirmed bool) error {
	if limit := s.cfg.MaxSendAmount; limit != nil && amount.Cmp(limit) > 0 {
		return fmt.Errorf("%w: %s is above %s", ErrLimitExceeded,
			common.FormatWithDenom(amount), common.FormatWithDenom(limit))
	}
	if above := s.cfg.ConfirmAbove; above != nil && amount.Cmp(above) > 0 && !confirmed {
		return fmt.Errorf("%w: %s is above %s", ErrConfirmationRequired,
			common.FormatWithDenom(amount), common.FormatWithDenom(above))
	}
	return nil
}

func (s *Sender) checkAllowlist(to string, amount *big.Int, memo string, override bool) error {
	if override {
		log.WithField("to", to).Warn("allowlist check overridden")
		return nil
	}

	cfg, err := allowlist.Load(s.cfg.AllowlistPath)
	if errors.Is(err, allowlist.ErrNotConfigured) {
		return nil
	}
	if err != nil {
		return err
	}

	verdict := allowlist.Evaluate(cfg, to, amount, memo)
	if !verdict.Allowed {
		return &PolicyDeniedError{Destination: to, Reason: verdict.Reason}
	}
	return nil
}

// record stores r. The transaction is already on chain, so a failed write
// is only logged.
func (s *Sender) record(r *model.Receipt) {
	if s.receipts == nil {
		return
	}
	if err := s.receipts.Record(r); err != nil {
		log.WithError(err).WithField("txHash", r.TxHash).Error("failed to record receipt")
	}
}
