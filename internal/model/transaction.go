package model

import (
	"fmt"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
)

// ReceiptType receipt type
type ReceiptType string

const (
	ReceiptTypeSend    ReceiptType = "send"
	ReceiptTypeReceive ReceiptType = "receive"
)

// ReceiptStatus receipt status
type ReceiptStatus string

const (
	ReceiptStatusConfirmed ReceiptStatus = "confirmed"
	ReceiptStatusPending   ReceiptStatus = "pending"
	ReceiptStatusFailed    ReceiptStatus = "failed"
)

// Receipt is the audit record of a broadcast transaction
type Receipt struct {
	ID            string        `json:"id"`
	Type          ReceiptType   `json:"type"`
	TxHash        string        `json:"txHash"`
	FromAddress   string        `json:"fromAddress"`
	ToAddress     string        `json:"toAddress"`
	Amount        string        `json:"amount"`        // uneutaro
	DisplayAmount string        `json:"displayAmount"` // NTMPI
	Denom         string        `json:"denom"`
	Memo          string        `json:"memo,omitempty"`
	Height        int64         `json:"height"`
	GasUsed       int64         `json:"gasUsed"`
	Timestamp     time.Time     `json:"timestamp"`
	Status        ReceiptStatus `json:"status"`
	StatusCode    uint32        `json:"statusCode,omitempty"`
}

// LogResponse represents response for GET /neutaro/transactions
type LogResponse struct {
	Address    string    `json:"address"`
	TotalSpent string    `json:"total_spent"` // NTMPI, confirmed sends only
	Receipts   []Receipt `json:"receipts"`
}

// LogRequest represents request parameters for GET /neutaro/transactions
type LogRequest struct {
	Type      *ReceiptType   `form:"type"`
	TxHash    *string        `form:"txHash"`
	Status    *ReceiptStatus `form:"status"`
	From      *time.Time     `form:"from"`
	To        *time.Time     `form:"to"`
	MinAmount *string        `form:"minAmount"` // NTMPI
	MaxAmount *string        `form:"maxAmount"` // NTMPI
	Limit     int            `form:"limit"`
}

// Validate validates LogRequest filter parameters.
func (r *LogRequest) Validate() error {
	if r.Type != nil && *r.Type != ReceiptTypeSend && *r.Type != ReceiptTypeReceive {
		return fmt.Errorf("type must be send or receive")
	}
	if r.Status != nil && *r.Status != ReceiptStatusConfirmed && *r.Status != ReceiptStatusPending && *r.Status != ReceiptStatusFailed {
		return fmt.Errorf("status must be confirmed, pending or failed")
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	if r.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if r.MinAmount != nil {
		if _, err := common.ParseDisplayAmount(*r.MinAmount); err != nil {
			return fmt.Errorf("invalid minAmount: %w", err)
		}
	}
	if r.MaxAmount != nil {
		if _, err := common.ParseDisplayAmount(*r.MaxAmount); err != nil {
			return fmt.Errorf("invalid maxAmount: %w", err)
		}
	}
	if r.MinAmount != nil && r.MaxAmount != nil {
		cmp, err := common.CompareAmounts(*r.MinAmount, *r.MaxAmount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if cmp == 1 {
			return fmt.Errorf("minAmount must be less than or equal to maxAmount")
		}
	}
	return nil
}
