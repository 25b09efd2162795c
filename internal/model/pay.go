package model

// PayRequest represents request for POST /neutaro/pay
type PayRequest struct {
	ToAddress         string `json:"toAddress" binding:"required"`
	Amount            string `json:"amount" binding:"required"` // NTMPI unless BaseUnits is set
	BaseUnits         bool   `json:"baseUnits,omitempty"`
	Memo              string `json:"memo,omitempty"`
	OverrideAllowlist bool   `json:"overrideAllowlist,omitempty"`
	Confirm           bool   `json:"confirm,omitempty"`
}

// PayResponse represents response for POST /neutaro/pay
type PayResponse struct {
	TxHash  string `json:"txHash"`
	Height  int64  `json:"height"`
	GasUsed int64  `json:"gasUsed"`
	Amount  string `json:"amount"` // NTMPI, 6 decimals
}

// BroadcastResult is what the chain client reports for a broadcast transaction.
// A non-zero StatusCode means the chain rejected it.
type BroadcastResult struct {
	StatusCode      uint32 `json:"statusCode"`
	TransactionHash string `json:"transactionHash"`
	Height          int64  `json:"height"`
	GasUsed         int64  `json:"gasUsed"`
	RawLog          string `json:"rawLog,omitempty"`
}
