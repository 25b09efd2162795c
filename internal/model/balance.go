package model

// Coin is an on-chain amount in a given denomination (amount in base units).
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// BalanceResponse represents response for GET /neutaro/balance
type BalanceResponse struct {
	Address       string `json:"address"`
	Amount        string `json:"amount"`        // uneutaro
	DisplayAmount string `json:"displayAmount"` // NTMPI, 6 decimals
	DisplayDenom  string `json:"displayDenom"`
	Other         []Coin `json:"other,omitempty"`

	// Set when a price currency is configured and the price lookup succeeded.
	Price         string `json:"price,omitempty"`
	PriceCurrency string `json:"priceCurrency,omitempty"`
	FiatValue     string `json:"fiatValue,omitempty"`
}

// ChainStatus represents the chain connection status
type ChainStatus struct {
	ChainID   string `json:"chainId"`
	Height    int64  `json:"height"`
	Connected bool   `json:"connected"`
	Endpoint  string `json:"endpoint"`
}

// ReceiveResponse represents response for GET /neutaro/receive
type ReceiveResponse struct {
	Address string `json:"address"`
	URI     string `json:"uri"`
	QR      string `json:"qr"` // base64 PNG
}
