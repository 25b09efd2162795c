package neutaro

import (
	"fmt"
	"net/url"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"

	"github.com/skip2/go-qrcode"
)

const uriScheme = "neutaro"

// ReceiveURI builds a neutaro:<address> payment URI. amount (NTMPI) and memo
// are added as query parameters when set.
func ReceiveURI(address, amount, memo string) string {
	uri := uriScheme + ":" + address
	q := url.Values{}
	if amount != "" {
		q.Set("amount", amount)
	}
	if memo != "" {
		q.Set("memo", memo)
	}
	if len(q) > 0 {
		uri += "?" + q.Encode()
	}
	return uri
}

// Receive returns the wallet address with a payment URI and its QR code.
func Receive(keystorePath, amount, memo string) (*model.ReceiveResponse, error) {
	address, ok := crypto.PeekAddress(keystorePath)
	if !ok {
		return nil, fmt.Errorf("receive: %w", crypto.ErrKeystoreNotFound)
	}
	if amount != "" {
		if err := validate.Amount(amount, common.UnitDisplay); err != nil {
			return nil, fmt.Errorf("receive: %w", err)
		}
	}
	if err := validate.Memo(memo); err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}

	uri := ReceiveURI(address, amount, memo)
	qr, err := generateQRCode(uri)
	if err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}

	return &model.ReceiveResponse{Address: address, URI: uri, QR: qr}, nil
}

// TerminalQR renders content as a QR code made of block characters.
func TerminalQR(content string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	return qr.ToSmallString(false), nil
}
