package neutaro

import (
	"encoding/base64"
	"fmt"

	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"

	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

// GenerateWallet creates a new 24-word wallet and saves it to keystorePath.
// The seed phrase is returned once so the user can back it up; caller must
// zero it after use. password must be []byte for security (caller should zero it after use)
func GenerateWallet(keystorePath string, password []byte, opts ...crypto.Option) (address string, mnemonic []byte, err error) {
	// fail before any key material exists
	if err := validate.Password(password); err != nil {
		return "", nil, fmt.Errorf("generate: %w", err)
	}

	mnemonic, err = crypto.GenerateMnemonic()
	if err != nil {
		return "", nil, fmt.Errorf("generate: %w", err)
	}

	address, path, err := saveWallet(keystorePath, mnemonic, password, opts)
	if err != nil {
		clear(mnemonic)
		return "", nil, fmt.Errorf("generate: %w", err)
	}

	log.WithFields(log.Fields{"address": address, "keystore": path}).Info("wallet created")
	return address, mnemonic, nil
}

// ImportWallet saves an existing seed phrase to keystorePath.
// mnemonic and password must be []byte for security (caller should zero them after use)
func ImportWallet(keystorePath string, mnemonic, password []byte, opts ...crypto.Option) (string, error) {
	if err := validate.Password(password); err != nil {
		return "", fmt.Errorf("import: %w", err)
	}

	address, path, err := saveWallet(keystorePath, mnemonic, password, opts)
	if err != nil {
		return "", fmt.Errorf("import: %w", err)
	}

	log.WithFields(log.Fields{"address": address, "keystore": path}).Info("wallet imported")
	return address, nil
}

func saveWallet(keystorePath string, mnemonic, password []byte, opts []crypto.Option) (string, string, error) {
	account, err := crypto.DeriveAccount(mnemonic, validate.Bech32Prefix)
	if err != nil {
		return "", "", err
	}
	defer account.Wipe()

	path, err := crypto.Create(mnemonic, account.Address, password, keystorePath, opts...)
	if err != nil {
		return "", "", err
	}
	return account.Address, path, nil
}

// generateQRCode generates QR code of content in base64
func generateQRCode(content string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	// Encode to base64
	return base64.StdEncoding.EncodeToString(png), nil
}
