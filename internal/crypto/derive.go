package crypto

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/AlexZinkM/neutaro-wallet/internal/validate"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/cosmos/go-bip39"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // cosmos addresses are defined over RIPEMD-160
)

const (
	// HDPath is the only account this wallet derives.
	HDPath = "m/44'/118'/0'/0/0"

	mnemonicEntropyBits = 256 // 24 words
)

var hdPath = []uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 118,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

// Account is the signing key derived from a seed phrase.
type Account struct {
	Address string
	PrivKey *btcec.PrivateKey
	PubKey  *btcec.PublicKey
}

// Wipe zeroes the private key.
func (a *Account) Wipe() {
	if a == nil || a.PrivKey == nil {
		return
	}
	a.PrivKey.Zero()
	a.PrivKey = nil
}

// PubKeyBytes returns the 33-byte compressed public key.
func (a *Account) PubKeyBytes() []byte {
	return a.PubKey.SerializeCompressed()
}

// Sign returns the 64-byte r||s secp256k1 signature over sha256(msg),
// the form Cosmos SDK transactions carry.
func (a *Account) Sign(msg []byte) ([]byte, error) {
	if a.PrivKey == nil {
		return nil, fmt.Errorf("account key has been wiped")
	}
	hash := sha256.Sum256(msg)
	sig := ecdsa.SignCompact(a.PrivKey, hash[:], true)
	// drop the recovery byte
	return sig[1:], nil
}

// GenerateMnemonic returns a new 24-word seed phrase.
func GenerateMnemonic() ([]byte, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return []byte(mnemonic), nil
}

// DeriveAccount derives the account at HDPath from a BIP39 seed phrase and
// encodes its address with prefix. The phrase checksum must verify.
// The BIP39 library works on strings, so a copy of the phrase stays in memory
// until it is garbage collected.
func DeriveAccount(seedPhrase []byte, prefix string) (*Account, error) {
	if err := validate.SeedPhrase(seedPhrase); err != nil {
		return nil, err
	}
	mnemonic := strings.Join(strings.Fields(string(seedPhrase)), " ")

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		// the library error can quote a word of the phrase
		return nil, &validate.Error{Kind: validate.ErrInvalidSeedPhrase, Reason: "seed phrase is not a valid BIP39 mnemonic"}
	}
	defer clear(seed)

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	for _, index := range hdPath {
		child, err := key.Derive(index)
		key.Zero()
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s: %w", HDPath, err)
		}
		key = child
	}
	defer key.Zero()

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get private key: %w", err)
	}
	pubKey := privKey.PubKey()

	address, err := PubKeyAddress(pubKey.SerializeCompressed(), prefix)
	if err != nil {
		privKey.Zero()
		return nil, err
	}

	return &Account{Address: address, PrivKey: privKey, PubKey: pubKey}, nil
}

// PubKeyAddress encodes bech32(prefix, ripemd160(sha256(pubKey))).
func PubKeyAddress(pubKey []byte, prefix string) (string, error) {
	sha := sha256.Sum256(pubKey)
	hasher := ripemd160.New()
	hasher.Write(sha[:])

	conv, err := bech32.ConvertBits(hasher.Sum(nil), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert address bits: %w", err)
	}
	address, err := bech32.Encode(prefix, conv)
	if err != nil {
		return "", fmt.Errorf("failed to encode address: %w", err)
	}
	return address, nil
}
