package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"

	"golang.org/x/crypto/scrypt"
)

// Create encrypts seed under password and writes a new keystore to path
// (DefaultKeystorePath when empty). It returns the absolute path written.
// password and seed must be []byte for security (caller should zero them after use)
func Create(seed []byte, address string, password []byte, path string, opts ...Option) (string, error) {
	if err := validate.Password(password); err != nil {
		return "", err
	}
	if err := validate.SeedPhrase(seed); err != nil {
		return "", err
	}
	if err := validate.Address(address); err != nil {
		return "", err
	}

	o := newOptions(opts)
	if err := checkKDFParams(o.kdf); err != nil {
		return "", fmt.Errorf("invalid scrypt parameters: %w", err)
	}

	abs, err := resolvePath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeystoreIO, err)
	}
	if !o.overwrite && Exists(abs) {
		return "", fmt.Errorf("%w: %s", ErrKeystoreExists, abs)
	}

	record, err := seal(seed, address, password, o.kdf)
	if err != nil {
		return "", err
	}

	fileData, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal keystore: %w", err)
	}

	if err := common.WriteFileAtomic(abs, fileData, o.overwrite); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrKeystoreExists, abs)
		}
		return "", fmt.Errorf("%w: %v", ErrKeystoreIO, err)
	}

	return abs, nil
}

// seal encrypts seed with a fresh salt and nonce.
func seal(seed []byte, address string, password []byte, kdf model.KDFParams) (*model.KeystoreRecord, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := scrypt.Key(password, salt, kdf.N, kdf.R, kdf.P, kdf.DKLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key) // wipe derived key from memory

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := aesGCM.Seal(nil, nonce, seed, nil)
	ciphertext, tag := sealed[:len(sealed)-tagLen], sealed[len(sealed)-tagLen:]

	kdf.Name = kdfName
	return &model.KeystoreRecord{
		Version:       KeystoreVersion,
		Address:       address,
		EncryptedSeed: hex.EncodeToString(ciphertext) + ":" + hex.EncodeToString(tag),
		Salt:          hex.EncodeToString(salt),
		IV:            hex.EncodeToString(nonce),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		KDF:           &kdf,
	}, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCMWithNonceSize(block, nonceLen)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
