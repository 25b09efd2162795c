package crypto

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"

	"golang.org/x/crypto/scrypt"
)

// Unlock reads the keystore at path and decrypts its seed phrase.
// password must be []byte for security (caller should zero it after use)
// The caller must Wipe the returned wallet.
func Unlock(password []byte, path string) (*model.DecryptedWallet, error) {
	abs, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeystoreIO, err)
	}

	record, err := readRecord(abs)
	if err != nil {
		return nil, err
	}

	seed, err := open(record, password)
	if err != nil {
		return nil, err
	}
	debug.FreeOSMemory()

	return &model.DecryptedWallet{Mnemonic: seed, Address: record.Address}, nil
}

// Rekey re-encrypts the keystore at path under newPassword with a fresh salt,
// nonce and the current scrypt parameters.
func Rekey(oldPassword, newPassword []byte, path string, opts ...Option) error {
	wallet, err := Unlock(oldPassword, path)
	if err != nil {
		return err
	}
	defer wallet.Wipe()

	opts = append(opts, WithOverwrite())
	if _, err := Create(wallet.Mnemonic, wallet.Address, newPassword, path, opts...); err != nil {
		return err
	}
	return nil
}

func readRecord(path string) (*model.KeystoreRecord, error) {
	fileData, err := common.ReadFileNoBOM(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrKeystoreNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrKeystoreIO, err)
	}
	if len(fileData) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrCorruptKeystore)
	}

	var record model.KeystoreRecord
	if err := json.Unmarshal(fileData, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptKeystore, err)
	}

	if record.Version != KeystoreVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, record.Version)
	}
	if record.Address == "" || record.Salt == "" || record.IV == "" || record.Ciphertext() == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrCorruptKeystore)
	}
	return &record, nil
}

// open decrypts the seed of a record that passed readRecord.
func open(record *model.KeystoreRecord, password []byte) ([]byte, error) {
	kdf := kdfParamsOf(record)
	if err := checkKDFParams(kdf); err != nil {
		return nil, err
	}

	salt, err := hex.DecodeString(record.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode salt", ErrCorruptKeystore)
	}
	nonce, err := hex.DecodeString(record.IV)
	if err != nil || len(nonce) != nonceLen {
		return nil, fmt.Errorf("%w: invalid iv", ErrCorruptKeystore)
	}

	ctHex, tagHex, ok := strings.Cut(record.Ciphertext(), ":")
	if !ok {
		return nil, fmt.Errorf("%w: encrypted seed is missing its auth tag", ErrCorruptKeystore)
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode ciphertext", ErrCorruptKeystore)
	}
	tag, err := hex.DecodeString(tagHex)
	if err != nil || len(tag) != tagLen {
		return nil, fmt.Errorf("%w: invalid auth tag", ErrCorruptKeystore)
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

	plaintext, err := aesGCM.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func kdfParamsOf(record *model.KeystoreRecord) model.KDFParams {
	if record.KDF == nil {
		return model.KDFParams{Name: kdfName, N: legacyScryptN, R: scryptR, P: scryptP, DKLen: scryptKeyLen}
	}
	return *record.KDF
}

func checkKDFParams(kdf model.KDFParams) error {
	if kdf.Name != "" && kdf.Name != kdfName {
		return fmt.Errorf("%w: unsupported kdf %q", ErrCorruptKeystore, kdf.Name)
	}
	if kdf.N < minScryptN || kdf.N > maxScryptN || kdf.N&(kdf.N-1) != 0 {
		return fmt.Errorf("%w: scrypt N out of range", ErrCorruptKeystore)
	}
	if kdf.R < 1 || kdf.R > maxScryptR {
		return fmt.Errorf("%w: scrypt r out of range", ErrCorruptKeystore)
	}
	if kdf.P < 1 || kdf.P > maxScryptP {
		return fmt.Errorf("%w: scrypt p out of range", ErrCorruptKeystore)
	}
	if kdf.DKLen != scryptKeyLen {
		return fmt.Errorf("%w: derived key length must be %d", ErrCorruptKeystore, scryptKeyLen)
	}
	return nil
}
