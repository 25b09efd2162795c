// Package crypto implements the encrypted keystore and account derivation.
//
// A keystore holds one seed phrase sealed with AES-256-GCM under a key
// derived from the user's password with scrypt. Every failure to open the
// sealed seed is reported as ErrDecryptionFailed, so a wrong password and a
// tampered file cannot be told apart.
package crypto

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
)

const (
	KeystoreVersion  = 1
	KeystoreFileName = "keystore.enc"

	kdfName = "scrypt"

	// scrypt parameters for new keystores
	// N=2^18 (~256MB RAM, 0.5-2s). N=2^20 is stronger but fails on devices
	// with a low per-process memory limit.
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32

	// parameters assumed for records written without a kdf block
	legacyScryptN = 1 << 14

	saltLen  = 32
	nonceLen = 16
	tagLen   = 16
)

// bounds accepted for parameters read back from disk
const (
	minScryptN = 1 << 10
	maxScryptN = 1 << 20
	maxScryptR = 32
	maxScryptP = 16
)

var (
	ErrKeystoreIO         = errors.New("keystore I/O error")
	ErrCorruptKeystore    = errors.New("corrupt keystore")
	ErrUnsupportedVersion = errors.New("unsupported keystore version")
	ErrDecryptionFailed   = errors.New("decryption failed: wrong password or damaged keystore")
	ErrKeystoreNotFound   = errors.New("keystore not found")
	ErrKeystoreExists     = errors.New("keystore already exists")
)

type options struct {
	kdf       model.KDFParams
	overwrite bool
}

// Option configures Create and Rekey.
type Option func(*options)

// WithScryptParams sets the scrypt cost for the record being written.
func WithScryptParams(n, r, p int) Option {
	return func(o *options) {
		o.kdf.N = n
		o.kdf.R = r
		o.kdf.P = p
	}
}

// WithOverwrite allows Create to replace an existing keystore.
func WithOverwrite() Option {
	return func(o *options) {
		o.overwrite = true
	}
}

func newOptions(opts []Option) *options {
	o := &options{kdf: DefaultKDFParams()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DefaultKDFParams returns the scrypt parameters used for new keystores.
func DefaultKDFParams() model.KDFParams {
	return model.KDFParams{Name: kdfName, N: scryptN, R: scryptR, P: scryptP, DKLen: scryptKeyLen}
}

// DefaultKeystorePath returns ~/.neutaro-wallet/keystore.enc.
func DefaultKeystorePath() string {
	return filepath.Join(common.DataDir(), KeystoreFileName)
}

func resolvePath(path string) (string, error) {
	if path == "" {
		path = DefaultKeystorePath()
	}
	return filepath.Abs(path)
}

// Exists reports whether a keystore file is present at path.
func Exists(path string) bool {
	abs, err := resolvePath(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// PeekAddress returns the address stored in the keystore without decrypting
// it. ok is false when the file is missing or not parseable. The version and
// the sealed fields are not checked.
func PeekAddress(path string) (address string, ok bool) {
	abs, err := resolvePath(path)
	if err != nil {
		return "", false
	}
	data, err := common.ReadFileNoBOM(abs)
	if err != nil {
		return "", false
	}
	var peek struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &peek); err != nil || peek.Address == "" {
		return "", false
	}
	return peek.Address, true
}
