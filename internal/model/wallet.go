package model

// KeystoreRecord represents the keystore file structure
type KeystoreRecord struct {
	Version       int        `json:"version"`
	Address       string     `json:"address"`
	EncryptedSeed string     `json:"encryptedSeed,omitempty"` // "<hex ciphertext>:<hex auth tag>"
	Salt          string     `json:"salt"`                    // hex
	IV            string     `json:"iv"`                      // hex, 16 bytes
	CreatedAt     string     `json:"createdAt"`               // RFC3339
	KDF           *KDFParams `json:"kdf,omitempty"`

	// EncryptedMnemonic is the field name used by older keystores. It is read
	// when EncryptedSeed is empty and never written.
	EncryptedMnemonic string `json:"encryptedMnemonic,omitempty"`
}

// Ciphertext returns the encrypted seed, falling back to the legacy field.
func (r *KeystoreRecord) Ciphertext() string {
	if r.EncryptedSeed != "" {
		return r.EncryptedSeed
	}
	return r.EncryptedMnemonic
}

// KDFParams are the scrypt cost parameters a record was sealed with.
type KDFParams struct {
	Name  string `json:"name"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	DKLen int    `json:"dkLen"`
}

// DecryptedWallet represents an unlocked keystore.
// Mnemonic is kept as []byte so it can be wiped; call Wipe when done.
type DecryptedWallet struct {
	Mnemonic []byte
	Address  string
}

// Wipe zeroes the seed phrase in memory.
func (w *DecryptedWallet) Wipe() {
	if w == nil {
		return
	}
	clear(w.Mnemonic)
	w.Mnemonic = nil
}
