package crypto

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/AlexZinkM/neutaro-wallet/internal/validate"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"
)

func TestGenerateMnemonic(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	require.NoError(t, err)
	require.Len(t, strings.Fields(string(mnemonic)), 24)
	require.NoError(t, validate.SeedPhrase(mnemonic))

	other, err := GenerateMnemonic()
	require.NoError(t, err)
	require.NotEqual(t, mnemonic, other)

	account, err := DeriveAccount(mnemonic, validate.Bech32Prefix)
	require.NoError(t, err)
	defer account.Wipe()
	require.NoError(t, validate.Address(account.Address))
}

func TestDeriveAccountKnownVector(t *testing.T) {
	for prefix, want := range map[string]string{
		"cosmos":              knownCosmosAddress,
		validate.Bech32Prefix: knownNeutaroAddress,
	} {
		account, err := DeriveAccount([]byte(testMnemonic), prefix)
		require.NoError(t, err)
		require.Equal(t, want, account.Address)
		account.Wipe()
	}
}

func TestDeriveAccountDeterministic(t *testing.T) {
	first, err := DeriveAccount([]byte(testMnemonic), validate.Bech32Prefix)
	require.NoError(t, err)
	defer first.Wipe()

	// extra whitespace does not change the phrase
	second, err := DeriveAccount([]byte("  "+strings.ReplaceAll(testMnemonic, " ", "  ")+"\n"), validate.Bech32Prefix)
	require.NoError(t, err)
	defer second.Wipe()

	require.Equal(t, first.Address, second.Address)
	require.True(t, strings.HasPrefix(first.Address, "neutaro1"))
	require.NoError(t, validate.Address(first.Address))
	require.Len(t, first.PubKeyBytes(), 33)
}

func TestDeriveAccountPrefix(t *testing.T) {
	neutaro, err := DeriveAccount([]byte(testMnemonic), validate.Bech32Prefix)
	require.NoError(t, err)
	defer neutaro.Wipe()

	cosmos, err := DeriveAccount([]byte(testMnemonic), "cosmos")
	require.NoError(t, err)
	defer cosmos.Wipe()

	hrp1, data1, err := bech32.Decode(neutaro.Address)
	require.NoError(t, err)
	hrp2, data2, err := bech32.Decode(cosmos.Address)
	require.NoError(t, err)

	require.Equal(t, "neutaro", hrp1)
	require.Equal(t, "cosmos", hrp2)
	require.Equal(t, data1, data2, "same key must give the same payload under any prefix")

	payload, err := bech32.ConvertBits(data1, 5, 8, false)
	require.NoError(t, err)
	require.Len(t, payload, 20)
}

func TestDeriveAccountRejectsBadChecksum(t *testing.T) {
	phrase := strings.Repeat("abandon ", 11) + "abandon"
	_, err := DeriveAccount([]byte(phrase), validate.Bech32Prefix)
	require.ErrorIs(t, err, validate.ErrInvalidSeedPhrase)
	require.NotContains(t, err.Error(), "abandon")

	_, err = DeriveAccount([]byte(strings.Repeat("notaword ", 11)+"notaword"), validate.Bech32Prefix)
	require.ErrorIs(t, err, validate.ErrInvalidSeedPhrase)
	require.NotContains(t, err.Error(), "notaword")
}

func TestAccountSign(t *testing.T) {
	account, err := DeriveAccount([]byte(testMnemonic), validate.Bech32Prefix)
	require.NoError(t, err)

	msg := []byte(`{"chain_id":"Neutaro-1"}`)
	sig, err := account.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	var r, s btcec.ModNScalar
	require.False(t, r.SetByteSlice(sig[:32]))
	require.False(t, s.SetByteSlice(sig[32:]))
	hash := sha256.Sum256(msg)
	require.True(t, ecdsa.NewSignature(&r, &s).Verify(hash[:], account.PubKey))

	account.Wipe()
	require.Nil(t, account.PrivKey)
	_, err = account.Sign(msg)
	require.Error(t, err)
}
