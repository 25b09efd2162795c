package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"
)

const testSeedPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func encodeAddress(t *testing.T, hrp string, payload []byte) string {
	t.Helper()
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode(hrp, conv)
	require.NoError(t, err)
	return addr
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "empty", password: "", valid: false},
		{name: "too short", password: "short-pass1", valid: false},
		{name: "twelve characters", password: "correcthorse", valid: true},
		{name: "multibyte counted as characters", password: "ñññññññññññ", valid: false},
		{name: "weak substring", password: "myPassword123456!", valid: false},
		{name: "weak substring ignores case", password: "xxQWERTYUIOPASxx", valid: false},
		{name: "numeric weak substring", password: "abc123456789012", valid: false},
		{name: "strong", password: "test-password-very-secure-123456", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Password([]byte(tt.password))
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrWeakPassword)
		})
	}
}

func TestSeedPhrase(t *testing.T) {
	require.NoError(t, SeedPhrase([]byte(testSeedPhrase)))
	require.NoError(t, SeedPhrase([]byte("  "+strings.Repeat("word ", 24)+"\n")))

	for _, n := range []int{12, 15, 18, 21, 24} {
		require.NoError(t, SeedPhrase([]byte(strings.TrimSpace(strings.Repeat("zoo ", n)))))
	}

	tests := []struct {
		name   string
		phrase string
	}{
		{name: "empty", phrase: ""},
		{name: "three words", phrase: "abandon abandon abandon"},
		{name: "thirteen words", phrase: testSeedPhrase + " zoo"},
		{name: "uppercase word", phrase: strings.Replace(testSeedPhrase, "about", "About", 1)},
		{name: "digit in word", phrase: strings.Replace(testSeedPhrase, "about", "ab0ut", 1)},
		{name: "accented word", phrase: strings.Replace(testSeedPhrase, "about", "abóut", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SeedPhrase([]byte(tt.phrase))
			require.ErrorIs(t, err, ErrInvalidSeedPhrase)
			require.NotContains(t, err.Error(), "abandon")
		})
	}
}

func TestAddress(t *testing.T) {
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	valid := encodeAddress(t, Bech32Prefix, payload)
	require.NoError(t, Address(valid))

	// Flip the last checksum character.
	last := valid[len(valid)-1]
	replacement := byte('q')
	if last == 'q' {
		replacement = 'p'
	}
	badChecksum := valid[:len(valid)-1] + string(replacement)

	tests := []struct {
		name    string
		address string
	}{
		{name: "empty", address: ""},
		{name: "wrong prefix", address: encodeAddress(t, "cosmos", payload)},
		{name: "validator prefix", address: encodeAddress(t, ValidatorBech32Prefix, payload)},
		{name: "too short", address: "neutaro1abc"},
		{name: "too long", address: "neutaro1" + strings.Repeat("q", 90)},
		{name: "uppercase body", address: "neutaro1" + strings.ToUpper(valid[8:])},
		{name: "bad checksum", address: badChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, Address(tt.address), ErrInvalidAddress)
		})
	}
}

func TestValidatorAddress(t *testing.T) {
	payload := make([]byte, 20)
	valid := encodeAddress(t, ValidatorBech32Prefix, payload)
	require.NoError(t, ValidatorAddress(valid))

	require.ErrorIs(t, ValidatorAddress(encodeAddress(t, Bech32Prefix, payload)), ErrInvalidAddress)
	require.ErrorIs(t, ValidatorAddress(""), ErrInvalidAddress)
	require.ErrorIs(t, ValidatorAddress("neutarovaloper1short"), ErrInvalidAddress)
}

func TestMemo(t *testing.T) {
	require.NoError(t, Memo(""))
	require.NoError(t, Memo("invoice #42\n\tpaid"))
	require.NoError(t, Memo(strings.Repeat("a", MaxMemoBytes)))
	require.NoError(t, Memo("héllo wörld"))

	tests := []struct {
		name string
		memo string
	}{
		{name: "too long", memo: strings.Repeat("a", MaxMemoBytes+1)},
		{name: "multibyte over limit", memo: strings.Repeat("é", MaxMemoBytes/2+1)},
		{name: "null byte", memo: "abc\x00"},
		{name: "carriage return", memo: "abc\r\n"},
		{name: "escape", memo: "\x1b[31mred"},
		{name: "delete", memo: "abc\x7f"},
		{name: "c1 control", memo: "abc\u0085"},
		{name: "invalid utf8", memo: "abc\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, Memo(tt.memo), ErrInvalidMemo)
		})
	}
}

func TestAmount(t *testing.T) {
	require.NoError(t, Amount("1.5", common.UnitDisplay))
	require.NoError(t, Amount("0.000001", common.UnitDisplay))
	require.NoError(t, Amount("1500000", common.UnitBase))

	require.ErrorIs(t, Amount("0", common.UnitDisplay), ErrInvalidAmount)
	require.ErrorIs(t, Amount("0.0000001", common.UnitDisplay), ErrInvalidAmount)
	require.ErrorIs(t, Amount("abc", common.UnitDisplay), ErrInvalidAmount)
	require.ErrorIs(t, Amount("-5", common.UnitDisplay), ErrInvalidAmount)
	require.ErrorIs(t, Amount("1.5", common.UnitBase), ErrInvalidAmount)
}

func TestErrorUnwrap(t *testing.T) {
	err := Password(nil)

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, ErrWeakPassword, vErr.Kind)
	require.Equal(t, "password cannot be empty", vErr.Reason)
	require.Equal(t, "weak password: password cannot be empty", err.Error())
}
