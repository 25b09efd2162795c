// Package validate holds the stateless input checks shared by every entry
// point of the wallet: keystore creation, import, send, allowlist edits and
// the HTTP handlers all go through the same predicates.
package validate

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	Bech32Prefix          = "neutaro"
	ValidatorBech32Prefix = Bech32Prefix + "valoper"

	MinPasswordLength = 12
	MaxMemoBytes      = 256

	minAddressLength          = 39
	maxAddressLength          = 90
	minValidatorAddressLength = 47
	maxValidatorAddressLength = 95
)

var (
	ErrWeakPassword      = errors.New("weak password")
	ErrInvalidSeedPhrase = errors.New("invalid seed phrase")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidMemo       = errors.New("invalid memo")
	ErrInvalidAmount     = common.ErrInvalidAmount
)

// weakPasswords are rejected when found anywhere in the password, ignoring case.
var weakPasswords = []string{"password123456", "123456789012", "qwertyuiopas"}

var seedPhraseLengths = map[int]bool{12: true, 15: true, 18: true, 21: true, 24: true}

// Error is a validation failure: Kind is one of the sentinels above and
// Reason is safe to show to the user.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func fail(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Password checks password strength.
// password must be []byte for security (caller should zero it after use)
func Password(password []byte) error {
	if len(password) == 0 {
		return fail(ErrWeakPassword, "password cannot be empty")
	}
	if utf8.RuneCount(password) < MinPasswordLength {
		return fail(ErrWeakPassword, "password must be at least %d characters long", MinPasswordLength)
	}

	lower := bytes.ToLower(password)
	defer clear(lower)
	for _, weak := range weakPasswords {
		if bytes.Contains(lower, []byte(weak)) {
			return fail(ErrWeakPassword, "password is too common, please choose a stronger password")
		}
	}
	return nil
}

// SeedPhrase checks the shape of a seed phrase: 12, 15, 18, 21 or 24 words of
// lowercase ASCII letters. Reasons never echo the words themselves.
func SeedPhrase(phrase []byte) error {
	words := bytes.Fields(phrase)
	if len(words) == 0 {
		return fail(ErrInvalidSeedPhrase, "seed phrase cannot be empty")
	}
	if !seedPhraseLengths[len(words)] {
		return fail(ErrInvalidSeedPhrase, "seed phrase must be 12, 15, 18, 21, or 24 words (got %d)", len(words))
	}
	for i, word := range words {
		for _, c := range word {
			if c < 'a' || c > 'z' {
				return fail(ErrInvalidSeedPhrase, "word %d must contain only lowercase letters a-z", i+1)
			}
		}
	}
	return nil
}

// Address checks a neutaro1... account address.
func Address(address string) error {
	return bech32Address(address, Bech32Prefix, minAddressLength, maxAddressLength)
}

// ValidatorAddress checks a neutarovaloper1... operator address.
func ValidatorAddress(address string) error {
	return bech32Address(address, ValidatorBech32Prefix, minValidatorAddressLength, maxValidatorAddressLength)
}

func bech32Address(address, hrp string, minLen, maxLen int) error {
	if address == "" {
		return fail(ErrInvalidAddress, "address must be a non-empty string")
	}
	prefix := hrp + "1"
	if !strings.HasPrefix(address, prefix) {
		return fail(ErrInvalidAddress, "address must start with '%s', got '%s...'", prefix, truncate(address, 8))
	}
	if len(address) < minLen || len(address) > maxLen {
		return fail(ErrInvalidAddress, "invalid address length: %d", len(address))
	}
	body := address[len(prefix):]
	for i := 0; i < len(body); i++ {
		c := body[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') {
			return fail(ErrInvalidAddress, "address contains invalid characters")
		}
	}

	decodedHRP, _, err := bech32.DecodeNoLimit(address)
	if err != nil {
		return fail(ErrInvalidAddress, "address checksum does not verify")
	}
	if decodedHRP != hrp {
		return fail(ErrInvalidAddress, "address prefix %q does not match %q", decodedHRP, hrp)
	}
	return nil
}

// Memo checks a transaction memo: at most 256 bytes of UTF-8, with no control
// characters other than newline and tab.
func Memo(memo string) error {
	if !utf8.ValidString(memo) {
		return fail(ErrInvalidMemo, "memo must be valid UTF-8")
	}
	if len(memo) > MaxMemoBytes {
		return fail(ErrInvalidMemo, "memo exceeds maximum length of %d bytes", MaxMemoBytes)
	}
	for _, r := range memo {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return fail(ErrInvalidMemo, "memo contains invalid control characters")
		}
	}
	return nil
}

// Amount checks an amount to be sent: it must parse exactly, be greater than
// zero and carry no more than 6 fractional digits. The codec itself truncates
// extra digits; on the send path that would silently change the amount.
func Amount(amount string, unit common.Unit) error {
	if unit == common.UnitDisplay && common.FractionDigits(amount) > common.Decimals {
		return fail(ErrInvalidAmount, "amount has too many decimal places (max %d)", common.Decimals)
	}
	n, err := common.ParseAmount(amount, unit)
	if err != nil {
		var reason string
		if _, after, ok := strings.Cut(err.Error(), ": "); ok {
			reason = after
		} else {
			reason = err.Error()
		}
		return fail(ErrInvalidAmount, "%s", reason)
	}
	if n.Sign() <= 0 {
		return fail(ErrInvalidAmount, "amount must be greater than zero")
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
