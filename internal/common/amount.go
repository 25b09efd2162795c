package common

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	Denom        = "uneutaro" // base denomination on chain
	DisplayDenom = "NTMPI"
	Decimals     = 6 // NTMPI has 6 decimals (uneutaro)
)

// ErrInvalidAmount is returned for any amount string that is not an exact
// non-negative decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// Unit tells the parser how to read an amount typed without a decimal point.
type Unit int

const (
	// UnitDisplay reads the input as NTMPI ("1.5", "10").
	UnitDisplay Unit = iota
	// UnitBase reads the input as an integer count of uneutaro ("1500000").
	UnitBase
)

var unitsPerDisplay = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// UnitsPerDisplay returns 10^Decimals as a fresh big.Int.
func UnitsPerDisplay() *big.Int {
	return new(big.Int).Set(unitsPerDisplay)
}

// ParseAmount converts user input to base units using an explicit unit.
func ParseAmount(s string, unit Unit) (*big.Int, error) {
	switch unit {
	case UnitDisplay:
		return ParseDisplayAmount(s)
	case UnitBase:
		return ParseBaseUnits(s)
	default:
		return nil, fmt.Errorf("%w: unknown unit %d", ErrInvalidAmount, unit)
	}
}

// ParseDisplayAmount converts an NTMPI decimal string to uneutaro without
// float precision loss. A string without a decimal point is always NTMPI:
// "10" is 10_000000 base units, never 10 base units.
// Fractional digits beyond Decimals are truncated, not rounded.
// Example: ParseDisplayAmount("0.0249818367") = 24981
func ParseDisplayAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if hasPoint && strings.Contains(frac, ".") {
		return nil, fmt.Errorf("%w: more than one decimal point", ErrInvalidAmount)
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("%w: no digits", ErrInvalidAmount)
	}
	if !isDigits(whole) {
		return nil, fmt.Errorf("%w: integer part must contain only digits", ErrInvalidAmount)
	}
	if !isDigits(frac) {
		return nil, fmt.Errorf("%w: fractional part must contain only digits", ErrInvalidAmount)
	}

	// Pad or truncate fractional part to exact decimals
	if len(frac) < Decimals {
		frac += strings.Repeat("0", Decimals-len(frac))
	} else if len(frac) > Decimals {
		frac = frac[:Decimals]
	}

	combined := whole + frac
	n, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse %q", ErrInvalidAmount, s)
	}
	return n, nil
}

// ParseBaseUnits parses an integer count of uneutaro.
func ParseBaseUnits(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	if !isDigits(s) {
		return nil, fmt.Errorf("%w: base units must be a whole number", ErrInvalidAmount)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse %q", ErrInvalidAmount, s)
	}
	return n, nil
}

// FormatBaseUnits renders uneutaro as "<whole>.<6 digits>" using integer
// division, so it stays exact for any balance.
// Example: FormatBaseUnits(1234567890) = "1234.567890"
func FormatBaseUnits(amount *big.Int) string {
	if amount == nil {
		amount = new(big.Int)
	}

	sign := ""
	abs := new(big.Int).Set(amount)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}

	whole, frac := new(big.Int).QuoRem(abs, unitsPerDisplay, new(big.Int))
	fracStr := frac.String()
	if len(fracStr) < Decimals {
		fracStr = strings.Repeat("0", Decimals-len(fracStr)) + fracStr
	}
	return sign + whole.String() + "." + fracStr
}

// FormatWithDenom is FormatBaseUnits followed by the display denomination.
func FormatWithDenom(amount *big.Int) string {
	return FormatBaseUnits(amount) + " " + DisplayDenom
}

// FractionDigits returns how many digits follow the decimal point in s.
func FractionDigits(s string) int {
	_, frac, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return 0
	}
	return len(frac)
}

// CompareAmounts compares two NTMPI decimal string amounts without float precision loss.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func CompareAmounts(a, b string) (int, error) {
	aVal, err := ParseDisplayAmount(a)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", a, err)
	}

	bVal, err := ParseDisplayAmount(b)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", b, err)
	}

	return aVal.Cmp(bVal), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
