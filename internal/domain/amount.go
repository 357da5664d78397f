package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// AmountScale is the number of fractional digits every Amount carries.
	AmountScale = 4

	// MaxAmount bounds the magnitude accepted from text.
	MaxAmount = "1000000000000000" // 10^15
)

var (
	amountPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)
	maxAmount     = decimal.RequireFromString(MaxAmount)
)

// Amount is an exact decimal value at a fixed fractional scale.
type Amount struct {
	value decimal.Decimal
}

// ZeroAmount is the additive identity.
var ZeroAmount = Amount{}

// NewAmountFromInt returns a whole-unit amount.
func NewAmountFromInt(v int64) Amount {
	return Amount{value: decimal.NewFromInt(v)}
}

// ParseAmount parses the textual form of an amount.
// Accepted forms are plain decimals such as "5", "5.", ".5" and "-3.5000".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return Amount{}, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	if !d.Equal(d.Truncate(AmountScale)) {
		return Amount{}, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmount, s, AmountScale)
	}

	if d.Abs().GreaterThan(maxAmount) {
		return Amount{}, fmt.Errorf("%w: %w: maximum magnitude is %s", ErrInvalidAmount, ErrAmountTooLarge, MaxAmount)
	}

	return Amount{value: d}, nil
}

// MustParseAmount is like ParseAmount but panics on error. Intended for tests and constants.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value.Sub(b.value)}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{value: a.value.Neg()}
}

// Cmp returns -1, 0 or +1 depending on whether a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.value.Cmp(b.value)
}

func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

func (a Amount) LessThan(b Amount) bool {
	return a.value.LessThan(b.value)
}

func (a Amount) GreaterThanOrEqual(b Amount) bool {
	return a.value.GreaterThanOrEqual(b.value)
}

func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

func (a Amount) IsPositive() bool {
	return a.value.IsPositive()
}

func (a Amount) IsNegative() bool {
	return a.value.IsNegative()
}

// Decimal exposes the underlying value, e.g. for metrics.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// String formats the amount without superfluous trailing zeros ("100.5500" -> "100.55").
func (a Amount) String() string {
	return a.value.String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
