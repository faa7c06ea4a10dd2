package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency code with its minor-unit exponent.
type Currency struct {
	code     string
	exponent int32
}

// NewCurrency creates a Currency from an uppercase ISO 4217 code. The minor
// unit exponent comes from the CLDR currency tables.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Currency{}, fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return Currency{code: code, exponent: int32(scale)}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// MinorUnits returns the number of decimal places the currency is quoted in.
func (c Currency) MinorUnits() int32 {
	return c.exponent
}

// IsZero reports whether c is the zero Currency.
func (c Currency) IsZero() bool {
	return c.code == ""
}

// String returns the currency code.
func (c Currency) String() string {
	return c.code
}

// Currencies the service quotes in by default.
var (
	INR = MustCurrency("INR")
	USD = MustCurrency("USD")
)

// Money is an amount in a currency. It is used at the edges of the service to
// present decimal results in the currency's precision.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value from a decimal amount and currency.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }

// Round returns m rounded half away from zero to the currency's minor units.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(m.currency.exponent), currency: m.currency}
}

// AmountString formats the amount with exactly the currency's minor units,
// for example "8884.88" for INR.
func (m Money) AmountString() string {
	return m.amount.StringFixed(m.currency.exponent)
}

// String formats the Money value as "<amount> <currency>", for example "100.00 INR".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.AmountString(), m.currency.Code())
}
