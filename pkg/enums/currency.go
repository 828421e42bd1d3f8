package enums

import "fmt"

// Currency is the ISO-4217 code attached to monetary amounts.
type Currency string

const (
	// CurrencyMAD is the Moroccan dirham, the marketplace's settlement currency.
	CurrencyMAD Currency = "MAD"
)

var validCurrencies = []Currency{
	CurrencyMAD,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Currency.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts the raw string to Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
