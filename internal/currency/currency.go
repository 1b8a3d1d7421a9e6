// Package currency converts stored amounts for display. Amounts are stored in
// the base currency; the rates here are never persisted.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const Base = "TWD"

var ErrUnknownCurrency = errors.New("unknown currency")

// Table maps an ISO 4217 code to units per one unit of Base.
type Table map[string]float64

// DefaultTable is a fixed snapshot; it is display-only.
func DefaultTable() Table {
	return Table{
		"TWD": 1,
		"USD": 0.031,
		"EUR": 0.029,
		"JPY": 4.7,
		"GBP": 0.025,
		"CNY": 0.22,
		"KRW": 42.5,
		"HKD": 0.24,
	}
}

// Normalize returns the upper-case ISO 4217 code for code.
func Normalize(code string) (string, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("%q: %w", code, ErrUnknownCurrency)
	}
	return unit.String(), nil
}

// Convert turns an amount in Base into code.
func (t Table) Convert(amount float64, code string) (float64, error) {
	iso, err := Normalize(code)
	if err != nil {
		return 0, err
	}
	rate, ok := t[iso]
	if !ok {
		return 0, fmt.Errorf("%s: %w", iso, ErrUnknownCurrency)
	}
	return amount * rate, nil
}

// Format renders an amount already expressed in code, e.g. "USD 1,234.50".
func Format(amount float64, code string) (string, error) {
	iso, err := Normalize(code)
	if err != nil {
		return "", err
	}
	unit := currency.MustParseISO(iso)
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.ISO(unit.Amount(amount))), nil
}

// Codes lists the table's currencies.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
