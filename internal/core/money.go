// Package core provides money parsing and handling utilities.
//
// This file contains the conversion between user-typed amounts and the
// float values stored in the ledger, and the two-decimal display format.
package core

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative, NaN and infinite values are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.5")  -> 12.5, nil
//	ParseAmount("12,50") -> 12.5, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// exactDigits is enough fractional digits to hold any float64 exactly.
const exactDigits = 1074

// FormatAmount renders an amount as currency with two decimals, e.g. "$12.50".
// Rounding happens here only; stored values and totals stay unrounded.
//
// The rounding works on the exact binary value of v, with ties to even, so
// 2.675 (stored as 2.67499...) shows as "$2.67" and 0.125 as "$0.12".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("$%v", v)
	}
	exact := decimal.NewFromBigRat(new(big.Rat).SetFloat64(v), exactDigits)
	return "$" + exact.StringFixedBank(2)
}
