package chain

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// ParseUnits converts a human decimal amount ("1.5") into base units for a
// token with the given decimals. Digits beyond the token precision are dropped.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: negative", amount)
	}
	return d.Shift(int32(decimals)).BigInt(), nil
}

// ParseFloatUnits is ParseUnits for an amount already held as a float64.
func ParseFloatUnits(amount float64, decimals uint8) (*big.Int, error) {
	return ParseUnits(strconv.FormatFloat(amount, 'f', -1, 64), decimals)
}

// FormatUnits converts base units into a float amount.
func FormatUnits(v *big.Int, decimals uint8) float64 {
	if v == nil {
		return 0
	}
	return decimal.NewFromBigInt(v, -int32(decimals)).InexactFloat64()
}

// FormatUnitsString renders base units exactly, without trailing zeros.
func FormatUnitsString(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -int32(decimals)).String()
}
