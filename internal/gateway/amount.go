package gateway

import (
	"fmt"
	"math"

	"balance-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	minUnits = decimal.NewFromInt(math.MinInt64)
	maxUnits = decimal.NewFromInt(math.MaxInt64)
)

// amountArg converts amount into the value bound to an amount or balance column.
func (d dialect) amountArg(amount decimal.Decimal) (any, error) {
	if !d.minorUnits {
		return amount, nil
	}
	units := amount.Shift(domain.AmountScale)
	if !units.IsInteger() {
		return nil, domain.InvalidArgumentf("amount %s has more than %d fractional digits", amount, domain.AmountScale)
	}
	if units.LessThan(minUnits) || units.GreaterThan(maxUnits) {
		return nil, domain.InvalidArgumentf("amount %s does not fit %s storage", amount, d.name)
	}
	return units.IntPart(), nil
}

// amountValue converts a scanned amount, balance or sum back into a decimal.
func (d dialect) amountValue(raw any) (decimal.Decimal, error) {
	if !d.minorUnits {
		return toDecimal(raw)
	}
	switch units := raw.(type) {
	case nil:
		return decimal.Zero, nil
	case int64:
		return decimal.NewFromInt(units).Shift(-domain.AmountScale), nil
	default:
		// sqlite turns an overflowing integer sum into REAL.
		return decimal.Zero, fmt.Errorf("amount column holds %T, want integer minor units", raw)
	}
}
