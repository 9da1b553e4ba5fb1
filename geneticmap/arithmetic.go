package geneticmap

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional decimal digits retained for genetic
// positions after each interpolation step. Addition, subtraction and
// multiplication of decimals are exact and the megabase normalization is an
// exact shift, so rounding to Precision is the only approximation made.
type Precision int32

// DefaultPrecision keeps well over the 64 significand bits that a genome-wide
// accumulation of map increments needs to stay non-decreasing.
const DefaultPrecision Precision = 30

func (p Precision) Validate() error {
	if p < 1 {
		return fmt.Errorf("precision must be at least 1 decimal digit, got %d", p)
	}
	return nil
}

// Megabases converts a base-pair distance into megabases without rounding.
func Megabases(bp int64) decimal.Decimal {
	return decimal.NewFromInt(bp).Shift(-6)
}

// Interpolate returns gpos + (to-from)/1e6 * rate rounded to p digits: the
// genetic position reached by travelling from position from to position to at
// a constant rate in cM/Mb.
func (p Precision) Interpolate(gpos, rate decimal.Decimal, from, to int64) decimal.Decimal {
	return gpos.Add(Megabases(to - from).Mul(rate)).Round(int32(p))
}
