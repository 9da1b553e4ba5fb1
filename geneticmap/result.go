package geneticmap

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Result is the genetic position of a query or of one map-window-aligned
// piece of an interval query. End is NoEnd for point queries.
type Result struct {
	Chr   string
	Start int64
	End   int64
	GPos  decimal.Decimal
	Rate  decimal.Decimal
}

func (r Result) String() string {
	if r.End == NoEnd {
		return fmt.Sprintf("%s:%d gpos=%s rate=%s", r.Chr, r.Start, r.GPos, r.Rate)
	}
	return fmt.Sprintf("%s:%d-%d gpos=%s rate=%s", r.Chr, r.Start, r.End, r.GPos, r.Rate)
}
