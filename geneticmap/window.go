package geneticmap

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NoEnd marks a coordinate that is absent: a map record that is a point
// estimate rather than a window, or a query that is a single position.
const NoEnd int64 = -1

// Window is one record of a recombination map. GPos is the genetic position
// (cM) at Start and Rate is the recombination rate (cM/Mb) that applies from
// Start onward.
type Window struct {
	Chr   string
	Start int64
	End   int64
	GPos  decimal.Decimal
	Rate  decimal.Decimal
}

func (w Window) HasEnd() bool {
	return w.End != NoEnd
}

func (w Window) String() string {
	if w.HasEnd() {
		return fmt.Sprintf("%s:%d-%d (gpos %s, rate %s)", w.Chr, w.Start, w.End, w.GPos, w.Rate)
	}
	return fmt.Sprintf("%s:%d (gpos %s, rate %s)", w.Chr, w.Start, w.GPos, w.Rate)
}

// Cursor is a forward-only two-record view over a recombination map sorted by
// chromosome and position. Implementations pre-load the first two records when
// they are opened.
type Cursor interface {
	// Lower is the record at or before the current query position.
	Lower() Window

	// Upper is the record after Lower.
	Upper() Window

	// Advance shifts Upper into Lower and loads the next record into Upper.
	// When no record remains it returns false and leaves both untouched.
	Advance() (bool, error)

	// AtEnd reports whether Upper is the final record of the map.
	AtEnd() bool

	Close() error
}
