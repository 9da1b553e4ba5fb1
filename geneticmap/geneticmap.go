// Package geneticmap converts physical positions into genetic map positions by
// linear interpolation against a recombination map that is streamed through a
// Cursor. Queries must arrive sorted by chromosome and position, because the
// cursor never moves backwards.
package geneticmap

import (
	"fmt"
	"log"

	"github.com/carbocation/interpolatecm/chrpos"
	"github.com/shopspring/decimal"
)

// GeneticMap answers sorted queries against a single Cursor. It is not safe
// for concurrent use.
type GeneticMap struct {
	cursor    Cursor
	precision Precision

	queried   bool
	lastChr   string
	lastStart int64
}

func New(cursor Cursor, precision Precision) *GeneticMap {
	return &GeneticMap{cursor: cursor, precision: precision}
}

func (g *GeneticMap) Close() error {
	return g.cursor.Close()
}

// Query resolves the genetic position of chr:start. For interval queries, end
// is the exclusive end of the request and the returned Result.End says how
// far the answer holds: it stops at the next map boundary, so callers
// re-query from Result.End (see QueryRegion). Point queries pass NoEnd.
func (g *GeneticMap) Query(chr string, start, end int64, verbose bool) (Result, error) {
	if _, ok := chrpos.ChromosomeToInteger(chr); !ok {
		return Result{}, fmt.Errorf("%w %q in query at position %d", ErrUnknownChromosome, chr, start)
	}
	if start < 0 || (end != NoEnd && end < start) {
		return Result{}, fmt.Errorf("%w: %s:%d-%d", ErrInvalidQuery, chr, start, end)
	}
	if err := g.checkOrder(chr, start); err != nil {
		return Result{}, err
	}

	for {
		if err := g.checkWindows(); err != nil {
			return Result{}, err
		}
		lower, upper := g.cursor.Lower(), g.cursor.Upper()

		vsLower := chrpos.Compare(chr, lower.Chr)
		vsUpper := chrpos.Compare(chr, upper.Chr)

		switch {
		case vsLower == chrpos.Equal && vsUpper == chrpos.Equal:
			switch {
			case start == lower.Start:
				if verbose {
					log.Printf("%s:%d is exactly on map record %s\n", chr, start, lower)
				}
				return g.result(chr, start, minEnd(end, upper.Start), lower.GPos, lower.Rate), nil

			case start < lower.Start:
				if verbose {
					log.Printf("%s:%d precedes the first map record %s\n", chr, start, lower)
				}
				return g.result(chr, start, minEnd(end, lower.Start), decimal.Zero, decimal.Zero), nil

			case start < upper.Start:
				if verbose {
					log.Printf("%s:%d lies between %s and %s\n", chr, start, lower, upper)
				}
				gpos := g.precision.Interpolate(lower.GPos, lower.Rate, lower.Start, start)
				return g.result(chr, start, minEnd(end, upper.Start), gpos, lower.Rate), nil
			}

			// At or past the upper record: slide forward. Landing exactly on
			// the upper record becomes the exact-lower case on re-entry.
			ok, err := g.advance()
			if err != nil {
				return Result{}, err
			}
			if !ok {
				return g.resolveEnd(chr, start, end, verbose), nil
			}

		case vsLower == chrpos.Equal && vsUpper == chrpos.Less:
			// lower is the last record on the query's chromosome and the map
			// continues on a later one. Its values hold flat to the end of
			// the request.
			if start < lower.Start {
				if verbose {
					log.Printf("%s:%d precedes the only map record %s on its chromosome\n", chr, start, lower)
				}
				return g.result(chr, start, minEnd(end, lower.Start), decimal.Zero, decimal.Zero), nil
			}
			if verbose {
				log.Printf("%s:%d lies beyond the last map record %s on its chromosome\n", chr, start, lower)
			}
			return g.result(chr, start, end, lower.GPos, lower.Rate), nil

		case vsUpper == chrpos.Less:
			if verbose {
				log.Printf("%s:%d is on a chromosome without map records\n", chr, start)
			}
			return g.result(chr, start, end, decimal.Zero, decimal.Zero), nil

		case vsLower == chrpos.Greater:
			// The map is behind the query's chromosome. Step past the upper
			// record too when it is also behind.
			ok, err := g.advance()
			if err != nil {
				return Result{}, err
			}
			if ok && vsUpper == chrpos.Greater {
				if err := g.checkWindows(); err != nil {
					return Result{}, err
				}
				ok, err = g.advance()
				if err != nil {
					return Result{}, err
				}
			}
			if !ok {
				return g.resolveEnd(chr, start, end, verbose), nil
			}

		default:
			return Result{}, fmt.Errorf("%w: %s:%d cannot be placed between %s and %s; sort your input by chromosome and position", ErrUnsortedQuery, chr, start, lower, upper)
		}
	}
}

// resolveEnd answers a query once the map has no further records.
func (g *GeneticMap) resolveEnd(chr string, start, end int64, verbose bool) Result {
	upper := g.cursor.Upper()

	if chrpos.Compare(chr, upper.Chr) != chrpos.Equal {
		if verbose {
			log.Printf("%s:%d is past the end of the map and off its last chromosome\n", chr, start)
		}
		return g.result(chr, start, end, decimal.Zero, decimal.Zero)
	}

	if verbose {
		log.Printf("%s:%d is resolved against the final map record %s\n", chr, start, upper)
	}

	return g.beyondLast(upper, chr, start, end)
}

// beyondLast resolves a query against the final record w of the whole map.
// Point estimates extrapolate flat. Windows with an end coordinate
// interpolate up to that end and stop accumulating past it.
func (g *GeneticMap) beyondLast(w Window, chr string, start, end int64) Result {
	switch {
	case start < w.Start:
		return g.result(chr, start, minEnd(end, w.Start), decimal.Zero, decimal.Zero)

	case !w.HasEnd():
		return g.result(chr, start, end, w.GPos, w.Rate)

	case start < w.End:
		gpos := g.precision.Interpolate(w.GPos, w.Rate, w.Start, start)
		return g.result(chr, start, minEnd(end, w.End), gpos, w.Rate)
	}

	gpos := g.precision.Interpolate(w.GPos, w.Rate, w.Start, w.End)
	return g.result(chr, start, end, gpos, decimal.Zero)
}

// checkWindows rejects a lower/upper pair that is out of map order.
func (g *GeneticMap) checkWindows() error {
	lower, upper := g.cursor.Lower(), g.cursor.Upper()

	switch chrpos.Compare(lower.Chr, upper.Chr) {
	case chrpos.Greater:
	case chrpos.Equal:
		if lower.Start < upper.Start {
			return nil
		}
	default:
		return nil
	}

	return fmt.Errorf("%w: %s is followed by %s; sort the map by chromosome and position", ErrUnsortedMap, lower, upper)
}

func (g *GeneticMap) advance() (bool, error) {
	if g.cursor.AtEnd() {
		return false, nil
	}

	return g.cursor.Advance()
}

func (g *GeneticMap) checkOrder(chr string, start int64) error {
	if g.queried {
		switch chrpos.Compare(chr, g.lastChr) {
		case chrpos.Less:
			return fmt.Errorf("%w: chromosome %s follows %s; sort your input by chromosome and position", ErrUnsortedQuery, chr, g.lastChr)
		case chrpos.Equal:
			if start < g.lastStart {
				return fmt.Errorf("%w: %s:%d follows %s:%d; sort your input by chromosome and position, and do not overlap intervals", ErrUnsortedQuery, chr, start, g.lastChr, g.lastStart)
			}
		}
	}

	g.queried = true
	g.lastChr = chr
	g.lastStart = start

	return nil
}

func (g *GeneticMap) result(chr string, start, end int64, gpos, rate decimal.Decimal) Result {
	return Result{Chr: chr, Start: start, End: end, GPos: gpos, Rate: rate}
}

// minEnd truncates a requested end at a map boundary. Point queries stay
// points.
func minEnd(requested, boundary int64) int64 {
	if requested != NoEnd && boundary < requested {
		return boundary
	}
	return requested
}
