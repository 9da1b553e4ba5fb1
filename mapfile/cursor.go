package mapfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/carbocation/interpolatecm/chrpos"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/shopspring/decimal"
	"gopkg.in/fatih/set.v0"
)

var (
	ErrMalformedRecord = errors.New("malformed genetic map record")
	ErrEmptyMap        = errors.New("genetic map needs at least two records")
)

// recordSource yields map records in file order, returning io.EOF after the
// last one.
type recordSource interface {
	next() (geneticmap.Window, error)
	Close() error
}

var _ geneticmap.Cursor = (*WindowCursor)(nil)

// WindowCursor keeps the lower and upper map records plus one record of
// lookahead, so that AtEnd can be answered without touching the source.
type WindowCursor struct {
	src       recordSource
	format    formatInfo
	precision geneticmap.Precision

	lower   geneticmap.Window
	upper   geneticmap.Window
	next    geneticmap.Window
	hasNext bool

	prev    geneticmap.Window
	hasPrev bool

	records     int
	chromosomes set.Interface
}

func newWindowCursor(src recordSource, format formatInfo, precision geneticmap.Precision) (*WindowCursor, error) {
	c := &WindowCursor{
		src:         src,
		format:      format,
		precision:   precision,
		chromosomes: set.New(set.NonThreadSafe),
	}

	var err error
	if c.lower, err = c.read(); err == io.EOF {
		return nil, ErrEmptyMap
	} else if err != nil {
		return nil, err
	}

	if c.upper, err = c.read(); err == io.EOF {
		return nil, ErrEmptyMap
	} else if err != nil {
		return nil, err
	}

	if c.next, c.hasNext, err = c.lookahead(); err != nil {
		return nil, err
	}

	return c, nil
}

// read pulls the next record, moves it to 0-based coordinates and, for
// rate-only formats, fills in its genetic position from the previous record on
// the same chromosome.
func (c *WindowCursor) read() (geneticmap.Window, error) {
	w, err := c.src.next()
	if err != nil {
		return w, err
	}

	if c.format.OneBased {
		if w.Start < 1 {
			return w, fmt.Errorf("%w: position %d on %s is not a 1-based coordinate", ErrMalformedRecord, w.Start, w.Chr)
		}
		w.Start--
	}

	if c.format.Accumulate {
		if c.hasPrev && chrpos.Compare(c.prev.Chr, w.Chr) == chrpos.Equal {
			w.GPos = c.precision.Interpolate(c.prev.GPos, c.prev.Rate, c.prev.Start, w.Start)
		} else {
			w.GPos = decimal.Zero
		}
	}

	c.prev = w
	c.hasPrev = true
	c.records++
	if code, ok := chrpos.ChromosomeToInteger(w.Chr); ok {
		c.chromosomes.Add(code)
	}

	return w, nil
}

func (c *WindowCursor) lookahead() (geneticmap.Window, bool, error) {
	w, err := c.read()
	if err == io.EOF {
		return geneticmap.Window{}, false, nil
	} else if err != nil {
		return geneticmap.Window{}, false, err
	}
	return w, true, nil
}

func (c *WindowCursor) Lower() geneticmap.Window { return c.lower }
func (c *WindowCursor) Upper() geneticmap.Window { return c.upper }
func (c *WindowCursor) AtEnd() bool              { return !c.hasNext }

// Records is the number of map records read so far, lookahead included.
func (c *WindowCursor) Records() int { return c.records }

// HasChromosome reports whether any record read so far lies on chr, in any
// spelling of its name.
func (c *WindowCursor) HasChromosome(chr string) bool {
	code, ok := chrpos.ChromosomeToInteger(chr)
	return ok && c.chromosomes.Has(code)
}

func (c *WindowCursor) Advance() (bool, error) {
	if !c.hasNext {
		return false, nil
	}

	next, hasNext, err := c.lookahead()
	if err != nil {
		return false, fmt.Errorf("reading the map record after %s: %w", c.next, err)
	}

	c.lower = c.upper
	c.upper = c.next
	c.next, c.hasNext = next, hasNext

	return true, nil
}

func (c *WindowCursor) Close() error {
	return c.src.Close()
}
