// Package output writes interpolated genetic positions in PLINK, EIGENSTRAT
// and BED dialects.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/interpolatecm/queryfile"
	"github.com/shopspring/decimal"
)

// ErrPrecision means that rounding let a genetic position fall below the one
// emitted before it on the same chromosome.
var ErrPrecision = errors.New("genetic position decreased along the chromosome")

type Options struct {
	Format interpolatecm.Format

	// Morgans writes genetic positions in morgans instead of centimorgans.
	Morgans bool

	// FixedWidth, when positive, writes every genetic position with exactly
	// that many fractional digits.
	FixedWidth int32

	// StepInterval, in centimorgans, is added once per preceding region on
	// the same chromosome to every position of a BED region.
	StepInterval decimal.Decimal
}

// Writer formats results one line at a time. It is not safe for concurrent
// use.
type Writer struct {
	bw     *bufio.Writer
	closer io.Closer
	opts   Options

	chr      string
	lastGPos decimal.Decimal
	regions  int
	lines    int
}

func New(w io.Writer, opts Options) (*Writer, error) {
	switch opts.Format {
	case interpolatecm.FormatBIM, interpolatecm.FormatMAP, interpolatecm.FormatSNP, interpolatecm.FormatBED:
	default:
		return nil, fmt.Errorf("output format %q is not supported", opts.Format)
	}
	if opts.FixedWidth < 0 {
		return nil, fmt.Errorf("fixed width must not be negative, got %d", opts.FixedWidth)
	}

	out := &Writer{bw: bufio.NewWriter(w), opts: opts}
	if c, ok := w.(io.Closer); ok {
		out.closer = c
	}

	return out, nil
}

// Create opens path (stdout when empty) through interpolatecm.Create.
func Create(path string, opts Options) (*Writer, error) {
	wc, err := interpolatecm.Create(path)
	if err != nil {
		return nil, err
	}

	w, err := New(wc, opts)
	if err != nil {
		wc.Close()
		return nil, err
	}

	return w, nil
}

// Lines is the number of lines written so far.
func (w *Writer) Lines() int {
	return w.lines
}

// Write emits the results of one query. Point queries produce one line; BED
// regions produce one line per map-window-aligned piece.
func (w *Writer) Write(q queryfile.Query, results []geneticmap.Result) error {
	if q.Chr != w.chr {
		w.chr = q.Chr
		w.lastGPos = decimal.Zero
		w.regions = 0
	}

	offset := decimal.Zero
	if w.opts.Format == interpolatecm.FormatBED && !w.opts.StepInterval.IsZero() {
		offset = w.opts.StepInterval.Mul(decimal.NewFromInt(int64(w.regions)))
	}
	if q.IsInterval() {
		w.regions++
	}

	for _, r := range results {
		gpos := r.GPos.Add(offset)
		if gpos.LessThan(w.lastGPos) {
			return fmt.Errorf("%w: %s after %s at %s; increase -precision", ErrPrecision, gpos, w.lastGPos, r)
		}
		w.lastGPos = gpos

		if err := w.writeLine(q, r, w.format(gpos)); err != nil {
			return err
		}

		// Only BED keeps every piece of a region.
		if w.opts.Format != interpolatecm.FormatBED {
			break
		}
	}

	return nil
}

func (w *Writer) format(gpos decimal.Decimal) string {
	if w.opts.Morgans {
		gpos = gpos.Shift(-2)
	}
	if w.opts.FixedWidth > 0 {
		return gpos.StringFixed(w.opts.FixedWidth)
	}
	return gpos.String()
}

// position converts a 0-based query start into the output dialect's
// numbering.
func (w *Writer) position(start int64) int64 {
	if w.opts.Format.ZeroBased() {
		return start
	}
	return start + 1
}

func (w *Writer) writeLine(q queryfile.Query, r geneticmap.Result, gpos string) error {
	pos := w.position(q.Start)

	var err error
	switch w.opts.Format {
	case interpolatecm.FormatBIM:
		_, err = fmt.Fprintf(w.bw, "%s\t%s\t%s\t%d\t%s\t%s\n", q.Chr, q.ID, gpos, pos, q.Allele1, q.Allele2)
	case interpolatecm.FormatMAP:
		_, err = fmt.Fprintf(w.bw, "%s\t%s\t%s\t%d\n", q.Chr, q.ID, gpos, pos)
	case interpolatecm.FormatSNP:
		if q.Allele1 != "" || q.Allele2 != "" {
			_, err = fmt.Fprintf(w.bw, "%s\t%s\t%s\t%d\t%s\t%s\n", q.ID, q.Chr, gpos, pos, q.Allele1, q.Allele2)
		} else {
			_, err = fmt.Fprintf(w.bw, "%s\t%s\t%s\t%d\n", q.ID, q.Chr, gpos, pos)
		}
	case interpolatecm.FormatBED:
		// A point becomes the one-base interval that holds it.
		start, end := r.Start, r.End
		if end == geneticmap.NoEnd {
			start, end = pos, pos+1
		}
		_, err = fmt.Fprintf(w.bw, "%s\t%d\t%d\t%s\n", q.Chr, start, end, gpos)
	}
	if err != nil {
		return err
	}

	w.lines++
	return nil
}

// Close flushes and then closes the underlying writer if it is a Closer.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		if w.closer != nil {
			w.closer.Close()
		}
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
