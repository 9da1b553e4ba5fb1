package queryfile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/interpolatecm/geneticmap"
)

// Columns of a PLINK .bim file
const (
	bimChromosome int = iota
	bimVariantID
	bimMorgans
	bimCoordinate
	bimAllele1
	bimAllele2
)

// absent marks a column a layout does not have.
const absent = -1

// Layout describes where a whitespace- or comma-delimited query file keeps its
// fields. Genetic position columns are present in some layouts but are always
// recomputed, so they are not read.
//
// Queries are 0-based and half-open. Layouts that number positions from 1 have
// their positions shifted down by one as rows are parsed.
type Layout struct {
	Comment       rune
	ZeroBased     bool
	MinColumns    int
	ColChromosome int
	ColID         int
	ColPosition   int
	ColEnd        int
	ColAllele1    int
	ColAllele2    int

	// SkipPrefixes are header lines to ignore, such as BED track lines.
	SkipPrefixes []string
}

var Layouts = map[string]Layout{
	"bim": {
		Comment:       '#',
		MinColumns:    bimAllele2 + 1,
		ColChromosome: bimChromosome,
		ColID:         bimVariantID,
		ColPosition:   bimCoordinate,
		ColEnd:        absent,
		ColAllele1:    bimAllele1,
		ColAllele2:    bimAllele2,
	},
	"map": {
		Comment:       '#',
		MinColumns:    bimCoordinate + 1,
		ColChromosome: bimChromosome,
		ColID:         bimVariantID,
		ColPosition:   bimCoordinate,
		ColEnd:        absent,
		ColAllele1:    absent,
		ColAllele2:    absent,
	},
	// EIGENSTRAT .snp: id chr gpos pos [ref alt]
	"snp": {
		Comment:       '#',
		MinColumns:    4,
		ColChromosome: 1,
		ColID:         0,
		ColPosition:   3,
		ColEnd:        absent,
		ColAllele1:    4,
		ColAllele2:    5,
	},
	// PLINK2 .pvar: #CHROM POS ID REF ALT [...]. The ## and #CHROM header
	// lines are comments.
	"pvar": {
		Comment:       '#',
		MinColumns:    5,
		ColChromosome: 0,
		ColID:         2,
		ColPosition:   1,
		ColEnd:        absent,
		ColAllele1:    3,
		ColAllele2:    4,
	},
	"bed": {
		Comment:       '#',
		ZeroBased:     true,
		MinColumns:    3,
		ColChromosome: 0,
		ColID:         absent,
		ColPosition:   1,
		ColEnd:        2,
		ColAllele1:    absent,
		ColAllele2:    absent,
		SkipPrefixes:  []string{"track", "browser"},
	},
}

func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

// LookupLayout returns the named layout.
func LookupLayout(name string) (Layout, error) {
	l, exists := Layouts[name]
	if !exists {
		return Layout{}, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", name, LayoutNames())
	}
	return l, nil
}

// Skip reports whether a trimmed line carries no query.
func (l Layout) Skip(line string) bool {
	if line == "" || strings.HasPrefix(line, string(l.Comment)) {
		return true
	}
	for _, p := range l.SkipPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// ParseRow turns the fields of one line into a Query.
func (l Layout) ParseRow(row []string) (Query, error) {
	if len(row) < l.MinColumns {
		return Query{}, fmt.Errorf("expected at least %d columns, found %d", l.MinColumns, len(row))
	}

	q := Query{
		Chr:     row[l.ColChromosome],
		End:     geneticmap.NoEnd,
		ID:      optionalColumn(row, l.ColID),
		Allele1: optionalColumn(row, l.ColAllele1),
		Allele2: optionalColumn(row, l.ColAllele2),
	}

	pos, err := strconv.ParseInt(row[l.ColPosition], 10, 64)
	switch {
	case err != nil:
		return q, fmt.Errorf("position %q is not an integer", row[l.ColPosition])
	case l.ZeroBased && pos < 0:
		return q, fmt.Errorf("position %d is negative", pos)
	case !l.ZeroBased && pos < 1:
		return q, fmt.Errorf("position %d is not a 1-based coordinate", pos)
	case l.ZeroBased:
		q.Start = pos
	default:
		q.Start = pos - 1
	}

	if l.ColEnd != absent {
		end, err := strconv.ParseInt(row[l.ColEnd], 10, 64)
		if err != nil {
			return q, fmt.Errorf("end %q is not an integer", row[l.ColEnd])
		}
		if end < q.Start {
			return q, fmt.Errorf("end %d precedes start %d", end, q.Start)
		}
		q.End = end
	}

	return q, nil
}

func optionalColumn(row []string, col int) string {
	if col == absent || col >= len(row) {
		return ""
	}
	return row[col]
}
