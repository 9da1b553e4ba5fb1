package geneticmap

import (
	"fmt"
	"log"
)

// QueryRegion resolves chr:[start, end) into results that tile the interval
// contiguously, one per map window it overlaps. A point query (end == NoEnd)
// yields exactly one result.
func (g *GeneticMap) QueryRegion(chr string, start, end int64, verbose bool) ([]Result, error) {
	return g.AppendRegion(nil, chr, start, end, verbose)
}

// AppendRegion is QueryRegion appending onto dst, so that callers can reuse a
// buffer across queries.
func (g *GeneticMap) AppendRegion(dst []Result, chr string, start, end int64, verbose bool) ([]Result, error) {
	if end == NoEnd {
		r, err := g.Query(chr, start, NoEnd, verbose)
		if err != nil {
			return dst, err
		}
		return append(dst, r), nil
	}

	current := start
	for {
		r, err := g.Query(chr, current, end, verbose)
		if err != nil {
			return dst, err
		}
		dst = append(dst, r)

		if r.End == end {
			return dst, nil
		}

		if r.End <= current || r.End > end {
			return dst, fmt.Errorf("%w: %s:%d-%d stopped making progress at %d", ErrUnsortedMap, chr, start, end, r.End)
		}

		if verbose {
			log.Printf("%s:%d-%d split at map boundary %d\n", chr, start, end, r.End)
		}

		current = r.End
	}
}
