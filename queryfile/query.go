// Package queryfile reads the variants and regions whose genetic positions
// are to be looked up.
package queryfile

import (
	"errors"
	"fmt"

	"github.com/carbocation/interpolatecm/geneticmap"
)

var ErrMalformedQuery = errors.New("malformed query record")

// Query is one variant (End == geneticmap.NoEnd) or one region from a query
// source, along with the identifying fields that output formats carry over.
type Query struct {
	Chr     string
	Start   int64
	End     int64
	ID      string
	Allele1 string
	Allele2 string

	// Line is the 1-based line or record number within the source, 0 when
	// the source does not number its records.
	Line int
}

func (q Query) IsInterval() bool {
	return q.End != geneticmap.NoEnd
}

func (q Query) String() string {
	if q.IsInterval() {
		return fmt.Sprintf("%s:%d-%d", q.Chr, q.Start, q.End)
	}
	if q.ID != "" {
		return fmt.Sprintf("%s (%s:%d)", q.ID, q.Chr, q.Start)
	}
	return fmt.Sprintf("%s:%d", q.Chr, q.Start)
}

// Source yields queries in file order and io.EOF after the last one.
type Source interface {
	Next() (Query, error)
	Close() error
}
