package queryfile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/pfx"
	"google.golang.org/api/iterator"
)

// bigQueryRow is one row of a user-supplied query. Positions are 1-based, and
// end_pos, when non-null, makes the row an interval query that includes it.
type bigQueryRow struct {
	Chrom   string              `bigquery:"chrom"`
	Pos     int64               `bigquery:"pos"`
	EndPos  bigquery.NullInt64  `bigquery:"end_pos"`
	ID      bigquery.NullString `bigquery:"id"`
	Allele1 bigquery.NullString `bigquery:"allele1"`
	Allele2 bigquery.NullString `bigquery:"allele2"`
}

func (r bigQueryRow) query() Query {
	q := Query{
		Chr:   r.Chrom,
		Start: r.Pos - 1,
		End:   geneticmap.NoEnd,
	}
	if r.EndPos.Valid {
		q.End = r.EndPos.Int64
	}
	if r.ID.Valid {
		q.ID = r.ID.StringVal
	}
	if r.Allele1.Valid {
		q.Allele1 = r.Allele1.StringVal
	}
	if r.Allele2.Valid {
		q.Allele2 = r.Allele2.StringVal
	}

	return q
}

// BigQuerySource streams the rows of a standard SQL query. The query must
// order its rows by chromosome and position.
type BigQuerySource struct {
	ctx context.Context
	itr *bigquery.RowIterator
	row int
}

// ReadSQL reads the whole of a SQL file.
func ReadSQL(rc io.ReadCloser) (string, error) {
	defer rc.Close()

	var sb strings.Builder
	if _, err := io.Copy(&sb, rc); err != nil {
		return "", pfx.Err(err)
	}

	return sb.String(), nil
}

func NewBigQuerySource(ctx context.Context, client *bigquery.Client, sql string) (*BigQuerySource, error) {
	if client == nil {
		return nil, pfx.Err("a BigQuery client is required for the bigquery preset")
	}

	query := client.Query(sql)
	itr, err := query.Read(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &BigQuerySource{ctx: ctx, itr: itr}, nil
}

func (s *BigQuerySource) Next() (Query, error) {
	var r bigQueryRow
	err := s.itr.Next(&r)
	if err == iterator.Done {
		return Query{}, io.EOF
	}
	if err != nil {
		return Query{}, pfx.Err(err)
	}
	s.row++

	q := r.query()
	if q.Start < 0 || (q.IsInterval() && q.End < q.Start) {
		return q, fmt.Errorf("%w in row %d: %s", ErrMalformedQuery, s.row, q)
	}
	q.Line = s.row

	return q, nil
}

func (s *BigQuerySource) Close() error {
	return nil
}
