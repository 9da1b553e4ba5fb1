package queryfile

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/pfx"
)

// Options carries the clients that remote inputs need. Both may be nil when
// no path is on Google Storage and the bigquery preset is not used.
type Options struct {
	Storage  *storage.Client
	BigQuery *bigquery.Client
}

// Open returns the query source for the given input preset. For the bigquery
// preset, path names a file holding the SQL to run.
func Open(ctx context.Context, format interpolatecm.Format, path string, opts Options) (Source, error) {
	switch format {
	case interpolatecm.FormatBGEN:
		if interpolatecm.IsStdStream(path) || interpolatecm.IsGoogleStoragePath(path) {
			return nil, fmt.Errorf("bgen input must be a local file, got %q", path)
		}
		return OpenBGEN(interpolatecm.ExpandHome(path))
	}

	rc, err := interpolatecm.Open(ctx, path, opts.Storage)
	if err != nil {
		return nil, err
	}

	switch format {
	case interpolatecm.FormatVCF:
		src, err := NewVCFSource(rc)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return src, nil
	case interpolatecm.FormatBigQuery:
		sql, err := ReadSQL(rc)
		if err != nil {
			return nil, err
		}
		return NewBigQuerySource(ctx, opts.BigQuery, sql)
	}

	layout, err := LookupLayout(string(format))
	if err != nil {
		rc.Close()
		return nil, pfx.Err(err)
	}

	return NewTextSource(rc, layout), nil
}
