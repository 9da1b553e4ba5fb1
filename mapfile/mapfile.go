// Package mapfile reads recombination maps into geneticmap cursors.
//
// Four layouts are understood: "bolt" text maps (chr, 1-based position, rate
// in cM/Mb, genetic position in cM, after one header line), "bedgraph" text
// maps (chrom, start, end, rate in cM/Mb), "tabix", a bgzipped bedGraph with a
// tabix index, and "bigwig", a bigWig track of rates. Genetic positions for
// the rate-only layouts are accumulated from the rates, restarting at 0 on
// every chromosome. Records reach the cursor in 0-based coordinates.
package mapfile

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/pfx"
)

type Format string

const (
	FormatBolt     Format = "bolt"
	FormatBedgraph Format = "bedgraph"
	FormatTabix    Format = "tabix"
	FormatBigWig   Format = "bigwig"
)

type formatInfo struct {
	Description string

	// OneBased formats number positions from 1.
	OneBased bool

	// Accumulate fills in genetic positions from the rates.
	Accumulate bool
}

var formats = map[Format]formatInfo{
	FormatBolt:     {Description: "chr position rate(cM/Mb) gpos(cM), one header line", OneBased: true},
	FormatBedgraph: {Description: "chrom start end rate(cM/Mb)", Accumulate: true},
	FormatTabix:    {Description: "bgzipped, tabix-indexed bedgraph", Accumulate: true},
	FormatBigWig:   {Description: "bigWig track of rate(cM/Mb)", Accumulate: true},
}

func FormatNames() string {
	names := make([]string, 0, len(formats))
	for f := range formats {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(name))
	if _, ok := formats[f]; !ok {
		return "", fmt.Errorf("map format %q is not recognized. Valid map formats include: %s", name, FormatNames())
	}
	return f, nil
}

type Options struct {
	Format    Format
	Precision geneticmap.Precision

	// Storage is used for gs:// paths and may be nil otherwise.
	Storage *storage.Client

	Verbose bool
}

// Open reads the first records of the map at path and returns a cursor
// positioned on its first window.
func Open(ctx context.Context, path string, opts Options) (*WindowCursor, error) {
	if err := opts.Precision.Validate(); err != nil {
		return nil, err
	}

	info, ok := formats[opts.Format]
	if !ok {
		return nil, fmt.Errorf("map format %q is not recognized. Valid map formats include: %s", opts.Format, FormatNames())
	}

	var src recordSource
	switch opts.Format {
	case FormatBolt, FormatBedgraph:
		rc, err := interpolatecm.Open(ctx, path, opts.Storage)
		if err != nil {
			return nil, err
		}
		ts, err := newTextSource(rc, opts.Format)
		if err != nil {
			rc.Close()
			return nil, err
		}
		src = ts
	case FormatTabix:
		ts, err := openTabix(path, opts.Storage, opts.Verbose)
		if err != nil {
			return nil, pfx.Err(err)
		}
		src = ts
	case FormatBigWig:
		bs, err := openBigWig(ctx, path, opts.Storage, opts.Verbose)
		if err != nil {
			return nil, pfx.Err(err)
		}
		src = bs
	}

	c, err := newWindowCursor(src, info, opts.Precision)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if opts.Verbose {
		log.Printf("Opened %s genetic map %s starting at %s\n", opts.Format, path, c.Lower())
	}

	return c, nil
}
