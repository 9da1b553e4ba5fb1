package mapfile

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/biogo/hts/bgzf/index"
	"github.com/brentp/irelate/interfaces"
	"github.com/brentp/irelate/parsers"
	"github.com/carbocation/bix"
	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/interpolatecm/chrpos"
	"github.com/carbocation/interpolatecm/geneticmap"
)

// tabixSource walks a bgzipped, tabix-indexed bedGraph one chromosome at a
// time in canonical order (1..22, X, Y, M), regardless of the order in which
// the chromosomes were written.
type tabixSource struct {
	tbx     *bix.Bix
	verbose bool

	chrom   string // canonical name of the chromosome being walked
	started bool
	vals    interfaces.RelatableIterator
	done    bool
}

func openTabix(path string, client *storage.Client, verbose bool) (*tabixSource, error) {
	var tbx *bix.Bix
	var err error
	if interpolatecm.IsGoogleStoragePath(path) {
		tbx, err = bix.NewGCP(path, client)
	} else {
		tbx, err = bix.New(interpolatecm.ExpandHome(path))
	}
	if err != nil {
		return nil, fmt.Errorf("opening tabix-indexed map %s: %w", path, err)
	}

	return &tabixSource{tbx: tbx, verbose: verbose}, nil
}

// indexedName returns the spelling under which the index holds chrom, trying
// it with and without a "chr" prefix. It reports false when the index has no
// records for the chromosome.
func (s *tabixSource) indexedName(chrom string) (string, bool, error) {
	bare := strings.TrimPrefix(chrom, "chr")
	for _, name := range []string{"chr" + bare, bare} {
		_, err := s.tbx.Chunks(name, 0, chrpos.MaxTabixCoordinate)
		switch {
		case err == nil, errors.Is(err, index.ErrInvalid):
			return name, true, nil
		case errors.Is(err, index.ErrNoReference):
			continue
		default:
			return "", false, fmt.Errorf("reading the tabix index for %s: %w", name, err)
		}
	}

	return "", false, nil
}

// advanceChromosome moves to the next chromosome present in the index and
// starts iterating over its records.
func (s *tabixSource) advanceChromosome() error {
	for {
		if !s.started {
			s.chrom = "chr1"
			s.started = true
		} else {
			next, err := chrpos.NextChromosome(s.chrom)
			if err != nil {
				s.done = true
				return io.EOF
			}
			s.chrom = next
		}

		name, ok, err := s.indexedName(s.chrom)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		vals, err := s.tbx.Query(chrpos.WholeChromosome(name))
		if err != nil {
			return fmt.Errorf("querying %s from the tabix index: %w", name, err)
		}
		if s.verbose {
			log.Printf("Reading genetic map records for %s\n", name)
		}
		s.vals = vals

		return nil
	}
}

func (s *tabixSource) next() (geneticmap.Window, error) {
	for {
		if s.done {
			return geneticmap.Window{}, io.EOF
		}

		if s.vals == nil {
			if err := s.advanceChromosome(); err != nil {
				return geneticmap.Window{}, err
			}
		}

		v, err := s.vals.Next()
		if err == io.EOF {
			s.vals.Close()
			s.vals = nil
			continue
		} else if err != nil {
			return geneticmap.Window{}, err
		}

		interval, ok := v.(*parsers.Interval)
		if !ok {
			return geneticmap.Window{}, fmt.Errorf("%w: tabix record %s:%d-%d is not a bedGraph interval", ErrMalformedRecord, v.Chrom(), v.Start(), v.End())
		}

		fields := make([]string, len(interval.Fields))
		for i, f := range interval.Fields {
			fields[i] = strings.TrimSpace(string(f))
		}

		w, err := parseBedgraph(fields)
		if err != nil {
			return w, fmt.Errorf("%w in tabix record %q: %v", ErrMalformedRecord, strings.Join(fields, "\t"), err)
		}
		return w, nil
	}
}

func (s *tabixSource) Close() error {
	if s.vals != nil {
		s.vals.Close()
	}
	return s.tbx.Close()
}
