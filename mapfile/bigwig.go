package mapfile

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"regexp"

	"cloud.google.com/go/storage"
	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/interpolatecm/chrpos"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/pbenner/gonetics"
	"github.com/shopspring/decimal"
)

// bigWigSource walks the raw records of a bigWig rate track one chromosome at
// a time in canonical order, like tabixSource.
type bigWigSource struct {
	file    interpolatecm.ReadSeekCloser
	reader  *gonetics.BigWigReader
	verbose bool

	chrom   string
	started bool
	records <-chan gonetics.BbiQueryType
	done    bool
}

func openBigWig(ctx context.Context, path string, client *storage.Client, verbose bool) (*bigWigSource, error) {
	file, _, err := interpolatecm.MaybeOpenSeekerFromGoogleStorage(ctx, path, client)
	if err != nil {
		return nil, err
	}

	reader, err := gonetics.NewBigWigReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening bigWig map %s: %w", path, err)
	}

	return &bigWigSource{file: file, reader: reader, verbose: verbose}, nil
}

func (s *bigWigSource) advanceChromosome() error {
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

		name, ok := chrpos.MatchName(s.chrom, s.reader.Genome.Seqnames)
		if !ok {
			continue
		}
		length, err := s.reader.Genome.SeqLength(name)
		if err != nil {
			return err
		}

		if s.verbose {
			log.Printf("Reading genetic map records for %s\n", name)
		}
		// A bin size of 0 yields the stored records without summarizing.
		s.records = s.reader.Query(regexp.QuoteMeta(name), 0, length, 0)

		return nil
	}
}

func (s *bigWigSource) next() (geneticmap.Window, error) {
	for {
		if s.done {
			return geneticmap.Window{}, io.EOF
		}

		if s.records == nil {
			if err := s.advanceChromosome(); err != nil {
				return geneticmap.Window{}, err
			}
		}

		record, ok := <-s.records
		if !ok {
			s.records = nil
			continue
		}
		if record.Error != nil {
			return geneticmap.Window{}, fmt.Errorf("reading bigWig records for %s: %w", s.chrom, record.Error)
		}

		name := s.reader.Genome.Seqnames[record.ChromId]
		if math.IsNaN(record.Sum) || math.IsInf(record.Sum, 0) || record.Sum < 0 {
			return geneticmap.Window{}, fmt.Errorf("%w: bigWig record %s:%d-%d has rate %v", ErrMalformedRecord, name, record.From, record.To, record.Sum)
		}

		return geneticmap.Window{
			Chr:   name,
			Start: int64(record.From),
			End:   int64(record.To),
			Rate:  decimal.NewFromFloat32(float32(record.Sum)),
		}, nil
	}
}

func (s *bigWigSource) Close() error {
	if s.records != nil {
		// The query goroutine blocks until its channel is drained.
		go func(records <-chan gonetics.BbiQueryType) {
			for range records {
			}
		}(s.records)
		s.records = nil
	}
	return s.file.Close()
}
