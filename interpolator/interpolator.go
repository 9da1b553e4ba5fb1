// Package interpolator wires a genetic map, a query source and an output
// writer into a single streaming run.
package interpolator

import (
	"context"
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/interpolatecm/mapfile"
	"github.com/carbocation/interpolatecm/output"
	"github.com/carbocation/interpolatecm/queryfile"
	"github.com/carbocation/pfx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// QueueLength bounds how many parsed queries may wait for the engine.
const QueueLength = 4096

type Config struct {
	Input       string
	InputFormat interpolatecm.Format

	GeneticMap string
	MapFormat  mapfile.Format

	Output       string
	OutputFormat interpolatecm.Format // defaults per input format when empty

	Morgans      bool
	StepInterval decimal.Decimal
	Precision    geneticmap.Precision
	FixedWidth   int32

	// BigQueryProject bills the query of the bigquery preset.
	BigQueryProject string

	// Report, if set, receives a JSON summary of the run ("-" for stdout).
	Report string

	Verbose bool
}

func (c *Config) validate() error {
	if c.OutputFormat == "" {
		c.OutputFormat = interpolatecm.DefaultOutputFormat(c.InputFormat)
	}
	if err := interpolatecm.CheckIOCombination(c.InputFormat, c.OutputFormat); err != nil {
		return err
	}
	if err := c.Precision.Validate(); err != nil {
		return err
	}
	if interpolatecm.IsStdStream(c.Input) && interpolatecm.IsStdStream(c.GeneticMap) {
		return fmt.Errorf("the query input and the genetic map cannot both be read from stdin")
	}
	if c.InputFormat == interpolatecm.FormatBigQuery && c.BigQueryProject == "" {
		return fmt.Errorf("the bigquery preset requires a project to bill")
	}
	if c.StepInterval.IsNegative() {
		return fmt.Errorf("region step interval must not be negative, got %s", c.StepInterval)
	}
	return nil
}

// Run streams every query of cfg.Input through the genetic map and writes the
// results. The first error stops the run and is returned.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	var opts queryfile.Options
	if interpolatecm.NeedsGoogleStorage(cfg.Input, cfg.GeneticMap) {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return pfx.Err(err)
		}
		defer client.Close()
		opts.Storage = client
	}
	if cfg.InputFormat == interpolatecm.FormatBigQuery {
		client, err := bigquery.NewClient(ctx, cfg.BigQueryProject)
		if err != nil {
			return pfx.Err(err)
		}
		defer client.Close()
		opts.BigQuery = client
	}

	cursor, err := mapfile.Open(ctx, cfg.GeneticMap, mapfile.Options{
		Format:    cfg.MapFormat,
		Precision: cfg.Precision,
		Storage:   opts.Storage,
		Verbose:   cfg.Verbose,
	})
	if err != nil {
		return err
	}
	gm := geneticmap.New(cursor, cfg.Precision)
	defer gm.Close()

	src, err := queryfile.Open(ctx, cfg.InputFormat, cfg.Input, opts)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := output.Create(cfg.Output, output.Options{
		Format:       cfg.OutputFormat,
		Morgans:      cfg.Morgans,
		FixedWidth:   cfg.FixedWidth,
		StepInterval: cfg.StepInterval,
	})
	if err != nil {
		return err
	}

	report := output.NewReport(cfg.Input, cfg.GeneticMap, cfg.Output)

	if err := stream(ctx, src, gm, w, report, cfg.Verbose); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return pfx.Err(err)
	}

	report.MapRecords = cursor.Records()
	missing, uncovered := report.SplitUncovered(cursor.HasChromosome)
	for _, chr := range missing {
		log.Printf("Warning: chromosome %s does not appear in the genetic map\n", chr)
	}
	for _, chr := range uncovered {
		log.Printf("Warning: no query on chromosome %s fell within the genetic map\n", chr)
	}
	if cfg.Verbose {
		log.Printf("Interpolated %d queries into %d lines using %d map records\n", report.Queries, w.Lines(), report.MapRecords)
	}

	if cfg.Report != "" {
		if err := report.WriteFile(cfg.Report); err != nil {
			return pfx.Err(err)
		}
	}

	return nil
}

// stream parses queries on one goroutine and resolves them on another. Only
// the consumer touches the genetic map and the writer.
func stream(ctx context.Context, src queryfile.Source, gm *geneticmap.GeneticMap, w *output.Writer, report *output.Report, verbose bool) error {
	g, gctx := errgroup.WithContext(ctx)
	queries := make(chan queryfile.Query, QueueLength)

	g.Go(func() error {
		defer close(queries)
		for {
			q, err := src.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}

			select {
			case queries <- q:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		var results []geneticmap.Result
		for q := range queries {
			var err error
			results, err = gm.AppendRegion(results[:0], q.Chr, q.Start, q.End, verbose)
			if err != nil {
				if q.Line > 0 {
					return fmt.Errorf("record %d (%s): %w", q.Line, q, err)
				}
				return fmt.Errorf("%s: %w", q, err)
			}

			if err := w.Write(q, results); err != nil {
				return err
			}
			report.Add(q, results)
		}
		return nil
	})

	return g.Wait()
}
