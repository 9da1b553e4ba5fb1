package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/interpolatecm/compileinfo"
	_ "github.com/carbocation/interpolatecm/compileinfoprint"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/interpolatecm/interpolator"
	"github.com/carbocation/interpolatecm/mapfile"
	"github.com/shopspring/decimal"
)

var (
	input, preset       string
	geneticMap, mapFmt  string
	outFile, outFmt     string
	outputMorgans       bool
	regionStepInterval  string
	precision           int
	fixedWidth          int
	bqProject           string
	reportFile          string
	verbose, setVersion bool
)

func main() {
	// Reads variants or regions sorted by chromosome and position, and writes
	// them back with genetic positions interpolated from a recombination map.
	flag.StringVar(&input, "input", "", "Query file: local path, gs:// path, or - for stdin. For the bigquery preset, a file holding the SQL to run.")
	flag.StringVar(&preset, "preset", "bim", "Query file format. One of: bim, map, snp, pvar, bed, vcf, bgen, bigquery")
	flag.StringVar(&geneticMap, "genetic-map", "", "Recombination map: local path, gs:// path, or - for stdin")
	flag.StringVar(&mapFmt, "map-format", "bolt", fmt.Sprintf("Recombination map format. One of: %s", mapfile.FormatNames()))
	flag.StringVar(&outFile, "output", "", "Output file. If not specified, writes to stdout. Paths ending in .gz or .lz4 are compressed.")
	flag.StringVar(&outFmt, "output-format", "", "Output format (bim, map, snp, bed). Defaults to the format matching -preset.")
	flag.BoolVar(&outputMorgans, "output-morgans", false, "Write genetic positions in morgans instead of centimorgans")
	flag.StringVar(&regionStepInterval, "region-step-interval", "0", "For bed output, centimorgans added per preceding region on the same chromosome")
	flag.IntVar(&precision, "precision", int(geneticmap.DefaultPrecision), "Decimal digits retained for genetic positions")
	flag.IntVar(&fixedWidth, "fixed-width", 0, "If positive, write genetic positions with exactly this many decimal digits")
	flag.StringVar(&bqProject, "bq-project", "", "Google Cloud project billed for the bigquery preset")
	flag.StringVar(&reportFile, "report", "", "If set, write a JSON summary of the run to this path, or - for stdout")
	flag.BoolVar(&verbose, "verbose", false, "Log each map boundary crossed and each query split")
	flag.BoolVar(&setVersion, "version", false, "Print the version and exit")
	flag.Parse()

	if setVersion {
		fmt.Println(compileinfo.Get())
		return
	}

	if geneticMap == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := buildConfig()
	if err != nil {
		log.Fatalln(err)
	}

	if err := interpolator.Run(context.Background(), cfg); err != nil {
		log.Fatalln(err)
	}
}

func buildConfig() (interpolator.Config, error) {
	cfg := interpolator.Config{
		Input:           input,
		GeneticMap:      geneticMap,
		Output:          outFile,
		Morgans:         outputMorgans,
		Precision:       geneticmap.Precision(precision),
		FixedWidth:      int32(fixedWidth),
		BigQueryProject: bqProject,
		Report:          reportFile,
		Verbose:         verbose,
	}

	var err error
	if cfg.InputFormat, err = interpolatecm.ParseInputFormat(preset); err != nil {
		return cfg, err
	}
	if outFmt != "" {
		if cfg.OutputFormat, err = interpolatecm.ParseOutputFormat(outFmt); err != nil {
			return cfg, err
		}
	}
	if cfg.MapFormat, err = mapfile.ParseFormat(mapFmt); err != nil {
		return cfg, err
	}
	if cfg.StepInterval, err = decimal.NewFromString(regionStepInterval); err != nil {
		return cfg, fmt.Errorf("-region-step-interval %q is not a number: %v", regionStepInterval, err)
	}

	return cfg, nil
}
