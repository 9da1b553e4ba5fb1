package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/interpolatecm/queryfile"
	"github.com/carbocation/runningvariance"
	"github.com/montanaflynn/stats"
	"gopkg.in/guregu/null.v3"
)

// ChromosomeSummary counts the queries seen on one chromosome. Rate
// statistics cover the results that fell within the map and are null when
// there were none.
type ChromosomeSummary struct {
	Chromosome string     `json:"chromosome"`
	Queries    int        `json:"queries"`
	Results    int        `json:"results"`
	Uncovered  int        `json:"uncovered"`
	MeanRate   null.Float `json:"mean_rate_cm_per_mb"`
	RateSD     null.Float `json:"rate_sd_cm_per_mb"`
	MedianRate null.Float `json:"median_rate_cm_per_mb"`
	MaxRate    null.Float `json:"max_rate_cm_per_mb"`

	running *runningvariance.RunningStat
	rates   []float64
}

// Report summarizes a run for the -report flag.
type Report struct {
	Input       string               `json:"input"`
	GeneticMap  string               `json:"genetic_map"`
	Output      string               `json:"output"`
	MapRecords  int                  `json:"map_records"`
	Queries     int                  `json:"queries"`
	Results     int                  `json:"results"`
	Uncovered   int                  `json:"uncovered"`
	Chromosomes []*ChromosomeSummary `json:"chromosomes"`

	// MissingFromMap lists queried chromosomes that have no map records.
	MissingFromMap []string `json:"missing_from_map,omitempty"`

	byChr map[string]*ChromosomeSummary
}

func NewReport(input, geneticMap, output string) *Report {
	return &Report{
		Input:      input,
		GeneticMap: geneticMap,
		Output:     output,
		byChr:      make(map[string]*ChromosomeSummary),
	}
}

// Uncovered reports whether none of the results fell within the map: every
// piece has neither a genetic position nor a rate.
func Uncovered(results []geneticmap.Result) bool {
	for _, r := range results {
		if !r.GPos.IsZero() || !r.Rate.IsZero() {
			return false
		}
	}
	return true
}

// Add records one query and its results.
func (r *Report) Add(q queryfile.Query, results []geneticmap.Result) {
	c, exists := r.byChr[q.Chr]
	if !exists {
		c = &ChromosomeSummary{Chromosome: q.Chr, running: runningvariance.NewRunningStat()}
		r.byChr[q.Chr] = c
		r.Chromosomes = append(r.Chromosomes, c)
	}

	r.Queries++
	c.Queries++
	r.Results += len(results)
	c.Results += len(results)

	if Uncovered(results) {
		r.Uncovered++
		c.Uncovered++
		return
	}

	for _, res := range results {
		rate, _ := res.Rate.Float64()
		c.running.Push(rate)
		c.rates = append(c.rates, rate)
	}
}

// UncoveredChromosomes lists, in query order, the chromosomes where no query
// was covered by the map.
func (r *Report) UncoveredChromosomes() []string {
	var out []string
	for _, c := range r.Chromosomes {
		if c.Queries > 0 && c.Uncovered == c.Queries {
			out = append(out, c.Chromosome)
		}
	}
	return out
}

// SplitUncovered divides UncoveredChromosomes into those the map has no
// records for, according to inMap, and the rest. The former are also kept in
// MissingFromMap.
func (r *Report) SplitUncovered(inMap func(chr string) bool) (missing, uncovered []string) {
	for _, chr := range r.UncoveredChromosomes() {
		if inMap(chr) {
			uncovered = append(uncovered, chr)
			continue
		}
		missing = append(missing, chr)
	}
	r.MissingFromMap = missing

	return missing, uncovered
}

func (r *Report) summarize() error {
	for _, c := range r.Chromosomes {
		if len(c.rates) == 0 {
			continue
		}

		median, err := stats.Median(c.rates)
		if err != nil {
			return err
		}
		max, err := stats.Max(c.rates)
		if err != nil {
			return err
		}

		c.MeanRate = null.FloatFrom(c.running.Mean())
		c.MedianRate = null.FloatFrom(median)
		c.MaxRate = null.FloatFrom(max)
		if sd := c.running.StandardDeviation(); !math.IsNaN(sd) {
			c.RateSD = null.FloatFrom(sd)
		}
	}

	return nil
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	if err := r.summarize(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the report to path, or stdout for "-".
func (r *Report) WriteFile(path string) error {
	if path == "-" {
		return r.WriteJSON(os.Stdout)
	}

	f, err := interpolatecm.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report %s: %w", path, err)
	}
	return nil
}
