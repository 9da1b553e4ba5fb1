package interpolator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/interpolatecm/mapfile"
	"github.com/carbocation/interpolatecm/output"
	"github.com/shopspring/decimal"
)

const boltMap = `chr position COMBINED_rate(cM/Mb) Genetic_Map(cM)
1 55550 2.981822 0
1 82571 2.082414 0.080572
1 88169 2.081358 0.092229
2 10000 1.5 0
2 20000 1.5 0.015
`

const bedgraphMap = "chr1\t500000\t1500000\t3.32\nchr1\t1500000\t2500000\t4.43\n"

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRunBIMToMap(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Input:        writeFile(t, dir, "in.bim", "1\trs1\t0\t55550\tA\tG\n1\trs2\t0\t82571\tC\tT\n3\trs3\t0\t100\tA\tC\n"),
		InputFormat:  interpolatecm.FormatBIM,
		GeneticMap:   writeFile(t, dir, "map.txt", boltMap),
		MapFormat:    mapfile.FormatBolt,
		Output:       filepath.Join(dir, "out.map"),
		OutputFormat: interpolatecm.FormatMAP,
		Morgans:      true,
		Precision:    geneticmap.DefaultPrecision,
	}

	if err := Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	want := "1\trs1\t0\t55550\n1\trs2\t0.00080572\t82571\n3\trs3\t0\t100\n"
	if got := readFile(t, cfg.Output); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunBEDWithReport(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Input:       writeFile(t, dir, "in.bed", "track name=regions\nchr1\t1000000\t2000000\n"),
		InputFormat: interpolatecm.FormatBED,
		GeneticMap:  writeFile(t, dir, "map.bedgraph", bedgraphMap),
		MapFormat:   mapfile.FormatBedgraph,
		Output:      filepath.Join(dir, "out.bed"),
		Precision:   geneticmap.DefaultPrecision,
		Report:      filepath.Join(dir, "report.json"),
	}

	if err := Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	want := "chr1\t1000000\t1500000\t1.66\nchr1\t1500000\t2000000\t3.32\n"
	if got := readFile(t, cfg.Output); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(readFile(t, cfg.Report)), &report); err != nil {
		t.Fatal(err)
	}
	if report.Queries != 1 || report.Results != 2 || report.MapRecords != 2 {
		t.Errorf("report: %+v", report)
	}
}

func TestRunBEDAgainstBoltMap(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Input:       writeFile(t, dir, "in.bed", "chr1 499999 1499999 0\nchr1 1499999 2499999 0\nchr3 999999 1999999 0\n"),
		InputFormat: interpolatecm.FormatBED,
		GeneticMap: writeFile(t, dir, "map.txt", `chr position COMBINED_rate(cM/Mb) Genetic_Map(cM)
1 1000000 0.1 0
1 2000000 0.2 0.1
1 3000000 0.25 0.3
2 1000000 0.1 0
2 3000000 0.25 0.3
2 5000000 0.55 0.8
`),
		MapFormat: mapfile.FormatBolt,
		Output:    filepath.Join(dir, "out.bed"),
		Precision: geneticmap.DefaultPrecision,
		Report:    filepath.Join(dir, "report.json"),
	}

	if err := Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	// BOLT position 1000000 is BED coordinate 999999.
	want := "chr1\t499999\t999999\t0\n" +
		"chr1\t999999\t1499999\t0\n" +
		"chr1\t1499999\t1999999\t0.05\n" +
		"chr1\t1999999\t2499999\t0.1\n" +
		"chr3\t999999\t1999999\t0\n"
	if got := readFile(t, cfg.Output); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(readFile(t, cfg.Report)), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.MissingFromMap) != 1 || report.MissingFromMap[0] != "chr3" {
		t.Errorf("missing from map: %v", report.MissingFromMap)
	}
}

func TestRunStepInterval(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Input:        writeFile(t, dir, "in.bed", "chr1\t600000\t700000\nchr1\t700000\t800000\n"),
		InputFormat:  interpolatecm.FormatBED,
		GeneticMap:   writeFile(t, dir, "map.bedgraph", bedgraphMap),
		MapFormat:    mapfile.FormatBedgraph,
		Output:       filepath.Join(dir, "out.bed"),
		StepInterval: decimal.NewFromInt(5),
		FixedWidth:   3,
		Precision:    geneticmap.DefaultPrecision,
	}

	if err := Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	want := "chr1\t600000\t700000\t0.332\nchr1\t700000\t800000\t5.664\n"
	if got := readFile(t, cfg.Output); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunRejectsUnsortedQueries(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Input:       writeFile(t, dir, "in.map", "1\trs2\t0\t82571\n1\trs1\t0\t55550\n"),
		InputFormat: interpolatecm.FormatMAP,
		GeneticMap:  writeFile(t, dir, "map.txt", boltMap),
		MapFormat:   mapfile.FormatBolt,
		Output:      filepath.Join(dir, "out.map"),
		Precision:   geneticmap.DefaultPrecision,
	}

	err := Run(context.Background(), cfg)
	if !errors.Is(err, geneticmap.ErrUnsortedQuery) {
		t.Fatalf("expected ErrUnsortedQuery, got %v", err)
	}
	if !strings.Contains(err.Error(), "record 2") {
		t.Errorf("error does not name the offending record: %v", err)
	}
}

func TestRunConfigErrors(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, dir, "map.txt", boltMap)
	inPath := writeFile(t, dir, "in.bim", "1\trs1\t0\t55550\tA\tG\n")

	cases := []struct {
		name string
		cfg  Config
	}{
		{"bim as bed", Config{Input: inPath, InputFormat: interpolatecm.FormatBIM, OutputFormat: interpolatecm.FormatBED, GeneticMap: mapPath, MapFormat: mapfile.FormatBolt, Precision: geneticmap.DefaultPrecision}},
		{"both on stdin", Config{InputFormat: interpolatecm.FormatBIM, MapFormat: mapfile.FormatBolt, Precision: geneticmap.DefaultPrecision}},
		{"zero precision", Config{Input: inPath, InputFormat: interpolatecm.FormatBIM, GeneticMap: mapPath, MapFormat: mapfile.FormatBolt}},
		{"bigquery without project", Config{Input: inPath, InputFormat: interpolatecm.FormatBigQuery, GeneticMap: mapPath, MapFormat: mapfile.FormatBolt, Precision: geneticmap.DefaultPrecision}},
		{"negative step", Config{Input: inPath, InputFormat: interpolatecm.FormatBIM, GeneticMap: mapPath, MapFormat: mapfile.FormatBolt, Precision: geneticmap.DefaultPrecision, StepInterval: decimal.NewFromInt(-1)}},
		{"missing map", Config{Input: inPath, InputFormat: interpolatecm.FormatBIM, GeneticMap: filepath.Join(dir, "nope.txt"), MapFormat: mapfile.FormatBolt, Precision: geneticmap.DefaultPrecision}},
	}

	for _, c := range cases {
		if err := Run(context.Background(), c.cfg); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}
