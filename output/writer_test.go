package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/interpolatecm"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/interpolatecm/queryfile"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func point(chr string, pos int64, id, gpos string) (queryfile.Query, []geneticmap.Result) {
	q := queryfile.Query{Chr: chr, Start: pos, End: geneticmap.NoEnd, ID: id, Allele1: "A", Allele2: "G"}
	return q, []geneticmap.Result{{Chr: chr, Start: pos, End: geneticmap.NoEnd, GPos: dec(gpos), Rate: dec("1")}}
}

func write(t *testing.T, opts Options, queries []queryfile.Query, results [][]geneticmap.Result) string {
	t.Helper()

	var buf bytes.Buffer
	w, err := New(&buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	for i := range queries {
		if err := w.Write(queries[i], results[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	return buf.String()
}

func TestWriterDialects(t *testing.T) {
	// Queries are 0-based; PLINK and EIGENSTRAT positions are 1-based.
	q, r := point("1", 55549, "rs1", "0.0555")

	cases := []struct {
		format interpolatecm.Format
		want   string
	}{
		{interpolatecm.FormatBIM, "1\trs1\t0.0555\t55550\tA\tG\n"},
		{interpolatecm.FormatMAP, "1\trs1\t0.0555\t55550\n"},
		{interpolatecm.FormatSNP, "rs1\t1\t0.0555\t55550\tA\tG\n"},
	}

	for _, c := range cases {
		got := write(t, Options{Format: c.format}, []queryfile.Query{q}, [][]geneticmap.Result{r})
		if got != c.want {
			t.Errorf("%s: got %q, want %q", c.format, got, c.want)
		}
	}
}

func TestWriterSNPWithoutAlleles(t *testing.T) {
	q, r := point("1", 99, "rs1", "1")
	q.Allele1, q.Allele2 = "", ""

	got := write(t, Options{Format: interpolatecm.FormatSNP}, []queryfile.Query{q}, [][]geneticmap.Result{r})
	if got != "rs1\t1\t1\t100\n" {
		t.Errorf("got %q", got)
	}
}

func TestWriterUnits(t *testing.T) {
	q, r := point("1", 100, "rs1", "12.5")

	cases := []struct {
		opts Options
		want string
	}{
		{Options{Format: interpolatecm.FormatMAP}, "12.5"},
		{Options{Format: interpolatecm.FormatMAP, Morgans: true}, "0.125"},
		{Options{Format: interpolatecm.FormatMAP, FixedWidth: 4}, "12.5000"},
		{Options{Format: interpolatecm.FormatMAP, Morgans: true, FixedWidth: 2}, "0.13"},
	}

	for _, c := range cases {
		got := write(t, c.opts, []queryfile.Query{q}, [][]geneticmap.Result{r})
		fields := strings.Fields(got)
		if len(fields) != 4 || fields[2] != c.want {
			t.Errorf("%+v: got %q, want gpos %s", c.opts, got, c.want)
		}
	}
}

func bedRegion(chr string, pieces ...geneticmap.Result) (queryfile.Query, []geneticmap.Result) {
	q := queryfile.Query{Chr: chr, Start: pieces[0].Start, End: pieces[len(pieces)-1].End}
	return q, pieces
}

func piece(chr string, start, end int64, gpos string) geneticmap.Result {
	return geneticmap.Result{Chr: chr, Start: start, End: end, GPos: dec(gpos), Rate: dec("1")}
}

func TestWriterBEDPiecesAndStep(t *testing.T) {
	q1, r1 := bedRegion("chr1", piece("chr1", 0, 100, "0"), piece("chr1", 100, 200, "0.5"))
	q2, r2 := bedRegion("chr1", piece("chr1", 200, 300, "1"))
	q3, r3 := bedRegion("chr2", piece("chr2", 0, 100, "0"))
	queries := []queryfile.Query{q1, q2, q3}
	results := [][]geneticmap.Result{r1, r2, r3}

	got := write(t, Options{Format: interpolatecm.FormatBED}, queries, results)
	want := "chr1\t0\t100\t0\nchr1\t100\t200\t0.5\nchr1\t200\t300\t1\nchr2\t0\t100\t0\n"
	if got != want {
		t.Errorf("without step: got %q, want %q", got, want)
	}

	got = write(t, Options{Format: interpolatecm.FormatBED, StepInterval: dec("10")}, queries, results)
	want = "chr1\t0\t100\t0\nchr1\t100\t200\t0.5\nchr1\t200\t300\t11\nchr2\t0\t100\t0\n"
	if got != want {
		t.Errorf("with step: got %q, want %q", got, want)
	}
}

func TestWriterBEDPoint(t *testing.T) {
	q, r := point("chr1", 999999, "rs1", "0.5")

	got := write(t, Options{Format: interpolatecm.FormatBED}, []queryfile.Query{q}, [][]geneticmap.Result{r})
	if got != "chr1\t999999\t1000000\t0.5\n" {
		t.Errorf("got %q", got)
	}
}

func TestWriterPrecisionCheck(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, Options{Format: interpolatecm.FormatMAP})
	if err != nil {
		t.Fatal(err)
	}

	q, r := point("1", 100, "rs1", "1.0000001")
	if err := w.Write(q, r); err != nil {
		t.Fatal(err)
	}
	q, r = point("1", 200, "rs2", "1")
	if err := w.Write(q, r); !errors.Is(err, ErrPrecision) {
		t.Fatalf("expected ErrPrecision, got %v", err)
	}

	// A new chromosome starts over.
	q, r = point("2", 1, "rs3", "0")
	if err := w.Write(q, r); err != nil {
		t.Fatal(err)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(&buf, Options{Format: interpolatecm.FormatVCF}); err == nil {
		t.Error("expected an error for vcf output")
	}
	if _, err := New(&buf, Options{Format: interpolatecm.FormatMAP, FixedWidth: -1}); err == nil {
		t.Error("expected an error for a negative width")
	}
}

func TestCreateCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.map.gz")

	w, err := Create(path, Options{Format: interpolatecm.FormatMAP})
	if err != nil {
		t.Fatal(err)
	}
	q, r := point("1", 100, "rs1", "2")
	if err := w.Write(q, r); err != nil {
		t.Fatal(err)
	}
	if w.Lines() != 1 {
		t.Errorf("Lines() = %d", w.Lines())
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if interpolatecm.DetectDataType(raw) != interpolatecm.DataTypeGzip {
		t.Fatal("output is not gzip compressed")
	}
}
