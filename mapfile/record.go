package mapfile

import (
	"fmt"
	"strconv"

	"github.com/carbocation/interpolatecm/chrpos"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/shopspring/decimal"
)

// Columns of a BOLT-LMM / Eagle style map, e.g. genetic_map_hg19_withX.txt.gz:
// chr position COMBINED_rate(cM/Mb) Genetic_Map(cM)
const (
	boltChromosome int = iota
	boltPosition
	boltRate
	boltGeneticPosition
)

// Columns of a bedGraph recombination track: chrom start end rate(cM/Mb)
const (
	bedgraphChromosome int = iota
	bedgraphStart
	bedgraphEnd
	bedgraphRate
)

func parseBolt(fields []string) (geneticmap.Window, error) {
	if len(fields) < boltGeneticPosition+1 {
		return geneticmap.Window{}, fmt.Errorf("expected at least %d columns, found %d", boltGeneticPosition+1, len(fields))
	}

	chr, err := parseChromosome(fields[boltChromosome])
	if err != nil {
		return geneticmap.Window{}, err
	}
	pos, err := parseCoordinate(fields[boltPosition])
	if err != nil {
		return geneticmap.Window{}, err
	}
	rate, err := parseDecimal("rate", fields[boltRate])
	if err != nil {
		return geneticmap.Window{}, err
	}
	gpos, err := parseDecimal("genetic position", fields[boltGeneticPosition])
	if err != nil {
		return geneticmap.Window{}, err
	}

	return geneticmap.Window{Chr: chr, Start: pos, End: geneticmap.NoEnd, GPos: gpos, Rate: rate}, nil
}

func parseBedgraph(fields []string) (geneticmap.Window, error) {
	if len(fields) < bedgraphRate+1 {
		return geneticmap.Window{}, fmt.Errorf("expected at least %d columns, found %d", bedgraphRate+1, len(fields))
	}

	chr, err := parseChromosome(fields[bedgraphChromosome])
	if err != nil {
		return geneticmap.Window{}, err
	}
	start, err := parseCoordinate(fields[bedgraphStart])
	if err != nil {
		return geneticmap.Window{}, err
	}
	end, err := parseCoordinate(fields[bedgraphEnd])
	if err != nil {
		return geneticmap.Window{}, err
	}
	if end < start {
		return geneticmap.Window{}, fmt.Errorf("window end %d precedes its start %d", end, start)
	}
	rate, err := parseDecimal("rate", fields[bedgraphRate])
	if err != nil {
		return geneticmap.Window{}, err
	}

	return geneticmap.Window{Chr: chr, Start: start, End: end, Rate: rate}, nil
}

func parseChromosome(s string) (string, error) {
	if _, ok := chrpos.ChromosomeToInteger(s); !ok {
		return "", fmt.Errorf("unrecognized chromosome %q", s)
	}
	return s, nil
}

func parseCoordinate(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q is not an integer", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("coordinate %d is negative", v)
	}
	return v, nil
}

func parseDecimal(what, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s %q is not a number", what, s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%s %s is negative", what, s)
	}
	return d, nil
}
