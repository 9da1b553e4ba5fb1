package interpolatecm

import (
	"fmt"
	"sort"
	"strings"
)

// Format names a query or output file dialect.
type Format string

const (
	FormatBIM      Format = "bim"
	FormatMAP      Format = "map"
	FormatSNP      Format = "snp"
	FormatPVAR     Format = "pvar"
	FormatBED      Format = "bed"
	FormatVCF      Format = "vcf"
	FormatBGEN     Format = "bgen"
	FormatBigQuery Format = "bigquery"
)

// ZeroBased reports whether the format numbers positions from 0. The others
// number them from 1.
func (f Format) ZeroBased() bool {
	return f == FormatBED
}

// validOutputs lists, per input format, the output formats that can be
// reconstructed from its records. The first entry is the default.
var validOutputs = map[Format][]Format{
	FormatBIM:      {FormatBIM, FormatMAP, FormatSNP},
	FormatSNP:      {FormatSNP, FormatMAP, FormatBIM},
	FormatPVAR:     {FormatBIM, FormatMAP, FormatSNP},
	FormatVCF:      {FormatBIM, FormatMAP, FormatSNP},
	FormatBGEN:     {FormatBIM, FormatMAP, FormatSNP},
	FormatBigQuery: {FormatBIM, FormatMAP, FormatSNP},
	FormatMAP:      {FormatMAP},
	FormatBED:      {FormatBED},
}

var outputFormats = map[Format]bool{
	FormatBIM: true,
	FormatMAP: true,
	FormatSNP: true,
	FormatBED: true,
}

func formatNames(m map[Format]bool) string {
	names := make([]string, 0, len(m))
	for f := range m {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// ParseInputFormat validates the name of a query input preset.
func ParseInputFormat(name string) (Format, error) {
	f := Format(strings.ToLower(name))
	if _, ok := validOutputs[f]; !ok {
		valid := make(map[Format]bool)
		for k := range validOutputs {
			valid[k] = true
		}
		return "", fmt.Errorf("input format %q is not recognized. Valid input formats include: %s", name, formatNames(valid))
	}
	return f, nil
}

// ParseOutputFormat validates the name of an output format.
func ParseOutputFormat(name string) (Format, error) {
	f := Format(strings.ToLower(name))
	if !outputFormats[f] {
		return "", fmt.Errorf("output format %q is not recognized. Valid output formats include: %s", name, formatNames(outputFormats))
	}
	return f, nil
}

// DefaultOutputFormat is the output format used when none is requested.
func DefaultOutputFormat(input Format) Format {
	if outs, ok := validOutputs[input]; ok {
		return outs[0]
	}
	return ""
}

// CheckIOCombination reports whether records of the input format carry what
// the output format needs.
func CheckIOCombination(input, output Format) error {
	outs, ok := validOutputs[input]
	if !ok {
		return fmt.Errorf("input format %q is not recognized", input)
	}
	for _, o := range outs {
		if o == output {
			return nil
		}
	}

	names := make([]string, len(outs))
	for i, o := range outs {
		names[i] = string(o)
	}
	return fmt.Errorf("%s input cannot be written as %s output; choose one of: %s", input, output, strings.Join(names, ", "))
}
