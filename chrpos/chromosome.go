package chrpos

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BenLubar/memoize"
)

// Direction is the result of ordering two chromosomes.
type Direction int

const (
	Less Direction = iota - 1
	Equal
	Greater
)

func (d Direction) String() string {
	switch d {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	}

	return fmt.Sprintf("Direction(%d)", int(d))
}

const (
	chrX = 23
	chrY = 24
	chrM = 26
)

// memoizedChromosomeToInteger caches parseChromosome by label.
var memoizedChromosomeToInteger = memoize.Memoize(parseChromosome).(func(string) (int, bool))

// ChromosomeToInteger maps a chromosome label, with or without a "chr" prefix,
// onto its integer code: autosomes keep their number, X is 23, Y is 24, and M
// or MT is 26. The second return value is false for anything unrecognized,
// including pseudoautosomal XY/PAR labels.
func ChromosomeToInteger(label string) (int, bool) {
	return memoizedChromosomeToInteger(label)
}

func parseChromosome(label string) (int, bool) {
	name := strings.TrimPrefix(label, "chr")

	switch name {
	case "X":
		return chrX, true
	case "Y":
		return chrY, true
	case "M", "MT":
		return chrM, true
	}

	n, err := strconv.Atoi(name)
	if err != nil || n < 1 {
		return 0, false
	}

	return n, true
}

// IntegerToChromosome is the inverse of ChromosomeToInteger for human
// chromosomes, always producing the "chr"-prefixed spelling.
func IntegerToChromosome(n int) (string, error) {
	switch {
	case n >= 1 && n <= 22:
		return "chr" + strconv.Itoa(n), nil
	case n == chrX:
		return "chrX", nil
	case n == chrY:
		return "chrY", nil
	case n == chrM:
		return "chrM", nil
	}

	return "", fmt.Errorf("chromosome code %d has no human chromosome name", n)
}

// Compare orders two chromosome labels by their integer codes. Unrecognized
// labels take the code 0 and therefore sort before every real chromosome.
func Compare(a, b string) Direction {
	ai, _ := ChromosomeToInteger(a)
	bi, _ := ChromosomeToInteger(b)

	switch {
	case ai < bi:
		return Less
	case ai > bi:
		return Greater
	}

	return Equal
}

// NextChromosome returns the chromosome after current in the order 1..22, X,
// Y, M. The result keeps the "chr" prefix convention of current. There is no
// successor to M.
func NextChromosome(current string) (string, error) {
	n, ok := ChromosomeToInteger(current)
	if !ok {
		return "", fmt.Errorf("cannot find the successor of unrecognized chromosome %q", current)
	}

	var next int
	switch {
	case n < 22:
		next = n + 1
	case n == 22:
		next = chrX
	case n == chrX:
		next = chrY
	case n == chrY:
		next = chrM
	default:
		return "", fmt.Errorf("chromosome %q is the last chromosome", current)
	}

	name, err := IntegerToChromosome(next)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(current, "chr") {
		name = strings.TrimPrefix(name, "chr")
	}

	return name, nil
}

// MatchName finds the spelling that a file uses for the chromosome label, by
// comparing integer codes against the file's own sequence names.
func MatchName(label string, names []string) (string, bool) {
	want, ok := ChromosomeToInteger(label)
	if !ok {
		return "", false
	}

	for _, name := range names {
		if got, ok := ChromosomeToInteger(name); ok && got == want {
			return name, true
		}
	}

	return "", false
}
