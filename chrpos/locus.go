package chrpos

import "github.com/brentp/irelate/interfaces"

// MaxTabixCoordinate is the largest coordinate a tabix (BAI-style binning)
// index can address.
const MaxTabixCoordinate = 1<<29 - 1

var _ interfaces.IPosition = TabixLocus{}

// TabixLocus is a half-open region that can be handed to a tabix reader.
type TabixLocus struct {
	chrom string
	start uint32
	end   uint32
}

func MakeTabixLocus(chrom string, start, end int) TabixLocus {
	return TabixLocus{chrom: chrom, start: uint32(start), end: uint32(end)}
}

// WholeChromosome spans every position a tabix index can hold on chrom.
func WholeChromosome(chrom string) TabixLocus {
	return MakeTabixLocus(chrom, 0, MaxTabixCoordinate)
}

func (t TabixLocus) Chrom() string {
	return t.chrom
}

func (t TabixLocus) Start() uint32 {
	return t.start
}

func (t TabixLocus) End() uint32 {
	return t.end
}
