package queryfile

import (
	"io"

	"github.com/carbocation/bgen"
	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/pfx"
)

// BGENSource yields one point query per variant of a local .bgen file. BGEN
// positions are 1-based.
type BGENSource struct {
	bg  *bgen.BGEN
	rdr *bgen.VariantReader
}

func OpenBGEN(path string) (*BGENSource, error) {
	bg, err := bgen.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &BGENSource{bg: bg, rdr: bg.NewVariantReader()}, nil
}

func (s *BGENSource) Next() (Query, error) {
	variant := s.rdr.Read()
	if variant == nil {
		if err := s.rdr.Error(); err != nil && err != io.EOF {
			return Query{}, pfx.Err(err)
		}
		return Query{}, io.EOF
	}

	q := Query{
		Chr:   variant.Chromosome,
		Start: int64(variant.Position) - 1,
		End:   geneticmap.NoEnd,
		ID:    variant.RSID,
	}
	if len(variant.Alleles) > 0 {
		q.Allele1 = string(variant.Alleles[0])
	}
	if len(variant.Alleles) > 1 {
		q.Allele2 = string(variant.Alleles[1])
	}

	return q, nil
}

func (s *BGENSource) Close() error {
	return s.bg.Close()
}
