package queryfile

import (
	"io"

	"github.com/carbocation/interpolatecm/geneticmap"
	"github.com/carbocation/pfx"
	"github.com/carbocation/vcfgo"
)

// VCFSource yields one point query per VCF record, without parsing
// genotypes. VCF positions are 1-based.
type VCFSource struct {
	rc  io.ReadCloser
	rdr *vcfgo.Reader
	n   int
}

func NewVCFSource(rc io.ReadCloser) (*VCFSource, error) {
	// Lazy sample parsing: only the fixed columns are needed.
	rdr, err := vcfgo.NewReader(rc, true)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &VCFSource{rc: rc, rdr: rdr}, nil
}

func (s *VCFSource) Next() (Query, error) {
	variant := s.rdr.Read()
	if variant == nil {
		if err := s.rdr.Error(); err != nil {
			return Query{}, pfx.Err(err)
		}
		return Query{}, io.EOF
	}
	s.n++

	q := Query{
		Chr:     variant.Chromosome,
		Start:   int64(variant.Pos) - 1,
		End:     geneticmap.NoEnd,
		ID:      variant.Id(),
		Allele1: variant.Ref(),
		Line:    s.n,
	}
	if alts := variant.Alt(); len(alts) > 0 {
		q.Allele2 = alts[0]
	}

	return q, nil
}

func (s *VCFSource) Close() error {
	return s.rc.Close()
}
