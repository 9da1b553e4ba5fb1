package geneticmap

import "errors"

var (
	ErrUnsortedMap       = errors.New("genetic map is not sorted")
	ErrUnsortedQuery     = errors.New("query input is not sorted")
	ErrUnknownChromosome = errors.New("unrecognized chromosome")
	ErrInvalidQuery      = errors.New("invalid query")
)
