package queryfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/interpolatecm"
)

const sniffLength = 64 * 1024

// TextSource reads queries from a delimited text file described by a Layout.
type TextSource struct {
	layout  Layout
	rc      io.ReadCloser
	scanner *bufio.Scanner
	comma   bool
	line    int
}

// NewTextSource reads rc with the given layout. Files that sniff as
// comma-delimited are split on commas and everything else on whitespace.
func NewTextSource(rc io.ReadCloser, layout Layout) *TextSource {
	br := bufio.NewReaderSize(rc, sniffLength)
	head, _ := br.Peek(sniffLength)

	s := &TextSource{
		layout:  layout,
		rc:      rc,
		scanner: bufio.NewScanner(br),
		comma:   len(head) > 0 && interpolatecm.DetermineDelimiter(bytes.NewReader(head)) == ',',
	}
	s.scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return s
}

func (s *TextSource) split(line string) []string {
	if !s.comma {
		return strings.Fields(line)
	}

	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func (s *TextSource) Next() (Query, error) {
	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if s.layout.Skip(text) {
			continue
		}

		q, err := s.layout.ParseRow(s.split(text))
		if err != nil {
			return q, fmt.Errorf("%w on line %d (%q): %v", ErrMalformedQuery, s.line, text, err)
		}
		q.Line = s.line

		return q, nil
	}

	if err := s.scanner.Err(); err != nil {
		return Query{}, err
	}

	return Query{}, io.EOF
}

func (s *TextSource) Close() error {
	return s.rc.Close()
}
