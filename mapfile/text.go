package mapfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/interpolatecm/geneticmap"
)

const maxLineLength = 1024 * 1024

// textSource reads whitespace-delimited map records line by line.
type textSource struct {
	rc      io.ReadCloser
	scanner *bufio.Scanner
	parse   func(fields []string) (geneticmap.Window, error)

	skipHeader   bool
	trackHeaders bool
	line         int
}

func newTextSource(rc io.ReadCloser, format Format) (*textSource, error) {
	s := &textSource{rc: rc, scanner: bufio.NewScanner(rc)}
	s.scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	switch format {
	case FormatBolt:
		s.parse = parseBolt
		s.skipHeader = true
	case FormatBedgraph:
		s.parse = parseBedgraph
		s.trackHeaders = true
	default:
		return nil, fmt.Errorf("map format %q cannot be read as text", format)
	}

	return s, nil
}

func (s *textSource) next() (geneticmap.Window, error) {
	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())

		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if s.skipHeader {
			s.skipHeader = false
			continue
		}
		if s.trackHeaders && (strings.HasPrefix(text, "track") || strings.HasPrefix(text, "browser")) {
			continue
		}

		w, err := s.parse(strings.Fields(text))
		if err != nil {
			return w, fmt.Errorf("%w on line %d (%q): %v", ErrMalformedRecord, s.line, text, err)
		}
		return w, nil
	}

	if err := s.scanner.Err(); err != nil {
		return geneticmap.Window{}, err
	}

	return geneticmap.Window{}, io.EOF
}

func (s *textSource) Close() error {
	return s.rc.Close()
}
