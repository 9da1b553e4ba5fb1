package geneticmap

import "github.com/shopspring/decimal"

// memoryCursor serves a fixed slice of windows. It stands in for the file
// backed cursors.
type memoryCursor struct {
	windows  []Window
	i        int
	advances int
	closed   bool
}

func newMemoryCursor(windows ...Window) *memoryCursor {
	return &memoryCursor{windows: windows}
}

func (m *memoryCursor) Lower() Window { return m.windows[m.i] }
func (m *memoryCursor) Upper() Window { return m.windows[m.i+1] }
func (m *memoryCursor) AtEnd() bool   { return m.i+2 >= len(m.windows) }

func (m *memoryCursor) Advance() (bool, error) {
	if m.AtEnd() {
		return false, nil
	}
	m.i++
	m.advances++
	return true, nil
}

func (m *memoryCursor) Close() error {
	m.closed = true
	return nil
}

func point(chr string, start int64, gpos, rate string) Window {
	return Window{Chr: chr, Start: start, End: NoEnd, GPos: decimal.RequireFromString(gpos), Rate: decimal.RequireFromString(rate)}
}

func span(chr string, start, end int64, gpos, rate string) Window {
	return Window{Chr: chr, Start: start, End: end, GPos: decimal.RequireFromString(gpos), Rate: decimal.RequireFromString(rate)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
