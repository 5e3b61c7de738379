// Package symboltable provides the static ticker-to-dense-id mapping the
// core matching engine addresses symbols by. The core never sees a
// ticker string; it only ever sees the int32 id this package assigns.
package symboltable

// Table maps short string tickers to dense ids in [0, Len()).
type Table struct {
	ids     map[string]int32
	tickers []string
}

// New builds a Table assigning tickers[i] the id i. Duplicate tickers
// collapse to the last-assigned id.
func New(tickers []string) *Table {
	t := &Table{
		ids:     make(map[string]int32, len(tickers)),
		tickers: append([]string(nil), tickers...),
	}
	for i, ticker := range tickers {
		t.ids[ticker] = int32(i)
	}
	return t
}

// ID returns ticker's dense id and whether it is known.
func (t *Table) ID(ticker string) (int32, bool) {
	id, ok := t.ids[ticker]
	return id, ok
}

// Ticker returns the ticker assigned to id, or "" if id is out of range.
func (t *Table) Ticker(id int32) string {
	if id < 0 || int(id) >= len(t.tickers) {
		return ""
	}
	return t.tickers[id]
}

// Len returns the number of tickers the table was built from, duplicates
// included; every assigned id is below it.
func (t *Table) Len() int {
	return len(t.tickers)
}
