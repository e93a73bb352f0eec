package dictionary

import (
	"fmt"

	"github.com/dargueta/pixcodec"
)

// Separator is the symbol placed between values when a row is stringified.
const Separator = ','

// SeedSize is the number of entries in a fresh table: one per decimal digit
// (codes 0-9) and one for the separator (code 10).
const SeedSize = 11

const noPrefix = -1

type edge struct {
	prefix int
	symbol byte
}

// entry describes one string in the table as its longest proper prefix (another
// code) plus one final symbol.
type entry struct {
	prefix int
	last   byte
	first  byte
	length int
}

// Table is the LZW string table. Strings are stored as a trie: each code maps a
// (prefix code, symbol) pair to a new code, so lookup and insertion never copy
// strings.
//
// One table is shared by every row of every channel in an image. Encoder and
// decoder grow their tables in lockstep, so rows must be processed in the same
// order on both sides.
type Table struct {
	children map[edge]int
	entries  []entry
}

// NewTable returns a table holding only the seed entries.
func NewTable() *Table {
	table := &Table{
		children: make(map[edge]int),
		entries:  make([]entry, 0, 1024),
	}
	for digit := byte('0'); digit <= '9'; digit++ {
		table.entries = append(
			table.entries, entry{prefix: noPrefix, last: digit, first: digit, length: 1})
	}
	table.entries = append(
		table.entries,
		entry{prefix: noPrefix, last: Separator, first: Separator, length: 1},
	)
	return table
}

// seedCode returns the code for a single-symbol string.
func seedCode(symbol byte) (int, error) {
	switch {
	case symbol >= '0' && symbol <= '9':
		return int(symbol - '0'), nil
	case symbol == Separator:
		return SeedSize - 1, nil
	}
	return 0, pixcodec.ErrInvalidArgument.WithMessage(
		fmt.Sprintf("symbol %q isn't in the alphabet", symbol))
}

// Next returns the code the next inserted string will get. This is also the
// number of entries in the table.
func (table *Table) Next() int {
	return len(table.entries)
}

// Lookup returns the code of the string made of `prefix`'s string followed by
// `symbol`, and false if the table doesn't have it.
func (table *Table) Lookup(prefix int, symbol byte) (int, bool) {
	code, ok := table.children[edge{prefix: prefix, symbol: symbol}]
	return code, ok
}

// Has returns true if `code` is in the table.
func (table *Table) Has(code int) bool {
	return code >= 0 && code < len(table.entries)
}

// Expand returns the string for a code. An unknown code means the table is out
// of sync with whatever produced it.
func (table *Table) Expand(code int) ([]byte, error) {
	if !table.Has(code) {
		return nil, pixcodec.ErrDictionaryDesync.WithMessage(
			fmt.Sprintf("code %d not in table (next code is %d)", code, table.Next()))
	}

	output := make([]byte, table.entries[code].length)
	for i := len(output) - 1; i >= 0; i-- {
		output[i] = table.entries[code].last
		code = table.entries[code].prefix
	}
	return output, nil
}

// first returns the first symbol of a code's string. The code must exist.
func (table *Table) first(code int) byte {
	return table.entries[code].first
}

// add inserts the string `prefix`+`symbol` and returns its code. If the string
// is already present the existing trie edge is kept, but a new code is still
// allocated so the table keeps counting the same way the encoder did.
func (table *Table) add(prefix int, symbol byte) int {
	code := len(table.entries)
	parent := table.entries[prefix]
	table.entries = append(
		table.entries,
		entry{prefix: prefix, last: symbol, first: parent.first, length: parent.length + 1},
	)

	key := edge{prefix: prefix, symbol: symbol}
	if _, exists := table.children[key]; !exists {
		table.children[key] = code
	}
	return code
}
