package huffman

import (
	"strings"

	"github.com/boljen/go-bitmap"
)

// Code is a sequence of bits, one per element, each 0 or 1.
type Code []uint8

// Append returns a new code with `bit` added to the end. The receiver is not
// modified.
func (c Code) Append(bit uint8) Code {
	extended := make(Code, len(c)+1)
	copy(extended, c)
	extended[len(c)] = bit & 0x01
	return extended
}

// HasPrefix returns true if `prefix` is a prefix of c. Every code is a prefix of
// itself.
func (c Code) HasPrefix(prefix Code) bool {
	if len(prefix) > len(c) {
		return false
	}
	for i := range prefix {
		if c[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (c Code) String() string {
	builder := strings.Builder{}
	for _, bit := range c {
		builder.WriteByte('0' + bit)
	}
	return builder.String()
}

// CodeTable maps byte symbols to their codes.
type CodeTable struct {
	codes   [256]Code
	present bitmap.Bitmap
	size    int
}

func NewCodeTable() *CodeTable {
	return &CodeTable{present: bitmap.New(256)}
}

// Set assigns a code to a symbol, replacing any previous code.
func (table *CodeTable) Set(symbol byte, code Code) {
	if !table.present.Get(int(symbol)) {
		table.present.Set(int(symbol), true)
		table.size++
	}
	table.codes[symbol] = code
}

// Get returns the code for a symbol, and false if the symbol has none.
func (table *CodeTable) Get(symbol byte) (Code, bool) {
	if !table.present.Get(int(symbol)) {
		return nil, false
	}
	return table.codes[symbol], true
}

// Has returns true if the symbol has a code.
func (table *CodeTable) Has(symbol byte) bool {
	return table.present.Get(int(symbol))
}

// Len returns the number of symbols with codes.
func (table *CodeTable) Len() int {
	return table.size
}

// Symbols returns every symbol with a code, in ascending order.
func (table *CodeTable) Symbols() []byte {
	symbols := make([]byte, 0, table.size)
	for s := 0; s < 256; s++ {
		if table.present.Get(s) {
			symbols = append(symbols, byte(s))
		}
	}
	return symbols
}

// Lengths returns the code length of every symbol, 0 for those without a code.
func (table *CodeTable) Lengths() [256]int {
	var lengths [256]int
	for _, s := range table.Symbols() {
		lengths[s] = len(table.codes[s])
	}
	return lengths
}

// IsPrefixFree returns true if no code in the table is a prefix of another,
// including being identical to it.
func (table *CodeTable) IsPrefixFree() bool {
	symbols := table.Symbols()
	for i, a := range symbols {
		for _, b := range symbols[i+1:] {
			codeA := table.codes[a]
			codeB := table.codes[b]
			if codeA.HasPrefix(codeB) || codeB.HasPrefix(codeA) {
				return false
			}
		}
	}
	return true
}
