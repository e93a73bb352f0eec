package huffman

import (
	"fmt"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/entropy"
	"github.com/dargueta/pixcodec/pixels"
	"github.com/dargueta/pixcodec/utilities/bitstream"
)

// EncodeSymbols concatenates the code of each symbol, MSB-first, and pads the
// last byte with zero bits. It returns the packed payload and the number of
// meaningful bits in it.
func EncodeSymbols(symbols []byte, table *CodeTable) ([]byte, uint64, error) {
	writer := bitstream.NewWriter(uint64(len(symbols)) * 8)
	for i, s := range symbols {
		code, ok := table.Get(s)
		if !ok {
			return nil, 0, pixcodec.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("symbol %d at position %d has no code", s, i))
		}
		writer.WriteBits(code)
	}
	return writer.Bytes(), writer.Len(), nil
}

// buildDecodingTree arranges the table's codes into a tree that can be walked
// one bit at a time. It fails if a symbol's code is empty (except in a
// single-symbol table), or if one code is a prefix of another.
func buildDecodingTree(table *CodeTable) (*Tree, error) {
	tree := newEmptyTree()
	tree.root = tree.addBranch()

	for _, symbol := range table.Symbols() {
		code := table.codes[symbol]
		if len(code) == 0 {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("symbol %d has an empty code", symbol))
		}

		current := tree.root
		for depth, bit := range code {
			if tree.nodes[current].leaf {
				return nil, pixcodec.ErrCorruptContainer.WithMessage(
					fmt.Sprintf(
						"code %s for symbol %d extends the code for symbol %d",
						code,
						symbol,
						tree.nodes[current].symbol,
					),
				)
			}

			isLast := depth == len(code)-1
			next := tree.child(current, bit)
			if next == noNode {
				if isLast {
					next = tree.addLeaf(symbol, 0)
				} else {
					next = tree.addBranch()
				}
				tree.setChild(current, bit, next)
			} else if isLast {
				return nil, pixcodec.ErrCorruptContainer.WithMessage(
					fmt.Sprintf("code %s for symbol %d collides with another code", code, symbol))
			}
			current = next
		}
	}
	return tree, nil
}

// DecodeSymbols reads exactly `count` symbols from a payload produced by
// [EncodeSymbols]. It returns the symbols and the number of bits consumed.
// Whatever follows the last symbol is padding and is never decoded.
//
// A table with a single symbol whose code is empty needs no payload at all; the
// symbol is repeated `count` times.
func DecodeSymbols(payload []byte, table *CodeTable, count int) ([]byte, uint64, error) {
	if count == 0 {
		return []byte{}, 0, nil
	}
	if table.Len() == 0 {
		return nil, 0, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf("%d symbols expected but the code table is empty", count))
	}
	if table.Len() == 1 {
		symbol := table.Symbols()[0]
		if len(table.codes[symbol]) == 0 {
			output := make([]byte, count)
			for i := range output {
				output[i] = symbol
			}
			return output, 0, nil
		}
	}

	tree, err := buildDecodingTree(table)
	if err != nil {
		return nil, 0, err
	}

	// Every code is at least one bit long, which bounds how many symbols the
	// payload could possibly hold.
	if uint64(count) > uint64(len(payload))*8 {
		return nil, 0, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"%d symbols expected but the payload only has %d bits",
				count,
				len(payload)*8,
			),
		)
	}

	reader := bitstream.NewReader(payload)
	output := make([]byte, 0, count)
	current := tree.root

	for len(output) < count {
		bit, err := reader.ReadBit()
		if err != nil {
			return nil, reader.Tell(), pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf(
					"payload ran out after %d of %d symbols",
					len(output),
					count,
				),
			)
		}

		current = tree.child(current, bit)
		if current == noNode {
			return nil, reader.Tell(), pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("bit %d doesn't continue any code", reader.Tell()-1))
		}

		if tree.nodes[current].leaf {
			output = append(output, tree.nodes[current].symbol)
			current = tree.root
		}
	}
	return output, reader.Tell(), nil
}

// BuildCodeTable builds the tree for `symbols` and returns its code table.
func BuildCodeTable(symbols []byte) *CodeTable {
	return BuildTree(entropy.NewHistogram(symbols)).CodeTable()
}

// EncodeChannel codes a single channel on its own: the table is built from that
// channel's samples alone.
func EncodeChannel(channel pixels.Channel) (*CodeTable, []byte, error) {
	err := channel.Validate()
	if err != nil {
		return nil, nil, err
	}

	symbols := channel.Flatten()
	table := BuildCodeTable(symbols)
	payload, _, err := EncodeSymbols(symbols, table)
	return table, payload, err
}

// DecodeChannel is the inverse of [EncodeChannel]. The dimensions must be
// supplied since the payload doesn't record them.
func DecodeChannel(
	table *CodeTable, payload []byte, width, height int,
) (pixels.Channel, error) {
	symbols, _, err := DecodeSymbols(payload, table, width*height)
	if err != nil {
		return nil, err
	}

	channel := make(pixels.Channel, height)
	for y := range channel {
		channel[y] = symbols[y*width : (y+1)*width]
	}
	return channel, nil
}
