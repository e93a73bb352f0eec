package dictionary

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
	"github.com/dargueta/pixcodec/pixels"
)

// Stringify writes each value in decimal, separated by [Separator]. This is the
// symbol sequence the dictionary actually compresses.
func Stringify(values []byte) []byte {
	output := make([]byte, 0, len(values)*4)
	for i, v := range values {
		if i > 0 {
			output = append(output, Separator)
		}
		output = strconv.AppendUint(output, uint64(v), 10)
	}
	return output
}

// Parse is the inverse of [Stringify]. Every field must be a decimal number from
// 0 to 255.
func Parse(symbols []byte) ([]byte, error) {
	if len(symbols) == 0 {
		return []byte{}, nil
	}

	fields := bytes.Split(symbols, []byte{Separator})
	values := make([]byte, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseUint(string(field), 10, 8)
		if err != nil {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("field %d (%q) isn't a sample value", i, field))
		}
		values[i] = byte(value)
	}
	return values, nil
}

// EncodeRow stringifies one row of samples and compresses it, adding new strings
// to `table` as it goes. The match never crosses into the next row: the last
// match is emitted at the end of the row without being extended.
func EncodeRow(table *Table, values []byte) []int {
	symbols := Stringify(values)
	if len(symbols) == 0 {
		return []int{}
	}

	codes := make([]int, 0, len(symbols)/2+1)
	// Stringify only produces symbols in the alphabet.
	current, _ := seedCode(symbols[0])

	for _, symbol := range symbols[1:] {
		extended, ok := table.Lookup(current, symbol)
		if ok {
			current = extended
			continue
		}
		codes = append(codes, current)
		table.add(current, symbol)
		current, _ = seedCode(symbol)
	}
	return append(codes, current)
}

// DecodeRow is the inverse of [EncodeRow]. `table` must be in the same state the
// encoder's table was in when it started this row.
//
// The first code of a row only produces output. Each following code also adds
// the previous string plus the first symbol of the current one. A code one past
// the end of the table can only be the string the encoder was about to add, so
// it's rebuilt from the previous string.
func DecodeRow(table *Table, codes []int) ([]byte, error) {
	if len(codes) == 0 {
		return []byte{}, nil
	}

	previous := codes[0]
	output, err := table.Expand(previous)
	if err != nil {
		return nil, err
	}

	for _, code := range codes[1:] {
		var current []byte
		switch {
		case table.Has(code):
			current, err = table.Expand(code)
			if err != nil {
				return nil, err
			}
			table.add(previous, current[0])
		case code == table.Next():
			table.add(previous, table.first(previous))
			current, err = table.Expand(code)
			if err != nil {
				return nil, err
			}
		default:
			return nil, pixcodec.ErrDictionaryDesync.WithMessage(
				fmt.Sprintf("code %d is past the end of the table (next code is %d)", code, table.Next()))
		}

		output = append(output, current...)
		previous = code
	}

	return Parse(output)
}

// EncodeChannels compresses every row of every plane with one shared table, in
// [pixcodec.ChannelOrder]. It returns one code sequence per row: all rows of the
// first plane, then the second, then the third.
func EncodeChannels(planes [pixcodec.NumChannels]pixels.Channel) ([][]int, error) {
	table := NewTable()
	rows := make([][]int, 0, len(planes[0])*pixcodec.NumChannels)

	for _, ch := range pixcodec.ChannelOrder {
		err := planes[ch].Validate()
		if err != nil {
			return nil, fmt.Errorf("%s plane: %w", ch, err)
		}
		for _, row := range planes[ch] {
			rows = append(rows, EncodeRow(table, row))
		}
	}
	return rows, nil
}

// DecodeChannels is the inverse of [EncodeChannels]. The rows must be in the
// order they were encoded in.
func DecodeChannels(rows [][]int) ([pixcodec.NumChannels]pixels.Channel, error) {
	var planes [pixcodec.NumChannels]pixels.Channel
	table := NewTable()
	decoded := make([][]byte, len(rows))

	for i, codes := range rows {
		values, err := DecodeRow(table, codes)
		if err != nil {
			return planes, fmt.Errorf("row %d: %w", i, err)
		}
		decoded[i] = values
	}
	return common.SplitChannels(decoded)
}
