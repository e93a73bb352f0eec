package huffman

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/pixels"
)

// headerSize is the size of the fixed part of the container: width (4), height
// (4), channels (1), table size (4).
const headerSize = 13

// maxSymbols caps the number of samples a container may declare, so a corrupt
// header can't make the decoder allocate an absurd amount of memory.
const maxSymbols = math.MaxInt32

// Container is the parsed form of a Huffman container file. The layout, all
// integers big-endian:
//
//	width:u32 height:u32 channels:u8 tableSize:u32
//	tableSize × { symbol:u8 codeLen:u8 code:ceil(codeLen/8) bytes }
//	payload
//
// Each code is stored as an unsigned integer whose most significant bit is the
// first bit of the code. The payload is every sample's code, packed MSB-first
// and zero-padded to a whole byte.
type Container struct {
	Width    uint32
	Height   uint32
	Channels uint8
	Table    *CodeTable
	Payload  []byte
}

// SymbolCount returns the number of samples the payload holds, derived from the
// dimensions.
func (c *Container) SymbolCount() uint64 {
	return uint64(c.Width) * uint64(c.Height) * uint64(c.Channels)
}

// packCode stores a code as a big-endian integer in the fewest whole bytes.
func packCode(code Code) []byte {
	packed := make([]byte, (len(code)+7)/8)
	for i, bit := range code {
		significance := len(code) - 1 - i
		packed[len(packed)-1-significance/8] |= bit << (significance % 8)
	}
	return packed
}

// unpackCode is the inverse of packCode. Bits above the code's length must be
// zero.
func unpackCode(packed []byte, length int) (Code, error) {
	code := make(Code, length)
	for i := range code {
		significance := length - 1 - i
		code[i] = (packed[len(packed)-1-significance/8] >> (significance % 8)) & 0x01
	}

	if length%8 != 0 && len(packed) > 0 {
		if packed[0]>>(length%8) != 0 {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("code bytes %x have bits set beyond length %d", packed, length))
		}
	}
	return code, nil
}

// WriteContainer serializes the container. Table entries are written in
// ascending symbol order. It returns the number of bytes written.
func WriteContainer(output io.Writer, container *Container) (int64, error) {
	buffer := bytes.Buffer{}
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header[0:4], container.Width)
	binary.BigEndian.PutUint32(header[4:8], container.Height)
	header[8] = container.Channels
	binary.BigEndian.PutUint32(header[9:13], uint32(container.Table.Len()))
	buffer.Write(header)

	for _, symbol := range container.Table.Symbols() {
		code, _ := container.Table.Get(symbol)
		if len(code) > math.MaxUint8 {
			return 0, pixcodec.ErrNotSupported.WithMessage(
				fmt.Sprintf("code for symbol %d is %d bits long, max is 255", symbol, len(code)))
		}
		buffer.WriteByte(symbol)
		buffer.WriteByte(byte(len(code)))
		buffer.Write(packCode(code))
	}
	buffer.Write(container.Payload)

	n, err := output.Write(buffer.Bytes())
	if err != nil {
		return int64(n), pixcodec.ErrIOFailed.Wrap(err)
	}
	return int64(n), nil
}

// ReadContainer parses a container. It checks that the header and code table
// fit in the data, and that no symbol appears twice; the payload is checked
// when it's decoded.
func ReadContainer(input io.Reader) (*Container, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, pixcodec.ErrIOFailed.Wrap(err)
	}
	if len(data) < headerSize {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf("container is %d bytes, too small for the %d-byte header", len(data), headerSize))
	}

	container := &Container{
		Width:    binary.BigEndian.Uint32(data[0:4]),
		Height:   binary.BigEndian.Uint32(data[4:8]),
		Channels: data[8],
		Table:    NewCodeTable(),
	}
	tableSize := binary.BigEndian.Uint32(data[9:13])
	if tableSize > 256 {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf("table claims %d entries but there are only 256 symbols", tableSize))
	}

	offset := headerSize
	for i := uint32(0); i < tableSize; i++ {
		if offset+2 > len(data) {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("data ends inside table entry %d of %d", i, tableSize))
		}
		symbol := data[offset]
		codeLength := int(data[offset+1])
		offset += 2

		codeBytes := (codeLength + 7) / 8
		if offset+codeBytes > len(data) {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("data ends inside the code for symbol %d", symbol))
		}
		if container.Table.Has(symbol) {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("symbol %d appears in the table more than once", symbol))
		}

		code, err := unpackCode(data[offset:offset+codeBytes], codeLength)
		if err != nil {
			return nil, err
		}
		container.Table.Set(symbol, code)
		offset += codeBytes
	}

	container.Payload = data[offset:]
	return container, nil
}

// EncodeImage builds one code table over every sample in the image (all three
// channels interleaved) and returns the complete container.
func EncodeImage(img *pixels.Image) ([]byte, error) {
	data, _, err := encodeImage(img)
	return data, err
}

// encodeImage is [EncodeImage], also returning the code table it built.
func encodeImage(img *pixels.Image) ([]byte, *CodeTable, error) {
	if uint64(img.Width) > math.MaxUint32 || uint64(img.Height) > math.MaxUint32 {
		return nil, nil, pixcodec.ErrNotSupported.WithMessage(
			fmt.Sprintf("image dimensions %dx%d don't fit in the header", img.Width, img.Height))
	}

	symbols := img.Samples()
	table := BuildCodeTable(symbols)
	payload, _, err := EncodeSymbols(symbols, table)
	if err != nil {
		return nil, nil, err
	}

	buffer := bytes.Buffer{}
	_, err = WriteContainer(
		&buffer,
		&Container{
			Width:    uint32(img.Width),
			Height:   uint32(img.Height),
			Channels: uint8(img.Channels()),
			Table:    table,
			Payload:  payload,
		},
	)
	if err != nil {
		return nil, nil, err
	}
	return buffer.Bytes(), table, nil
}

// DecodeImage is the inverse of [EncodeImage]. Exactly width×height×channels
// samples are decoded. The payload may not extend past the byte holding the
// last code bit, except for a single zero byte when the codes ended exactly on
// a byte boundary; some older encoders always appended a padding byte.
func DecodeImage(data []byte) (*pixels.Image, error) {
	container, err := ReadContainer(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if container.Channels != pixcodec.NumChannels {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"header says %d channels, expected %d",
				container.Channels,
				pixcodec.NumChannels,
			),
		)
	}

	// Checking the pixel count first keeps the multiplication from overflowing.
	pixelCount := uint64(container.Width) * uint64(container.Height)
	if pixelCount > maxSymbols/pixcodec.NumChannels {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"header declares %dx%dx%d samples, more than the limit of %d",
				container.Width,
				container.Height,
				container.Channels,
				maxSymbols,
			),
		)
	}

	count := container.SymbolCount()
	samples, bitsRead, err := DecodeSymbols(container.Payload, container.Table, int(count))
	if err != nil {
		return nil, err
	}

	consumed := int((bitsRead + 7) / 8)
	extra := container.Payload[consumed:]
	legacyPadding := len(extra) == 1 && extra[0] == 0 && bitsRead%8 == 0
	if len(extra) != 0 && !legacyPadding {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"%d bytes left in the payload after decoding %d samples",
				len(extra),
				count,
			),
		)
	}

	return pixels.FromSamples(
		int(container.Width), int(container.Height), int(container.Channels), samples)
}
