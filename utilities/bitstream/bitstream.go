// Package bitstream reads and writes bit sequences packed MSB-first: the first
// bit written is the most significant bit of the first byte.
package bitstream

import (
	"io"
)

// Writer accumulates bits into a growing byte slice.
type Writer struct {
	data   []byte
	length uint64
}

// NewWriter creates an empty writer. `sizeHint` preallocates space for that many
// bits and may be 0.
func NewWriter(sizeHint uint64) *Writer {
	return &Writer{data: make([]byte, 0, (sizeHint+7)/8)}
}

// WriteBit appends a single bit. Only the lowest bit of `bit` is used.
func (w *Writer) WriteBit(bit uint8) {
	bitPosition := w.length % 8
	if bitPosition == 0 {
		w.data = append(w.data, 0)
	}
	w.data[len(w.data)-1] |= (bit & 0x01) << (7 - bitPosition)
	w.length++
}

// WriteBits appends each element of `bits` as one bit, in order.
func (w *Writer) WriteBits(bits []uint8) {
	for _, b := range bits {
		w.WriteBit(b)
	}
}

// Len returns the number of bits written so far.
func (w *Writer) Len() uint64 {
	return w.length
}

// Bytes returns the packed bits. Unused bits in the last byte are zero. The
// slice is shared with the writer until the next write.
func (w *Writer) Bytes() []byte {
	return w.data
}

// Reader reads bits from a byte slice.
type Reader struct {
	data     []byte
	position uint64
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBit returns the next bit, or io.EOF if every bit has been read.
func (r *Reader) ReadBit() (uint8, error) {
	if r.BitsLeft() == 0 {
		return 0, io.EOF
	}
	bit := (r.data[r.position/8] >> (7 - r.position%8)) & 0x01
	r.position++
	return bit, nil
}

// Tell returns the number of bits read so far.
func (r *Reader) Tell() uint64 {
	return r.position
}

// BitsLeft returns the number of unread bits, including any padding.
func (r *Reader) BitsLeft() uint64 {
	return uint64(len(r.data))*8 - r.position
}

