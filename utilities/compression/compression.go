package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Deflate compresses everything read from the input into a zlib stream on the
// output, using the highest compression level available.
//
// The returned int64 gives the number of uncompressed bytes consumed. If an
// error occurred, the value is undefined and should not be used.
func Deflate(input io.Reader, output io.Writer) (int64, error) {
	zWriter, err := zlib.NewWriterLevel(output, zlib.BestCompression)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(zWriter, input)
	if err != nil {
		zWriter.Close()
		return n, err
	}
	// Close flushes the last block and writes the checksum, so its error matters.
	return n, zWriter.Close()
}

// Inflate takes a zlib stream and decompresses it to the original raw bytes.
//
// The returned int64 gives the number of bytes written to the output (i.e. the
// decompressed size). If an error occurred, the value is undefined and should
// not be used.
func Inflate(input io.Reader, output io.Writer) (int64, error) {
	zReader, err := zlib.NewReader(input)
	if err != nil {
		return 0, err
	}
	defer zReader.Close()
	return io.Copy(output, zReader)
}

// DeflateBytes is a convenience function wrapping [Deflate] for in-memory data.
func DeflateBytes(data []byte) ([]byte, error) {
	buffer := bytes.Buffer{}
	_, err := Deflate(bytes.NewReader(data), &buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// InflateBytes is a convenience function wrapping [Inflate] that returns the
// decompressed data in a new byte slice.
func InflateBytes(input io.Reader) ([]byte, error) {
	buffer := bytes.Buffer{}
	_, err := Inflate(input, &buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// InflateBytesLimit is like [InflateBytes] but stops after `limit`+1 bytes of
// output, so a caller that knows the decompressed size can detect an oversized
// stream by its length without inflating all of it.
func InflateBytesLimit(input io.Reader, limit int64) ([]byte, error) {
	zReader, err := zlib.NewReader(input)
	if err != nil {
		return nil, err
	}
	defer zReader.Close()
	return io.ReadAll(io.LimitReader(zReader, limit+1))
}
