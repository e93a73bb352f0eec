package compression_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	c "github.com/dargueta/pixcodec/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deflateTestRunner struct {
	Name     string
	Function func(t *testing.T, d []byte)
}

type deflateTestData struct {
	Name string
	Data []byte
}

func TestRoundTripDeflate(t *testing.T) {
	testRunners := []deflateTestRunner{
		{"to_stream", runRoundTripDeflateTest},
		{"to_bytes", runRoundTripDeflateToBytesTest},
	}

	randomData := make([]byte, 119)
	rand.Read(randomData)

	testData := []deflateTestData{
		{"homogenous", bytes.Repeat([]byte{100}, 9174)},
		{"empty", []byte{}},
		{"heterogenous", randomData},
	}

	for _, runner := range testRunners {
		t.Run(
			runner.Name,
			func(tSub *testing.T) {
				for _, data := range testData {
					tSub.Run(
						data.Name,
						func(tSubSub *testing.T) {
							runner.Function(tSubSub, data.Data)
						},
					)
				}
			},
		)
	}
}

func runRoundTripDeflateTest(t *testing.T, sourceData []byte) {
	compressed := bytes.Buffer{}
	consumed, err := c.Deflate(bytes.NewReader(sourceData), &compressed)
	require.NoError(t, err, "unexpected error while compressing")
	assert.EqualValues(t, len(sourceData), consumed, "didn't consume all the input")
	t.Logf("size after compression: %d -> %d", len(sourceData), compressed.Len())

	decompressedBuffer := make([]byte, len(sourceData))
	decompressedWriter := bytewriter.New(decompressedBuffer)

	n, err := c.Inflate(bytes.NewReader(compressed.Bytes()), decompressedWriter)
	require.NoError(t, err, "unexpected error while decompressing")
	assert.EqualValues(t, len(sourceData), n, "decompressed data has wrong size")
	assert.Equal(t, sourceData, decompressedBuffer, "decompressed data is wrong")
}

func runRoundTripDeflateToBytesTest(t *testing.T, originalData []byte) {
	compressed, err := c.DeflateBytes(originalData)
	require.NoError(t, err, "error while compressing")
	t.Logf("compressed %d -> %d", len(originalData), len(compressed))

	decompressed, err := c.InflateBytes(bytes.NewReader(compressed))
	require.NoError(t, err, "error while decompressing")

	assert.Equal(
		t, len(originalData), len(decompressed), "decompressed data length is wrong")
	assert.Equal(t, originalData, append([]byte{}, decompressed...), "decompressed data is wrong")
}

func TestInflate__Garbage(t *testing.T) {
	_, err := c.InflateBytes(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	assert.Error(t, err, "inflating garbage should fail")
}

func TestInflateBytesLimit(t *testing.T) {
	compressed, err := c.DeflateBytes(bytes.Repeat([]byte{7}, 100000))
	require.NoError(t, err)

	output, err := c.InflateBytesLimit(bytes.NewReader(compressed), 10)
	require.NoError(t, err)
	assert.Len(t, output, 11, "output should stop one byte past the limit")

	output, err = c.InflateBytesLimit(bytes.NewReader(compressed), 100000)
	require.NoError(t, err)
	assert.Len(t, output, 100000)
}
