package huffman_test

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/huffman"
	"github.com/dargueta/pixcodec/entropy"
	"github.com/dargueta/pixcodec/pixels"
	pixtest "github.com/dargueta/pixcodec/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCode(t *testing.T, table *huffman.CodeTable, symbol byte, expected string) {
	code, ok := table.Get(symbol)
	require.Truef(t, ok, "symbol %d has no code", symbol)
	assert.Equalf(t, expected, code.String(), "wrong code for symbol %d", symbol)
}

// parseCode turns a string of '0' and '1' characters into a code.
func parseCode(s string) huffman.Code {
	code := huffman.Code{}
	for _, c := range s {
		code = code.Append(uint8(c - '0'))
	}
	return code
}

// Frequencies A:5, B:2, C:9. B and A merge first (B on the left), then that
// node merges with C.
func TestBuildTree__ThreeSymbols(t *testing.T) {
	symbols := []byte("AAAAABBCCCCCCCCC")
	tree := huffman.BuildTree(entropy.NewHistogram(symbols))

	assert.EqualValues(t, 5, tree.Len(), "tree should have 3 leaves and 2 internal nodes")
	assert.EqualValues(t, 16, tree.Frequency(tree.Root()))
	assert.False(t, tree.IsLeaf(tree.Root()))

	table := tree.CodeTable()
	assert.EqualValues(t, 3, table.Len())
	requireCode(t, table, 'C', "1")
	requireCode(t, table, 'B', "00")
	requireCode(t, table, 'A', "01")
	assert.True(t, table.IsPrefixFree())
}

func TestBuildTree__TiesFollowSymbolOrder(t *testing.T) {
	table := huffman.BuildCodeTable([]byte{3, 2, 1, 0})
	requireCode(t, table, 0, "00")
	requireCode(t, table, 1, "01")
	requireCode(t, table, 2, "10")
	requireCode(t, table, 3, "11")

	// Order of appearance in the input doesn't matter, only counts do.
	again := huffman.BuildCodeTable([]byte{0, 1, 2, 3})
	assert.Equal(t, table.Lengths(), again.Lengths())
	for _, s := range table.Symbols() {
		requireCode(t, again, s, mustGet(t, table, s).String())
	}
}

func mustGet(t *testing.T, table *huffman.CodeTable, symbol byte) huffman.Code {
	code, ok := table.Get(symbol)
	require.Truef(t, ok, "symbol %d has no code", symbol)
	return code
}

func TestBuildTree__SingleSymbol(t *testing.T) {
	tree := huffman.BuildTree(entropy.NewHistogram([]byte{42, 42, 42}))
	assert.EqualValues(t, 1, tree.Len())
	assert.True(t, tree.IsLeaf(tree.Root()))

	table := tree.CodeTable()
	assert.EqualValues(t, 1, table.Len())
	requireCode(t, table, 42, "0")
}

func TestBuildTree__Empty(t *testing.T) {
	tree := huffman.BuildTree(entropy.NewHistogram(nil))
	assert.EqualValues(t, -1, tree.Root())
	assert.EqualValues(t, 0, tree.CodeTable().Len())
}

func TestCodeTable__PrefixFreeRandom(t *testing.T) {
	for _, alphabet := range []int{2, 3, 17, 100, 256} {
		symbols := make([]byte, 5000)
		for i := range symbols {
			// Skew the distribution so code lengths differ.
			symbols[i] = byte(rand.Intn(alphabet) * rand.Intn(2))
		}

		table := huffman.BuildCodeTable(symbols)
		assert.Truef(t, table.IsPrefixFree(), "table for alphabet %d isn't prefix-free", alphabet)

		payload, bits, err := huffman.EncodeSymbols(symbols, table)
		require.NoError(t, err)
		assert.EqualValues(t, (bits+7)/8, len(payload))

		decoded, bitsRead, err := huffman.DecodeSymbols(payload, table, len(symbols))
		require.NoError(t, err)
		assert.Equal(t, bits, bitsRead)
		assert.True(t, bytes.Equal(symbols, decoded), "decoded symbols differ")
	}
}

func TestCodeTable__IsPrefixFree(t *testing.T) {
	table := huffman.NewCodeTable()
	table.Set(1, parseCode("0"))
	table.Set(2, parseCode("10"))
	assert.True(t, table.IsPrefixFree())

	table.Set(3, parseCode("101"))
	assert.False(t, table.IsPrefixFree())
}

func TestEncodeSymbols__MissingSymbol(t *testing.T) {
	table := huffman.BuildCodeTable([]byte{1, 2})
	_, _, err := huffman.EncodeSymbols([]byte{1, 3}, table)
	assert.ErrorIs(t, err, pixcodec.ErrInvalidArgument)
}

func TestDecodeSymbols__PaddingNotDecoded(t *testing.T) {
	table := huffman.NewCodeTable()
	table.Set(7, parseCode("0"))
	table.Set(9, parseCode("1"))

	// Three symbols followed by five zero bits that would decode as 7s.
	decoded, bitsRead, err := huffman.DecodeSymbols([]byte{0b10100000}, table, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 7, 9}, decoded)
	assert.EqualValues(t, 3, bitsRead)
}

func TestDecodeSymbols__Truncated(t *testing.T) {
	table := huffman.NewCodeTable()
	table.Set(1, parseCode("00"))
	table.Set(2, parseCode("01"))
	table.Set(3, parseCode("1"))

	_, _, err := huffman.DecodeSymbols([]byte{0x00}, table, 5)
	assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)
}

func TestDecodeSymbols__DanglingCode(t *testing.T) {
	// "11" isn't a code and isn't the prefix of one.
	table := huffman.NewCodeTable()
	table.Set(1, parseCode("0"))
	table.Set(2, parseCode("10"))

	_, _, err := huffman.DecodeSymbols([]byte{0b11000000}, table, 2)
	assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)
}

func TestChannel__RoundTrip(t *testing.T) {
	channel := pixtest.CreateRandomChannel(13, 7, t)
	table, payload, err := huffman.EncodeChannel(channel)
	require.NoError(t, err)

	decoded, err := huffman.DecodeChannel(table, payload, 13, 7)
	require.NoError(t, err)
	assert.Equal(t, channel, decoded)
}

func TestChannel__Constant(t *testing.T) {
	channel := pixtest.CreateConstantChannel(10, 10, 200)
	table, payload, err := huffman.EncodeChannel(channel)
	require.NoError(t, err)

	assert.EqualValues(t, 1, table.Len())
	requireCode(t, table, 200, "0")
	assert.Equal(t, make([]byte, 13), payload, "100 zero bits should take 13 bytes")

	decoded, err := huffman.DecodeChannel(table, payload, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, channel, decoded)
}

func TestEncodeImage__Layout(t *testing.T) {
	img, err := pixels.FromSamples(1, 1, 3, []byte{1, 1, 2})
	require.NoError(t, err)

	container, err := huffman.EncodeImage(img)
	require.NoError(t, err)

	expected := []byte{
		0, 0, 0, 1, // width
		0, 0, 0, 1, // height
		3,          // channels
		0, 0, 0, 2, // table size
		1, 1, 0x01, // symbol 1 -> "1"
		2, 1, 0x00, // symbol 2 -> "0"
		0b11000000, // 1 1 0, padded
	}
	assert.Equal(t, expected, container)

	decoded, err := huffman.DecodeImage(container)
	require.NoError(t, err)
	assert.True(t, img.Equal(decoded))
}

func TestImage__RoundTrip(t *testing.T) {
	images := map[string]*pixels.Image{
		"random":   pixtest.CreateRandomImage(31, 17, t),
		"banded":   pixtest.CreateBandedImage(40, 12),
		"constant": pixels.New(6, 6),
		"empty":    pixels.New(0, 0),
	}

	for name, img := range images {
		t.Run(name, func(t *testing.T) {
			container, err := huffman.EncodeImage(img)
			require.NoError(t, err)

			decoded, err := huffman.DecodeImage(container)
			require.NoError(t, err)
			assert.True(t, img.Equal(decoded), "decoded image differs")
		})
	}
}

func TestReadContainer__CodePacking(t *testing.T) {
	table := huffman.NewCodeTable()
	table.Set(5, parseCode("0000000001"))
	table.Set(6, parseCode("1"))
	table.Set(7, parseCode("000000001"))

	buffer := bytes.Buffer{}
	written, err := huffman.WriteContainer(
		&buffer,
		&huffman.Container{Width: 2, Height: 1, Channels: 3, Table: table, Payload: []byte{0xAB}},
	)
	require.NoError(t, err)
	assert.EqualValues(t, buffer.Len(), written)
	assert.Equal(t, []byte{5, 10, 0x00, 0x01}, buffer.Bytes()[13:17])

	container, err := huffman.ReadContainer(&buffer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, container.Width)
	assert.EqualValues(t, 1, container.Height)
	assert.EqualValues(t, 3, container.Channels)
	assert.EqualValues(t, 6, container.SymbolCount())
	assert.Equal(t, []byte{0xAB}, container.Payload)
	requireCode(t, container.Table, 5, "0000000001")
	requireCode(t, container.Table, 6, "1")
	requireCode(t, container.Table, 7, "000000001")
}

func header(width, height byte, tableSize byte) []byte {
	return []byte{0, 0, 0, width, 0, 0, 0, height, 3, 0, 0, 0, tableSize}
}

func TestDecodeImage__Padding(t *testing.T) {
	// 8x1 image of one value: 24 one-bit codes fill exactly three bytes.
	base := append(header(8, 1, 1), 7, 1, 0x00, 0, 0, 0)

	decoded, err := huffman.DecodeImage(base)
	require.NoError(t, err)
	assert.EqualValues(t, 7, decoded.At(0, 5, pixcodec.ChannelGreen))

	// One extra zero byte is accepted when the codes end on a byte boundary.
	_, err = huffman.DecodeImage(append(append([]byte{}, base...), 0))
	assert.NoError(t, err)

	_, err = huffman.DecodeImage(append(append([]byte{}, base...), 1))
	assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)

	_, err = huffman.DecodeImage(append(append([]byte{}, base...), 0, 0))
	assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)
}

func TestDecodeImage__LegacyZeroLengthCode(t *testing.T) {
	data := append(header(1, 1, 1), 9, 0, 0x00)
	decoded, err := huffman.DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9}, decoded.Samples())
}

func TestDecodeImage__Corrupt(t *testing.T) {
	tests := map[string][]byte{
		"short header":       {0, 0, 0, 1, 0, 0},
		"table too big":      {0, 0, 0, 1, 0, 0, 0, 1, 3, 0, 0, 1, 0x2c},
		"truncated entry":    append(header(1, 1, 2), 1),
		"truncated code":     append(header(1, 1, 1), 1, 9, 0),
		"duplicate symbol":   append(header(1, 1, 2), 1, 1, 0, 1, 1, 1, 0),
		"high bits set":      append(header(1, 1, 1), 1, 1, 0x02, 0),
		"prefix collision":   append(header(1, 1, 2), 1, 1, 0, 2, 2, 0x01, 0),
		"identical codes":    append(header(1, 1, 2), 1, 1, 0, 2, 1, 0, 0),
		"zero length in two": append(header(1, 1, 2), 1, 0, 2, 1, 1, 0),
		"missing payload":    append(header(4, 4, 1), 1, 1, 0),
		"trailing garbage":   append(header(1, 1, 1), 1, 1, 0, 0, 0xFF),
		"empty table":        header(1, 1, 0),
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := huffman.DecodeImage(data)
			assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)
		})
	}
}

func TestDecodeImage__WrongChannelCount(t *testing.T) {
	for _, channels := range []byte{0, 1, 4, 255} {
		data := []byte{0, 0, 0, 1, 0, 0, 0, 1, channels, 0, 0, 0, 1, 4, 1, 0, 0}
		_, err := huffman.DecodeImage(data)
		assert.ErrorIsf(t, err, pixcodec.ErrCorruptContainer, "%d channels", channels)
	}
}

func TestCodec__FileRoundTrip(t *testing.T) {
	img := pixtest.CreateBandedImage(50, 20)
	inputPath := pixtest.WriteImageFile(t, img, "banded.png")
	containerPath := filepath.Join(t.TempDir(), "banded.huf")
	outputPath := filepath.Join(t.TempDir(), "decoded.png")

	codec := huffman.Codec{}
	assert.Equal(t, "huffman", codec.Name())

	metrics, err := codec.Compress(inputPath, containerPath)
	require.NoError(t, err)
	assert.Greater(t, metrics.CompressedSize, int64(0))
	assert.Greater(t, metrics.Entropy, 0.0)
	assert.LessOrEqual(t, metrics.Entropy, entropy.MaxByteEntropy)
	// A Huffman code is within one bit of the entropy.
	assert.GreaterOrEqual(t, metrics.Redundancy, -1e-9)
	assert.Less(t, metrics.Redundancy, 1.0)
	assert.Equal(t, string(entropy.Coding), metrics.RedundancyKind)

	container, err := huffman.ReadContainer(pixtest.LoadContainer(t, containerPath))
	require.NoError(t, err)
	assert.EqualValues(t, 50, container.Width)
	assert.EqualValues(t, 20, container.Height)

	// Redundancy is measured against the table actually stored in the container.
	histogram := entropy.NewHistogram(img.Samples())
	assert.InDelta(
		t,
		entropy.AverageCodeLength(histogram, container.Table.Lengths())-metrics.Entropy,
		metrics.Redundancy,
		1e-12,
	)

	decoded, err := codec.Decompress(
		containerPath, outputPath, &pixcodec.ShapeHint{Width: 50, Height: 20, Channels: 3})
	require.NoError(t, err)
	assert.True(t, img.Equal(decoded))

	saved, err := pixels.Load(outputPath)
	require.NoError(t, err)
	assert.True(t, img.Equal(saved))
}

func TestCodec__MissingInput(t *testing.T) {
	_, err := huffman.Codec{}.Compress(
		filepath.Join(t.TempDir(), "missing.png"), filepath.Join(t.TempDir(), "out.huf"))
	assert.ErrorIs(t, err, pixcodec.ErrSourceNotFound)

	_, err = huffman.Codec{}.Decompress(filepath.Join(t.TempDir(), "missing.huf"), "", nil)
	assert.ErrorIs(t, err, pixcodec.ErrSourceNotFound)
}
