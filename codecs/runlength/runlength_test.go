package runlength_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/runlength"
	"github.com/dargueta/pixcodec/entropy"
	"github.com/dargueta/pixcodec/pixels"
	pixtest "github.com/dargueta/pixcodec/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRow__Basic(t *testing.T) {
	runs := runlength.EncodeRow([]byte{5, 5, 5, 2, 2, 9})
	assert.Equal(
		t,
		[]runlength.Run{{Byte: 5, RunLength: 3}, {Byte: 2, RunLength: 2}, {Byte: 9, RunLength: 1}},
		runs,
	)
	assert.Equal(t, "5,3 2,2 9,1", runlength.FormatRow(runs))

	parsed, err := runlength.ParseRow("5,3 2,2 9,1")
	require.NoError(t, err)
	row, err := runlength.DecodeRow(parsed)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 5, 5, 2, 2, 9}, row)
}

func TestEncodeRow__Invariants(t *testing.T) {
	channel := pixtest.CreateRandomChannel(40, 1, t)
	// Force some runs.
	copy(channel[0][10:20], bytes.Repeat([]byte{77}, 10))

	runs := runlength.EncodeRow(channel[0])
	total := 0
	for i, run := range runs {
		assert.GreaterOrEqualf(t, run.RunLength, 1, "run %d is empty", i)
		if i > 0 {
			assert.NotEqualf(t, runs[i-1].Byte, run.Byte, "runs %d and %d should have been merged", i-1, i)
		}
		total += run.RunLength
	}
	assert.Equal(t, 40, total)
}

func TestChannel__RowsDontShareRuns(t *testing.T) {
	channel := pixtest.CreateConstantChannel(4, 3, 8)
	rows, err := runlength.EncodeChannel(channel)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, runs := range rows {
		assert.Equal(t, []runlength.Run{{Byte: 8, RunLength: 4}}, runs)
	}

	decoded, err := runlength.DecodeChannel(rows)
	require.NoError(t, err)
	assert.Equal(t, channel, decoded)
}

func TestDecodeChannel__UnevenRows(t *testing.T) {
	_, err := runlength.DecodeChannel([][]runlength.Run{
		{{Byte: 1, RunLength: 3}},
		{{Byte: 1, RunLength: 2}},
	})
	assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)
}

func TestDecodeRow__ZeroCount(t *testing.T) {
	_, err := runlength.DecodeRow([]runlength.Run{{Byte: 1, RunLength: 0}})
	assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)
}

func TestParseRow__Invalid(t *testing.T) {
	tests := map[string]string{
		"no comma":        "5",
		"value too big":   "256,1",
		"zero count":      "5,0",
		"negative count":  "5,-1",
		"not numeric":     "a,b",
		"double space":    "5,1  6,1",
		"trailing space":  "5,1 ",
		"extra separator": "5,1,2",
		"huge count":      "5,99999999999",
	}

	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runlength.ParseRow(line)
			assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)
		})
	}
}

func TestImage__RoundTrip(t *testing.T) {
	images := map[string]*pixels.Image{
		"random":   pixtest.CreateRandomImage(17, 13, t),
		"banded":   pixtest.CreateBandedImage(70, 8),
		"constant": pixels.New(5, 5),
	}

	for name, img := range images {
		t.Run(name, func(t *testing.T) {
			container, err := runlength.EncodeImage(img)
			require.NoError(t, err)

			rows, err := runlength.ReadContainer(bytes.NewReader(container))
			require.NoError(t, err)
			assert.Len(t, rows, 3*img.Height)

			decoded, err := runlength.DecodeImage(container)
			require.NoError(t, err)
			assert.True(t, img.Equal(decoded), "decoded image differs")
		})
	}
}

func TestEncodeImage__ChannelOrder(t *testing.T) {
	img, err := pixels.FromSamples(2, 1, 3, []byte{1, 2, 3, 1, 2, 4})
	require.NoError(t, err)

	container, err := runlength.EncodeImage(img)
	require.NoError(t, err)
	assert.Equal(t, "1,2\n2,2\n3,1 4,1\n", string(container))
}

func TestDecodeImage__Corrupt(t *testing.T) {
	tests := map[string]string{
		"uneven channels": "1,2\n2,2\n",
		"uneven rows":     "1,2\n1,3\n2,2\n2,2\n3,2\n3,2\n",
		"bad token":       "1,2\n2,2\n3\n",
		"unterminated":    "1,2\n2,2\n3,2",
		"too wide":        "1,16777217\n1,1\n1,1\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runlength.DecodeImage([]byte(data))
			assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)
		})
	}
}

func TestCodec__FileRoundTrip(t *testing.T) {
	img := pixtest.CreateBandedImage(45, 15)
	inputPath := pixtest.WriteImageFile(t, img, "banded.png")
	containerPath := filepath.Join(t.TempDir(), "banded.rle")
	outputPath := filepath.Join(t.TempDir(), "decoded.png")

	codec := runlength.Codec{}
	assert.Equal(t, "rle", codec.Name())

	metrics, err := codec.Compress(inputPath, containerPath)
	require.NoError(t, err)
	assert.InDelta(t, entropy.OfBytes(img.Samples()), metrics.Entropy, 1e-12)
	assert.InDelta(t, 1-metrics.Entropy/8, metrics.Redundancy, 1e-12)
	assert.Equal(t, string(entropy.Relative), metrics.RedundancyKind)

	rows, err := runlength.ReadContainer(pixtest.LoadContainer(t, containerPath))
	require.NoError(t, err)
	assert.Len(t, rows, 45)

	decoded, err := codec.Decompress(
		containerPath, outputPath, &pixcodec.ShapeHint{Width: 45, Height: 15})
	require.NoError(t, err)
	assert.True(t, img.Equal(decoded))

	_, err = codec.Decompress(containerPath, "", &pixcodec.ShapeHint{Width: 44})
	assert.ErrorIs(t, err, pixcodec.ErrCorruptContainer)
}
