// Package deflate is a baseline codec: the raw interleaved samples run through
// zlib at its best compression level. It gives the hand-written codecs a
// general-purpose compressor to be compared against.
//
// Container layout: width:u32BE, height:u32BE, channels:u8, then the zlib
// stream of width×height×channels samples.
package deflate

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
	"github.com/dargueta/pixcodec/entropy"
	"github.com/dargueta/pixcodec/pixels"
	"github.com/dargueta/pixcodec/utilities/compression"
)

// Name is the name the codec is registered under.
const Name = "deflate"

const headerSize = 9

const maxSamples = math.MaxInt32

// EncodeImage returns the container for an image.
func EncodeImage(img *pixels.Image) ([]byte, error) {
	if uint64(img.Width) > math.MaxUint32 || uint64(img.Height) > math.MaxUint32 {
		return nil, pixcodec.ErrNotSupported.WithMessage(
			fmt.Sprintf("image dimensions %dx%d don't fit in the header", img.Width, img.Height))
	}

	buffer := bytes.Buffer{}
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header[0:4], uint32(img.Width))
	binary.BigEndian.PutUint32(header[4:8], uint32(img.Height))
	header[8] = byte(img.Channels())
	buffer.Write(header)

	_, err := compression.Deflate(bytes.NewReader(img.Samples()), &buffer)
	if err != nil {
		return nil, pixcodec.ErrIOFailed.Wrap(err)
	}
	return buffer.Bytes(), nil
}

// DecodeImage is the inverse of [EncodeImage]. The inflated stream must hold
// exactly as many samples as the header says; inflating stops as soon as it
// holds more.
func DecodeImage(data []byte) (*pixels.Image, error) {
	if len(data) < headerSize {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf("container is %d bytes, too small for the %d-byte header", len(data), headerSize))
	}

	width := binary.BigEndian.Uint32(data[0:4])
	height := binary.BigEndian.Uint32(data[4:8])
	channels := data[8]
	if channels != pixcodec.NumChannels {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf("header says %d channels, expected %d", channels, pixcodec.NumChannels))
	}

	pixelCount := uint64(width) * uint64(height)
	if pixelCount > maxSamples/pixcodec.NumChannels {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"header declares %dx%dx%d samples, more than the limit of %d",
				width,
				height,
				channels,
				maxSamples,
			),
		)
	}

	expected := pixelCount * pixcodec.NumChannels
	samples, err := compression.InflateBytesLimit(
		bytes.NewReader(data[headerSize:]), int64(expected))
	if err != nil {
		return nil, pixcodec.ErrCorruptContainer.Wrap(err)
	}

	if uint64(len(samples)) != expected {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"stream has the wrong size for a %dx%dx%d image (%d bytes read)",
				width,
				height,
				channels,
				len(samples),
			),
		)
	}
	return pixels.FromSamples(int(width), int(height), int(channels), samples)
}

// Codec compresses image files into deflate containers.
type Codec struct{}

func (Codec) Name() string {
	return Name
}

// Compress encodes the image at `inputPath` into a container at `outputPath`.
// The original size is the number of raw samples, not the size of the input
// file, so the ratio shows what zlib does to the pixels alone. Entropy is
// measured over the samples; redundancy is scaled by the compression ratio.
func (Codec) Compress(inputPath, outputPath string) (pixcodec.Metrics, error) {
	img, _, metrics, err := common.CompressFile(inputPath, outputPath, EncodeImage)
	if err != nil {
		return metrics, err
	}

	samples := img.Samples()
	metrics.SetSizes(int64(len(samples)), metrics.CompressedSize)
	metrics.Entropy = entropy.OfBytes(samples)
	metrics.Redundancy = entropy.RatioScaledRedundancy(
		metrics.Entropy, entropy.MaxByteEntropy, metrics.CompressionRatio)
	metrics.RedundancyKind = string(entropy.RatioScaled)
	return metrics, nil
}

// Decompress decodes the container at `inputPath`, and if `outputPath` isn't
// empty, saves the image there.
func (Codec) Decompress(
	inputPath, outputPath string, hint *pixcodec.ShapeHint,
) (*pixels.Image, error) {
	return common.DecompressFile(inputPath, outputPath, hint, DecodeImage)
}
