// Package predictive implements lossless predictive coding. Each sample is
// predicted from its already-coded neighbors with the median edge detector
// (MED), and only the prediction error is stored.
//
// Samples in the first row and the first column are predicted as 0, so their
// residual is the sample itself. Every other sample x with left neighbor a, top
// neighbor b and top-left neighbor c, all in the same channel, is predicted as:
//
//	min(a, b)   if c >= max(a, b)
//	max(a, b)   if c <= min(a, b)
//	a + b - c   otherwise
//
// Container layout: width:u32BE, height:u32BE, channels:u8, then a zlib stream
// of width×height×channels residuals, each an int16 in little-endian order,
// interleaved the same way as the image samples.
package predictive

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

// Name is the name the codec is registered and reported under.
const Name = "predictive_coding"

// MaxResidualEntropy is the largest possible entropy of a stream of 16-bit
// residuals, in bits.
const MaxResidualEntropy = 16.0

const headerSize = 9

const residualSize = 2

const maxSamples = math.MaxInt32 / residualSize

// Predict returns the MED prediction for a sample with the given left, top and
// top-left neighbors.
func Predict(left, top, topLeft byte) byte {
	low, high := min(left, top), max(left, top)
	if topLeft >= high {
		return low
	}
	if topLeft <= low {
		return high
	}
	// topLeft is strictly between low and high, so this stays in [low, high].
	return byte(int(left) + int(top) - int(topLeft))
}

func predictionAt(img *pixels.Image, row, col int, ch pixcodec.ChannelID) byte {
	if row == 0 || col == 0 {
		return 0
	}
	return Predict(
		img.At(row, col-1, ch),
		img.At(row-1, col, ch),
		img.At(row-1, col-1, ch),
	)
}

// Residuals returns the prediction error of every sample, in the same order as
// [pixels.Image.Samples]. Each residual is in [-255, 255].
func Residuals(img *pixels.Image) []int16 {
	residuals := make([]int16, 0, len(img.Samples()))
	for row := 0; row < img.Height; row++ {
		for col := 0; col < img.Width; col++ {
			for _, ch := range pixcodec.ChannelOrder {
				predicted := predictionAt(img, row, col, ch)
				residuals = append(residuals, int16(img.At(row, col, ch))-int16(predicted))
			}
		}
	}
	return residuals
}

// Reconstruct is the inverse of [Residuals]. A residual that would take a sample
// outside [0, 255] can't have come from [Residuals], so it's reported as
// [pixcodec.ErrCorruptContainer].
func Reconstruct(width, height int, residuals []int16) (*pixels.Image, error) {
	if width < 0 || height < 0 {
		return nil, pixcodec.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("invalid image dimensions %dx%d", width, height))
	}
	if len(residuals) != width*height*pixcodec.NumChannels {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"got %d residuals, expected %d for a %dx%d image",
				len(residuals),
				width*height*pixcodec.NumChannels,
				width,
				height,
			),
		)
	}

	img := pixels.New(width, height)
	i := 0
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			for _, ch := range pixcodec.ChannelOrder {
				value := int(predictionAt(img, row, col, ch)) + int(residuals[i])
				if value < 0 || value > math.MaxUint8 {
					return nil, pixcodec.ErrCorruptContainer.WithMessage(
						fmt.Sprintf(
							"residual %d at row %d, column %d, channel %s gives sample %d",
							residuals[i],
							row,
							col,
							ch,
							value,
						),
					)
				}
				img.Set(row, col, ch, byte(value))
				i++
			}
		}
	}
	return img, nil
}

// EncodeImage returns the container for an image.
func EncodeImage(img *pixels.Image) ([]byte, error) {
	return encodeResiduals(img, Residuals(img))
}

func encodeResiduals(img *pixels.Image, residuals []int16) ([]byte, error) {
	if uint64(img.Width) > math.MaxUint32 || uint64(img.Height) > math.MaxUint32 {
		return nil, pixcodec.ErrNotSupported.WithMessage(
			fmt.Sprintf("image dimensions %dx%d don't fit in the header", img.Width, img.Height))
	}

	raw := make([]byte, len(residuals)*residualSize)
	for i, r := range residuals {
		binary.LittleEndian.PutUint16(raw[i*residualSize:], uint16(r))
	}

	buffer := bytes.Buffer{}
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header[0:4], uint32(img.Width))
	binary.BigEndian.PutUint32(header[4:8], uint32(img.Height))
	header[8] = byte(img.Channels())
	buffer.Write(header)

	_, err := compression.Deflate(bytes.NewReader(raw), &buffer)
	if err != nil {
		return nil, pixcodec.ErrIOFailed.Wrap(err)
	}
	return buffer.Bytes(), nil
}

// DecodeImage is the inverse of [EncodeImage].
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

	count := pixelCount * pixcodec.NumChannels
	expected := int64(count) * residualSize
	raw, err := compression.InflateBytesLimit(bytes.NewReader(data[headerSize:]), expected)
	if err != nil {
		return nil, pixcodec.ErrCorruptContainer.Wrap(err)
	}
	if int64(len(raw)) != expected {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"residual stream has the wrong size for a %dx%d image (%d bytes read)",
				width,
				height,
				len(raw),
			),
		)
	}

	residuals := make([]int16, count)
	for i := range residuals {
		residuals[i] = int16(binary.LittleEndian.Uint16(raw[i*residualSize:]))
	}
	return Reconstruct(int(width), int(height), residuals)
}

// Codec compresses image files into predictive containers.
type Codec struct{}

func (Codec) Name() string {
	return Name
}

// Compress encodes the image at `inputPath` into a container at `outputPath`.
// Entropy is measured over the residuals; redundancy is the absolute distance
// from the 16-bit maximum.
func (Codec) Compress(inputPath, outputPath string) (pixcodec.Metrics, error) {
	var residuals []int16
	encode := func(img *pixels.Image) ([]byte, error) {
		residuals = Residuals(img)
		return encodeResiduals(img, residuals)
	}

	_, _, metrics, err := common.CompressFile(inputPath, outputPath, encode)
	if err != nil {
		return metrics, err
	}

	metrics.Entropy = entropy.OfValues(residuals)
	metrics.Redundancy = entropy.AbsoluteRedundancy(metrics.Entropy, MaxResidualEntropy)
	metrics.RedundancyKind = string(entropy.Absolute)
	return metrics, nil
}

// Decompress decodes the container at `inputPath`, and if `outputPath` isn't
// empty, saves the image there.
func (Codec) Decompress(
	inputPath, outputPath string, hint *pixcodec.ShapeHint,
) (*pixels.Image, error) {
	return common.DecompressFile(inputPath, outputPath, hint, DecodeImage)
}
