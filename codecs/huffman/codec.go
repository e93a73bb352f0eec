// Package huffman implements a Huffman codec over the samples of
// an RGB image. One code table is built for the whole image and stored in the
// container ahead of the bit-packed payload.
package huffman

import (
	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
	"github.com/dargueta/pixcodec/entropy"
	"github.com/dargueta/pixcodec/pixels"
)

// Name is the name the codec is registered under.
const Name = "huffman"

// Codec compresses image files into Huffman containers. The zero value is ready
// to use.
type Codec struct{}

func (Codec) Name() string {
	return Name
}

// Compress encodes the image at `inputPath` into a container at `outputPath`.
// Entropy is computed over every sample in the image; redundancy is the average
// code length minus that entropy.
func (Codec) Compress(inputPath, outputPath string) (pixcodec.Metrics, error) {
	var table *CodeTable
	encode := func(img *pixels.Image) ([]byte, error) {
		data, builtTable, err := encodeImage(img)
		table = builtTable
		return data, err
	}

	img, _, metrics, err := common.CompressFile(inputPath, outputPath, encode)
	if err != nil {
		return metrics, err
	}

	histogram := entropy.NewHistogram(img.Samples())

	metrics.Entropy = entropy.Shannon(histogram)
	metrics.Redundancy = entropy.CodingRedundancy(
		metrics.Entropy, entropy.AverageCodeLength(histogram, table.Lengths()))
	metrics.RedundancyKind = string(entropy.Coding)
	return metrics, nil
}

// Decompress decodes the container at `inputPath`, and if `outputPath` isn't
// empty, saves the image there.
func (Codec) Decompress(
	inputPath, outputPath string, hint *pixcodec.ShapeHint,
) (*pixels.Image, error) {
	return common.DecompressFile(inputPath, outputPath, hint, DecodeImage)
}
