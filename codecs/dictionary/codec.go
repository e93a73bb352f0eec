// Package dictionary implements an LZW codec. Each row of each color plane is
// written out as decimal text ("12,0,255") and that text is compressed with a
// string table shared by the whole image.
//
// The container is also text: one line per row, each line the row's codes in
// decimal separated by commas.
package dictionary

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/common"
	"github.com/dargueta/pixcodec/entropy"
	"github.com/dargueta/pixcodec/pixels"
)

// Name is the name the codec is registered under.
const Name = "lzw"

// FormatCodes renders one row's codes as a container line.
func FormatCodes(codes []int) string {
	fields := make([]string, len(codes))
	for i, code := range codes {
		fields[i] = strconv.Itoa(code)
	}
	return strings.Join(fields, ",")
}

// ParseCodes is the inverse of [FormatCodes]. An empty line is an empty row.
func ParseCodes(line string) ([]int, error) {
	if line == "" {
		return []int{}, nil
	}

	fields := strings.Split(line, ",")
	codes := make([]int, len(fields))
	for i, field := range fields {
		code, err := strconv.ParseUint(field, 10, 31)
		if err != nil {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("field %d (%q) isn't a code", i, field))
		}
		codes[i] = int(code)
	}
	return codes, nil
}

// WriteContainer writes one line per row of codes.
func WriteContainer(output io.Writer, rows [][]int) (int64, error) {
	lines := make([]string, len(rows))
	for i, codes := range rows {
		lines[i] = FormatCodes(codes)
	}
	return common.WriteLines(output, lines)
}

// ReadContainer is the inverse of [WriteContainer].
func ReadContainer(input io.Reader) ([][]int, error) {
	lines, err := common.ReadLines(input)
	if err != nil {
		return nil, err
	}

	rows := make([][]int, len(lines))
	for i, line := range lines {
		rows[i], err = ParseCodes(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return rows, nil
}

// EncodeImage compresses the planes of an image and returns the container.
func EncodeImage(img *pixels.Image) ([]byte, error) {
	rows, err := EncodeChannels(img.Split())
	if err != nil {
		return nil, err
	}

	buffer := bytes.Buffer{}
	_, err = WriteContainer(&buffer, rows)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// DecodeImage is the inverse of [EncodeImage]. The dimensions come from the
// container itself: the height is a third of the number of lines, the width the
// length of the decoded rows.
func DecodeImage(data []byte) (*pixels.Image, error) {
	rows, err := ReadContainer(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	planes, err := DecodeChannels(rows)
	if err != nil {
		return nil, err
	}
	return pixels.Merge(planes)
}

// Codec compresses image files into LZW containers.
type Codec struct{}

func (Codec) Name() string {
	return Name
}

// Compress encodes the image at `inputPath` into a container at `outputPath`.
// Entropy is measured over the bytes of the container, not the image, and
// redundancy is relative to 8 bits per byte.
func (Codec) Compress(inputPath, outputPath string) (pixcodec.Metrics, error) {
	_, container, metrics, err := common.CompressFile(inputPath, outputPath, EncodeImage)
	if err != nil {
		return metrics, err
	}

	metrics.Entropy = entropy.OfBytes(container)
	metrics.Redundancy = entropy.RelativeRedundancy(metrics.Entropy, entropy.MaxByteEntropy)
	metrics.RedundancyKind = string(entropy.Relative)
	return metrics, nil
}

// Decompress decodes the container at `inputPath`, and if `outputPath` isn't
// empty, saves the image there.
func (Codec) Decompress(
	inputPath, outputPath string, hint *pixcodec.ShapeHint,
) (*pixels.Image, error) {
	return common.DecompressFile(inputPath, outputPath, hint, DecodeImage)
}
