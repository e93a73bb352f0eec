// Package runlength implements a run-length codec over the rows of each color
// plane. Runs never cross a row boundary.
//
// The container is text. Each line is one row, written as space-separated
// "value,count" pairs; all rows of the red plane come first, then green, then
// blue. For example the row [5 5 5 2 2 9] is written as "5,3 2,2 9,1".
package runlength

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
	"github.com/dargueta/pixcodec/utilities/compression"
)

// Name is the name the codec is registered under.
const Name = "rle"

// MaxRowWidth is the widest row a container may expand to. Anything wider is
// treated as corrupt rather than allocated.
const MaxRowWidth = 1 << 24

// Run is one value repeated RunLength times.
type Run = compression.ByteRun

// EncodeRow groups a row into maximal runs.
func EncodeRow(row []byte) []Run {
	return compression.GroupRuns(row)
}

// DecodeRow expands runs back into a row. Every run must have a positive count.
func DecodeRow(runs []Run) ([]byte, error) {
	width := 0
	for i, run := range runs {
		if run.RunLength < 1 {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("run %d has count %d", i, run.RunLength))
		}
		width += run.RunLength
		if width > MaxRowWidth {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("row expands to more than %d samples", MaxRowWidth))
		}
	}
	return compression.ExpandRuns(runs), nil
}

// EncodeChannel encodes every row of a plane.
func EncodeChannel(channel pixels.Channel) ([][]Run, error) {
	err := channel.Validate()
	if err != nil {
		return nil, err
	}

	rows := make([][]Run, len(channel))
	for y, row := range channel {
		rows[y] = EncodeRow(row)
	}
	return rows, nil
}

// DecodeChannel is the inverse of [EncodeChannel]. All rows must expand to the
// same width.
func DecodeChannel(rows [][]Run) (pixels.Channel, error) {
	channel := make(pixels.Channel, len(rows))
	for y, runs := range rows {
		row, err := DecodeRow(runs)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		if y > 0 && len(row) != len(channel[0]) {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("row %d has %d samples, expected %d", y, len(row), len(channel[0])))
		}
		channel[y] = row
	}
	return channel, nil
}

// FormatRow renders runs as a container line.
func FormatRow(runs []Run) string {
	builder := strings.Builder{}
	for i, run := range runs {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(strconv.Itoa(int(run.Byte)))
		builder.WriteByte(',')
		builder.WriteString(strconv.Itoa(run.RunLength))
	}
	return builder.String()
}

// ParseRow is the inverse of [FormatRow]. An empty line is a row with no runs.
func ParseRow(line string) ([]Run, error) {
	if line == "" {
		return []Run{}, nil
	}

	tokens := strings.Split(line, " ")
	runs := make([]Run, len(tokens))
	for i, token := range tokens {
		valueText, countText, found := strings.Cut(token, ",")
		if !found {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("token %d (%q) isn't a value,count pair", i, token))
		}

		value, err := strconv.ParseUint(valueText, 10, 8)
		if err != nil {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("token %d has invalid value %q", i, valueText))
		}
		count, err := strconv.ParseUint(countText, 10, 31)
		if err != nil || count == 0 {
			return nil, pixcodec.ErrCorruptContainer.WithMessage(
				fmt.Sprintf("token %d has invalid count %q", i, countText))
		}
		runs[i] = Run{Byte: byte(value), RunLength: int(count)}
	}
	return runs, nil
}

// WriteContainer writes one line per row.
func WriteContainer(output io.Writer, rows [][]Run) (int64, error) {
	lines := make([]string, len(rows))
	for i, runs := range rows {
		lines[i] = FormatRow(runs)
	}
	return common.WriteLines(output, lines)
}

// ReadContainer is the inverse of [WriteContainer].
func ReadContainer(input io.Reader) ([][]Run, error) {
	lines, err := common.ReadLines(input)
	if err != nil {
		return nil, err
	}

	rows := make([][]Run, len(lines))
	for i, line := range lines {
		rows[i], err = ParseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return rows, nil
}

// EncodeImage encodes the red, green, and blue planes in that order and returns
// the container.
func EncodeImage(img *pixels.Image) ([]byte, error) {
	planes := img.Split()
	rows := make([][]Run, 0, img.Height*pixcodec.NumChannels)

	for _, ch := range pixcodec.ChannelOrder {
		planeRows, err := EncodeChannel(planes[ch])
		if err != nil {
			return nil, fmt.Errorf("%s plane: %w", ch, err)
		}
		rows = append(rows, planeRows...)
	}

	buffer := bytes.Buffer{}
	_, err := WriteContainer(&buffer, rows)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// DecodeImage is the inverse of [EncodeImage]. The height is a third of the
// number of lines and the width is the length of the expanded rows.
func DecodeImage(data []byte) (*pixels.Image, error) {
	rows, err := ReadContainer(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	expanded := make([][]byte, len(rows))
	for i, runs := range rows {
		expanded[i], err = DecodeRow(runs)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	planes, err := common.SplitChannels(expanded)
	if err != nil {
		return nil, err
	}
	return pixels.Merge(planes)
}

// Codec compresses image files into run-length containers.
type Codec struct{}

func (Codec) Name() string {
	return Name
}

// Compress encodes the image at `inputPath` into a container at `outputPath`.
// Entropy is measured over the image samples and redundancy is relative to 8
// bits per sample.
func (Codec) Compress(inputPath, outputPath string) (pixcodec.Metrics, error) {
	img, _, metrics, err := common.CompressFile(inputPath, outputPath, EncodeImage)
	if err != nil {
		return metrics, err
	}

	metrics.Entropy = entropy.OfBytes(img.Samples())
	metrics.Redundancy = entropy.RelativeRedundancy(metrics.Entropy, entropy.MaxByteEntropy)
	metrics.RedundancyKind = string(entropy.Relative)
	return metrics, nil
}

// Decompress decodes the container at `inputPath`, checks it against `hint` if
// one is given, and if `outputPath` isn't empty, saves the image there.
func (Codec) Decompress(
	inputPath, outputPath string, hint *pixcodec.ShapeHint,
) (*pixels.Image, error) {
	return common.DecompressFile(inputPath, outputPath, hint, DecodeImage)
}
