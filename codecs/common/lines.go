package common

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/pixels"
)

// WriteLines writes each line followed by a newline. The text containers all
// store one line per row, every row of the first channel, then every row of the
// second, and so on.
func WriteLines(output io.Writer, lines []string) (int64, error) {
	writer := bufio.NewWriter(output)
	total := int64(0)
	for _, line := range lines {
		n, err := writer.WriteString(line)
		total += int64(n)
		if err != nil {
			return total, pixcodec.ErrIOFailed.Wrap(err)
		}
		err = writer.WriteByte('\n')
		if err != nil {
			return total, pixcodec.ErrIOFailed.Wrap(err)
		}
		total++
	}

	err := writer.Flush()
	if err != nil {
		return total, pixcodec.ErrIOFailed.Wrap(err)
	}
	return total, nil
}

// ReadLines splits a text container into lines. Every line must be terminated
// by a newline; a trailing "\r" is tolerated and removed.
func ReadLines(input io.Reader) ([]string, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, pixcodec.ErrIOFailed.Wrap(err)
	}
	if len(data) == 0 {
		return []string{}, nil
	}
	if data[len(data)-1] != '\n' {
		return nil, pixcodec.ErrCorruptContainer.WithMessage("last line isn't newline-terminated")
	}

	rawLines := bytes.Split(data[:len(data)-1], []byte{'\n'})
	lines := make([]string, len(rawLines))
	for i, line := range rawLines {
		lines[i] = string(bytes.TrimSuffix(line, []byte{'\r'}))
	}
	return lines, nil
}

// SplitChannels divides decoded rows into three equal groups, one per channel,
// in [pixcodec.ChannelOrder]. It fails if the rows can't be divided evenly or
// aren't all the same width.
func SplitChannels(rows [][]byte) ([pixcodec.NumChannels]pixels.Channel, error) {
	var planes [pixcodec.NumChannels]pixels.Channel

	if len(rows)%pixcodec.NumChannels != 0 {
		return planes, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"%d rows can't be split evenly into %d channels",
				len(rows),
				pixcodec.NumChannels,
			),
		)
	}

	height := len(rows) / pixcodec.NumChannels
	for _, ch := range pixcodec.ChannelOrder {
		planes[ch] = pixels.Channel(rows[int(ch)*height : int(ch+1)*height])
	}

	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows {
			if len(row) != width {
				return planes, pixcodec.ErrCorruptContainer.WithMessage(
					fmt.Sprintf("row %d decoded to %d samples, expected %d", i, len(row), width))
			}
		}
	}
	return planes, nil
}
