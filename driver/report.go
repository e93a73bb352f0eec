package driver

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/dargueta/pixcodec"
	"github.com/gocarina/gocsv"
)

// ReportRow is one line of a benchmark report: how one codec did on one image.
// The column names match the reports earlier versions of this tool produced, so
// new rows can be appended to old files.
type ReportRow struct {
	Filename         string  `csv:"Filename"`
	OriginalSize     int64   `csv:"Original Size (bytes)"`
	CompressedSize   int64   `csv:"Compressed Size (bytes)"`
	CompressionRatio float64 `csv:"Compression Ratio"`
	TimeToCompress   float64 `csv:"Time to Compress (seconds)"`
	Entropy          float64 `csv:"Entropy"`
	Redundancy       float64 `csv:"Redundancy"`
	CodingTechnique  string  `csv:"Coding Technique"`
}

// NewReportRow flattens a codec's metrics into a report row.
func NewReportRow(filename, codecName string, metrics pixcodec.Metrics) ReportRow {
	return ReportRow{
		Filename:         filename,
		OriginalSize:     metrics.OriginalSize,
		CompressedSize:   metrics.CompressedSize,
		CompressionRatio: metrics.CompressionRatio,
		TimeToCompress:   metrics.TimeTaken.Seconds(),
		Entropy:          metrics.Entropy,
		Redundancy:       metrics.Redundancy,
		CodingTechnique:  codecName,
	}
}

// WriteReport writes rows as CSV, with a header line first if `withHeader` is
// true.
func WriteReport(output io.Writer, rows []ReportRow, withHeader bool) error {
	var err error
	if withHeader {
		err = gocsv.Marshal(rows, output)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, output)
	}
	if err != nil {
		return pixcodec.ErrIOFailed.Wrap(err)
	}
	return nil
}

// ReadReport parses a CSV report written by [WriteReport]. The header line is
// required.
func ReadReport(input io.Reader) ([]ReportRow, error) {
	rows := []ReportRow{}
	err := gocsv.Unmarshal(input, &rows)
	if err != nil {
		return nil, pixcodec.ErrCorruptContainer.Wrap(err)
	}
	return rows, nil
}

// AppendReport adds rows to the report at `path`, creating it if needed. The
// header is written only if the file didn't exist or was empty.
func AppendReport(path string, rows []ReportRow) (err error) {
	withHeader := true
	stat, err := os.Stat(path)
	if err == nil {
		withHeader = stat.Size() == 0
	} else if !errors.Is(err, fs.ErrNotExist) {
		return pixcodec.ErrIOFailed.Wrap(err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return pixcodec.ErrIOFailed.Wrap(err)
	}
	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = pixcodec.ErrIOFailed.Wrap(closeErr)
		}
	}()

	return WriteReport(file, rows, withHeader)
}
