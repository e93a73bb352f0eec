package compression

import (
	"io"
)

// ByteRun represents a single run of a particular byte value.
type ByteRun struct {
	// Byte is the byte value for this run.
	Byte byte
	// RunLength gives the number of times the byte occurs in the run (not the
	// number of times it's repeated).
	//
	// A valid run will always have this be 1 or greater. A value less than 1
	// indicates the end of the data was reached.
	RunLength int
}

// InvalidRLERun is returned by [RunLengthGrouper.GetNextRun] once the data is
// exhausted.
var InvalidRLERun = ByteRun{Byte: 0, RunLength: 0}

// RunLengthGrouper splits a byte slice into maximal runs. Runs never extend past
// the end of the slice it was created with, so grouping each row separately
// guarantees no run crosses a row boundary.
type RunLengthGrouper struct {
	data     []byte
	position int
}

func NewRunLengthGrouper(data []byte) *RunLengthGrouper {
	return &RunLengthGrouper{data: data}
}

// GetNextRun returns a [ByteRun] for the next byte or run of byte values in the
// slice. At the end of the data it returns [InvalidRLERun] and io.EOF.
func (grouper *RunLengthGrouper) GetNextRun() (ByteRun, error) {
	if grouper.position >= len(grouper.data) {
		return InvalidRLERun, io.EOF
	}

	firstByte := grouper.data[grouper.position]
	end := grouper.position + 1
	for end < len(grouper.data) && grouper.data[end] == firstByte {
		end++
	}

	run := ByteRun{Byte: firstByte, RunLength: end - grouper.position}
	grouper.position = end
	return run, nil
}

// GroupRuns returns every maximal run in `data`, in order. Adjacent runs always
// have different byte values and their lengths sum to len(data).
func GroupRuns(data []byte) []ByteRun {
	grouper := NewRunLengthGrouper(data)
	runs := []ByteRun{}
	for {
		run, err := grouper.GetNextRun()
		if err != nil {
			return runs
		}
		runs = append(runs, run)
	}
}

// ExpandRuns is the inverse of [GroupRuns].
func ExpandRuns(runs []ByteRun) []byte {
	total := 0
	for _, run := range runs {
		total += run.RunLength
	}

	output := make([]byte, 0, total)
	for _, run := range runs {
		for i := 0; i < run.RunLength; i++ {
			output = append(output, run.Byte)
		}
	}
	return output
}
