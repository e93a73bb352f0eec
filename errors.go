package pixcodec

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type basePixcodecError string

const rootError = basePixcodecError("")

// ErrSourceNotFound indicates the input image or container is missing, can't be
// read, or can't be decoded as an image.
var ErrSourceNotFound = rootError.WithMessage("Source not found")

// ErrCorruptContainer indicates a container whose header, table, or payload is
// inconsistent with itself.
var ErrCorruptContainer = rootError.WithMessage("Corrupt container")

// ErrDictionaryDesync indicates a dictionary code that can't be resolved, even
// with the not-yet-defined-entry rule. Decoding can't recover from this.
var ErrDictionaryDesync = rootError.WithMessage("Dictionary out of sync")

var ErrExists = rootError.WithMessage("Already exists")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrIOFailed = rootError.WithMessage("Input/output error")
var ErrNotFound = rootError.WithMessage("Not found")
var ErrNotSupported = rootError.WithMessage("Operation not supported")

func (e basePixcodecError) Error() string {
	return string(e)
}

func (e basePixcodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       message,
		originalError: e,
	}
}

func (e basePixcodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}
