// Package common holds the file handling every codec shares, so that each codec
// only has to deal with converting between images and container bytes.
package common

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/pixels"
)

// EncodeFunc converts an image into a complete container.
type EncodeFunc func(img *pixels.Image) ([]byte, error)

// DecodeFunc converts a complete container back into an image.
type DecodeFunc func(container []byte) (*pixels.Image, error)

// CompressFile loads the image at `inputPath`, encodes it, and writes the
// container to `outputPath`. The returned metrics have the sizes, ratio, and
// time filled in; entropy and redundancy are left to the caller, which also
// gets the image and container back to compute them from.
//
// The time covers loading, encoding, and writing.
func CompressFile(
	inputPath, outputPath string, encode EncodeFunc,
) (*pixels.Image, []byte, pixcodec.Metrics, error) {
	metrics := pixcodec.Metrics{}
	start := time.Now()

	img, err := pixels.Load(inputPath)
	if err != nil {
		return nil, nil, metrics, err
	}

	container, err := encode(img)
	if err != nil {
		return img, nil, metrics, err
	}

	err = WriteFile(outputPath, container)
	if err != nil {
		return img, container, metrics, err
	}
	metrics.TimeTaken = time.Since(start)

	stat, err := os.Stat(inputPath)
	if err != nil {
		return img, container, metrics, pixcodec.ErrSourceNotFound.Wrap(err)
	}
	metrics.SetSizes(stat.Size(), int64(len(container)))
	return img, container, metrics, nil
}

// DecompressFile reads the container at `inputPath`, decodes it, checks the
// result against `hint` (if given), and saves it to `outputPath`. If
// `outputPath` is empty the image is only returned, not saved.
func DecompressFile(
	inputPath, outputPath string, hint *pixcodec.ShapeHint, decode DecodeFunc,
) (*pixels.Image, error) {
	container, err := ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	img, err := decode(container)
	if err != nil {
		return nil, err
	}

	err = hint.Check(img.Width, img.Height, img.Channels())
	if err != nil {
		return nil, err
	}

	if outputPath != "" {
		err = pixels.Save(img, outputPath)
		if err != nil {
			return img, err
		}
	}
	return img, nil
}

// ReadFile returns the contents of a container file. A missing or unreadable
// file is reported as [pixcodec.ErrSourceNotFound].
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return nil, pixcodec.ErrSourceNotFound.Wrap(err)
	}
	return nil, pixcodec.ErrIOFailed.Wrap(err)
}

// WriteFile creates (or truncates) the file at `path` and writes `data` to it.
// The file is closed before returning, whether or not the write succeeded.
func WriteFile(path string, data []byte) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return pixcodec.ErrIOFailed.Wrap(err)
	}
	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = pixcodec.ErrIOFailed.Wrap(closeErr)
		}
	}()

	_, err = file.Write(data)
	if err != nil {
		return pixcodec.ErrIOFailed.Wrap(err)
	}
	return nil
}
