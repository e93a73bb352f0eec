// Package testing holds fixtures shared by the codec tests. Every helper either
// returns a valid value or fails the test and aborts.
package testing

import (
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/pixcodec/pixels"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// CreateRandomChannel creates a channel of the given size filled with random
// samples.
func CreateRandomChannel(width, height uint, t *testing.T) pixels.Channel {
	channel := make(pixels.Channel, height)
	for i := range channel {
		channel[i] = make([]byte, width)
		_, err := rand.Read(channel[i])
		require.NoErrorf(t, err, "failed to fill row %d with %d random bytes", i, width)
	}
	return channel
}

// CreateConstantChannel creates a channel where every sample is `value`.
func CreateConstantChannel(width, height uint, value byte) pixels.Channel {
	channel := make(pixels.Channel, height)
	for i := range channel {
		channel[i] = make([]byte, width)
		for j := range channel[i] {
			channel[i][j] = value
		}
	}
	return channel
}

// CreateRandomImage creates an image of the given size with random samples.
func CreateRandomImage(width, height uint, t *testing.T) *pixels.Image {
	img := pixels.New(int(width), int(height))
	_, err := rand.Read(img.Pix)
	require.NoErrorf(t, err, "failed to fill %dx%d image with random bytes", width, height)
	return img
}

// CreateBandedImage creates an image made of long horizontal runs, the kind of
// input the run-length and dictionary codecs do well on. The pattern is fixed
// so the result is identical across calls.
func CreateBandedImage(width, height uint) *pixels.Image {
	img := pixels.New(int(width), int(height))
	for i := range img.Pix {
		pixel := i / 3
		x := pixel % int(width)
		y := pixel / int(width)
		img.Pix[i] = byte((y/2)*40 + (x/7)*3 + (i%3)*80)
	}
	return img
}

// WriteImageFile saves `img` as a PNG in a temporary directory owned by the test
// and returns its path.
func WriteImageFile(t *testing.T, img *pixels.Image, name string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, pixels.Save(img, path), "failed to write test image")
	return path
}

// LoadContainer reads a container file fully into memory and returns a stream
// over a copy of its contents. Writes to the stream don't affect the file.
func LoadContainer(t *testing.T, path string) io.ReadWriteSeeker {
	data, err := os.ReadFile(path)
	require.NoErrorf(t, err, "failed to read container %q", path)
	require.Greater(t, len(data), 0, "container is empty")
	return bytesextra.NewReadWriteSeeker(data)
}
