// Package pixels holds the in-memory image representation shared by all codecs,
// and splits images into color planes and joins them back together.
package pixels

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"

	"github.com/dargueta/pixcodec"
	"github.com/disintegration/imaging"
)

// Channel is a single color plane: an ordered list of rows, each an ordered list
// of 8-bit samples. All rows of a valid channel have the same length.
type Channel [][]byte

// Height returns the number of rows in the channel.
func (c Channel) Height() int {
	return len(c)
}

// Width returns the length of the first row, or 0 for an empty channel.
func (c Channel) Width() int {
	if len(c) == 0 {
		return 0
	}
	return len(c[0])
}

// Validate checks that every row has the same length as the first.
func (c Channel) Validate() error {
	width := c.Width()
	for i, row := range c {
		if len(row) != width {
			return pixcodec.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("row %d has %d samples, expected %d", i, len(row), width))
		}
	}
	return nil
}

// Flatten concatenates all rows into one slice.
func (c Channel) Flatten() []byte {
	flat := make([]byte, 0, c.Width()*c.Height())
	for _, row := range c {
		flat = append(flat, row...)
	}
	return flat
}

// Image is an RGB image with 8-bit samples, stored interleaved and row-major
// so that Pix[(row*Width+col)*NumChannels+channel] is one sample.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates an all-black image of the given size.
func New(width, height int) *Image {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("invalid image dimensions %dx%d", width, height))
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*pixcodec.NumChannels),
	}
}

// FromSamples wraps a flat interleaved sample buffer. The buffer is used as-is,
// not copied.
func FromSamples(width, height, channels int, samples []byte) (*Image, error) {
	if channels != pixcodec.NumChannels {
		return nil, pixcodec.ErrNotSupported.WithMessage(
			fmt.Sprintf("%d channels per pixel; only %d is supported", channels, pixcodec.NumChannels))
	}
	if width < 0 || height < 0 {
		return nil, pixcodec.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("invalid image dimensions %dx%d", width, height))
	}
	if len(samples) != width*height*channels {
		return nil, pixcodec.ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"got %d samples, expected %d for a %dx%dx%d image",
				len(samples),
				width*height*channels,
				width,
				height,
				channels,
			),
		)
	}
	return &Image{Width: width, Height: height, Pix: samples}, nil
}

// Channels returns the number of samples per pixel, which is always 3.
func (img *Image) Channels() int {
	return pixcodec.NumChannels
}

func (img *Image) offset(row, col int, ch pixcodec.ChannelID) int {
	return (row*img.Width+col)*pixcodec.NumChannels + int(ch)
}

// At returns one sample.
func (img *Image) At(row, col int, ch pixcodec.ChannelID) byte {
	return img.Pix[img.offset(row, col, ch)]
}

// Set changes one sample.
func (img *Image) Set(row, col int, ch pixcodec.ChannelID, value byte) {
	img.Pix[img.offset(row, col, ch)] = value
}

// Samples returns the interleaved sample buffer, i.e. the image flattened in
// [row][col][channel] order. The slice is shared with the image.
func (img *Image) Samples() []byte {
	return img.Pix
}

// Plane copies out a single color plane.
func (img *Image) Plane(ch pixcodec.ChannelID) Channel {
	plane := make(Channel, img.Height)
	for y := range plane {
		row := make([]byte, img.Width)
		for x := range row {
			row[x] = img.At(y, x, ch)
		}
		plane[y] = row
	}
	return plane
}

// Split decomposes the image into its three planes, in [pixcodec.ChannelOrder].
func (img *Image) Split() [pixcodec.NumChannels]Channel {
	var planes [pixcodec.NumChannels]Channel
	for _, ch := range pixcodec.ChannelOrder {
		planes[ch] = img.Plane(ch)
	}
	return planes
}

// Merge is the inverse of [Image.Split]. All three planes must have the same
// dimensions and every row must be the same width.
func Merge(planes [pixcodec.NumChannels]Channel) (*Image, error) {
	height := planes[0].Height()
	width := planes[0].Width()

	for _, ch := range pixcodec.ChannelOrder {
		plane := planes[ch]
		if err := plane.Validate(); err != nil {
			return nil, fmt.Errorf("%s plane: %w", ch, err)
		}
		if plane.Height() != height || plane.Width() != width {
			return nil, pixcodec.ErrInvalidArgument.WithMessage(
				fmt.Sprintf(
					"%s plane is %dx%d, expected %dx%d",
					ch,
					plane.Width(),
					plane.Height(),
					width,
					height,
				),
			)
		}
	}

	img := New(width, height)
	for _, ch := range pixcodec.ChannelOrder {
		for y, row := range planes[ch] {
			for x, value := range row {
				img.Set(y, x, ch, value)
			}
		}
	}
	return img, nil
}

// FromImage converts any image to RGB samples. Alpha is discarded; color values
// are taken un-premultiplied.
func FromImage(src image.Image) *Image {
	nrgba := imaging.Clone(src)
	bounds := nrgba.Bounds()
	img := New(bounds.Dx(), bounds.Dy())

	for y := 0; y < img.Height; y++ {
		srcRow := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+img.Width*4]
		for x := 0; x < img.Width; x++ {
			copy(img.Pix[img.offset(y, x, pixcodec.ChannelRed):], srcRow[x*4:x*4+3])
		}
	}
	return img
}

// ToNRGBA converts the image to a fully opaque [image.NRGBA].
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			out.SetNRGBA(x, y, color.NRGBA{
				R: img.At(y, x, pixcodec.ChannelRed),
				G: img.At(y, x, pixcodec.ChannelGreen),
				B: img.At(y, x, pixcodec.ChannelBlue),
				A: 0xff,
			})
		}
	}
	return out
}

// Equal returns true if both images have the same dimensions and samples.
func (img *Image) Equal(other *Image) bool {
	if img.Width != other.Width || img.Height != other.Height {
		return false
	}
	for i := range img.Pix {
		if img.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// Load reads an image file in any format [imaging] understands, applying EXIF
// orientation.
func Load(path string) (*Image, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, pixcodec.ErrSourceNotFound.Wrap(err)
		}
		return nil, pixcodec.ErrSourceNotFound.WithMessage(
			fmt.Sprintf("can't decode image %q: %s", path, err.Error()))
	}
	return FromImage(src), nil
}

// Save writes the image to a file, choosing the format from the extension of
// `path`. Use a lossless format (PNG, TIFF, BMP) to keep the samples exact.
func Save(img *Image, path string) error {
	err := imaging.Save(img.ToNRGBA(), path)
	if err == nil {
		return nil
	}
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		return pixcodec.ErrNotSupported.WithMessage(
			fmt.Sprintf("can't save %q: %s", path, err.Error()))
	}
	return pixcodec.ErrIOFailed.Wrap(err)
}
