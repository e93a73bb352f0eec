package pixcodec

import (
	"fmt"
	"time"
)

// Metrics is what every codec reports after compressing an image.
type Metrics struct {
	// OriginalSize is the size of the input image file, in bytes.
	OriginalSize int64
	// CompressedSize is the size of the container file written, in bytes.
	CompressedSize int64
	// CompressionRatio is OriginalSize / CompressedSize. It's 0 if the container
	// is empty.
	CompressionRatio float64
	// TimeTaken covers loading the image, encoding it, and writing the container.
	TimeTaken time.Duration
	// Entropy is the Shannon entropy in bits per symbol. Which symbols it's
	// computed over depends on the codec.
	Entropy float64
	// Redundancy is a diagnostic figure derived from Entropy. Codecs don't all
	// use the same definition; RedundancyKind names the one used.
	Redundancy     float64
	RedundancyKind string
}

// SetSizes fills in the two sizes and the ratio derived from them.
func (m *Metrics) SetSizes(original, compressed int64) {
	m.OriginalSize = original
	m.CompressedSize = compressed
	if compressed > 0 {
		m.CompressionRatio = float64(original) / float64(compressed)
	} else {
		m.CompressionRatio = 0
	}
}

func (m Metrics) String() string {
	return fmt.Sprintf(
		"original=%d compressed=%d ratio=%.3f time=%s entropy=%.4f redundancy=%.4f (%s)",
		m.OriginalSize,
		m.CompressedSize,
		m.CompressionRatio,
		m.TimeTaken,
		m.Entropy,
		m.Redundancy,
		m.RedundancyKind,
	)
}

// ShapeHint carries image dimensions supplied from outside a container. Fields
// left at zero are not checked.
type ShapeHint struct {
	Width    int
	Height   int
	Channels int
}

// Check returns an error if any nonzero field of the hint disagrees with the
// given dimensions. A nil hint always passes.
func (h *ShapeHint) Check(width, height, channels int) error {
	if h == nil {
		return nil
	}
	if h.Width < 0 || h.Height < 0 || h.Channels < 0 {
		return ErrInvalidArgument.WithMessage(
			fmt.Sprintf("shape hint has negative dimensions: %+v", *h))
	}
	if (h.Width != 0 && h.Width != width) ||
		(h.Height != 0 && h.Height != height) ||
		(h.Channels != 0 && h.Channels != channels) {
		return ErrCorruptContainer.WithMessage(
			fmt.Sprintf(
				"decoded shape %dx%dx%d doesn't match expected %dx%dx%d",
				width,
				height,
				channels,
				h.Width,
				h.Height,
				h.Channels,
			),
		)
	}
	return nil
}
