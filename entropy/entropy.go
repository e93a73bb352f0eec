// Package entropy measures the information content of a symbol stream. Nothing
// here is part of any container format; codecs use it only to report metrics.
package entropy

import (
	"math"
)

// MaxByteEntropy is the largest possible entropy of a byte stream, in bits.
const MaxByteEntropy = 8.0

// Histogram counts occurrences of each byte value.
type Histogram struct {
	Counts [256]uint64
	total  uint64
}

// NewHistogram builds a histogram of `symbols`.
func NewHistogram(symbols []byte) Histogram {
	h := Histogram{}
	h.Add(symbols)
	return h
}

// Add counts more symbols.
func (h *Histogram) Add(symbols []byte) {
	for _, s := range symbols {
		h.Counts[s]++
	}
	h.total += uint64(len(symbols))
}

// Total returns the number of symbols counted, i.e. the sum of all counts.
func (h *Histogram) Total() uint64 {
	return h.total
}

// AlphabetSize returns the number of distinct symbols seen.
func (h *Histogram) AlphabetSize() int {
	size := 0
	for _, c := range h.Counts {
		if c != 0 {
			size++
		}
	}
	return size
}

// Probabilities returns the normalized histogram. Unseen symbols have
// probability 0. An empty histogram returns all zeroes.
func (h *Histogram) Probabilities() [256]float64 {
	var probs [256]float64
	if h.total == 0 {
		return probs
	}
	for s, c := range h.Counts {
		probs[s] = float64(c) / float64(h.total)
	}
	return probs
}

// Shannon returns the Shannon entropy of the histogram in bits per symbol.
func Shannon(h Histogram) float64 {
	entropy := 0.0
	for _, p := range h.Probabilities() {
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	// -0.0 prints badly.
	if entropy == 0 {
		return 0
	}
	return entropy
}

// OfBytes returns the Shannon entropy of a byte stream.
func OfBytes(data []byte) float64 {
	return Shannon(NewHistogram(data))
}

// OfValues returns the Shannon entropy of a stream over an alphabet too large
// for a [Histogram], such as 16-bit residuals.
func OfValues[T comparable](values []T) float64 {
	if len(values) == 0 {
		return 0
	}

	counts := make(map[T]uint64)
	for _, v := range values {
		counts[v]++
	}

	total := float64(len(values))
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	if entropy == 0 {
		return 0
	}
	return entropy
}

// MaxEntropy returns log2(alphabetSize), the entropy of a uniform distribution
// over that many symbols.
func MaxEntropy(alphabetSize int) float64 {
	if alphabetSize <= 1 {
		return 0
	}
	return math.Log2(float64(alphabetSize))
}

// AverageCodeLength returns the mean number of bits per symbol when each symbol
// s is coded with lengths[s] bits.
func AverageCodeLength(h Histogram, lengths [256]int) float64 {
	if h.total == 0 {
		return 0
	}
	totalBits := uint64(0)
	for s, c := range h.Counts {
		totalBits += c * uint64(lengths[s])
	}
	return float64(totalBits) / float64(h.total)
}
