package entropy

// Definition names one of the ways a codec can report redundancy. They're not
// interchangeable, so every codec documents which one it uses.
type Definition string

const (
	// Absolute is max_entropy - H.
	Absolute Definition = "absolute"
	// Relative is 1 - H/max_entropy.
	Relative Definition = "relative"
	// Coding is avg_bits_per_symbol - H: how far a prefix code is from the
	// entropy bound.
	Coding Definition = "coding"
	// Efficiency is 1 - avg_bits_per_symbol/H.
	Efficiency Definition = "efficiency"
	// RatioScaled is 1 - H/(max_entropy*compression_ratio).
	RatioScaled Definition = "ratio-scaled"
)

// AbsoluteRedundancy returns maxEntropy - h.
func AbsoluteRedundancy(h, maxEntropy float64) float64 {
	return maxEntropy - h
}

// RelativeRedundancy returns 1 - h/maxEntropy, or 0 if maxEntropy is 0.
func RelativeRedundancy(h, maxEntropy float64) float64 {
	if maxEntropy == 0 {
		return 0
	}
	return 1 - h/maxEntropy
}

// CodingRedundancy returns avgBits - h.
func CodingRedundancy(h, avgBits float64) float64 {
	return avgBits - h
}

// EfficiencyRedundancy returns 1 - avgBits/h, or 0 if h is 0.
func EfficiencyRedundancy(h, avgBits float64) float64 {
	if h == 0 {
		return 0
	}
	return 1 - avgBits/h
}

// RatioScaledRedundancy returns 1 - h/(maxEntropy*ratio), or 0 if the
// denominator is 0.
func RatioScaledRedundancy(h, maxEntropy, ratio float64) float64 {
	denominator := maxEntropy * ratio
	if denominator == 0 {
		return 0
	}
	return 1 - h/denominator
}
