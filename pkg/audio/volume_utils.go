package audio

import "math"

func volumeToPower(vol float64) float64 {
	// Maps 0.0-1.0 linear volume to a base-2 exponent for effects.Volume.
	// Unity gain at 1.0; the Silent flag covers the bottom of the range.
	if vol <= 0.01 {
		return -10
	}
	return math.Log2(vol)
}
