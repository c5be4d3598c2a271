package ranking

import "math"

// CosineSimilarity returns the cosine of the angle between a and b clamped to
// [0, 1]. For L2-normalized vectors this is their dot product. It returns 0
// when either vector is all zero or the dimensions differ.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}

	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}

	score := dot / (na * nb)
	if math.IsNaN(score) {
		return 0
	}
	return clamp(score, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
