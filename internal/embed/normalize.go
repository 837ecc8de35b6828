package embed

import "math"

// L2Normalize scales vec to unit Euclidean norm and returns a new slice.
// A zero vector is returned as a copy unchanged; the divisor is treated
// as 1 to avoid division by zero.
func L2Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
