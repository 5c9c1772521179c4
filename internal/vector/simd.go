package vector

import (
	"math"

	"github.com/viterin/vek"
)

// cosineSimilarity dispatches to vek's SIMD kernel for vectors of 8 or
// more dimensions (vek.Dot/vek.Norm operate on 8-wide blocks internally),
// else falls back to a scalar loop.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) >= 8 {
		return simdCosine(a, b)
	}
	return scalarCosine(a, b)
}

func simdCosine(a, b []float32) float32 {
	dot := vek.Dot(a, b)
	normA := vek.Norm(a)
	normB := vek.Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}

func scalarCosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		fa, fb := float64(a[i]), float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
