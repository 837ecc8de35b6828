package embed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestL2Normalize(t *testing.T) {
	t.Run("scales to unit length", func(t *testing.T) {
		got := L2Normalize([]float32{3, 4, 0})
		require.Len(t, got, 3)
		assert.InDelta(t, 0.6, got[0], 1e-6)
		assert.InDelta(t, 0.8, got[1], 1e-6)
		assert.InDelta(t, 0.0, got[2], 1e-6)
	})

	t.Run("result has norm one", func(t *testing.T) {
		got := L2Normalize([]float32{1.5, -2.25, 0.5, 7})
		var sum float64
		for _, v := range got {
			sum += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
	})

	t.Run("zero vector is returned unchanged", func(t *testing.T) {
		got := L2Normalize([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, got)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		in := []float32{3, 4}
		_ = L2Normalize(in)
		assert.Equal(t, []float32{3, 4}, in)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, L2Normalize(nil))
	})
}
