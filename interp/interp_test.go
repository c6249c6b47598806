package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInverseDistanceCoincident(t *testing.T) {
	got := InverseDistance([]float64{0, 1, 2}, []float64{5, 10, 20})
	assert.Equal(t, 5.0, got)
}

func TestInverseDistanceWeighted(t *testing.T) {
	got := InverseDistance([]float64{1, 1}, []float64{2, 4})
	assert.InDelta(t, 3.0, got, 1e-12)
}
