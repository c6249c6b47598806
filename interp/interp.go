// Package interp provides inverse-distance interpolation of scalar fields
// at an arbitrary point from a set of node values, used for receiver
// traveltimes and for the anchor-point time used by gradient recovery.
package interp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// coincidentTol is the distance below which a query point is treated as
// exactly on a node, avoiding a 1/0 weight.
const coincidentTol = 1e-12

// InverseDistance returns T(p) = sum(w_i * T_i) / sum(w_i), w_i = 1/|p-p_i|,
// short-circuiting to T_i when p coincides with node i.
func InverseDistance(dists []float64, values []float64) float64 {
	if len(dists) != len(values) || len(dists) == 0 {
		return math.NaN()
	}
	for i, d := range dists {
		if d <= coincidentTol {
			return values[i]
		}
	}
	weights := make([]float64, len(dists))
	for i, d := range dists {
		weights[i] = 1. / d
	}
	return floats.Dot(weights, values) / floats.Sum(weights)
}
