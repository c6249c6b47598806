package utils

import (
	"gonum.org/v1/gonum/mat"
)

// ConditionNumber returns the ratio of the largest to smallest singular
// value of m, used to flag a rank-deficient least-squares system before
// trusting its solution. Returns a large sentinel value when the SVD fails
// to converge or the system is singular.
func ConditionNumber(m mat.Matrix) float64 {
	minVal, maxVal := SingularValues(m)
	if minVal < 1e-16 {
		return 1e16
	}
	return maxVal / minVal
}

// SingularValues returns the smallest and largest singular values of m.
func SingularValues(m mat.Matrix) (min, max float64) {
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		return 0, 1e16
	}
	values := svd.Values(nil)
	if len(values) == 0 {
		return 0, 1e16
	}
	return values[len(values)-1], values[0]
}
