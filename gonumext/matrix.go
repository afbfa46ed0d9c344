// Package gonumext collects small gonum matrix helpers shared by the
// analysis packages.
package gonumext

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Identity returns the (n by n) identity as a symmetric matrix, usable
// wherever a covariance is expected.
func Identity(n int) *mat.SymDense {
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		s.SetSym(i, i, 1)
	}
	return s
}

// NaNOrInf checks if there are any NaN or Inf entries in matrix
func NaNOrInf(matrix mat.Matrix) bool {
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if math.IsNaN(matrix.At(row, col)) || math.IsInf(matrix.At(row, col), 0) {
				return true
			}
		}
	}
	return false
}
