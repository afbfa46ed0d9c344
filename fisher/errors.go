package fisher

import (
	"errors"
	"fmt"
)

// ErrNotComputed is returned when derivative results are queried before any
// successful call to ComputeDerivatives.
var ErrNotComputed = errors.New("derivatives not computed yet")

// ErrNoObservation is returned by Fit when the repository holds no observed
// feature vector.
var ErrNoObservation = errors.New("no observed feature vector set")

// ErrNonFiniteCovariance is returned when a supplied covariance matrix
// contains NaN or Inf entries.
var ErrNonFiniteCovariance = errors.New("covariance contains NaN or Inf entries")

// ErrSingularCovariance is returned when the feature covariance is not
// positive definite and cannot be inverted.
var ErrSingularCovariance = errors.New("covariance matrix is not positive definite")

// ErrSingularFisher is returned when the assembled Fisher matrix is not
// positive definite, meaning the derivatives are degenerate.
var ErrSingularFisher = errors.New("fisher matrix is not positive definite")

// ErrIndexOutOfRange indicates a fiducial index pointing past the models
// currently in the analysis.
type ErrIndexOutOfRange struct {
	Index  int
	Models int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("fiducial index %d out of range: %d models in the analysis", e.Index, e.Models)
}

// ErrInsufficientModels indicates a derivative request on an analysis with
// fewer than two models.
type ErrInsufficientModels struct {
	Models int
}

func (e *ErrInsufficientModels) Error() string {
	return fmt.Sprintf("at least 2 models are needed to compute derivatives, have %d", e.Models)
}

// ErrMultipleParametersVaried reports a perturbed model whose parameter
// vector differs from the fiducial in zero or more than one position.
type ErrMultipleParametersVaried struct {
	Model     int
	Differing int
}

func (e *ErrMultipleParametersVaried) Error() string {
	return fmt.Sprintf("model %d varies %d parameters with respect to the fiducial, must vary exactly one", e.Model, e.Differing)
}

// ErrDuplicateParameterVariation reports a perturbed model varying a
// parameter already varied by an earlier model in the same pass.
type ErrDuplicateParameterVariation struct {
	Model     int
	Parameter int
}

func (e *ErrDuplicateParameterVariation) Error() string {
	return fmt.Sprintf("model %d varies parameter %d, already varied by an earlier model", e.Model, e.Parameter)
}
