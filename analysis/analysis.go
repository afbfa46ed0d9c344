// Package analysis holds the model repository of a weak lensing analysis:
// a growing set of simulated models, each a parameter vector paired with the
// feature vector measured on it, together with the single feature vector
// measured on the real data. The first inserted model establishes the
// parameter length and the feature length, and every later insertion is
// checked against them.
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Analysis accumulates simulated models and the observed feature vector.
// Parameter and feature rows are stored row major with the dimensions
// established by the first insertion.
//
// An Analysis is not safe for concurrent mutation; callers must serialize
// access.
type Analysis struct {
	models   int
	paramDim int
	featDim  int

	// Row major storage, models*paramDim and models*featDim entries.
	parameters []float64
	features   []float64

	observed []float64
}

// New returns an empty Analysis with no models in it.
func New() *Analysis {
	return &Analysis{}
}

// NewFromSets returns an Analysis pre seeded with a batch of models: one row
// of parameterSet and one row of trainingSet per model. Both batches must be
// given together with matching row counts and at least one column each, or
// both omitted. The observed feature vector may be nil.
func NewFromSets(parameterSet, trainingSet mat.Matrix, observed []float64) (*Analysis, error) {
	a := New()

	switch {
	case parameterSet == nil && trainingSet == nil:
	case parameterSet == nil:
		rows, _ := trainingSet.Dims()
		return nil, &ErrShapeMismatch{What: "model count", Expected: rows, Got: 0}
	case trainingSet == nil:
		rows, _ := parameterSet.Dims()
		return nil, &ErrShapeMismatch{What: "model count", Expected: rows, Got: 0}
	default:
		mp, p := parameterSet.Dims()
		mf, f := trainingSet.Dims()
		if mp != mf {
			return nil, &ErrShapeMismatch{What: "model count", Expected: mp, Got: mf}
		}
		if mp == 0 {
			break
		}
		if p == 0 {
			return nil, &ErrShapeMismatch{What: "parameter vector length", Expected: 1, Got: 0}
		}
		if f == 0 {
			return nil, &ErrShapeMismatch{What: "feature vector length", Expected: 1, Got: 0}
		}
		a.models = mp
		a.paramDim = p
		a.featDim = f
		a.parameters = make([]float64, 0, mp*p)
		a.features = make([]float64, 0, mf*f)
		for i := 0; i < mp; i++ {
			for j := 0; j < p; j++ {
				a.parameters = append(a.parameters, parameterSet.At(i, j))
			}
			for j := 0; j < f; j++ {
				a.features = append(a.features, trainingSet.At(i, j))
			}
		}
	}

	if observed != nil {
		if err := a.SetObserved(observed); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// AddModel appends one simulated model to the repository. The first model
// establishes the parameter length and the feature length, both of which
// must be non empty; later models must match them. A rejected insertion
// leaves the repository untouched. Both vectors are copied on insert.
func (a *Analysis) AddModel(parameters, feature []float64) error {
	if a.models == 0 {
		if len(parameters) == 0 {
			return &ErrShapeMismatch{What: "parameter vector length", Expected: 1, Got: 0}
		}
		if len(feature) == 0 {
			return &ErrShapeMismatch{What: "feature vector length", Expected: 1, Got: 0}
		}
		a.paramDim = len(parameters)
		a.featDim = len(feature)
	} else {
		if len(parameters) != a.paramDim {
			return &ErrShapeMismatch{What: "parameter vector length", Expected: a.paramDim, Got: len(parameters)}
		}
		if len(feature) != a.featDim {
			return &ErrShapeMismatch{What: "feature vector length", Expected: a.featDim, Got: len(feature)}
		}
	}

	a.parameters = append(a.parameters, parameters...)
	a.features = append(a.features, feature...)
	a.models++
	return nil
}

// SetObserved stores the feature vector measured on the real data. When the
// repository already holds models its length must match the established
// feature length; on an empty repository it is accepted as given. The vector
// is copied.
func (a *Analysis) SetObserved(observed []float64) error {
	if a.models > 0 && len(observed) != a.featDim {
		return &ErrShapeMismatch{What: "observed feature length", Expected: a.featDim, Got: len(observed)}
	}
	a.observed = append([]float64(nil), observed...)
	return nil
}

// Models returns the number of models in the repository.
func (a *Analysis) Models() int { return a.models }

// ParameterDim returns the established parameter vector length, 0 while the
// repository is empty.
func (a *Analysis) ParameterDim() int { return a.paramDim }

// FeatureDim returns the established feature vector length, 0 while the
// repository is empty.
func (a *Analysis) FeatureDim() int { return a.featDim }

// Parameters returns the parameter vector of model i. The slice aliases the
// repository storage and must not be modified.
func (a *Analysis) Parameters(i int) []float64 {
	return a.parameters[i*a.paramDim : (i+1)*a.paramDim]
}

// Feature returns the feature vector of model i. The slice aliases the
// repository storage and must not be modified.
func (a *Analysis) Feature(i int) []float64 {
	return a.features[i*a.featDim : (i+1)*a.featDim]
}

// Observed returns the observed feature vector, nil if none has been set.
func (a *Analysis) Observed() []float64 { return a.observed }

// ParameterSet returns a copy of the parameter rows as a (models by
// ParameterDim) matrix, nil while the repository is empty.
func (a *Analysis) ParameterSet() *mat.Dense {
	if a.models == 0 {
		return nil
	}
	return mat.NewDense(a.models, a.paramDim, append([]float64(nil), a.parameters...))
}

// TrainingSet returns a copy of the feature rows as a (models by FeatureDim)
// matrix, nil while the repository is empty.
func (a *Analysis) TrainingSet() *mat.Dense {
	if a.models == 0 {
		return nil
	}
	return mat.NewDense(a.models, a.featDim, append([]float64(nil), a.features...))
}

// String summarizes the repository contents.
func (a *Analysis) String() string {
	if a.models == 0 {
		return "analysis with no models in it yet"
	}
	return fmt.Sprintf("analysis based on %d models spanning a %d-dimensional parameter space", a.models, a.paramDim)
}
