// Package fisher implements a Fisher matrix analysis on top of the model
// repository: it selects a fiducial model, checks that every other model
// perturbs exactly one parameter with respect to it, and estimates the
// feature derivatives by one step finite differences. The derivatives feed
// the Fisher matrix and the generalized least squares fit of the observed
// feature.
package fisher

import (
	"gonum.org/v1/gonum/mat"

	"github.com/astro-YYH/LensTools/analysis"
)

// Analysis is the handler of a Fisher matrix analysis. It extends the model
// repository with a fiducial model selection and the derived artifacts of the
// last successful derivative pass.
type Analysis struct {
	*analysis.Analysis

	fiducial int
	res      *results
}

// results carries the artifacts of one successful derivative pass. A nil
// results pointer on the Analysis means no pass has succeeded yet.
type results struct {
	derivatives *mat.Dense // (models-1) by FeatureDim
	varied      []int      // varied parameter index per perturbed model
}

// New returns a Fisher analysis over an empty model repository.
func New() *Analysis {
	return &Analysis{Analysis: analysis.New()}
}

// From returns a Fisher analysis over an existing repository. The repository
// may keep growing through the embedded Analysis before derivatives are
// computed.
func From(a *analysis.Analysis) *Analysis {
	return &Analysis{Analysis: a}
}

// SetFiducial selects the model the derivatives are computed against,
// default model 0. An out of range index is rejected and the current
// selection kept.
func (fa *Analysis) SetFiducial(n int) error {
	if n < 0 || n >= fa.Models() {
		return &ErrIndexOutOfRange{Index: n, Models: fa.Models()}
	}
	fa.fiducial = n
	return nil
}

// Fiducial returns the index of the current fiducial model.
func (fa *Analysis) Fiducial() int { return fa.fiducial }

// ComputeDerivatives estimates the feature derivatives with respect to each
// varied parameter by one step finite differences against the fiducial
// model. Every non fiducial model must differ from the fiducial in exactly
// one parameter, and no parameter may be varied by two models. The returned
// matrix has one row per non fiducial model, in repository order, holding
//
//	(feature - fiducial feature) / (parameter - fiducial parameter)
//
// for the varied parameter. Results of a previous successful pass survive
// any failure.
//
// The varied parameter is found by exact comparison: every entry but one
// must equal the fiducial entry bit for bit. Parameter grids produced by
// floating point arithmetic rather than assigned values can therefore differ
// in more positions than intended.
func (fa *Analysis) ComputeDerivatives() (*mat.Dense, error) {
	m := fa.Models()
	if m < 2 {
		return nil, &ErrInsufficientModels{Models: m}
	}

	p := fa.ParameterDim()
	f := fa.FeatureDim()
	fidParams := fa.Parameters(fa.fiducial)
	fidFeature := fa.Feature(fa.fiducial)

	derivatives := mat.NewDense(m-1, f, nil)
	varied := make([]int, 0, m-1)

	row := 0
	for i := 0; i < m; i++ {
		if i == fa.fiducial {
			continue
		}
		params := fa.Parameters(i)

		differing := 0
		variedIndex := -1
		for j := 0; j < p; j++ {
			if params[j] != fidParams[j] {
				differing++
				variedIndex = j
			}
		}
		if differing != 1 {
			return nil, &ErrMultipleParametersVaried{Model: i, Differing: differing}
		}
		for _, earlier := range varied {
			if earlier == variedIndex {
				return nil, &ErrDuplicateParameterVariation{Model: i, Parameter: variedIndex}
			}
		}
		varied = append(varied, variedIndex)

		step := params[variedIndex] - fidParams[variedIndex]
		feature := fa.Feature(i)
		d := derivatives.RawRowView(row)
		for k := 0; k < f; k++ {
			d[k] = (feature[k] - fidFeature[k]) / step
		}
		row++
	}

	fa.res = &results{derivatives: derivatives, varied: varied}
	return derivatives, nil
}

// Derivatives returns the derivative matrix of the most recent successful
// pass.
func (fa *Analysis) Derivatives() (*mat.Dense, error) {
	if fa.res == nil {
		return nil, ErrNotComputed
	}
	return fa.res.derivatives, nil
}

// Varied returns the ordered varied parameter indices of the most recent
// successful pass: entry i names the parameter whose derivative sits in row
// i of the derivative matrix.
func (fa *Analysis) Varied() ([]int, error) {
	if fa.res == nil {
		return nil, ErrNotComputed
	}
	return fa.res.varied, nil
}

// String summarizes the analysis contents.
func (fa *Analysis) String() string {
	return "Fisher " + fa.Analysis.String()
}
