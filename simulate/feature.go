// Package simulate provides deterministic parameter to feature maps and a
// one parameter at a time grid builder, standing in for the simulation
// pipeline that would normally produce the models of an analysis.
package simulate

import (
	"math"

	"github.com/astro-YYH/LensTools/analysis"
)

// FeatureModel maps a cosmological parameter vector to a binned feature
// vector, playing the role of the statistic measured on a full simulation.
type FeatureModel struct {
	F    func(parameters []float64) []float64
	Bins int
}

// NewFeatureModel returns a FeatureModel initialised with f and its bin
// count.
func NewFeatureModel(f func(parameters []float64) []float64, bins int) FeatureModel {
	return FeatureModel{f, bins}
}

// Evaluate returns the feature vector of the model at parameters.
func (fm FeatureModel) Evaluate(parameters []float64) []float64 {
	return fm.F(parameters)
}

// NewPowerLaw returns a two parameter (amplitude, tilt) power law spectrum
// sampled on bins logarithmically spaced between kmin and kmax:
//
//	f_i = amplitude * k_i^tilt
func NewPowerLaw(bins int, kmin, kmax float64) FeatureModel {
	k := make([]float64, bins)
	if bins == 1 {
		k[0] = kmin
	} else {
		step := math.Log(kmax/kmin) / float64(bins-1)
		for i := range k {
			k[i] = kmin * math.Exp(float64(i)*step)
		}
	}
	f := func(parameters []float64) []float64 {
		feature := make([]float64, bins)
		for i := range feature {
			feature[i] = parameters[0] * math.Pow(k[i], parameters[1])
		}
		return feature
	}
	return FeatureModel{F: f, Bins: bins}
}

// Grid evaluates the model on a one parameter at a time grid around the
// fiducial parameters: the fiducial model first, then one perturbed model
// per parameter with steps[i] added to parameter i. The returned repository
// is ready for a Fisher analysis with fiducial index 0.
func Grid(model FeatureModel, fiducial, steps []float64) (*analysis.Analysis, error) {
	if len(steps) != len(fiducial) {
		return nil, &analysis.ErrShapeMismatch{What: "step vector length", Expected: len(fiducial), Got: len(steps)}
	}

	a := analysis.New()
	if err := a.AddModel(fiducial, model.Evaluate(fiducial)); err != nil {
		return nil, err
	}
	for i, step := range steps {
		perturbed := append([]float64(nil), fiducial...)
		perturbed[i] += step
		if err := a.AddModel(perturbed, model.Evaluate(perturbed)); err != nil {
			return nil, err
		}
	}
	return a, nil
}
