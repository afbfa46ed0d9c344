package fisher

import (
	"gonum.org/v1/gonum/mat"

	"github.com/astro-YYH/LensTools/analysis"
	"github.com/astro-YYH/LensTools/gonumext"
)

// checkCovariance validates a feature covariance against the established
// feature length and returns its Cholesky factorization. A nil covariance
// means the identity.
func (fa *Analysis) checkCovariance(cov mat.Symmetric) (*mat.Cholesky, error) {
	f := fa.FeatureDim()
	if cov == nil {
		cov = gonumext.Identity(f)
	}
	if n := cov.SymmetricDim(); n != f {
		return nil, &analysis.ErrShapeMismatch{What: "covariance dimension", Expected: f, Got: n}
	}
	if gonumext.NaNOrInf(cov) {
		return nil, ErrNonFiniteCovariance
	}

	var chol mat.Cholesky
	if !chol.Factorize(cov) {
		return nil, ErrSingularCovariance
	}
	return &chol, nil
}

// FisherMatrix assembles F = D C^-1 D^T from the last derivative pass, where
// D is the derivative matrix and C the feature covariance. Row and column i
// of F refer to the parameter Varied()[i]. A nil covariance means the
// identity, unit variance per feature bin with no correlation.
func (fa *Analysis) FisherMatrix(cov mat.Symmetric) (*mat.SymDense, error) {
	if fa.res == nil {
		return nil, ErrNotComputed
	}
	chol, err := fa.checkCovariance(cov)
	if err != nil {
		return nil, err
	}
	return fa.fisherMatrix(chol)
}

func (fa *Analysis) fisherMatrix(chol *mat.Cholesky) (*mat.SymDense, error) {
	d := fa.res.derivatives
	k, _ := d.Dims()

	// X = C^-1 D^T, then F = D X.
	var x mat.Dense
	if err := chol.SolveTo(&x, d.T()); err != nil {
		return nil, err
	}
	var prod mat.Dense
	prod.Mul(d, &x)

	// Symmetrize against round off.
	fm := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			fm.SetSym(i, j, 0.5*(prod.At(i, j)+prod.At(j, i)))
		}
	}
	return fm, nil
}

// Fit estimates the best fit parameters from the observed feature vector by
// generalized least squares around the fiducial model:
//
//	p = p_fid + F^-1 D C^-1 (observed - fiducial feature)
//
// Only the parameters actually varied in the derivative pass are updated;
// the remaining entries stay at their fiducial values. A nil covariance
// means the identity.
func (fa *Analysis) Fit(cov mat.Symmetric) ([]float64, error) {
	if fa.res == nil {
		return nil, ErrNotComputed
	}
	observed := fa.Observed()
	if observed == nil {
		return nil, ErrNoObservation
	}
	f := fa.FeatureDim()
	if len(observed) != f {
		return nil, &analysis.ErrShapeMismatch{What: "observed feature length", Expected: f, Got: len(observed)}
	}
	chol, err := fa.checkCovariance(cov)
	if err != nil {
		return nil, err
	}

	fidFeature := fa.Feature(fa.fiducial)
	r := mat.NewVecDense(f, nil)
	for k := 0; k < f; k++ {
		r.SetVec(k, observed[k]-fidFeature[k])
	}

	// b = D C^-1 r
	var y mat.VecDense
	if err := chol.SolveVecTo(&y, r); err != nil {
		return nil, err
	}
	d := fa.res.derivatives
	var b mat.VecDense
	b.MulVec(d, &y)

	fm, err := fa.fisherMatrix(chol)
	if err != nil {
		return nil, err
	}
	var fchol mat.Cholesky
	if !fchol.Factorize(fm) {
		return nil, ErrSingularFisher
	}
	var delta mat.VecDense
	if err := fchol.SolveVecTo(&delta, &b); err != nil {
		return nil, err
	}

	fit := append([]float64(nil), fa.Parameters(fa.fiducial)...)
	for i, pi := range fa.res.varied {
		fit[pi] += delta.AtVec(i)
	}
	return fit, nil
}
