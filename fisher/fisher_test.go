package fisher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/astro-YYH/LensTools/analysis"
)

func TestComputeDerivativesSingleParameter(t *testing.T) {
	fa := New()
	require.NoError(t, fa.AddModel([]float64{1, 2}, []float64{10}))
	require.NoError(t, fa.AddModel([]float64{1, 3}, []float64{16}))

	d, err := fa.ComputeDerivatives()
	require.NoError(t, err)

	rows, cols := d.Dims()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, cols)
	assert.InDelta(t, 6.0, d.At(0, 0), 1e-15)

	varied, err := fa.Varied()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, varied)
}

func TestComputeDerivativesOrderAndFiducial(t *testing.T) {
	fa := New()
	// The fiducial sits in the middle of the repository; the perturbed
	// models keep their relative order around it.
	require.NoError(t, fa.AddModel([]float64{1, 2, 4}, []float64{11, 21})) // varies parameter 2
	require.NoError(t, fa.AddModel([]float64{1, 2, 3}, []float64{10, 20})) // fiducial
	require.NoError(t, fa.AddModel([]float64{2, 2, 3}, []float64{12, 24})) // varies parameter 0
	require.NoError(t, fa.AddModel([]float64{1, 4, 3}, []float64{14, 22})) // varies parameter 1

	require.NoError(t, fa.SetFiducial(1))
	d, err := fa.ComputeDerivatives()
	require.NoError(t, err)

	varied, err := fa.Varied()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, varied)

	rows, cols := d.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 2, cols)
	assert.InDelta(t, 1.0, d.At(0, 0), 1e-15) // (11-10)/(4-3)
	assert.InDelta(t, 1.0, d.At(0, 1), 1e-15)
	assert.InDelta(t, 2.0, d.At(1, 0), 1e-15) // (12-10)/(2-1)
	assert.InDelta(t, 4.0, d.At(1, 1), 1e-15)
	assert.InDelta(t, 2.0, d.At(2, 0), 1e-15) // (14-10)/(4-2)
	assert.InDelta(t, 1.0, d.At(2, 1), 1e-15)
}

func TestComputeDerivativesDeterministic(t *testing.T) {
	fa := New()
	require.NoError(t, fa.AddModel([]float64{1, 2}, []float64{10, 20}))
	require.NoError(t, fa.AddModel([]float64{1, 3}, []float64{16, 26}))
	require.NoError(t, fa.AddModel([]float64{4, 2}, []float64{13, 29}))

	d1, err := fa.ComputeDerivatives()
	require.NoError(t, err)
	v1, err := fa.Varied()
	require.NoError(t, err)

	d2, err := fa.ComputeDerivatives()
	require.NoError(t, err)
	v2, err := fa.Varied()
	require.NoError(t, err)

	assert.True(t, mat.Equal(d1, d2))
	assert.Equal(t, v1, v2)
}

func TestComputeDerivativesMultipleVaried(t *testing.T) {
	tests := []struct {
		name      string
		perturbed []float64
		differing int
	}{
		{"TwoVaried", []float64{2, 3}, 2},
		{"NoneVaried", []float64{1, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := New()
			require.NoError(t, fa.AddModel([]float64{1, 2}, []float64{10}))
			require.NoError(t, fa.AddModel(tt.perturbed, []float64{16}))

			_, err := fa.ComputeDerivatives()
			var mv *ErrMultipleParametersVaried
			require.ErrorAs(t, err, &mv)
			assert.Equal(t, 1, mv.Model)
			assert.Equal(t, tt.differing, mv.Differing)
		})
	}
}

func TestComputeDerivativesDuplicateVariation(t *testing.T) {
	fa := New()
	require.NoError(t, fa.AddModel([]float64{1, 2}, []float64{10}))
	require.NoError(t, fa.AddModel([]float64{2, 2}, []float64{12}))
	require.NoError(t, fa.AddModel([]float64{3, 2}, []float64{14}))

	_, err := fa.ComputeDerivatives()
	var dv *ErrDuplicateParameterVariation
	require.ErrorAs(t, err, &dv)
	assert.Equal(t, 2, dv.Model)
	assert.Equal(t, 0, dv.Parameter)
}

func TestComputeDerivativesInsufficientModels(t *testing.T) {
	fa := New()

	_, err := fa.ComputeDerivatives()
	var im *ErrInsufficientModels
	require.ErrorAs(t, err, &im)
	assert.Equal(t, 0, im.Models)

	require.NoError(t, fa.AddModel([]float64{1, 2}, []float64{10}))
	_, err = fa.ComputeDerivatives()
	require.ErrorAs(t, err, &im)
	assert.Equal(t, 1, im.Models)
}

func TestFailedPassKeepsPriorResults(t *testing.T) {
	fa := New()
	require.NoError(t, fa.AddModel([]float64{1, 2}, []float64{10}))
	require.NoError(t, fa.AddModel([]float64{1, 3}, []float64{16}))

	d1, err := fa.ComputeDerivatives()
	require.NoError(t, err)

	// A model varying two parameters makes the next pass fail, but the
	// earlier results must stay queryable.
	require.NoError(t, fa.AddModel([]float64{2, 4}, []float64{20}))
	_, err = fa.ComputeDerivatives()
	var mv *ErrMultipleParametersVaried
	require.ErrorAs(t, err, &mv)

	d2, err := fa.Derivatives()
	require.NoError(t, err)
	assert.True(t, mat.Equal(d1, d2))
	varied, err := fa.Varied()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, varied)
}

func TestEmptyFeatureModelsRejectedBeforeCompute(t *testing.T) {
	fa := New()

	// Empty vectors never enter the repository, so the derivative pass can
	// rely on the established shapes being non zero.
	err := fa.AddModel([]float64{1, 2}, nil)
	var sm *analysis.ErrShapeMismatch
	require.ErrorAs(t, err, &sm)
	err = fa.AddModel([]float64{1, 2}, nil)
	require.ErrorAs(t, err, &sm)

	_, err = fa.ComputeDerivatives()
	var im *ErrInsufficientModels
	require.ErrorAs(t, err, &im)
	assert.Equal(t, 0, im.Models)
}

func TestSetFiducialOutOfRange(t *testing.T) {
	fa := New()
	require.NoError(t, fa.AddModel([]float64{1, 2}, []float64{10}))
	require.NoError(t, fa.AddModel([]float64{1, 3}, []float64{16}))
	require.NoError(t, fa.SetFiducial(1))

	var oor *ErrIndexOutOfRange
	err := fa.SetFiducial(2)
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 2, oor.Index)
	assert.Equal(t, 2, oor.Models)

	err = fa.SetFiducial(-1)
	require.ErrorAs(t, err, &oor)

	// Rejected selections keep the previous fiducial.
	assert.Equal(t, 1, fa.Fiducial())
}

func TestVariedBeforeCompute(t *testing.T) {
	fa := New()
	require.NoError(t, fa.AddModel([]float64{1, 2}, []float64{10}))

	_, err := fa.Varied()
	assert.ErrorIs(t, err, ErrNotComputed)
	_, err = fa.Derivatives()
	assert.ErrorIs(t, err, ErrNotComputed)
}

func TestString(t *testing.T) {
	fa := New()
	assert.Equal(t, "Fisher analysis with no models in it yet", fa.String())

	require.NoError(t, fa.AddModel([]float64{1, 2}, []float64{10}))
	assert.Equal(t, "Fisher analysis based on 1 models spanning a 2-dimensional parameter space", fa.String())
}
