package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/aqiReport/datasets"
)

// LinearSpec holds the fitted coefficients of a linear regressor (OLS,
// ElasticNet, Ridge, ...).
type LinearSpec struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

type linearModel struct {
	name      string
	pre       *preprocessor
	coef      *mat.VecDense
	intercept float64
}

func newLinear(name string, pre *preprocessor, spec LinearSpec) (*linearModel, error) {
	if len(spec.Coef) != pre.Width() {
		return nil, fmt.Errorf("linear model has %d coefficients for %d design columns", len(spec.Coef), pre.Width())
	}
	coef := make([]float64, len(spec.Coef))
	copy(coef, spec.Coef)
	return &linearModel{
		name:      name,
		pre:       pre,
		coef:      mat.NewVecDense(len(coef), coef),
		intercept: spec.Intercept,
	}, nil
}

func (m *linearModel) Name() string { return m.name }

// Predict computes X·coef + intercept for every row.
func (m *linearModel) Predict(ft *datasets.FeatureTable) ([]float64, error) {
	if ft.Len() == 0 {
		return []float64{}, nil
	}
	x, err := m.pre.Transform(ft)
	if err != nil {
		return nil, err
	}
	var y mat.VecDense
	y.MulVec(x, m.coef)
	out := make([]float64, ft.Len())
	for i := range out {
		out[i] = y.AtVec(i) + m.intercept
	}
	return out, nil
}
