package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/aqiReport/datasets"
)

// Preprocess describes the column transformer fitted ahead of an estimator.
// Numeric columns are imputed, then standardised; the categorical column is
// one-hot encoded over Categories and appended after the numeric block.
type Preprocess struct {
	// Numeric lists the feature columns fed to the estimator, in order.
	Numeric []string `json:"numeric"`

	// Impute replaces NaN in numeric column i (optional).
	Impute []float64 `json:"impute,omitempty"`

	// Mean and Scale standardise numeric column i as (x-Mean[i])/Scale[i] (optional).
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`

	// Categorical names the one-hot encoded column. Only the station
	// identifier is supported. Unknown categories encode to all zeros.
	Categorical string   `json:"categorical,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

type preprocessor struct {
	spec     Preprocess
	catIndex map[string]int
	names    []string
}

func newPreprocessor(p Preprocess) (*preprocessor, error) {
	n := len(p.Numeric)
	if n+len(p.Categories) == 0 {
		return nil, fmt.Errorf("preprocess has no input columns")
	}
	for what, v := range map[string][]float64{"impute": p.Impute, "mean": p.Mean, "scale": p.Scale} {
		if len(v) != 0 && len(v) != n {
			return nil, fmt.Errorf("preprocess %s has %d values for %d numeric columns", what, len(v), n)
		}
	}
	if len(p.Mean) != len(p.Scale) {
		return nil, fmt.Errorf("preprocess mean and scale must be given together")
	}
	for i, s := range p.Scale {
		if s == 0 || math.IsNaN(s) {
			return nil, fmt.Errorf("preprocess scale for %q is %v", p.Numeric[i], s)
		}
	}
	if len(p.Categories) > 0 && p.Categorical != datasets.StationColumn {
		return nil, fmt.Errorf("unsupported categorical column %q", p.Categorical)
	}

	names := make([]string, 0, n+len(p.Categories))
	seen := make(map[string]bool, n)
	for _, c := range p.Numeric {
		if seen[c] {
			return nil, fmt.Errorf("numeric column %q listed twice", c)
		}
		seen[c] = true
		names = append(names, c)
	}
	catIndex := make(map[string]int, len(p.Categories))
	for i, c := range p.Categories {
		if _, dup := catIndex[c]; dup {
			return nil, fmt.Errorf("category %q listed twice", c)
		}
		catIndex[c] = i
		names = append(names, p.Categorical+"_"+c)
	}
	return &preprocessor{spec: p, catIndex: catIndex, names: names}, nil
}

// Width is the number of design matrix columns.
func (p *preprocessor) Width() int {
	return len(p.names)
}

// Names returns the design matrix column names.
func (p *preprocessor) Names() []string {
	return p.names
}

// Transform builds the design matrix for ft. ft must not be empty.
func (p *preprocessor) Transform(ft *datasets.FeatureTable) (*mat.Dense, error) {
	if ft.Len() == 0 {
		return nil, fmt.Errorf("cannot transform an empty feature table")
	}
	cols := make([]int, len(p.spec.Numeric))
	for i, name := range p.spec.Numeric {
		j, ok := ft.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("feature column %q not found in input", name)
		}
		cols[i] = j
	}

	n := len(cols)
	x := mat.NewDense(ft.Len(), p.Width(), nil)
	for r, row := range ft.Values {
		out := x.RawRowView(r)
		for i, j := range cols {
			v := row[j]
			if math.IsNaN(v) && p.spec.Impute != nil {
				v = p.spec.Impute[i]
			}
			if p.spec.Mean != nil {
				v = (v - p.spec.Mean[i]) / p.spec.Scale[i]
			}
			out[i] = v
		}
		if k, ok := p.catIndex[ft.StationIDs[r]]; ok {
			out[n+k] = 1
		}
	}
	return x, nil
}
