// Package models loads pretrained regression artifacts and exposes them
// behind a single Predictor interface.
//
// Artifacts are JSON exports of fitted pipelines: an optional preprocessing
// step (imputation, standard scaling, one-hot station encoding) followed by
// one of three estimator kinds:
//   - "linear":  y = X·coef + intercept (OLS, ElasticNet)
//   - "xgboost": gradient-boosted regression trees in xgboost's JSON dump format
//   - "mlp":     a dense feed-forward network with an identity output unit
package models

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Noofbiz/aqiReport/datasets"
)

// Predictor is a fitted model: given a feature table it returns one
// prediction per row.
type Predictor interface {
	Name() string
	Predict(ft *datasets.FeatureTable) ([]float64, error)
}

// Artifact kinds.
const (
	KindLinear  = "linear"
	KindXGBoost = "xgboost"
	KindMLP     = "mlp"
)

// Artifact is the on-disk representation of a fitted model.
type Artifact struct {
	Name       string       `json:"name"`
	Kind       string       `json:"kind"`
	Preprocess Preprocess   `json:"preprocess"`
	Linear     *LinearSpec  `json:"linear,omitempty"`
	XGBoost    *XGBoostSpec `json:"xgboost,omitempty"`
	MLP        *MLPSpec     `json:"mlp,omitempty"`
}

// Spec names a model artifact on disk.
type Spec struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// DefaultSpecs are the four Q1 models in report order.
func DefaultSpecs() []Spec {
	return []Spec{
		{Name: "OLS", Path: "model/Q1_models/ols_pipe.json"},
		{Name: "ElasticNet", Path: "model/Q1_models/elasticnet_best.json"},
		{Name: "XGBoost", Path: "model/Q1_models/xgb_best.json"},
		{Name: "MLP", Path: "model/Q1_models/mlp_best.json"},
	}
}

// Load reads the artifact at path and builds its Predictor under the given
// logical name (the artifact's own name is only used when name is empty).
func Load(name, path string) (Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	if name != "" {
		a.Name = name
	}
	p, err := FromArtifact(a)
	if err != nil {
		return nil, fmt.Errorf("model %s (%s): %w", a.Name, path, err)
	}
	return p, nil
}

// LoadAll loads every spec, preserving order. The first failure aborts.
func LoadAll(specs []Spec) ([]Predictor, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no models configured")
	}
	seen := make(map[string]bool, len(specs))
	out := make([]Predictor, 0, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("model spec for %s has no name", s.Path)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("model name %q configured twice", s.Name)
		}
		seen[s.Name] = true
		p, err := Load(s.Name, s.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// FromArtifact validates a decoded artifact and builds its Predictor.
func FromArtifact(a Artifact) (Predictor, error) {
	if a.Name == "" {
		return nil, fmt.Errorf("artifact has no name")
	}
	pre, err := newPreprocessor(a.Preprocess)
	if err != nil {
		return nil, err
	}
	var p Predictor
	switch a.Kind {
	case KindLinear:
		if a.Linear == nil {
			return nil, fmt.Errorf("kind %q without a linear section", a.Kind)
		}
		p, err = newLinear(a.Name, pre, *a.Linear)
	case KindXGBoost:
		if a.XGBoost == nil {
			return nil, fmt.Errorf("kind %q without an xgboost section", a.Kind)
		}
		p, err = newTreeEnsemble(a.Name, pre, *a.XGBoost)
	case KindMLP:
		if a.MLP == nil {
			return nil, fmt.Errorf("kind %q without an mlp section", a.Kind)
		}
		p, err = newMLP(a.Name, pre, *a.MLP)
	default:
		return nil, fmt.Errorf("unknown model kind %q", a.Kind)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
