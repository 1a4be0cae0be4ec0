package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"

	"github.com/Noofbiz/aqiReport/datasets"
)

// MLPSpec holds the weights of a fitted feed-forward regressor.
type MLPSpec struct {
	// Activation applied after every hidden layer: relu (default), tanh,
	// logistic or identity. The output layer is always linear.
	Activation string `json:"activation"`

	// Layers in forward order. The last layer must have one output.
	Layers []LayerSpec `json:"layers"`
}

// LayerSpec is one dense layer. Weights has shape [out][in].
type LayerSpec struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

type mlpModel struct {
	name string
	pre  *preprocessor

	// layerSizes includes input size, hidden sizes, then output size.
	layerSizes []int

	// weights[l] is a matrix of shape [out][in] for layer l -> l+1
	weights [][][]float64

	// biases[l] is a vector of length out for layer l -> l+1
	biases [][]float64

	activation func([]float64)
}

func newMLP(name string, pre *preprocessor, spec MLPSpec) (*mlpModel, error) {
	act, err := activationFunc(spec.Activation)
	if err != nil {
		return nil, err
	}
	if len(spec.Layers) == 0 {
		return nil, errors.New("mlp has no layers")
	}

	m := &mlpModel{
		name:       name,
		pre:        pre,
		layerSizes: []int{pre.Width()},
		weights:    make([][][]float64, len(spec.Layers)),
		biases:     make([][]float64, len(spec.Layers)),
		activation: act,
	}
	for l, layer := range spec.Layers {
		in := m.layerSizes[l]
		out := len(layer.Bias)
		if out == 0 || len(layer.Weights) != out {
			return nil, fmt.Errorf("mlp layer %d: %d weight rows for %d biases", l, len(layer.Weights), out)
		}
		for j, row := range layer.Weights {
			if len(row) != in {
				return nil, fmt.Errorf("mlp layer %d row %d: expected %d inputs, got %d", l, j, in, len(row))
			}
		}
		m.weights[l] = layer.Weights
		m.biases[l] = layer.Bias
		m.layerSizes = append(m.layerSizes, out)
	}
	if last := m.layerSizes[len(m.layerSizes)-1]; last != 1 {
		return nil, fmt.Errorf("mlp output layer has %d units, expected 1", last)
	}
	return m, nil
}

func activationFunc(name string) (func([]float64), error) {
	switch name {
	case "", "relu":
		return activationReLU, nil
	case "tanh":
		return func(x []float64) {
			for i := range x {
				x[i] = math.Tanh(x[i])
			}
		}, nil
	case "logistic":
		return func(x []float64) {
			for i := range x {
				x[i] = 1 / (1 + math.Exp(-x[i]))
			}
		}, nil
	case "identity":
		return func([]float64) {}, nil
	}
	return nil, fmt.Errorf("unknown mlp activation %q", name)
}

// activationReLU applies ReLU in-place over the slice.
func activationReLU(x []float64) {
	for i := range x {
		if x[i] < 0 {
			x[i] = 0
		}
	}
}

// forwardSingle runs one input vector through every layer and returns the
// output activations.
func (m *mlpModel) forwardSingle(input []float64) ([]float64, error) {
	if len(input) != m.layerSizes[0] {
		return nil, errors.New("input has incorrect dimension")
	}
	L := len(m.weights)
	act := input
	for l := 0; l < L; l++ {
		W := m.weights[l]
		b := m.biases[l]
		next := make([]float64, len(b))
		for j := range next {
			sum := 0.0
			row := W[j]
			for i, v := range act {
				sum += row[i] * v
			}
			next[j] = sum + b[j]
		}
		// hidden layers only; the output stays linear
		if l < L-1 {
			m.activation(next)
		}
		act = next
	}
	return act, nil
}

// PredictTensor runs every row of a [batch, inputs] float64 tensor through
// the network and returns one output per row.
func (m *mlpModel) PredictTensor(t *tensors.Tensor) ([]float64, error) {
	if t.DType() != dtypes.Float64 {
		return nil, fmt.Errorf("mlp input tensor must be Float64, got %s", t.DType())
	}
	dims := t.Shape().Dimensions
	if len(dims) != 2 || dims[1] != m.layerSizes[0] {
		return nil, fmt.Errorf("mlp input tensor shape %v, expected [n %d]", dims, m.layerSizes[0])
	}
	n, width := dims[0], dims[1]
	out := make([]float64, n)
	var err error
	tensors.ConstFlatData(t, func(flat []float64) {
		for i := 0; i < n; i++ {
			var pred []float64
			pred, err = m.forwardSingle(flat[i*width : (i+1)*width])
			if err != nil {
				err = fmt.Errorf("row %d: %w", i, err)
				return
			}
			out[i] = pred[0]
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *mlpModel) Name() string { return m.name }

func (m *mlpModel) Predict(ft *datasets.FeatureTable) ([]float64, error) {
	if ft.Len() == 0 {
		return []float64{}, nil
	}
	x, err := m.pre.Transform(ft)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, ft.Len())
	for i := range rows {
		rows[i] = x.RawRowView(i)
	}
	batch, err := datasets.MakeFeatureBatchFlat(rows)
	if err != nil {
		return nil, err
	}
	t, err := batch.ToGomlxTensor()
	if err != nil {
		return nil, err
	}
	return m.PredictTensor(t)
}
