package datasets

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// FeatureBatchFlat stores a row-major matrix in a flat contiguous buffer.
// Values stay float64: model inputs are not narrowed to float32.
type FeatureBatchFlat struct {
	Inputs    []float64
	BatchSize int
	InputDim  int
}

// MakeFeatureBatchFlat flattens row-major values into a contiguous buffer.
func MakeFeatureBatchFlat(rows [][]float64) (*FeatureBatchFlat, error) {
	if len(rows) == 0 {
		return &FeatureBatchFlat{BatchSize: 0, InputDim: 0}, nil
	}

	batchSize := len(rows)
	inputDim := len(rows[0])
	flat := make([]float64, 0, batchSize*inputDim)

	for i, row := range rows {
		if len(row) != inputDim {
			return nil, fmt.Errorf("inconsistent input dimensions at example %d: expected %d, got %d",
				i, inputDim, len(row))
		}
		flat = append(flat, row...)
	}

	return &FeatureBatchFlat{
		Inputs:    flat,
		BatchSize: batchSize,
		InputDim:  inputDim,
	}, nil
}

// Row returns the flat slice of a single example.
func (b *FeatureBatchFlat) Row(i int) []float64 {
	return b.Inputs[i*b.InputDim : (i+1)*b.InputDim]
}

// ToGomlxTensor converts the batch to a [BatchSize, InputDim] float64 gomlx
// tensor. The data is copied.
func (b *FeatureBatchFlat) ToGomlxTensor() (*tensors.Tensor, error) {
	if b.BatchSize == 0 || b.InputDim == 0 {
		return nil, fmt.Errorf("cannot build a tensor from an empty batch (%dx%d)", b.BatchSize, b.InputDim)
	}
	return tensors.FromFlatDataAndDimensions(b.Inputs, b.BatchSize, b.InputDim), nil
}
