// Package metrics scores predictions against observed AQI and writes the
// comparison table.
package metrics

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/Noofbiz/aqiReport/datasets"
	"github.com/Noofbiz/aqiReport/models"
)

// NaiveName labels the lag-1 persistence baseline in the metrics table.
const NaiveName = "Naive (y_hat = y_lag1)"

// Row is one line of the metrics table.
type Row struct {
	Model string  `csv:"model"`
	RMSE  float64 `csv:"RMSE_test"`
	MAE   float64 `csv:"MAE_test"`
	NEval int     `csv:"n_eval"`
}

// RMSE is the root mean squared error. Empty input yields NaN.
func RMSE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return math.NaN(), fmt.Errorf("length mismatch: %d actual vs %d predicted", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return math.NaN(), nil
	}
	var sumSq float64
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(yTrue))), nil
}

// MAE is the mean absolute error. Empty input yields NaN.
func MAE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return math.NaN(), fmt.Errorf("length mismatch: %d actual vs %d predicted", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return math.NaN(), nil
	}
	var sum float64
	for i := range yTrue {
		sum += math.Abs(yPred[i] - yTrue[i])
	}
	return sum / float64(len(yTrue)), nil
}

// NaiveLag1 returns the previous-day AQI of every row's station, aligned to
// t's row order. The precomputed AQI_lag1 column wins when present; otherwise
// the target is shifted by one row inside each station after ordering by
// date. The first observation of each station has no predecessor and is NaN.
func NaiveLag1(t *datasets.Table) []float64 {
	out := make([]float64, t.Len())
	if t.HasLag1() {
		copy(out, t.Lag1)
		return out
	}
	for i := range out {
		out[i] = math.NaN()
	}
	g := datasets.GroupByStation(t)
	for _, id := range g.IDs {
		rows := g.Rows[id]
		for k := 1; k < len(rows); k++ {
			out[rows[k]] = t.AQI[rows[k-1]]
		}
	}
	return out
}

// NaiveRow scores the lag-1 baseline over the rows that have a lag value.
// With no such rows the errors are NaN and n_eval is 0.
func NaiveRow(t *datasets.Table) (Row, error) {
	lag := NaiveLag1(t)
	var yTrue, yPred []float64
	for i, v := range lag {
		if math.IsNaN(v) {
			continue
		}
		yTrue = append(yTrue, t.AQI[i])
		yPred = append(yPred, v)
	}
	return ModelRow(NaiveName, yTrue, yPred)
}

// ModelRow scores predictions over every row.
func ModelRow(name string, yTrue, yPred []float64) (Row, error) {
	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		return Row{}, fmt.Errorf("%s: %w", name, err)
	}
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return Row{}, fmt.Errorf("%s: %w", name, err)
	}
	return Row{Model: name, RMSE: rmse, MAE: mae, NEval: len(yTrue)}, nil
}

// Table is the metrics table, ordered by ascending RMSE.
type Table struct {
	Rows []Row
}

// NewTable sorts rows by RMSE. Ties keep their input order and NaN sorts last.
func NewTable(rows []Row) *Table {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].RMSE, out[j].RMSE
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a < b
	})
	return &Table{Rows: out}
}

// Evaluate scores the naive baseline and every predictor on the test table.
func Evaluate(t *datasets.Table, predictors []models.Predictor) (*Table, error) {
	naive, err := NaiveRow(t)
	if err != nil {
		return nil, err
	}
	rows := []Row{naive}
	for _, p := range predictors {
		pred, err := p.Predict(t.Features)
		if err != nil {
			return nil, fmt.Errorf("predict %s: %w", p.Name(), err)
		}
		r, err := ModelRow(p.Name(), t.AQI, pred)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return NewTable(rows), nil
}

// WriteCSV writes the table to path, creating the parent directory.
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics csv %s: %w", path, err)
	}
	if err := gocsv.MarshalFile(&t.Rows, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write metrics csv %s: %w", path, err)
	}
	return f.Close()
}
