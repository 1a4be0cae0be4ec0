package datasets

import (
	"fmt"
	"sort"
	"time"
)

// This file provides the in-memory tables used by the Q1 report. Tables are
// loaded eagerly: the test set is small (one row per station-day) and every
// row is needed both for scoring and for the naive baseline.
//
// Layout and intended usage:
//
// Table
//   - One row per station-day observation: Date, Station ID, AQI and the
//     configured feature columns (plus AQI_lag1 when the source carries it).
//   - Features exposes the model input matrix (features + station id).
//
// FeatureTable
//   - Ordered feature column names, row-major float64 values (NaN for blanks)
//     and the station identifier of every row.
//   - Batch flattens the numeric part into contiguous float32 buffers that
//     convert into gomlx tensors.

// Column names shared by every Q1 input table.
const (
	DateColumn    = "Date"
	StationColumn = "Station ID"
	TargetColumn  = "AQI"
	Lag1Column    = "AQI_lag1"
)

// FeatureTable is the model input: numeric feature columns plus the station
// identifier of each row.
type FeatureTable struct {
	// Columns are the feature names, in the order of each Values row.
	Columns []string

	// Values is row-major: Values[i][j] is column j of row i.
	Values [][]float64

	// StationIDs holds the station identifier of every row.
	StationIDs []string

	index map[string]int
}

// NewFeatureTable validates the dimensions and builds a FeatureTable.
func NewFeatureTable(columns []string, values [][]float64, stationIDs []string) (*FeatureTable, error) {
	if len(values) != len(stationIDs) {
		return nil, fmt.Errorf("feature rows and station ids don't match: %d != %d", len(values), len(stationIDs))
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate feature column %q", c)
		}
		index[c] = i
	}
	for i, row := range values {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("inconsistent feature dimensions at row %d: expected %d, got %d",
				i, len(columns), len(row))
		}
	}
	return &FeatureTable{
		Columns:    columns,
		Values:     values,
		StationIDs: stationIDs,
		index:      index,
	}, nil
}

// Len returns the number of rows.
func (ft *FeatureTable) Len() int {
	return len(ft.Values)
}

// ColumnIndex returns the position of a feature column.
func (ft *FeatureTable) ColumnIndex(name string) (int, bool) {
	i, ok := ft.index[name]
	return i, ok
}

// Subset returns a table holding the given rows, in the given order. Rows
// share their backing arrays with ft.
func (ft *FeatureTable) Subset(rows []int) *FeatureTable {
	values := make([][]float64, len(rows))
	ids := make([]string, len(rows))
	for i, r := range rows {
		values[i] = ft.Values[r]
		ids[i] = ft.StationIDs[r]
	}
	return &FeatureTable{Columns: ft.Columns, Values: values, StationIDs: ids, index: ft.index}
}

// Table is a date-stamped, station-keyed observation table.
type Table struct {
	Dates      []time.Time
	StationIDs []string
	AQI        []float64

	// Lag1 is the precomputed AQI_lag1 column (NaN where absent). It is nil
	// when the source file has no such column.
	Lag1 []float64

	Features *FeatureTable
}

// Len returns the number of observations.
func (t *Table) Len() int {
	return len(t.AQI)
}

// HasLag1 reports whether the table carries a precomputed lag-1 column.
func (t *Table) HasLag1() bool {
	return t.Lag1 != nil
}

// Subset returns a new table holding the given rows, in the given order.
func (t *Table) Subset(rows []int) *Table {
	out := &Table{
		Dates:      make([]time.Time, len(rows)),
		StationIDs: make([]string, len(rows)),
		AQI:        make([]float64, len(rows)),
		Features:   t.Features.Subset(rows),
	}
	if t.Lag1 != nil {
		out.Lag1 = make([]float64, len(rows))
	}
	for i, r := range rows {
		out.Dates[i] = t.Dates[r]
		out.StationIDs[i] = t.StationIDs[r]
		out.AQI[i] = t.AQI[r]
		if t.Lag1 != nil {
			out.Lag1[i] = t.Lag1[r]
		}
	}
	return out
}

// SortByDate returns a copy of the table ordered by date. Rows sharing a date
// keep their file order.
func (t *Table) SortByDate() *Table {
	rows := make([]int, t.Len())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return t.Dates[rows[a]].Before(t.Dates[rows[b]])
	})
	return t.Subset(rows)
}
