package datasets

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// TestGroupByStation verifies rows are grouped per station and ordered by
// date inside each group regardless of file order.
func TestGroupByStation(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "mixed.csv")
	writeCSV(t, p, "Date,Station ID,AQI,pm", []string{
		"2021-01-02,B,21,0",
		"2021-01-01,A,10,0",
		"2021-01-01,B,20,0",
		"2021-01-03,A,12,0",
		"2021-01-02,A,11,0",
	})
	tbl, err := LoadTestTable(p, []string{"pm"})
	if err != nil {
		t.Fatalf("LoadTestTable failed: %v", err)
	}

	g := GroupByStation(tbl)
	if g.Len() != 2 || !reflect.DeepEqual(g.IDs, []string{"A", "B"}) {
		t.Fatalf("unexpected station ids: %v", g.IDs)
	}
	if !reflect.DeepEqual(g.Rows["A"], []int{1, 4, 3}) {
		t.Fatalf("unexpected rows for A: %v", g.Rows["A"])
	}
	if !reflect.DeepEqual(g.Rows["B"], []int{2, 0}) {
		t.Fatalf("unexpected rows for B: %v", g.Rows["B"])
	}

	a, ok := g.Station(tbl, "A")
	if !ok {
		t.Fatalf("station A not found")
	}
	if !reflect.DeepEqual(a.AQI, []float64{10, 11, 12}) {
		t.Fatalf("unexpected AQI for A: %v", a.AQI)
	}
	if _, ok := g.Station(tbl, "Z"); ok {
		t.Fatalf("did not expect station Z")
	}
}

func TestFeatureTable_Subset(t *testing.T) {
	ft, err := NewFeatureTable([]string{"a", "b"}, [][]float64{{1, 2}, {3, 4}, {5, 6}}, []string{"x", "y", "z"})
	if err != nil {
		t.Fatalf("NewFeatureTable failed: %v", err)
	}
	sub := ft.Subset([]int{2, 0})
	if sub.Len() != 2 || sub.Values[0][0] != 5 || sub.StationIDs[1] != "x" {
		t.Fatalf("unexpected subset: %+v", sub)
	}
	if i, ok := sub.ColumnIndex("b"); !ok || i != 1 {
		t.Fatalf("unexpected index for column b: %d %v", i, ok)
	}
	if _, ok := sub.ColumnIndex("c"); ok {
		t.Fatalf("did not expect column c")
	}

	if _, err := NewFeatureTable([]string{"a"}, [][]float64{{1, 2}}, []string{"x"}); err == nil {
		t.Fatalf("expected error for ragged rows")
	}
	if _, err := NewFeatureTable([]string{"a", "a"}, nil, nil); err == nil {
		t.Fatalf("expected error for duplicate columns")
	}
	if _, err := NewFeatureTable([]string{"a"}, [][]float64{{1}}, nil); err == nil {
		t.Fatalf("expected error for missing station ids")
	}
}

func TestFeatureBatchFlat(t *testing.T) {
	b, err := MakeFeatureBatchFlat([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("MakeFeatureBatchFlat failed: %v", err)
	}
	if b.BatchSize != 2 || b.InputDim != 3 || len(b.Inputs) != 6 {
		t.Fatalf("unexpected batch dims: %+v", b)
	}
	if !reflect.DeepEqual(b.Row(1), []float64{4, 5, 6}) {
		t.Fatalf("unexpected row 1: %v", b.Row(1))
	}

	tensor, err := b.ToGomlxTensor()
	if err != nil {
		t.Fatalf("ToGomlxTensor failed: %v", err)
	}
	if dims := tensor.Shape().Dimensions; !reflect.DeepEqual(dims, []int{2, 3}) {
		t.Fatalf("unexpected tensor dims: %v", dims)
	}
	// values cross into the tensor without float32 narrowing
	b.Inputs[0] = 0.1
	if got := tensors.CopyFlatData[float64](tensor); got[0] != 1 || got[5] != 6 {
		t.Fatalf("unexpected tensor data: %v", got)
	}
	fine, err := MakeFeatureBatchFlat([][]float64{{0.1 + 1e-12}})
	if err != nil {
		t.Fatal(err)
	}
	ft, err := fine.ToGomlxTensor()
	if err != nil {
		t.Fatal(err)
	}
	if got := tensors.CopyFlatData[float64](ft); got[0] != 0.1+1e-12 {
		t.Fatalf("tensor lost precision: %v", got[0])
	}

	if _, err := MakeFeatureBatchFlat([][]float64{{1, 2}, {3}}); err == nil {
		t.Fatalf("expected error for inconsistent dims")
	}
	empty, err := MakeFeatureBatchFlat(nil)
	if err != nil || empty.BatchSize != 0 {
		t.Fatalf("unexpected empty batch: %+v (%v)", empty, err)
	}
	if _, err := empty.ToGomlxTensor(); err == nil {
		t.Fatalf("expected error for an empty batch tensor")
	}
}
