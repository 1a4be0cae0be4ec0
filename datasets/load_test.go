package datasets

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeCSV writes a CSV file with the given header and rows to path.
func writeCSV(t *testing.T, path, header string, rows []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv %s: %v", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(header + "\n"); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for _, r := range rows {
		if _, err := f.WriteString(r + "\n"); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
}

func TestLoadFeatureColumns(t *testing.T) {
	tmp := t.TempDir()

	good := filepath.Join(tmp, "good.json")
	if err := os.WriteFile(good, []byte(`["PM2.5", "NO2", "temp"]`), 0644); err != nil {
		t.Fatal(err)
	}
	cols, err := LoadFeatureColumns(good)
	if err != nil {
		t.Fatalf("LoadFeatureColumns failed: %v", err)
	}
	if len(cols) != 3 || cols[0] != "PM2.5" || cols[2] != "temp" {
		t.Fatalf("unexpected columns: %v", cols)
	}

	bad := map[string]string{
		"empty.json":     `[]`,
		"malformed.json": `{"cols": 1}`,
		"dup.json":       `["a", "a"]`,
		"blank.json":     `["a", ""]`,
	}
	for name, body := range bad {
		p := filepath.Join(tmp, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFeatureColumns(p); err == nil {
			t.Fatalf("expected error for %s", name)
		}
	}

	if _, err := LoadFeatureColumns(filepath.Join(tmp, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

// TestLoadTestTable verifies date parsing, station id normalisation, optional
// lag column pickup and NaN handling for blank feature cells.
func TestLoadTestTable(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "test_all.csv")
	writeCSV(t, p, "Date,Station ID,AQI,AQI_lag1,pm,temp", []string{
		"2021-01-01,12008,50,,10,1.5",
		"2021-01-02,12008.0,55,50,12,",
		"2021-01-01 00:00:00,13001,40,38,8,2.5",
	})

	tbl, err := LoadTestTable(p, []string{"temp", "pm"})
	if err != nil {
		t.Fatalf("LoadTestTable failed: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}
	if tbl.StationIDs[1] != "12008" || tbl.StationIDs[2] != "13001" {
		t.Fatalf("unexpected station ids: %v", tbl.StationIDs)
	}
	want := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	if !tbl.Dates[0].Equal(want) || !tbl.Dates[2].Equal(want) {
		t.Fatalf("unexpected dates: %v", tbl.Dates)
	}
	if !tbl.HasLag1() {
		t.Fatalf("expected lag column to be loaded")
	}
	if !math.IsNaN(tbl.Lag1[0]) || tbl.Lag1[1] != 50 {
		t.Fatalf("unexpected lag values: %v", tbl.Lag1)
	}

	// feature order follows the requested list, not the file
	ft := tbl.Features
	if ft.Columns[0] != "temp" || ft.Values[0][0] != 1.5 || ft.Values[0][1] != 10 {
		t.Fatalf("unexpected feature layout: cols=%v row0=%v", ft.Columns, ft.Values[0])
	}
	if !math.IsNaN(ft.Values[1][0]) {
		t.Fatalf("expected blank feature to be NaN, got %v", ft.Values[1][0])
	}
	if ft.StationIDs[2] != "13001" {
		t.Fatalf("feature table station ids not populated: %v", ft.StationIDs)
	}
}

func TestLoadTestTable_Errors(t *testing.T) {
	tmp := t.TempDir()
	cases := []struct {
		name   string
		header string
		rows   []string
	}{
		{"missing feature", "Date,Station ID,AQI", []string{"2021-01-01,1,5"}},
		{"missing station", "Date,AQI,pm", []string{"2021-01-01,5,1"}},
		{"bad date", "Date,Station ID,AQI,pm", []string{"yesterday,1,5,1"}},
		{"missing target", "Date,Station ID,AQI,pm", []string{"2021-01-01,1,,1"}},
		{"header only", "Date,Station ID,AQI,pm", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := filepath.Join(tmp, tc.name+".csv")
			writeCSV(t, p, tc.header, tc.rows)
			if _, err := LoadTestTable(p, []string{"pm"}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := LoadTestTable(filepath.Join(tmp, "nope.csv"), []string{"pm"}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadStationDaily_SortsAndTags(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "station.csv")
	writeCSV(t, p, "Date,AQI,pm", []string{
		"2021-01-03,30,3",
		"2021-01-01,10,1",
		"2021-01-02,20,2",
	})

	tbl, err := LoadStationDaily(p, []string{"pm"}, "12008")
	if err != nil {
		t.Fatalf("LoadStationDaily failed: %v", err)
	}
	for i, want := range []float64{10, 20, 30} {
		if tbl.AQI[i] != want {
			t.Fatalf("row %d: expected AQI %v, got %v", i, want, tbl.AQI[i])
		}
		if tbl.Features.Values[i][0] != want/10 {
			t.Fatalf("row %d: features not reordered with dates: %v", i, tbl.Features.Values[i])
		}
		if tbl.StationIDs[i] != "12008" || tbl.Features.StationIDs[i] != "12008" {
			t.Fatalf("row %d: station id not applied", i)
		}
	}
	if tbl.HasLag1() {
		t.Fatalf("did not expect a lag column")
	}

	if _, err := LoadStationDaily(p, []string{"pm"}, ""); err == nil {
		t.Fatalf("expected error for empty station id")
	}
}

func TestLoadStationDaily_MissingAQI(t *testing.T) {
	p := filepath.Join(t.TempDir(), "station.csv")
	writeCSV(t, p, "Date,AQI,pm", []string{
		"2021-01-01,10,1",
		"2021-01-02,,2",
		"2021-01-03,30,3",
	})

	tbl, err := LoadStationDaily(p, []string{"pm"}, "12008")
	if err != nil {
		t.Fatalf("LoadStationDaily failed on a blank AQI: %v", err)
	}
	if tbl.Len() != 3 || tbl.AQI[0] != 10 || !math.IsNaN(tbl.AQI[1]) || tbl.AQI[2] != 30 {
		t.Fatalf("unexpected AQI: %v", tbl.AQI)
	}
	if tbl.Features.Values[1][0] != 2 {
		t.Fatalf("features of the gap row lost: %v", tbl.Features.Values[1])
	}

	// the same gap is still an error in the test table
	q := filepath.Join(t.TempDir(), "test.csv")
	writeCSV(t, q, "Date,Station ID,AQI,pm", []string{
		"2021-01-01,12008,10,1",
		"2021-01-02,12008,,2",
	})
	if _, err := LoadTestTable(q, []string{"pm"}); err == nil {
		t.Fatalf("expected error for a blank AQI in the test table")
	}
}

func TestNormalizeStationID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12008", "12008", false},
		{" 12008 ", "12008", false},
		{"12008.0", "12008", false},
		{"A12.0", "A12.0", false},
		{"12008.5", "12008.5", false},
		{"", "", true},
		{"NaN", "", true},
	}
	for _, tt := range tests {
		got, err := normalizeStationID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("normalizeStationID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("normalizeStationID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
