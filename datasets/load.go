package datasets

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LoadFeatureColumns reads the ordered list of model feature columns from a
// JSON array of strings.
func LoadFeatureColumns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature list %s: %w", path, err)
	}
	var cols []string
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("failed to parse feature list %s: %w", path, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("feature list %s is empty", path)
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c == "" {
			return nil, fmt.Errorf("feature list %s contains an empty column name", path)
		}
		if seen[c] {
			return nil, fmt.Errorf("feature list %s repeats column %q", path, c)
		}
		seen[c] = true
	}
	return cols, nil
}

// LoadTestTable reads the all-stations test table. The file must carry Date,
// Station ID, AQI and every feature column; AQI_lag1 is picked up when present.
func LoadTestTable(path string, features []string) (*Table, error) {
	df, err := readFrame(path, features)
	if err != nil {
		return nil, err
	}
	return buildTable(df, path, features, "")
}

// LoadStationDaily reads a single-station daily table, sorts it by date and
// tags every row with stationID. The Station ID column is optional here.
func LoadStationDaily(path string, features []string, stationID string) (*Table, error) {
	if stationID == "" {
		return nil, fmt.Errorf("station id cannot be empty")
	}
	df, err := readFrame(path, features)
	if err != nil {
		return nil, err
	}
	t, err := buildTable(df, path, features, stationID)
	if err != nil {
		return nil, err
	}
	return t.SortByDate(), nil
}

func readFrame(path string, features []string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer file.Close()

	types := map[string]series.Type{
		DateColumn:    series.String,
		StationColumn: series.String,
		TargetColumn:  series.Float,
		Lag1Column:    series.Float,
	}
	for _, c := range features {
		types[c] = series.Float
	}

	df := dataframe.ReadCSV(file,
		dataframe.HasHeader(true),
		dataframe.WithTypes(types),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read CSV %s: %w", path, df.Err)
	}
	return df, nil
}

// buildTable converts a loaded frame into a Table. When stationID is empty
// the Station ID column is required; otherwise every row gets stationID.
func buildTable(df dataframe.DataFrame, path string, features []string, stationID string) (*Table, error) {
	present := make(map[string]bool)
	for _, name := range df.Names() {
		present[name] = true
	}

	required := []string{DateColumn, TargetColumn}
	if stationID == "" {
		required = append(required, StationColumn)
	}
	required = append(required, features...)
	for _, col := range required {
		if !present[col] {
			return nil, fmt.Errorf("%s: required column %q not found", path, col)
		}
	}

	n := df.Nrow()
	t := &Table{
		Dates:      make([]time.Time, n),
		StationIDs: make([]string, n),
	}

	for i, raw := range df.Col(DateColumn).Records() {
		d, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		t.Dates[i] = d
	}

	if stationID == "" {
		for i, raw := range df.Col(StationColumn).Records() {
			id, err := normalizeStationID(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
			}
			t.StationIDs[i] = id
		}
	} else {
		for i := range t.StationIDs {
			t.StationIDs[i] = stationID
		}
	}

	// gaps in the station daily AQI stay NaN; the figure skips them
	t.AQI = df.Col(TargetColumn).Float()
	for i, v := range t.AQI {
		if stationID == "" && math.IsNaN(v) {
			return nil, fmt.Errorf("%s: row %d: missing or non-numeric %s", path, i+1, TargetColumn)
		}
	}

	if present[Lag1Column] {
		t.Lag1 = df.Col(Lag1Column).Float()
	}

	cols := make([][]float64, len(features))
	for j, name := range features {
		cols[j] = df.Col(name).Float()
	}
	values := make([][]float64, n)
	for i := range values {
		row := make([]float64, len(features))
		for j := range features {
			row[j] = cols[j][i]
		}
		values[i] = row
	}

	ft, err := NewFeatureTable(features, values, t.StationIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Features = ft
	return t, nil
}
