// Package report wires the loaders, scorers and renderers into the two
// batch runs exposed by the CLI.
package report

import (
	"fmt"
	"log"

	"github.com/Noofbiz/aqiReport/config"
	"github.com/Noofbiz/aqiReport/datasets"
	"github.com/Noofbiz/aqiReport/figure"
	"github.com/Noofbiz/aqiReport/inventory"
	"github.com/Noofbiz/aqiReport/metrics"
	"github.com/Noofbiz/aqiReport/models"
)

// RunSmoke inventories the data directory and writes the summary CSV.
func RunSmoke(cfg *config.Config) (inventory.Summary, error) {
	inv, err := inventory.Scan(cfg.Smoke.DataDir)
	if err != nil {
		return inventory.Summary{}, err
	}
	s := inv.Summary()
	if err := s.WriteCSV(cfg.Smoke.Output); err != nil {
		return inventory.Summary{}, err
	}
	log.Printf("[OK] Saved summary: %s", cfg.Smoke.Output)
	return s, nil
}

// RunQ1 scores every configured model on the test set, writes the metrics
// table and then the station figure. The table is written first so a figure
// failure still leaves it on disk.
func RunQ1(cfg *config.Config) (*metrics.Table, error) {
	q := cfg.Q1
	features, err := datasets.LoadFeatureColumns(q.FeatureCols)
	if err != nil {
		return nil, err
	}
	test, err := datasets.LoadTestTable(q.TestData, features)
	if err != nil {
		return nil, err
	}
	station, err := datasets.LoadStationDaily(q.StationDaily, features, q.StationID)
	if err != nil {
		return nil, err
	}
	predictors, err := models.LoadAll(q.Models)
	if err != nil {
		return nil, err
	}

	groups := datasets.GroupByStation(test)
	log.Printf("Loaded %d test rows across %d stations; %d station days for %s",
		test.Len(), groups.Len(), station.Len(), q.StationID)
	if st, ok := groups.Station(test, q.StationID); ok {
		log.Printf("Station %s has %d rows in the test set, %s to %s",
			q.StationID, st.Len(), st.Dates[0].Format("2006-01-02"), st.Dates[st.Len()-1].Format("2006-01-02"))
	} else {
		log.Printf("[WARN] Station %s has no rows in the test set", q.StationID)
	}

	table, err := metrics.Evaluate(test, predictors)
	if err != nil {
		return nil, err
	}
	metricsPath := q.MetricsPath()
	if err := table.WriteCSV(metricsPath); err != nil {
		return nil, err
	}
	log.Printf("[OK] Saved metrics: %s", metricsPath)

	in := figure.Input{
		StationID: q.StationID,
		Dates:     station.Dates,
		Actual:    station.AQI,
	}
	for _, p := range predictors {
		pred, err := p.Predict(station.Features)
		if err != nil {
			return table, fmt.Errorf("predict %s on station %s: %w", p.Name(), q.StationID, err)
		}
		in.Models = append(in.Models, figure.Series{Name: p.Name(), Pred: pred})
	}
	figurePath := q.FigurePath()
	if err := figure.Render(in, figurePath, q.DPI); err != nil {
		return table, err
	}
	log.Printf("[OK] Saved figure: %s", figurePath)
	log.Printf("[DONE] Artifacts generated successfully.")
	return table, nil
}
