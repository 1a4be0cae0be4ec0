// Package figure renders the per-station comparison of model predictions
// against observed AQI: one small-multiple panel per model on a two column
// grid, with a full-width prediction error panel underneath.
package figure

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Layout constants.
const (
	Columns        = 2
	WidthInches    = 16
	RowInches      = 4
	ExtraInches    = 4
	ErrorPanelRate = 1.2
	DefaultDPI     = 150

	titleInches = 0.6
)

// Series is one model's predictions aligned with Input.Dates.
type Series struct {
	Name string
	Pred []float64
}

// Input is everything drawn on the figure.
type Input struct {
	StationID string
	Dates     []time.Time
	Actual    []float64
	Models    []Series
}

func (in Input) validate() error {
	if len(in.Dates) == 0 {
		return fmt.Errorf("station %s has no observations to plot", in.StationID)
	}
	if len(in.Actual) != len(in.Dates) {
		return fmt.Errorf("station %s: %d actual values for %d dates", in.StationID, len(in.Actual), len(in.Dates))
	}
	if len(in.Models) == 0 {
		return fmt.Errorf("no model predictions to plot")
	}
	for _, m := range in.Models {
		if len(m.Pred) != len(in.Dates) {
			return fmt.Errorf("model %s: %d predictions for %d dates", m.Name, len(m.Pred), len(in.Dates))
		}
	}
	return nil
}

// Rows is the number of small-multiple rows needed for n models.
func Rows(n int) int {
	return (n + Columns - 1) / Columns
}

// Size returns the figure dimensions for n models.
func Size(n int) (w, h vg.Length) {
	return WidthInches * vg.Inch, vg.Length(RowInches*Rows(n)+ExtraInches) * vg.Inch
}

// Title is the figure's super title.
func Title(stationID string) string {
	return fmt.Sprintf("Station %s (Test Period): Small Multiples + Error", stationID)
}

// Render draws the figure and writes it as a PNG to path. dpi <= 0 uses
// DefaultDPI.
func Render(in Input, path string, dpi int) error {
	if err := in.validate(); err != nil {
		return err
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	panels, err := modelPanels(in)
	if err != nil {
		return err
	}
	errPanel, err := errorPanel(in)
	if err != nil {
		return err
	}

	w, h := Size(len(in.Models))
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	dc := draw.New(img)

	drawTitle(dc, Title(in.StationID))

	body := draw.Crop(dc, 0, 0, 0, -titleInches*vg.Inch)
	rows := len(panels)
	bodyH := body.Max.Y - body.Min.Y
	errH := bodyH * vg.Length(ErrorPanelRate/(float64(rows)+ErrorPanelRate))

	top := draw.Crop(body, 0, 0, errH, 0)
	tiles := draw.Tiles{
		Rows: rows, Cols: Columns,
		PadX: vg.Millimeter * 6, PadY: vg.Millimeter * 6,
		PadLeft: vg.Millimeter * 4, PadRight: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2,
	}
	canvases := plot.Align(panels, tiles, top)
	for j, row := range panels {
		for i, p := range row {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	bottom := draw.Crop(body, vg.Millimeter*4, -vg.Millimeter*4, vg.Millimeter*2, -(bodyH - errH))
	errPanel.Draw(bottom)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create figure %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write figure %s: %w", path, err)
	}
	return f.Close()
}

func drawTitle(dc draw.Canvas, title string) {
	sty := plot.New().Title.TextStyle
	sty.Font.Size = vg.Points(18)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YTop
	pt := vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - vg.Millimeter*3}
	dc.FillText(sty, pt, title)
}

// modelPanels builds the rows x Columns grid; unused cells are nil.
func modelPanels(in Input) ([][]*plot.Plot, error) {
	rows := Rows(len(in.Models))
	grid := make([][]*plot.Plot, rows)
	for j := range grid {
		grid[j] = make([]*plot.Plot, Columns)
	}

	actual := dateXYs(in.Dates, in.Actual)
	for i, m := range in.Models {
		p := newDatePlot(in.Dates)
		p.Title.Text = m.Name
		p.Y.Label.Text = "AQI"

		a, err := plotter.NewLine(actual)
		if err != nil {
			return nil, fmt.Errorf("actual line: %w", err)
		}
		a.Color = color.RGBA{R: 60, G: 60, B: 60, A: 140}
		a.Width = vg.Points(1)

		pl, err := plotter.NewLine(dateXYs(in.Dates, m.Pred))
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", m.Name, err)
		}
		pl.Color = plotutil.Color(i)
		pl.Width = vg.Points(2.2)

		p.Add(plotter.NewGrid(), a, pl)
		p.Legend.Add("Actual", a)
		p.Legend.Add("Pred", pl)
		grid[i/Columns][i%Columns] = p
	}
	return grid, nil
}

func errorPanel(in Input) (*plot.Plot, error) {
	p := newDatePlot(in.Dates)
	p.Title.Text = "Prediction Error (Pred - Actual)"
	p.Y.Label.Text = "Error"
	p.X.Label.Text = "Date"
	p.Add(plotter.NewGrid())

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Black
	zero.Width = vg.Points(1)
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(zero)

	for i, m := range in.Models {
		diff := make([]float64, len(m.Pred))
		for k := range diff {
			diff[k] = m.Pred[k] - in.Actual[k]
		}
		l, err := plotter.NewLine(dateXYs(in.Dates, diff))
		if err != nil {
			return nil, fmt.Errorf("%s error line: %w", m.Name, err)
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1.4)
		p.Add(l)
		p.Legend.Add(m.Name, l)
	}
	return p, nil
}

// newDatePlot returns a plot sharing the date range of every panel.
func newDatePlot(dates []time.Time) *plot.Plot {
	p := plot.New()
	p.X.Tick.Marker = DateTicks{}
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Legend.Top = true

	lo, hi := float64(dates[0].Unix()), float64(dates[len(dates)-1].Unix())
	if hi == lo {
		hi = lo + 86400
	}
	p.X.Min, p.X.Max = lo, hi
	return p
}

// dateXYs pairs dates (as Unix seconds) with values. NaN values are dropped
// since plotter lines reject them.
func dateXYs(dates []time.Time, ys []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(ys))
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(dates[i].Unix()), Y: y})
	}
	return xys
}
