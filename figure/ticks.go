package figure

import (
	"time"

	"gonum.org/v1/plot"
)

type resolution int

const (
	byDay resolution = iota
	byMonth
	byYear
)

// dateStep is one candidate tick spacing.
type dateStep struct {
	res   resolution
	n     int
	weeks bool
}

var dateSteps = []dateStep{
	{res: byDay, n: 1},
	{res: byDay, n: 2},
	{res: byDay, n: 3},
	{res: byDay, n: 7, weeks: true},
	{res: byDay, n: 14, weeks: true},
	{res: byMonth, n: 1},
	{res: byMonth, n: 2},
	{res: byMonth, n: 3},
	{res: byMonth, n: 6},
	{res: byYear, n: 1},
	{res: byYear, n: 2},
	{res: byYear, n: 5},
	{res: byYear, n: 10},
	{res: byYear, n: 20},
	{res: byYear, n: 50},
	{res: byYear, n: 100},
}

// DateTicks places ticks on calendar boundaries for an axis holding Unix
// seconds. It picks the finest day, week, month or year spacing that yields
// no more than MaxTicks ticks (8 when unset), which keeps multi-week ranges
// at 4 ticks or more. Labels are concise: the month or year is only repeated
// when it changes.
type DateTicks struct {
	MaxTicks int
}

var _ plot.Ticker = DateTicks{}

// Ticks implements plot.Ticker.
func (t DateTicks) Ticks(min, max float64) []plot.Tick {
	hi := t.MaxTicks
	if hi <= 0 {
		hi = 8
	}
	start := time.Unix(int64(min), 0).UTC()
	end := time.Unix(int64(max), 0).UTC()

	var best []time.Time
	var bestStep dateStep
	for _, s := range dateSteps {
		ts := stepTimes(s, start, end)
		if len(ts) > hi {
			continue
		}
		best, bestStep = ts, s
		break
	}
	if len(best) == 0 {
		return []plot.Tick{{Value: min, Label: start.Format("Jan 02\n2006")}}
	}
	return label(best, bestStep.res)
}

// stepTimes lists the boundaries of step s inside [start, end].
func stepTimes(s dateStep, start, end time.Time) []time.Time {
	var out []time.Time
	switch s.res {
	case byDay:
		d := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		if s.weeks {
			for d.Weekday() != time.Monday {
				d = d.AddDate(0, 0, 1)
			}
			if s.n > 7 {
				// keep fortnights anchored to the epoch week
				for (d.Unix()/86400+3)/7%2 != 0 {
					d = d.AddDate(0, 0, 7)
				}
			}
		} else {
			for (d.Unix()/86400)%int64(s.n) != 0 {
				d = d.AddDate(0, 0, 1)
			}
		}
		for ; !d.After(end); d = d.AddDate(0, 0, s.n) {
			if !d.Before(start) {
				out = append(out, d)
			}
		}
	case byMonth:
		d := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		for (int(d.Month())-1)%s.n != 0 {
			d = d.AddDate(0, 1, 0)
		}
		for ; !d.After(end); d = d.AddDate(0, s.n, 0) {
			if !d.Before(start) {
				out = append(out, d)
			}
		}
	case byYear:
		y := start.Year()
		for y%s.n != 0 {
			y++
		}
		for d := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC); !d.After(end); d = d.AddDate(s.n, 0, 0) {
			if !d.Before(start) {
				out = append(out, d)
			}
		}
	}
	return out
}

func label(ts []time.Time, res resolution) []plot.Tick {
	ticks := make([]plot.Tick, len(ts))
	for i, d := range ts {
		first := i == 0
		yearChanged := first || d.Year() != ts[i-1].Year()
		var l string
		switch res {
		case byDay:
			switch {
			case yearChanged:
				l = d.Format("Jan 02\n2006")
			case d.Month() != ts[i-1].Month():
				l = d.Format("Jan 02")
			default:
				l = d.Format("02")
			}
		case byMonth:
			if yearChanged {
				l = d.Format("Jan\n2006")
			} else {
				l = d.Format("Jan")
			}
		case byYear:
			l = d.Format("2006")
		}
		ticks[i] = plot.Tick{Value: float64(d.Unix()), Label: l}
	}
	return ticks
}
