package figure

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/plot/vg"
)

func sampleInput(days, models int) Input {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	in := Input{StationID: "12008"}
	for d := 0; d < days; d++ {
		in.Dates = append(in.Dates, start.AddDate(0, 0, d))
		in.Actual = append(in.Actual, 40+float64(d%7))
	}
	for m := 0; m < models; m++ {
		s := Series{Name: "M" + string(rune('A'+m))}
		for d := 0; d < days; d++ {
			s.Pred = append(s.Pred, in.Actual[d]+float64(m)-1)
		}
		in.Models = append(in.Models, s)
	}
	return in
}

// TestRender_WritesPNG checks the grid sizing: 3 models take 2 rows, so the
// figure is 16in x 12in at the requested DPI.
func TestRender_WritesPNG(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "nested", "fig.png")
	if err := Render(sampleInput(60, 3), p, 50); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("figure not written: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("not a png: %v", err)
	}
	if cfg.Width != 16*50 || cfg.Height != 12*50 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRender_Errors(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "fig.png")

	empty := sampleInput(0, 2)
	if err := Render(empty, p, 50); err == nil {
		t.Fatalf("expected error for empty series")
	}

	short := sampleInput(10, 2)
	short.Models[1].Pred = short.Models[1].Pred[:9]
	if err := Render(short, p, 50); err == nil {
		t.Fatalf("expected error for prediction length mismatch")
	}

	none := sampleInput(10, 0)
	if err := Render(none, p, 50); err == nil {
		t.Fatalf("expected error for no models")
	}

	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("no figure should be written on error")
	}
}

func TestSizeAndTitle(t *testing.T) {
	for n, rows := range map[int]int{1: 1, 2: 1, 3: 2, 4: 2, 5: 3} {
		if Rows(n) != rows {
			t.Fatalf("Rows(%d) = %d, want %d", n, Rows(n), rows)
		}
	}
	w, h := Size(4)
	if w != 16*vg.Inch || h != 12*vg.Inch {
		t.Fatalf("unexpected size %vx%v", w, h)
	}
	if got := Title("12008"); got != "Station 12008 (Test Period): Small Multiples + Error" {
		t.Fatalf("unexpected title %q", got)
	}
}

func unix(y int, m time.Month, d int) float64 {
	return float64(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix())
}

func TestDateTicks(t *testing.T) {
	cases := []struct {
		name     string
		min, max float64
		labels   []string
	}{
		{
			name:   "daily",
			min:    unix(2023, 1, 30),
			max:    unix(2023, 2, 3),
			labels: []string{"Jan 30\n2023", "31", "Feb 01", "02", "03"},
		},
		{
			name:   "weekly",
			min:    unix(2023, 1, 1),
			max:    unix(2023, 2, 12),
			labels: []string{"Jan 02\n2023", "09", "16", "23", "30", "Feb 06"},
		},
		{
			name:   "monthly",
			min:    unix(2022, 10, 15),
			max:    unix(2023, 4, 20),
			labels: []string{"Nov\n2022", "Dec", "Jan\n2023", "Feb", "Mar", "Apr"},
		},
		{
			name:   "yearly",
			min:    unix(2015, 6, 1),
			max:    unix(2021, 6, 1),
			labels: []string{"2016", "2017", "2018", "2019", "2020", "2021"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticks := DateTicks{}.Ticks(tc.min, tc.max)
			var got []string
			for _, tk := range ticks {
				if tk.Value < tc.min || tk.Value > tc.max {
					t.Fatalf("tick %v outside [%v, %v]", tk.Value, tc.min, tc.max)
				}
				got = append(got, tk.Label)
			}
			if strings.Join(got, "|") != strings.Join(tc.labels, "|") {
				t.Fatalf("labels = %q, want %q", got, tc.labels)
			}
		})
	}

	// a range inside one day still gets a tick
	ticks := DateTicks{}.Ticks(unix(2023, 1, 1)+3600, unix(2023, 1, 1)+7200)
	if len(ticks) != 1 {
		t.Fatalf("expected a single fallback tick, got %v", ticks)
	}
	if n := len(DateTicks{MaxTicks: 3}.Ticks(unix(2023, 1, 1), unix(2023, 12, 31))); n > 3 {
		t.Fatalf("MaxTicks not honoured: %d ticks", n)
	}
}
