package datasets

import (
	"sort"
)

// StationGroups indexes a Table by station identifier.
// - IDs lists every station once, sorted.
// - Rows maps a station to its row indices in the source table, ordered by
//   date (rows sharing a date keep their file order).
type StationGroups struct {
	IDs  []string
	Rows map[string][]int
}

// GroupByStation builds the per-station row index of t, the equivalent of a
// sort by (station, date) followed by a group-by on station.
func GroupByStation(t *Table) *StationGroups {
	rows := make([]int, t.Len())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		ra, rb := rows[a], rows[b]
		if t.StationIDs[ra] != t.StationIDs[rb] {
			return t.StationIDs[ra] < t.StationIDs[rb]
		}
		return t.Dates[ra].Before(t.Dates[rb])
	})

	g := &StationGroups{Rows: make(map[string][]int)}
	for _, r := range rows {
		id := t.StationIDs[r]
		if _, ok := g.Rows[id]; !ok {
			g.IDs = append(g.IDs, id)
		}
		g.Rows[id] = append(g.Rows[id], r)
	}
	return g
}

// Len returns the number of stations.
func (g *StationGroups) Len() int {
	return len(g.IDs)
}

// Station returns the rows of a single station as a date-ordered table.
func (g *StationGroups) Station(t *Table, id string) (*Table, bool) {
	rows, ok := g.Rows[id]
	if !ok {
		return nil, false
	}
	return t.Subset(rows), true
}
