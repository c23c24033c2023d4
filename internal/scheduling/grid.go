package scheduling

import (
	"sort"
	"time"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

// GridColumn is one field in a schedule grid.
type GridColumn struct {
	FieldID   string
	FieldName string
}

// GridCell is the intersection of a timeslot row and a field column.
type GridCell struct {
	FieldID   string
	Available bool
	Games     []models.Game
}

// Collision reports whether more than one stored game claims this slot.
func (c GridCell) Collision() bool {
	return len(c.Games) > 1
}

// GridRow is one date-time across all field columns.
type GridRow struct {
	At    time.Time
	Cells []GridCell
}

// Grid is dates x fields for one division.
type Grid struct {
	Columns    []GridColumn
	Rows       []GridRow
	Collisions int
}

// BuildGrid lays every candidate timeslot out as a row with one cell per
// field. games may span the whole job; only games sitting on a candidate slot
// appear. A slot holding more than one game is counted as a collision.
func BuildGrid(dates []time.Time, fields []FieldWindow, games []models.Game) Grid {
	columns := gridColumns(fields)
	offered := map[slotKey]struct{}{}
	var times []time.Time
	seenTimes := map[int64]struct{}{}
	byDay := windowsByWeekday(fields)
	for _, date := range sortedDays(dates) {
		for _, w := range byDay[date.Weekday()] {
			for _, at := range w.SlotTimes(date) {
				offered[keyOf(w.FieldID, at)] = struct{}{}
				if _, ok := seenTimes[at.Unix()]; !ok {
					seenTimes[at.Unix()] = struct{}{}
					times = append(times, at)
				}
			}
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	placed := map[slotKey][]models.Game{}
	for _, g := range games {
		k := keyOf(g.FieldID, g.GameDate)
		if _, ok := offered[k]; !ok {
			continue
		}
		placed[k] = append(placed[k], g)
	}

	grid := Grid{Columns: columns, Rows: make([]GridRow, 0, len(times))}
	for _, at := range times {
		row := GridRow{At: at, Cells: make([]GridCell, 0, len(columns))}
		for _, col := range columns {
			k := keyOf(col.FieldID, at)
			_, available := offered[k]
			cell := GridCell{FieldID: col.FieldID, Available: available, Games: placed[k]}
			if cell.Collision() {
				grid.Collisions++
			}
			row.Cells = append(row.Cells, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

func gridColumns(fields []FieldWindow) []GridColumn {
	seen := map[string]struct{}{}
	var columns []GridColumn
	for _, w := range fields {
		if _, ok := seen[w.FieldID]; ok {
			continue
		}
		seen[w.FieldID] = struct{}{}
		columns = append(columns, GridColumn{FieldID: w.FieldID, FieldName: w.FieldName})
	}
	sort.Slice(columns, func(i, j int) bool {
		if columns[i].FieldName != columns[j].FieldName {
			return columns[i].FieldName < columns[j].FieldName
		}
		return columns[i].FieldID < columns[j].FieldID
	})
	return columns
}
