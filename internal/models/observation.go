package models

import (
	"sort"
	"time"
)

// DateLayout is the canonical date format for observation keys and KPI
// history. Retention and recency logic compares these strings
// lexicographically, which is only valid while dates stay zero-padded
// YYYY-MM-DD.
const DateLayout = "2006-01-02"

// Observation is a single dated row of business metrics: a fixed set of
// named numeric KPIs plus optional categorical fields such as the channel.
type Observation struct {
	Date     time.Time          `json:"date"`
	KPIs     map[string]float64 `json:"kpis"`
	Channel  string             `json:"channel,omitempty"`
	Missing  map[string]bool    `json:"-"`
}

// Value returns the KPI value for the given column and whether it is usable.
// A column absent from the row or recorded as missing counts as unusable.
func (o Observation) Value(column string) (float64, bool) {
	if o.Missing[column] {
		return 0, false
	}
	v, ok := o.KPIs[column]
	return v, ok
}

// Table is an ordered sequence of observations sharing the same KPI columns.
// Analytics functions never mutate a table in place.
type Table struct {
	Rows    []Observation
	Columns []string
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the table carries the named KPI column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// SortedByDate returns a copy of the rows in ascending date order. The sort
// is stable so rows sharing a date keep their original relative order.
func (t *Table) SortedByDate() []Observation {
	rows := make([]Observation, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

// ColumnValues collects the non-missing values of a column in row order,
// paired with the dates they belong to.
func (t *Table) ColumnValues(column string) (values []float64, dates []time.Time) {
	for _, row := range t.Rows {
		if v, ok := row.Value(column); ok {
			values = append(values, v)
			dates = append(dates, row.Date)
		}
	}
	return values, dates
}

// DateRange returns the earliest and latest dates in the table. The second
// return is false for an empty table.
func (t *Table) DateRange() (start, end time.Time, ok bool) {
	if len(t.Rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = t.Rows[0].Date, t.Rows[0].Date
	for _, row := range t.Rows[1:] {
		if row.Date.Before(start) {
			start = row.Date
		}
		if row.Date.After(end) {
			end = row.Date
		}
	}
	return start, end, true
}
