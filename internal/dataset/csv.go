// Package dataset loads, validates, and cleans the observation CSV that
// feeds the analysis pipeline.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/irfandi/autoops-ai-go/internal/models"
	"github.com/irfandi/autoops-ai-go/internal/utils"
)

// RequiredColumns is the expected CSV schema.
var RequiredColumns = []string{"Date", "Revenue", "Customers", "Conversion_Rate", "Marketing_Spend", "Channel"}

// NumericColumns are the KPI columns the analytics engine consumes.
var NumericColumns = []string{"Revenue", "Customers", "Conversion_Rate", "Marketing_Spend"}

// LoadMetadata describes the raw file as loaded.
type LoadMetadata struct {
	Filepath   string     `json:"filepath"`
	Rows       int        `json:"rows"`
	Columns    []string   `json:"columns"`
	FileSizeKB float64    `json:"file_size_kb"`
	DateRange  *DateRange `json:"date_range,omitempty"`
}

// DateRange is the span of dates in a loaded table.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ValidationResult reports schema conformance.
type ValidationResult struct {
	Valid          bool     `json:"valid"`
	MissingColumns []string `json:"missing_columns"`
	ExtraColumns   []string `json:"extra_columns"`
	TypeIssues     []string `json:"type_issues"`
	Messages       []string `json:"messages"`
}

// CleaningReport records what cleaning changed.
type CleaningReport struct {
	NullsFound        map[string]int `json:"nulls_found"`
	NullsFilled       map[string]int `json:"nulls_filled"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	RowsBefore        int            `json:"rows_before"`
	RowsAfter         int            `json:"rows_after"`
	Actions           []string       `json:"actions"`
}

// QualityReport scores data completeness after cleaning.
type QualityReport struct {
	Completeness   float64 `json:"completeness"`
	TotalRows      int     `json:"total_rows"`
	TotalColumns   int     `json:"total_columns"`
	NullCells      int     `json:"null_cells"`
	NullPercentage float64 `json:"null_percentage"`
	QualityGrade   string  `json:"quality_grade"`
}

// Report bundles the full intake trail for one file.
type Report struct {
	Load       LoadMetadata     `json:"load_metadata"`
	Validation ValidationResult `json:"validation"`
	Cleaning   CleaningReport   `json:"cleaning"`
	Quality    QualityReport    `json:"quality"`
}

// Load reads a CSV file into an observation table. Unparseable or empty
// cells are recorded as missing, not defaulted; Clean decides how to fill
// them.
func Load(filepath string) (*models.Table, *LoadMetadata, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat csv: %w", err)
	}

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, utils.NewValidationError("csv file has no header row")
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	var columns []string
	for _, name := range NumericColumns {
		if _, ok := colIndex[name]; ok {
			columns = append(columns, name)
		}
	}

	table := &models.Table{Columns: columns}
	for _, record := range records[1:] {
		row := models.Observation{
			KPIs:    map[string]float64{},
			Missing: map[string]bool{},
		}

		if idx, ok := colIndex["Date"]; ok && idx < len(record) {
			date, err := time.Parse(models.DateLayout, strings.TrimSpace(record[idx]))
			if err != nil {
				return nil, nil, utils.NewValidationErrorf("invalid date %q: %v", record[idx], err)
			}
			row.Date = date
		}

		for _, name := range columns {
			idx := colIndex[name]
			if idx >= len(record) {
				row.Missing[name] = true
				continue
			}
			cell := strings.TrimSpace(record[idx])
			if cell == "" {
				row.Missing[name] = true
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				row.Missing[name] = true
				continue
			}
			row.KPIs[name] = v
		}

		if idx, ok := colIndex["Channel"]; ok && idx < len(record) {
			row.Channel = strings.TrimSpace(record[idx])
		}

		table.Rows = append(table.Rows, row)
	}

	meta := &LoadMetadata{
		Filepath:   filepath,
		Rows:       table.Len(),
		Columns:    header,
		FileSizeKB: float64(info.Size()) / 1024,
	}
	if start, end, ok := table.DateRange(); ok {
		meta.DateRange = &DateRange{
			Start: start.Format(models.DateLayout),
			End:   end.Format(models.DateLayout),
		}
	}

	return table, meta, nil
}

// ValidateSchema checks the loaded header against the required schema.
func ValidateSchema(header []string) ValidationResult {
	result := ValidationResult{Valid: true}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[strings.TrimSpace(name)] = true
	}

	for _, name := range RequiredColumns {
		if !present[name] {
			result.MissingColumns = append(result.MissingColumns, name)
		}
	}
	if len(result.MissingColumns) > 0 {
		result.Valid = false
		result.Messages = append(result.Messages,
			fmt.Sprintf("Missing required columns: %v", result.MissingColumns))
	}

	required := make(map[string]bool, len(RequiredColumns))
	for _, name := range RequiredColumns {
		required[name] = true
	}
	for _, name := range header {
		if !required[strings.TrimSpace(name)] {
			result.ExtraColumns = append(result.ExtraColumns, strings.TrimSpace(name))
		}
	}
	if len(result.ExtraColumns) > 0 {
		result.Messages = append(result.Messages,
			fmt.Sprintf("Extra columns found: %v", result.ExtraColumns))
	}

	if result.Valid {
		result.Messages = append(result.Messages, "Schema validation passed")
	}
	return result
}

// Clean fills numeric gaps (forward fill, then backward fill), defaults a
// missing channel to "Unknown", drops duplicate dates keeping the first
// occurrence, and sorts by date.
func Clean(table *models.Table) (*models.Table, CleaningReport) {
	report := CleaningReport{
		NullsFound:  map[string]int{},
		NullsFilled: map[string]int{},
		RowsBefore:  table.Len(),
	}

	rows := make([]models.Observation, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = cloneObservation(row)
	}

	for _, name := range table.Columns {
		nulls := 0
		for _, row := range rows {
			if row.Missing[name] {
				nulls++
			}
		}
		if nulls == 0 {
			continue
		}
		report.NullsFound[name] = nulls

		// Forward fill, then backward fill for leading gaps.
		lastSeen, haveSeen := 0.0, false
		for i := range rows {
			if rows[i].Missing[name] {
				if haveSeen {
					rows[i].KPIs[name] = lastSeen
					delete(rows[i].Missing, name)
				}
			} else {
				lastSeen, haveSeen = rows[i].KPIs[name], true
			}
		}
		nextSeen, haveNext := 0.0, false
		for i := len(rows) - 1; i >= 0; i-- {
			if rows[i].Missing[name] {
				if haveNext {
					rows[i].KPIs[name] = nextSeen
					delete(rows[i].Missing, name)
				}
			} else {
				nextSeen, haveNext = rows[i].KPIs[name], true
			}
		}

		report.NullsFilled[name] = nulls
		report.Actions = append(report.Actions, fmt.Sprintf("Filled %d nulls in %s", nulls, name))
	}

	channelNulls := 0
	for i := range rows {
		if rows[i].Channel == "" {
			rows[i].Channel = "Unknown"
			channelNulls++
		}
	}
	if channelNulls > 0 {
		report.NullsFilled["Channel"] = channelNulls
		report.Actions = append(report.Actions, fmt.Sprintf("Filled %d nulls in Channel", channelNulls))
	}

	seen := make(map[string]bool, len(rows))
	deduped := rows[:0]
	for _, row := range rows {
		key := row.Date.Format(models.DateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, row)
	}
	if removed := len(rows) - len(deduped); removed > 0 {
		report.DuplicatesRemoved = removed
		report.Actions = append(report.Actions, fmt.Sprintf("Removed %d duplicate rows", removed))
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Date.Before(deduped[j].Date)
	})
	report.Actions = append(report.Actions, "Sorted data by Date")
	report.RowsAfter = len(deduped)

	cleaned := &models.Table{Rows: deduped, Columns: table.Columns}
	return cleaned, report
}

// QualityScore grades completeness over the KPI and channel cells.
func QualityScore(table *models.Table) QualityReport {
	columns := len(table.Columns) + 2 // Date and Channel
	totalCells := table.Len() * columns
	nullCells := 0
	for _, row := range table.Rows {
		nullCells += len(row.Missing)
		if row.Channel == "" {
			nullCells++
		}
	}

	completeness := 100.0
	nullPct := 0.0
	if totalCells > 0 {
		completeness = (1 - float64(nullCells)/float64(totalCells)) * 100
		nullPct = float64(nullCells) / float64(totalCells) * 100
	}

	grade := "D"
	switch {
	case completeness >= 95:
		grade = "A"
	case completeness >= 85:
		grade = "B"
	case completeness >= 70:
		grade = "C"
	}

	return QualityReport{
		Completeness:   round2(completeness),
		TotalRows:      table.Len(),
		TotalColumns:   columns,
		NullCells:      nullCells,
		NullPercentage: round2(nullPct),
		QualityGrade:   grade,
	}
}

// LoadAndClean runs the full intake path: load, validate, clean, score.
func LoadAndClean(filepath string) (*models.Table, *Report, error) {
	table, meta, err := Load(filepath)
	if err != nil {
		return nil, nil, err
	}

	validation := ValidateSchema(meta.Columns)
	cleaned, cleaning := Clean(table)
	quality := QualityScore(cleaned)

	return cleaned, &Report{
		Load:       *meta,
		Validation: validation,
		Cleaning:   cleaning,
		Quality:    quality,
	}, nil
}

func cloneObservation(row models.Observation) models.Observation {
	kpis := make(map[string]float64, len(row.KPIs))
	for k, v := range row.KPIs {
		kpis[k] = v
	}
	missing := make(map[string]bool, len(row.Missing))
	for k, v := range row.Missing {
		missing[k] = v
	}
	row.KPIs = kpis
	row.Missing = missing
	return row
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
