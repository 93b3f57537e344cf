package agents

import (
	"fmt"

	"github.com/irfandi/autoops-ai-go/internal/dataset"
	"github.com/irfandi/autoops-ai-go/internal/logging"
)

// DataIntakeAgent loads, validates, and cleans the observation table.
type DataIntakeAgent struct {
	logger *logging.RunLogger
}

func NewDataIntakeAgent(logger *logging.RunLogger) *DataIntakeAgent {
	return &DataIntakeAgent{logger: logger}
}

// Execute runs the full intake path for one CSV file.
func (a *DataIntakeAgent) Execute(path string) (*IntakeResult, error) {
	var result *IntakeResult

	err := a.logger.TimeAgent("DataIntakeAgent", func() error {
		a.logger.ToolUsed("DataIntakeAgent", "dataset.LoadAndClean", map[string]any{"path": path})

		table, report, err := dataset.LoadAndClean(path)
		if err != nil {
			return fmt.Errorf("data intake: %w", err)
		}

		if !report.Validation.Valid {
			a.logger.Logger().WithField("missing", report.Validation.MissingColumns).
				Warn("Schema validation failed, continuing with available columns")
		}

		a.logger.Insight(fmt.Sprintf("Loaded %d rows with quality grade %s (%.1f%% complete)",
			report.Cleaning.RowsAfter, report.Quality.QualityGrade, report.Quality.Completeness),
			"data_quality")
		a.logger.Metric("rows_loaded", float64(report.Cleaning.RowsAfter))
		a.logger.Metric("data_completeness", report.Quality.Completeness)

		result = &IntakeResult{Table: table, Report: report}
		return nil
	})
	return result, err
}
