package analytics

import (
	"github.com/irfandi/autoops-ai-go/internal/models"
)

// BasicStats computes descriptive statistics for one KPI column. Missing
// values are dropped before computing; a column with nothing left yields an
// EmptyInputError.
func BasicStats(table *models.Table, column string) (*models.BasicStats, error) {
	values, _ := table.ColumnValues(column)
	if len(values) == 0 {
		return nil, &EmptyInputError{Column: column}
	}

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	return &models.BasicStats{
		Mean:   calculateMean(values),
		Median: calculateQuantile(values, 0.5),
		Std:    calculateStdDev(values),
		Min:    minV,
		Max:    maxV,
		Q25:    calculateQuantile(values, 0.25),
		Q75:    calculateQuantile(values, 0.75),
		Count:  len(values),
	}, nil
}
