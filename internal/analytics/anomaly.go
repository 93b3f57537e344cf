package analytics

import (
	"fmt"

	"github.com/irfandi/autoops-ai-go/internal/models"
)

const (
	// zScoreThreshold flags values beyond three sample standard deviations.
	zScoreThreshold = 3.0
	// iqrMultiplier sets the Tukey fence width around the interquartile range.
	iqrMultiplier = 1.5
	// maxAnomalyDetails caps the reported detail list. Points are kept in row
	// order, not severity order; AnomaliesFound still carries the true total.
	maxAnomalyDetails = 10
)

// DetectAnomalies flags outliers in one KPI column using the requested
// method: "zscore" (|z| > 3.0 against the column's own sample mean/std) or
// "iqr" (values outside the Tukey fences Q1-1.5*IQR, Q3+1.5*IQR).
func DetectAnomalies(table *models.Table, column string, method string) (*models.AnomalyResult, error) {
	values, dates := table.ColumnValues(column)
	if len(values) == 0 {
		return nil, &EmptyInputError{Column: column}
	}

	var points []models.AnomalyPoint

	switch method {
	case models.AnomalyMethodZScore:
		mean := calculateMean(values)
		std := calculateStdDev(values)
		if std > 0 {
			for i, v := range values {
				z := abs(v-mean) / std
				if z > zScoreThreshold {
					points = append(points, models.AnomalyPoint{
						Index:  i,
						Date:   dates[i].Format(models.DateLayout),
						Value:  v,
						ZScore: z,
					})
				}
			}
		}

	case models.AnomalyMethodIQR:
		q1 := calculateQuantile(values, 0.25)
		q3 := calculateQuantile(values, 0.75)
		iqr := q3 - q1
		lower := q1 - iqrMultiplier*iqr
		upper := q3 + iqrMultiplier*iqr
		for i, v := range values {
			if v < lower || v > upper {
				points = append(points, models.AnomalyPoint{
					Index:      i,
					Date:       dates[i].Format(models.DateLayout),
					Value:      v,
					LowerBound: lower,
					UpperBound: upper,
				})
			}
		}

	default:
		return nil, fmt.Errorf("unknown anomaly detection method %q", method)
	}

	found := len(points)
	if found > maxAnomalyDetails {
		points = points[:maxAnomalyDetails]
	}

	return &models.AnomalyResult{
		Column:         column,
		Method:         method,
		AnomaliesFound: found,
		Anomalies:      points,
		AnomalyRate:    roundTo(float64(found)/float64(len(values))*100, 2),
	}, nil
}
