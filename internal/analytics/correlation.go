package analytics

import (
	"sort"

	"github.com/irfandi/autoops-ai-go/internal/models"
)

// Correlation strength buckets on the absolute Pearson coefficient.
const (
	strongCorrelation   = 0.7
	moderateCorrelation = 0.4
	weakCorrelation     = 0.2
)

// significanceLevel is the two-sided Pearson p-value cutoff for the
// significant flag.
const significanceLevel = 0.05

// topCorrelationCount bounds the ranked pair list in a correlation matrix.
const topCorrelationCount = 5

// Correlate computes Pearson and Spearman coefficients with two-sided
// p-values between two KPI columns, over rows where both values are present.
func Correlate(table *models.Table, col1 string, col2 string) (*models.CorrelationEntry, error) {
	var x, y []float64
	for _, row := range table.Rows {
		v1, ok1 := row.Value(col1)
		v2, ok2 := row.Value(col2)
		if ok1 && ok2 {
			x = append(x, v1)
			y = append(y, v2)
		}
	}
	if len(x) < 2 {
		return nil, &InsufficientDataError{Col1: col1, Col2: col2, Points: len(x)}
	}

	pearson := calculateCorrelation(x, y)
	pearsonP := twoSidedTPValue(pearson, len(x))

	spearman := calculateCorrelation(rankValues(x), rankValues(y))
	spearmanP := twoSidedTPValue(spearman, len(x))

	absCorr := abs(pearson)
	strength := "very weak"
	switch {
	case absCorr >= strongCorrelation:
		strength = "strong"
	case absCorr >= moderateCorrelation:
		strength = "moderate"
	case absCorr >= weakCorrelation:
		strength = "weak"
	}

	direction := "negative"
	if pearson > 0 {
		direction = "positive"
	}

	return &models.CorrelationEntry{
		Col1:                col1,
		Col2:                col2,
		PearsonCorrelation:  roundTo(pearson, 3),
		PearsonPValue:       roundTo(pearsonP, 4),
		SpearmanCorrelation: roundTo(spearman, 3),
		SpearmanPValue:      roundTo(spearmanP, 4),
		Strength:            strength,
		Direction:           direction,
		Significant:         pearsonP < significanceLevel,
	}, nil
}

// CorrelationMatrix computes the full symmetric Pearson matrix over the
// requested columns present in the table, plus the strongest pairs ranked by
// absolute coefficient. Ties keep the row-major (i<j) enumeration order.
func CorrelationMatrix(table *models.Table, columns []string) (*models.CorrelationMatrix, error) {
	var valid []string
	for _, col := range columns {
		if table.HasColumn(col) {
			valid = append(valid, col)
		}
	}
	if len(valid) < 2 {
		return nil, &InsufficientColumnsError{Columns: len(valid)}
	}

	matrix := make(map[string]map[string]float64, len(valid))
	for _, col := range valid {
		matrix[col] = make(map[string]float64, len(valid))
		matrix[col][col] = 1
	}

	var pairs []models.CorrelationPair
	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			corr := pairwiseCorrelation(table, valid[i], valid[j])
			rounded := roundTo(corr, 3)
			matrix[valid[i]][valid[j]] = rounded
			matrix[valid[j]][valid[i]] = rounded
			pairs = append(pairs, models.CorrelationPair{
				Col1:        valid[i],
				Col2:        valid[j],
				Correlation: rounded,
			})
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return abs(pairs[a].Correlation) > abs(pairs[b].Correlation)
	})
	if len(pairs) > topCorrelationCount {
		pairs = pairs[:topCorrelationCount]
	}

	return &models.CorrelationMatrix{
		Matrix:          matrix,
		TopCorrelations: pairs,
		ColumnsAnalyzed: valid,
	}, nil
}

// pairwiseCorrelation is the Pearson coefficient over pairwise-complete
// rows, 0 when fewer than two remain.
func pairwiseCorrelation(table *models.Table, col1 string, col2 string) float64 {
	var x, y []float64
	for _, row := range table.Rows {
		v1, ok1 := row.Value(col1)
		v2, ok2 := row.Value(col2)
		if ok1 && ok2 {
			x = append(x, v1)
			y = append(y, v2)
		}
	}
	if len(x) < 2 {
		return 0
	}
	return calculateCorrelation(x, y)
}
