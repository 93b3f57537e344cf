package analytics

import (
	"math"

	"github.com/irfandi/autoops-ai-go/internal/models"
)

// DefaultTrendWindow is the moving-average window used when callers pass a
// non-positive window.
const DefaultTrendWindow = 7

// Trend direction thresholds in total growth percent. Fixed by contract with
// downstream report consumers, not configurable per call.
const (
	upwardGrowthThreshold   = 5.0
	downwardGrowthThreshold = -5.0
)

// zeroFirstValueEpsilon substitutes a zero first value in the total growth
// computation. The value is a compatibility constant carried from earlier
// report generations; changing it changes every historical growth figure.
const zeroFirstValueEpsilon = 0.01

// DetectTrend analyzes one KPI column over the date-sorted series: moving
// average (partial windows at the series start), total growth, direction,
// period-over-period change statistics, and a recent-trend flag comparing
// the last moving-average value against the value min(7, length) positions
// back.
func DetectTrend(table *models.Table, column string, window int) (*models.TrendResult, error) {
	if window <= 0 {
		window = DefaultTrendWindow
	}

	var values []float64
	for _, row := range table.SortedByDate() {
		if v, ok := row.Value(column); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, &EmptyInputError{Column: column}
	}

	ma := movingAverage(values, window)

	totalGrowth := 0.0
	if len(values) > 1 {
		first := values[0]
		if first == 0 {
			first = zeroFirstValueEpsilon
		}
		last := values[len(values)-1]
		totalGrowth = (last - first) / abs(first) * 100
	}

	pctChanges := periodChanges(values)

	direction := models.TrendStable
	switch {
	case totalGrowth > upwardGrowthThreshold:
		direction = models.TrendUpward
	case totalGrowth < downwardGrowthThreshold:
		direction = models.TrendDownward
	}

	recent := "decreasing"
	back := len(ma) - min(7, len(ma))
	if ma[len(ma)-1] > ma[back] {
		recent = "increasing"
	}

	return &models.TrendResult{
		Column:             column,
		TotalGrowthPct:     roundTo(totalGrowth, 2),
		TrendDirection:     direction,
		AvgPeriodChangePct: roundTo(calculateMean(pctChanges), 2),
		Volatility:         roundTo(calculateStdDev(pctChanges), 2),
		MovingAverage:      ma,
		RecentTrend:        recent,
	}, nil
}

// GrowthRate compares the average of the most recent `periods` values
// against the average of the `periods` before them, plus rolling
// window-over-window change statistics across the whole series.
func GrowthRate(table *models.Table, column string, periods int) (*models.GrowthRateResult, error) {
	if periods <= 0 {
		periods = DefaultTrendWindow
	}

	var values []float64
	for _, row := range table.SortedByDate() {
		if v, ok := row.Value(column); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, &EmptyInputError{Column: column}
	}
	if len(values) < periods+1 {
		return nil, &InsufficientDataError{Col1: column, Points: len(values), Needed: periods + 1}
	}

	recentAvg := calculateMean(values[len(values)-periods:])

	prevStart := len(values) - 2*periods
	if prevStart < 0 {
		prevStart = 0
	}
	previousAvg := calculateMean(values[prevStart : len(values)-periods])

	growthRate := 0.0
	if previousAvg != 0 {
		growthRate = (recentAvg - previousAvg) / abs(previousAvg) * 100
	}

	// The current window is clamped at the series end, so trailing partial
	// windows still contribute a change.
	var wowChanges []float64
	for i := 0; i < len(values)-periods; i++ {
		end := i + 2*periods
		if end > len(values) {
			end = len(values)
		}
		previous := calculateMean(values[i : i+periods])
		current := calculateMean(values[i+periods : end])
		if previous != 0 {
			wowChanges = append(wowChanges, (current-previous)/abs(previous)*100)
		}
	}

	return &models.GrowthRateResult{
		Column:           column,
		Periods:          periods,
		RecentAverage:    roundTo(recentAvg, 2),
		PreviousAverage:  roundTo(previousAvg, 2),
		GrowthRatePct:    roundTo(growthRate, 2),
		AvgPeriodGrowth:  roundTo(calculateMean(wowChanges), 2),
		GrowthVolatility: roundTo(populationStdDev(wowChanges), 2),
	}, nil
}

// movingAverage computes a simple moving average using however many prior
// points exist at the series start, never padding with nulls.
func movingAverage(values []float64, window int) []float64 {
	ma := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		count := i + 1
		if count > window {
			count = window
		}
		ma[i] = sum / float64(count)
	}
	return ma
}

// periodChanges returns row-to-row percentage changes with the very first
// change defined as 0. A zero previous value also yields 0 rather than a
// division blowup.
func periodChanges(values []float64) []float64 {
	changes := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		changes[i] = (values[i] - values[i-1]) / values[i-1] * 100
	}
	return changes
}

// populationStdDev is the ddof=0 standard deviation used by the rolling
// growth statistics.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := calculateMean(values)
	var sumSquares float64
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
