package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfandi/autoops-ai-go/internal/models"
)

func TestTrendAgentExecute(t *testing.T) {
	table := metricsTable(
		[]string{"Revenue", "Customers"},
		map[string][]float64{
			"Revenue":   {1000, 950, 900, 850, 800, 750, 700},
			"Customers": {50, 51, 52, 53, 54, 55, 56},
		},
		nil,
	)

	agent := NewTrendDetectionAgent(newAgentLogger(t), nil, 7, 7, models.AnomalyMethodZScore)
	findings, err := agent.Execute(table)
	require.NoError(t, err)

	require.Contains(t, findings.KPITrends, "Revenue")
	assert.Equal(t, models.TrendDownward, findings.KPITrends["Revenue"].TrendDirection)
	assert.Equal(t, models.TrendUpward, findings.KPITrends["Customers"].TrendDirection)
	assert.NotEmpty(t, findings.KeyFindings)

	require.NotEmpty(t, findings.TopTrends)
	// Revenue's -30% swing dominates Customers' +12%.
	assert.Equal(t, "Revenue", findings.TopTrends[0].KPI)
}

func TestTrendAgentHonorsConfiguredColumns(t *testing.T) {
	table := metricsTable(
		[]string{"Revenue", "Customers"},
		map[string][]float64{
			"Revenue":   {100, 110, 120},
			"Customers": {10, 11, 12},
		},
		nil,
	)

	agent := NewTrendDetectionAgent(newAgentLogger(t), []string{"Revenue", "Absent"}, 7, 7, models.AnomalyMethodZScore)
	findings, err := agent.Execute(table)
	require.NoError(t, err)

	assert.Contains(t, findings.KPITrends, "Revenue")
	assert.NotContains(t, findings.KPITrends, "Customers")
	assert.NotContains(t, findings.KPITrends, "Absent")
}

func TestTrendAgentGrowthRates(t *testing.T) {
	revenue := make([]float64, 14)
	for i := range revenue {
		revenue[i] = float64(i + 1)
	}
	table := metricsTable(
		[]string{"Revenue", "Customers"},
		map[string][]float64{
			"Revenue":   revenue,
			"Customers": {10, 11, 12}, // too short for the comparison windows
		},
		nil,
	)

	agent := NewTrendDetectionAgent(newAgentLogger(t), nil, 7, 7, models.AnomalyMethodZScore)
	findings, err := agent.Execute(table)
	require.NoError(t, err)

	require.Contains(t, findings.GrowthRates, "Revenue")
	assert.InDelta(t, 175, findings.GrowthRates["Revenue"].GrowthRatePct, 1e-9)
	assert.NotContains(t, findings.GrowthRates, "Customers")
	assert.Contains(t, findings.KPITrends, "Customers")
}

func TestTrendAgentSkipsEmptyColumn(t *testing.T) {
	table := metricsTable(
		[]string{"Revenue", "Ghost"},
		map[string][]float64{"Revenue": {100, 110, 120}},
		nil,
	)

	agent := NewTrendDetectionAgent(newAgentLogger(t), nil, 7, 7, models.AnomalyMethodZScore)
	findings, err := agent.Execute(table)
	require.NoError(t, err)

	assert.Contains(t, findings.KPITrends, "Revenue")
	assert.NotContains(t, findings.KPITrends, "Ghost")
}

func TestTopTrends(t *testing.T) {
	trends := map[string]*models.TrendResult{
		"A": {TotalGrowthPct: 5, TrendDirection: models.TrendStable},
		"B": {TotalGrowthPct: -25, TrendDirection: models.TrendDownward},
		"C": {TotalGrowthPct: 15, TrendDirection: models.TrendUpward},
		"D": {TotalGrowthPct: 40, TrendDirection: models.TrendUpward},
	}

	top := topTrends(trends)
	require.Len(t, top, 3)
	assert.Equal(t, "D", top[0].KPI)
	assert.Equal(t, "B", top[1].KPI)
	assert.Equal(t, "C", top[2].KPI)
}

func TestTopTrendsTieBreaksOnName(t *testing.T) {
	trends := map[string]*models.TrendResult{
		"Zeta":  {TotalGrowthPct: 10},
		"Alpha": {TotalGrowthPct: -10},
	}

	top := topTrends(trends)
	require.Len(t, top, 2)
	assert.Equal(t, "Alpha", top[0].KPI)
	assert.Equal(t, "Zeta", top[1].KPI)
}

func TestCriticalAnomalies(t *testing.T) {
	anomalies := map[string]*models.AnomalyResult{
		"Revenue": {
			Anomalies: []models.AnomalyPoint{
				{Date: "2024-01-05", Value: 900, ZScore: 3.2},
				{Date: "2024-01-09", Value: 2000, ZScore: 4.8},
				{Date: "2024-01-12", Value: 1800, ZScore: 4.1},
				{Date: "2024-01-20", Value: 1700, ZScore: 3.9},
			},
		},
		"Customers": {
			Anomalies: []models.AnomalyPoint{
				{Date: "2024-01-07", Value: 500, ZScore: 5.5},
			},
		},
	}

	critical := criticalAnomalies(anomalies)
	// Up to three points per KPI, ranked by z-score across KPIs.
	require.Len(t, critical, 4)
	assert.Equal(t, "Customers", critical[0].KPI)
	assert.InDelta(t, 5.5, critical[0].ZScore, 1e-10)
	assert.InDelta(t, 4.8, critical[1].ZScore, 1e-10)
	assert.InDelta(t, 4.1, critical[2].ZScore, 1e-10)
	assert.InDelta(t, 3.2, critical[3].ZScore, 1e-10)
}
