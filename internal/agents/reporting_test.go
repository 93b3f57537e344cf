package agents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfandi/autoops-ai-go/internal/dataset"
	"github.com/irfandi/autoops-ai-go/internal/models"
)

func reportFixtures(t *testing.T) (*models.Table, *IntakeResult, *TrendFindings, *RootCauseFindings, *MemoryFindings, *StrategyFindings) {
	t.Helper()
	table := metricsTable(
		[]string{"Revenue", "Customers", "Conversion_Rate", "Marketing_Spend"},
		map[string][]float64{
			"Revenue":         {1000, 950, 900},
			"Customers":       {50, 52, 54},
			"Conversion_Rate": {2.5, 2.4, 2.3},
			"Marketing_Spend": {200, 210, 220},
		},
		[]string{"Organic"},
	)

	intake := &IntakeResult{
		Table: table,
		Report: &dataset.Report{
			Load: dataset.LoadMetadata{
				Rows:      3,
				DateRange: &dataset.DateRange{Start: "2024-01-01", End: "2024-01-03"},
			},
			Quality: dataset.QualityReport{QualityGrade: "A", Completeness: 100},
		},
	}

	trends := &TrendFindings{
		KPITrends: map[string]*models.TrendResult{
			"Revenue": {TrendDirection: models.TrendDownward, TotalGrowthPct: -10, Volatility: 4.5},
		},
		TopTrends: []TopTrend{
			{KPI: "Revenue", GrowthPct: -10, Direction: models.TrendDownward},
		},
		CriticalAnomalies: []CriticalAnomaly{
			{KPI: "Revenue", Date: "2024-01-02", Value: 950, ZScore: 3.4},
		},
	}

	rootCause := &RootCauseFindings{
		Hypotheses: []string{"The decrease in Revenue may be driven by changes in Customers"},
		Correlations: &models.CorrelationMatrix{
			TopCorrelations: []models.CorrelationPair{
				{Col1: "Revenue", Col2: "Customers", Correlation: -0.95},
			},
		},
	}

	changePct := 12.5
	memoryFindings := &MemoryFindings{
		HistoricalComparison: map[string]models.KPIComparison{
			"Revenue": {Current: 950, ChangePct: &changePct},
		},
		StoreStats: &models.StoreStats{TotalSessions: 4, TotalInsights: 9},
	}

	strategy := &StrategyFindings{
		Recommendations: []Recommendation{
			{Priority: "critical", Recommendation: "Address revenue decline", ExpectedImpact: "high", Timeframe: "immediate"},
		},
		ActionPlans: []ActionPlan{
			{Recommendation: "Address revenue decline", Priority: "critical",
				Actions: []string{"Survey customers"}, SuccessMetrics: []string{"Reduce churn"}, Timeline: "immediate"},
		},
		Risks:         []Risk{{Severity: "high", Risk: "Revenue declining by 10.0%", Impact: "x", Mitigation: "y"}},
		Opportunities: []Opportunity{{Opportunity: "Best performing channel: Organic", Recommendation: "invest", ExpectedValue: "ROI"}},
		Forecast: map[string]Projection{
			"Revenue": {CurrentAvg: 950, Projected7D: 900, Projected30D: 800, Confidence: "low"},
		},
	}
	return table, intake, trends, rootCause, memoryFindings, strategy
}

func TestReportingAgentExecute(t *testing.T) {
	table, intake, trends, rootCause, memoryFindings, strategy := reportFixtures(t)

	agent := NewReportingAgent(newAgentLogger(t))
	agent.now = func() time.Time { return time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC) }

	report, err := agent.Execute(table, intake, trends, rootCause, memoryFindings, strategy)
	require.NoError(t, err)

	for _, section := range []string{
		"# AUTOOPS AI - Executive Business Report",
		"## Executive Summary",
		"## KPI Summary",
		"## Key Changes & Trends",
		"## Anomaly Detection",
		"## Root Cause Analysis",
		"## Historical Comparison",
		"## Strategic Recommendations",
		"## Action Plans",
		"## Risk Warnings",
		"## Opportunities",
		"## Forecast",
		"## Notes",
	} {
		assert.Contains(t, report, section)
	}

	assert.Contains(t, report, "**Generated:** 2024-01-04 09:00:00")
	assert.Contains(t, report, "**Analysis Period:** 2024-01-01 to 2024-01-03")
	assert.Contains(t, report, "| Revenue | 950.00 | downward | -10.0% | 4.5% |")
	assert.Contains(t, report, "Strong negative correlation between **Revenue** and **Customers** (r=-0.95)")
	assert.Contains(t, report, "+12.5% vs historical average")
	assert.Contains(t, report, "- **Priority:** CRITICAL")
	assert.Contains(t, report, "| Revenue | 950.00 | 900.00 | 800.00 | low |")
	assert.Contains(t, report, "Total sessions analyzed: 4")
}

func TestReportingAgentEmptySections(t *testing.T) {
	table, intake, _, _, _, _ := reportFixtures(t)

	agent := NewReportingAgent(newAgentLogger(t))
	report, err := agent.Execute(table, intake,
		&TrendFindings{KPITrends: map[string]*models.TrendResult{}},
		&RootCauseFindings{},
		&MemoryFindings{},
		&StrategyFindings{})
	require.NoError(t, err)

	assert.Contains(t, report, "No significant anomalies detected")
	assert.Contains(t, report, "No historical data available for comparison.")
	assert.Contains(t, report, "No significant risks identified.")
	assert.Contains(t, report, "No specific opportunities identified at this time.")
}
