package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfandi/autoops-ai-go/internal/models"
)

func TestBuildRecommendationsThresholds(t *testing.T) {
	tests := []struct {
		name     string
		kpi      string
		growth   float64
		priority string
		category string
	}{
		{
			name:     "strong revenue growth",
			kpi:      "Revenue",
			growth:   12,
			priority: "high",
			category: "growth",
		},
		{
			name:     "revenue decline is critical",
			kpi:      "Revenue",
			growth:   -15,
			priority: "critical",
			category: "recovery",
		},
		{
			name:     "customer surge",
			kpi:      "Customers",
			growth:   20,
			priority: "high",
			category: "retention",
		},
		{
			name:     "customer decline is critical",
			kpi:      "Customers",
			growth:   -12,
			priority: "critical",
			category: "acquisition",
		},
		{
			name:     "conversion slump",
			kpi:      "Conversion_Rate",
			growth:   -8,
			priority: "high",
			category: "optimization",
		},
		{
			name:     "spend spike",
			kpi:      "Marketing_Spend",
			growth:   25,
			priority: "medium",
			category: "efficiency",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trends := &TrendFindings{TopTrends: []TopTrend{{KPI: tc.kpi, GrowthPct: tc.growth}}}
			recs := buildRecommendations(trends, &RootCauseFindings{})

			require.Len(t, recs, 1)
			assert.Equal(t, tc.priority, recs[0].Priority)
			assert.Equal(t, tc.category, recs[0].Category)
			assert.Equal(t, tc.kpi, recs[0].KPI)
		})
	}
}

func TestBuildRecommendationsBelowThreshold(t *testing.T) {
	trends := &TrendFindings{TopTrends: []TopTrend{
		{KPI: "Revenue", GrowthPct: 5},
		{KPI: "Marketing_Spend", GrowthPct: 10},
	}}
	recs := buildRecommendations(trends, &RootCauseFindings{})
	assert.Empty(t, recs)
}

func TestBuildRecommendationsPrioritySort(t *testing.T) {
	trends := &TrendFindings{TopTrends: []TopTrend{
		{KPI: "Marketing_Spend", GrowthPct: 25},
		{KPI: "Revenue", GrowthPct: -15},
		{KPI: "Customers", GrowthPct: 20},
	}}
	recs := buildRecommendations(trends, &RootCauseFindings{})

	require.Len(t, recs, 3)
	assert.Equal(t, "critical", recs[0].Priority)
	assert.Equal(t, "high", recs[1].Priority)
	assert.Equal(t, "medium", recs[2].Priority)
}

func TestBuildRecommendationsFromStrongDriver(t *testing.T) {
	rootCause := &RootCauseFindings{
		Drivers: []KPIDrivers{
			{
				KPI: "Revenue",
				PotentialDrivers: []Driver{
					{Driver: "Customers", Correlation: 0.9, Strength: "strong"},
				},
			},
		},
	}
	recs := buildRecommendations(&TrendFindings{}, rootCause)

	require.Len(t, recs, 1)
	assert.Equal(t, "optimization", recs[0].Category)
	assert.Contains(t, recs[0].Recommendation, "Customers")
}

func TestBuildActionPlans(t *testing.T) {
	recs := []Recommendation{
		{Category: "growth", Priority: "high", Recommendation: "scale", Timeframe: "immediate"},
		{Category: "recovery", Priority: "critical", Recommendation: "recover", Timeframe: "immediate"},
	}

	plans := buildActionPlans(recs)
	require.Len(t, plans, 2)
	assert.NotEmpty(t, plans[0].Actions)
	assert.NotEmpty(t, plans[0].SuccessMetrics)
	assert.Equal(t, "immediate", plans[0].Timeline)
}

func TestIdentifyRisks(t *testing.T) {
	trends := &TrendFindings{TopTrends: []TopTrend{
		{KPI: "Revenue", GrowthPct: -25, Volatility: 10},
		{KPI: "Customers", GrowthPct: -12, Volatility: 35},
		{KPI: "Conversion_Rate", GrowthPct: 2, Volatility: 5},
	}}

	risks := identifyRisks(trends)
	require.Len(t, risks, 3)

	// Declines below -20% escalate to high severity.
	assert.Equal(t, "high", risks[0].Severity)
	assert.Contains(t, risks[0].Risk, "Revenue")
	assert.Equal(t, "medium", risks[1].Severity)

	// The volatility risk comes after the decline risks.
	assert.Contains(t, risks[2].Risk, "volatility")
}

func TestIdentifyOpportunities(t *testing.T) {
	trends := &TrendFindings{TopTrends: []TopTrend{
		{KPI: "Customers", GrowthPct: 22},
	}}
	rootCause := &RootCauseFindings{
		ChannelAnalysis: map[string]ChannelStats{
			"Organic": {AvgRevenue: 900},
			"Paid":    {AvgRevenue: 1200},
		},
	}

	opportunities := identifyOpportunities(trends, rootCause)
	require.Len(t, opportunities, 2)
	assert.Contains(t, opportunities[0].Opportunity, "Customers")
	assert.Contains(t, opportunities[1].Opportunity, "Paid")
}

func TestBuildForecast(t *testing.T) {
	table := metricsTable(
		[]string{"Revenue"},
		map[string][]float64{"Revenue": {100, 100, 100, 100, 100, 100, 100, 100, 100, 100}},
		nil,
	)
	trends := &TrendFindings{
		KPITrends: map[string]*models.TrendResult{
			"Revenue": {AvgPeriodChangePct: 2},
		},
	}

	forecast := buildForecast(table, trends)
	require.Contains(t, forecast, "Revenue")

	proj := forecast["Revenue"]
	assert.InDelta(t, 100, proj.CurrentAvg, 1e-9)
	// 2% per period compounds linearly: +14% over 7 days, +60% over 30.
	assert.InDelta(t, 114, proj.Projected7D, 1e-9)
	assert.InDelta(t, 160, proj.Projected30D, 1e-9)
	assert.Equal(t, "medium", proj.Confidence)
}

func TestBuildForecastLowConfidenceOnBigSwings(t *testing.T) {
	table := metricsTable(
		[]string{"Revenue"},
		map[string][]float64{"Revenue": {100, 120, 150}},
		nil,
	)
	trends := &TrendFindings{
		KPITrends: map[string]*models.TrendResult{
			"Revenue": {AvgPeriodChangePct: 15},
		},
	}

	forecast := buildForecast(table, trends)
	assert.Equal(t, "low", forecast["Revenue"].Confidence)
}
