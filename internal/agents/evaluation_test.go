package agents

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfandi/autoops-ai-go/internal/models"
)

func fullFindings() (*TrendFindings, *RootCauseFindings, *StrategyFindings) {
	trends := &TrendFindings{
		TopTrends: []TopTrend{
			{KPI: "Revenue", GrowthPct: -18, Volatility: 12},
			{KPI: "Customers", GrowthPct: 16, Volatility: 8},
			{KPI: "Marketing_Spend", GrowthPct: 25, Volatility: 10},
		},
	}
	rootCause := &RootCauseFindings{
		Hypotheses: []string{"h1", "h2", "h3"},
		Correlations: &models.CorrelationMatrix{
			TopCorrelations: []models.CorrelationPair{
				{Col1: "Revenue", Col2: "Customers", Correlation: 0.9},
				{Col1: "Revenue", Col2: "Marketing_Spend", Correlation: -0.75},
			},
		},
	}
	strategy := &StrategyFindings{
		Recommendations: []Recommendation{
			{KPI: "Revenue", Priority: "critical"},
			{KPI: "Customers", Priority: "high"},
			{KPI: "Marketing_Spend", Priority: "medium"},
		},
		ActionPlans: []ActionPlan{
			{Actions: []string{"a"}, SuccessMetrics: []string{"m"}},
			{Actions: []string{"b"}, SuccessMetrics: []string{"n"}},
		},
		Risks: []Risk{{Severity: "high", Risk: "Revenue declining"}},
		Forecast: map[string]Projection{
			"Revenue":   {Confidence: "medium"},
			"Customers": {Confidence: "medium"},
		},
	}
	return trends, rootCause, strategy
}

// wellFormedReport builds a report long enough and sectioned enough to max
// the clarity heuristics.
func wellFormedReport() string {
	var b strings.Builder
	for _, section := range []string{
		"Executive Summary", "KPI Summary", "Key Changes",
		"Root Cause", "Recommendations", "Forecast",
	} {
		b.WriteString("## " + section + "\n\n")
		b.WriteString("| a | b |\n- item\n\n")
	}
	for b.Len() < 1200 {
		b.WriteString("Analysis detail paragraph with findings and context.\n")
	}
	return b.String()
}

func TestEvaluationAgentExecute(t *testing.T) {
	trends, rootCause, strategy := fullFindings()

	agent := NewEvaluationAgent(newAgentLogger(t))
	eval, err := agent.Execute(wellFormedReport(), trends, rootCause, strategy)
	require.NoError(t, err)

	assert.InDelta(t, 10, eval.ClarityScore, 1e-9)
	assert.InDelta(t, 10, eval.LogicScore, 1e-9)
	assert.InDelta(t, 10, eval.ActionabilityScore, 1e-9)
	assert.InDelta(t, 10, eval.OverallScore, 1e-9)
	assert.InDelta(t, 10, eval.ConfidenceScore, 1e-9)
	assert.NotEmpty(t, eval.Strengths)
	assert.Empty(t, eval.Weaknesses)
}

func TestEvaluateClarityPenalizesThinReports(t *testing.T) {
	// Short, structureless text keeps only the base score.
	score := evaluateClarity("tiny")
	assert.InDelta(t, 5.0, score, 1e-9)

	assert.Greater(t, evaluateClarity(wellFormedReport()), score)
}

func TestEvaluateLogicAlignment(t *testing.T) {
	trends := &TrendFindings{TopTrends: []TopTrend{{KPI: "Revenue", GrowthPct: 20}}}
	rootCause := &RootCauseFindings{Hypotheses: []string{"h"}}

	aligned := &StrategyFindings{Recommendations: []Recommendation{{KPI: "Revenue", Priority: "high"}}}
	misaligned := &StrategyFindings{Recommendations: []Recommendation{{KPI: "Churn", Priority: "high"}}}

	assert.Greater(t,
		evaluateLogic(trends, rootCause, aligned),
		evaluateLogic(trends, rootCause, misaligned))
}

func TestCalculateConfidenceVolatilityPenalty(t *testing.T) {
	calm := &TrendFindings{TopTrends: []TopTrend{{KPI: "Revenue", Volatility: 10}}}
	volatile := &TrendFindings{TopTrends: []TopTrend{{KPI: "Revenue", Volatility: 45}}}
	rootCause := &RootCauseFindings{}
	strategy := &StrategyFindings{}

	assert.InDelta(t, 1.0,
		calculateConfidence(calm, rootCause, strategy)-calculateConfidence(volatile, rootCause, strategy),
		1e-9)
}

func TestIdentifyWeaknessesOnLowScores(t *testing.T) {
	eval := &Evaluation{
		ClarityScore:       4,
		LogicScore:         5,
		ActionabilityScore: 5.5,
		ConfidenceScore:    3,
	}

	weaknesses := identifyWeaknesses(eval)
	assert.Len(t, weaknesses, 4)

	strengths := identifyStrengths(eval)
	require.Len(t, strengths, 1)
	assert.Contains(t, strengths[0], "acceptable quality")
}
