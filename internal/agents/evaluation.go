package agents

import (
	"fmt"
	"math"
	"strings"

	"github.com/irfandi/autoops-ai-go/internal/logging"
)

// EvaluationAgent scores the generated report and the coherence of the
// analysis chain behind it.
type EvaluationAgent struct {
	logger *logging.RunLogger
}

func NewEvaluationAgent(logger *logging.RunLogger) *EvaluationAgent {
	return &EvaluationAgent{logger: logger}
}

// Execute scores clarity, logic, and actionability, derives an overall and
// a confidence score, and lists strengths and weaknesses.
func (a *EvaluationAgent) Execute(report string, trends *TrendFindings,
	rootCause *RootCauseFindings, strategy *StrategyFindings) (*Evaluation, error) {

	eval := &Evaluation{}
	err := a.logger.TimeAgent("EvaluationAgent", func() error {
		eval.ClarityScore = evaluateClarity(report)
		eval.LogicScore = evaluateLogic(trends, rootCause, strategy)
		eval.ActionabilityScore = evaluateActionability(strategy)
		eval.OverallScore = round1((eval.ClarityScore + eval.LogicScore + eval.ActionabilityScore) / 3)
		eval.ConfidenceScore = calculateConfidence(trends, rootCause, strategy)
		eval.Strengths = identifyStrengths(eval)
		eval.Weaknesses = identifyWeaknesses(eval)
		eval.Suggestions = generateSuggestions(eval)

		a.logger.Insight(fmt.Sprintf("Overall Quality Score: %.1f/10", eval.OverallScore), "evaluation")
		a.logger.Insight(fmt.Sprintf("Confidence Score: %.1f/10", eval.ConfidenceScore), "evaluation")
		a.logger.Metric("report_quality_score", eval.OverallScore)
		a.logger.Metric("confidence_score", eval.ConfidenceScore)
		return nil
	})
	return eval, err
}

func evaluateClarity(report string) float64 {
	score := 5.0

	if len(report) >= 1000 && len(report) <= 5000 {
		score += 1.5
	} else if len(report) > 500 {
		score += 0.5
	}

	requiredSections := []string{
		"Executive Summary", "KPI Summary", "Key Changes",
		"Root Cause", "Recommendations", "Forecast",
	}
	present := 0
	for _, section := range requiredSections {
		if strings.Contains(report, section) {
			present++
		}
	}
	score += float64(present) / float64(len(requiredSections)) * 2.0

	if strings.Contains(report, "##") {
		score += 0.5
	}
	if strings.Contains(report, "|") {
		score += 0.5
	}
	if strings.Contains(report, "-") || strings.Contains(report, "*") {
		score += 0.5
	}
	return math.Min(10.0, round1(score))
}

func evaluateLogic(trends *TrendFindings, rootCause *RootCauseFindings, strategy *StrategyFindings) float64 {
	score := 5.0

	if len(trends.TopTrends) > 0 {
		score += 1.5
	}
	if len(rootCause.Hypotheses) > 0 {
		score += 1.5
	}

	if len(strategy.Recommendations) > 0 && len(trends.TopTrends) > 0 {
		trendKPIs := map[string]bool{}
		for _, t := range trends.TopTrends {
			trendKPIs[t.KPI] = true
		}
		aligned := false
		for _, rec := range strategy.Recommendations {
			if trendKPIs[rec.KPI] {
				aligned = true
				break
			}
		}
		if aligned {
			score += 2.0
		} else {
			score += 0.5
		}
	}

	hasNegativeTrend := false
	for _, t := range trends.TopTrends {
		if t.GrowthPct < -5 {
			hasNegativeTrend = true
			break
		}
	}
	if hasNegativeTrend && len(strategy.Risks) > 0 {
		score += 1.0
	}
	return math.Min(10.0, round1(score))
}

func evaluateActionability(strategy *StrategyFindings) float64 {
	score := 5.0

	if len(strategy.Recommendations) >= 3 {
		score += 1.5
	} else if len(strategy.Recommendations) >= 1 {
		score += 0.5
	}

	if len(strategy.Recommendations) > 0 {
		allPrioritized := true
		for _, rec := range strategy.Recommendations {
			if rec.Priority == "" {
				allPrioritized = false
				break
			}
		}
		if allPrioritized {
			score += 1.0
		}
	}

	if len(strategy.ActionPlans) >= 2 {
		score += 1.5
	} else if len(strategy.ActionPlans) >= 1 {
		score += 0.5
	}

	if len(strategy.ActionPlans) > 0 {
		hasActions, hasMetrics := true, true
		for _, plan := range strategy.ActionPlans {
			if len(plan.Actions) == 0 {
				hasActions = false
			}
			if len(plan.SuccessMetrics) == 0 {
				hasMetrics = false
			}
		}
		if hasActions {
			score += 1.0
		}
		if hasMetrics {
			score += 1.0
		}
	}
	return math.Min(10.0, round1(score))
}

func calculateConfidence(trends *TrendFindings, rootCause *RootCauseFindings, strategy *StrategyFindings) float64 {
	score := 5.0

	if len(trends.TopTrends) >= 3 {
		score += 1.5
	}

	if rootCause.Correlations != nil {
		strong := 0
		for _, corr := range rootCause.Correlations.TopCorrelations {
			if math.Abs(corr.Correlation) >= 0.7 {
				strong++
			}
		}
		if strong >= 2 {
			score += 1.5
		} else if strong >= 1 {
			score += 0.5
		}
	}

	if len(rootCause.Hypotheses) >= 3 {
		score += 1.0
	}

	confident := 0
	for _, proj := range strategy.Forecast {
		if proj.Confidence == "medium" || proj.Confidence == "high" {
			confident++
		}
	}
	if confident >= 2 {
		score += 1.0
	}

	for _, t := range trends.TopTrends {
		if t.Volatility > 30 {
			score -= 1.0
			break
		}
	}
	return math.Min(10.0, math.Max(0.0, round1(score)))
}

func identifyStrengths(eval *Evaluation) []string {
	var strengths []string
	if eval.ClarityScore >= 8.0 {
		strengths = append(strengths, "Excellent report clarity and structure")
	}
	if eval.LogicScore >= 8.0 {
		strengths = append(strengths, "Strong logical consistency between trends and recommendations")
	}
	if eval.ActionabilityScore >= 8.0 {
		strengths = append(strengths, "Highly actionable recommendations with clear action plans")
	}
	if eval.ConfidenceScore >= 7.0 {
		strengths = append(strengths, "High confidence in analysis and predictions")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Analysis completed successfully with acceptable quality")
	}
	return strengths
}

func identifyWeaknesses(eval *Evaluation) []string {
	var weaknesses []string
	if eval.ClarityScore < 6.0 {
		weaknesses = append(weaknesses, "Report clarity could be improved with better structure")
	}
	if eval.LogicScore < 6.0 {
		weaknesses = append(weaknesses, "Logical consistency between analysis components needs strengthening")
	}
	if eval.ActionabilityScore < 6.0 {
		weaknesses = append(weaknesses, "Recommendations lack sufficient detail or action plans")
	}
	if eval.ConfidenceScore < 5.0 {
		weaknesses = append(weaknesses, "Low confidence due to data volatility or weak correlations")
	}
	return weaknesses
}

func generateSuggestions(eval *Evaluation) []string {
	var suggestions []string
	if eval.ClarityScore < 8.0 {
		suggestions = append(suggestions, "Add more visual elements (charts, graphs) to improve clarity")
	}
	if eval.LogicScore < 8.0 {
		suggestions = append(suggestions, "Strengthen the connection between root causes and recommendations")
	}
	if eval.ActionabilityScore < 8.0 {
		suggestions = append(suggestions, "Provide more specific, measurable action items with clear timelines")
	}
	if eval.ConfidenceScore < 7.0 {
		suggestions = append(suggestions, "Collect more historical data to improve forecast confidence")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Continue monitoring KPIs and refining analysis methodology")
	}
	return suggestions
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
