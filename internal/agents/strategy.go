package agents

import (
	"fmt"
	"math"
	"sort"

	"github.com/irfandi/autoops-ai-go/internal/logging"
	"github.com/irfandi/autoops-ai-go/internal/models"
)

// StrategyAgent turns the analytical findings into prioritized
// recommendations, risks, opportunities, and a naive linear projection.
type StrategyAgent struct {
	logger *logging.RunLogger
}

func NewStrategyAgent(logger *logging.RunLogger) *StrategyAgent {
	return &StrategyAgent{logger: logger}
}

// Execute generates strategy outputs from the trend and root cause results.
func (a *StrategyAgent) Execute(table *models.Table, trends *TrendFindings, rootCause *RootCauseFindings) (*StrategyFindings, error) {
	findings := &StrategyFindings{}

	err := a.logger.TimeAgent("StrategyAgent", func() error {
		findings.Recommendations = buildRecommendations(trends, rootCause)
		findings.ActionPlans = buildActionPlans(findings.Recommendations)
		findings.Risks = identifyRisks(trends)
		findings.Opportunities = identifyOpportunities(trends, rootCause)
		findings.Forecast = buildForecast(table, trends)

		for i, rec := range firstN(findings.Recommendations, 3) {
			a.logger.Insight(fmt.Sprintf("Recommendation %d: %s", i+1, rec.Recommendation), "strategy")
		}
		return nil
	})
	return findings, err
}

func buildRecommendations(trends *TrendFindings, rootCause *RootCauseFindings) []Recommendation {
	var recs []Recommendation

	for _, trend := range trends.TopTrends {
		growth := trend.GrowthPct
		switch trend.KPI {
		case "Revenue":
			if growth > 10 {
				recs = append(recs, Recommendation{
					Priority: "high", Category: "growth", KPI: trend.KPI,
					Recommendation: fmt.Sprintf("Capitalize on %.1f%% revenue growth by scaling successful channels and increasing marketing investment", growth),
					ExpectedImpact: "high", Timeframe: "immediate",
				})
			} else if growth < -10 {
				recs = append(recs, Recommendation{
					Priority: "critical", Category: "recovery", KPI: trend.KPI,
					Recommendation: fmt.Sprintf("Address %.1f%% revenue decline through customer retention programs and product optimization", -growth),
					ExpectedImpact: "high", Timeframe: "immediate",
				})
			}
		case "Customers":
			if growth > 15 {
				recs = append(recs, Recommendation{
					Priority: "high", Category: "retention", KPI: trend.KPI,
					Recommendation: fmt.Sprintf("Focus on customer retention to maintain %.1f%% customer growth momentum", growth),
					ExpectedImpact: "medium", Timeframe: "short-term",
				})
			} else if growth < -10 {
				recs = append(recs, Recommendation{
					Priority: "critical", Category: "acquisition", KPI: trend.KPI,
					Recommendation: fmt.Sprintf("Implement aggressive customer acquisition strategy to reverse %.1f%% customer decline", -growth),
					ExpectedImpact: "high", Timeframe: "immediate",
				})
			}
		case "Conversion_Rate":
			if growth < -5 {
				recs = append(recs, Recommendation{
					Priority: "high", Category: "optimization", KPI: trend.KPI,
					Recommendation: fmt.Sprintf("Optimize conversion funnel to address %.1f%% conversion rate decline", -growth),
					ExpectedImpact: "medium", Timeframe: "short-term",
				})
			}
		case "Marketing_Spend":
			if growth > 20 {
				recs = append(recs, Recommendation{
					Priority: "medium", Category: "efficiency", KPI: trend.KPI,
					Recommendation: fmt.Sprintf("Evaluate marketing ROI given %.1f%% spend increase - ensure efficiency", growth),
					ExpectedImpact: "medium", Timeframe: "short-term",
				})
			}
		}
	}

	for _, driverInfo := range rootCause.Drivers {
		if len(driverInfo.PotentialDrivers) == 0 {
			continue
		}
		top := driverInfo.PotentialDrivers[0]
		if top.Strength == "strong" {
			recs = append(recs, Recommendation{
				Priority: "medium", Category: "optimization", KPI: driverInfo.KPI,
				Recommendation: fmt.Sprintf("Leverage strong correlation between %s and %s for strategic planning", driverInfo.KPI, top.Driver),
				ExpectedImpact: "medium", Timeframe: "medium-term",
			})
		}
	}

	priorityOrder := map[string]int{"critical": 0, "high": 1, "medium": 2, "low": 3}
	sort.SliceStable(recs, func(i, j int) bool {
		return priorityOrder[recs[i].Priority] < priorityOrder[recs[j].Priority]
	})
	return recs
}

func buildActionPlans(recs []Recommendation) []ActionPlan {
	var plans []ActionPlan

	for _, rec := range firstN(recs, 5) {
		plan := ActionPlan{
			Recommendation: rec.Recommendation,
			Priority:       rec.Priority,
			Timeline:       rec.Timeframe,
		}
		switch rec.Category {
		case "growth":
			plan.Actions = []string{
				"Analyze top-performing channels and allocate additional budget",
				"Expand successful campaigns to new customer segments",
				"Implement referral program to accelerate growth",
			}
			plan.SuccessMetrics = []string{
				"20% increase in customer acquisition",
				"15% improvement in customer lifetime value",
			}
		case "recovery":
			plan.Actions = []string{
				"Conduct customer feedback survey to identify pain points",
				"Launch win-back campaign for churned customers",
				"Review and optimize pricing strategy",
			}
			plan.SuccessMetrics = []string{
				"Reduce churn rate by 25%",
				"Increase customer satisfaction score by 15%",
			}
		case "optimization":
			plan.Actions = []string{
				"A/B test key conversion points in customer journey",
				"Implement personalization in marketing campaigns",
				"Optimize landing pages for better conversion",
			}
			plan.SuccessMetrics = []string{
				"10% improvement in conversion rate",
				"Reduce cost per acquisition by 15%",
			}
		case "efficiency":
			plan.Actions = []string{
				"Analyze marketing spend ROI by channel",
				"Reallocate budget from low-performing to high-performing channels",
				"Implement marketing automation to reduce costs",
			}
			plan.SuccessMetrics = []string{
				"Improve marketing ROI by 20%",
				"Reduce customer acquisition cost by 15%",
			}
		}
		plans = append(plans, plan)
	}
	return plans
}

func identifyRisks(trends *TrendFindings) []Risk {
	var risks []Risk

	for _, trend := range trends.TopTrends {
		if trend.GrowthPct < -10 {
			severity := "medium"
			if trend.GrowthPct < -20 {
				severity = "high"
			}
			risks = append(risks, Risk{
				Severity:   severity,
				Risk:       fmt.Sprintf("%s declining by %.1f%%", trend.KPI, -trend.GrowthPct),
				Impact:     "Revenue and business growth at risk",
				Mitigation: fmt.Sprintf("Implement recovery strategy for %s", trend.KPI),
			})
		}
	}

	for _, trend := range trends.TopTrends {
		if trend.Volatility > 30 {
			risks = append(risks, Risk{
				Severity:   "medium",
				Risk:       fmt.Sprintf("High volatility in %s (%.1f%%)", trend.KPI, trend.Volatility),
				Impact:     "Unpredictable performance makes planning difficult",
				Mitigation: "Identify and stabilize volatile factors",
			})
		}
	}
	return risks
}

func identifyOpportunities(trends *TrendFindings, rootCause *RootCauseFindings) []Opportunity {
	var opportunities []Opportunity

	for _, trend := range trends.TopTrends {
		if trend.GrowthPct > 15 {
			opportunities = append(opportunities, Opportunity{
				Potential:      "high",
				Opportunity:    fmt.Sprintf("Strong %s growth (%.1f%%)", trend.KPI, trend.GrowthPct),
				Recommendation: fmt.Sprintf("Scale initiatives driving %s growth", trend.KPI),
				ExpectedValue:  "Accelerated business growth",
			})
		}
	}

	if len(rootCause.ChannelAnalysis) > 0 {
		bestChannel, bestRevenue := "", math.Inf(-1)
		for channel, stats := range rootCause.ChannelAnalysis {
			if stats.AvgRevenue > bestRevenue || (stats.AvgRevenue == bestRevenue && channel < bestChannel) {
				bestChannel, bestRevenue = channel, stats.AvgRevenue
			}
		}
		opportunities = append(opportunities, Opportunity{
			Potential:      "medium",
			Opportunity:    "Best performing channel: " + bestChannel,
			Recommendation: fmt.Sprintf("Increase investment in %s channel", bestChannel),
			ExpectedValue:  "Higher ROI on marketing spend",
		})
	}
	return opportunities
}

// buildForecast projects each KPI linearly from its last-week average and
// mean period change. It is deliberately naive; the point is direction, not
// precision.
func buildForecast(table *models.Table, trends *TrendFindings) map[string]Projection {
	forecast := map[string]Projection{}

	for kpi, trend := range trends.KPITrends {
		values, _ := table.ColumnValues(kpi)
		if len(values) == 0 {
			continue
		}
		tail := values
		if len(tail) > 7 {
			tail = tail[len(tail)-7:]
		}
		sum := 0.0
		for _, v := range tail {
			sum += v
		}
		currentAvg := sum / float64(len(tail))

		growthRate := trend.AvgPeriodChangePct / 100
		confidence := "low"
		if math.Abs(growthRate) < 0.05 {
			confidence = "medium"
		}

		forecast[kpi] = Projection{
			CurrentAvg:   math.Round(currentAvg*100) / 100,
			Projected7D:  math.Round(currentAvg*(1+growthRate*7)*100) / 100,
			Projected30D: math.Round(currentAvg*(1+growthRate*30)*100) / 100,
			Confidence:   confidence,
		}
	}
	return forecast
}
