package agents

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/irfandi/autoops-ai-go/internal/analytics"
	"github.com/irfandi/autoops-ai-go/internal/logging"
	"github.com/irfandi/autoops-ai-go/internal/models"
)

// ReportingAgent synthesizes the findings of every other agent into a
// markdown executive report.
type ReportingAgent struct {
	logger *logging.RunLogger
	now    func() time.Time
}

func NewReportingAgent(logger *logging.RunLogger) *ReportingAgent {
	return &ReportingAgent{logger: logger, now: time.Now}
}

// Execute renders the full report and returns it as a markdown string.
func (a *ReportingAgent) Execute(table *models.Table, intake *IntakeResult, trends *TrendFindings,
	rootCause *RootCauseFindings, memory *MemoryFindings, strategy *StrategyFindings) (string, error) {

	var report string
	err := a.logger.TimeAgent("ReportingAgent", func() error {
		a.logger.ToolUsed("ReportingAgent", "generate_executive_report", nil)
		report = a.render(table, intake, trends, rootCause, memory, strategy)
		a.logger.Insight("Executive report generated", "reporting")
		return nil
	})
	return report, err
}

func (a *ReportingAgent) render(table *models.Table, intake *IntakeResult, trends *TrendFindings,
	rootCause *RootCauseFindings, memory *MemoryFindings, strategy *StrategyFindings) string {

	var b strings.Builder

	start, end := "N/A", "N/A"
	if dr := intake.Report.Load.DateRange; dr != nil {
		start, end = dr.Start, dr.End
	}

	fmt.Fprintf(&b, "# AUTOOPS AI - Executive Business Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", a.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Analysis Period:** %s to %s  \n", start, end)
	fmt.Fprintf(&b, "**Data Quality:** %s (%.1f%% complete)\n\n---\n\n",
		intake.Report.Quality.QualityGrade, intake.Report.Quality.Completeness)

	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "This report analyzes %d days of business data across key performance indicators "+
		"including Revenue, Customers, Conversion Rate, and Marketing Spend. The analysis identifies "+
		"trends, anomalies, root causes, and provides strategic recommendations for executive "+
		"decision-making.\n\n---\n\n", intake.Report.Load.Rows)

	a.writeKPISummary(&b, table, trends)
	a.writeKeyTrends(&b, trends)
	a.writeAnomalies(&b, trends)
	a.writeRootCauses(&b, rootCause)
	a.writeHistoricalComparison(&b, memory)
	a.writeRecommendations(&b, strategy)
	a.writeActionPlans(&b, strategy)
	a.writeRisks(&b, strategy)
	a.writeOpportunities(&b, strategy)
	a.writeForecast(&b, strategy)

	fmt.Fprintf(&b, "## Notes\n\n")
	if memory.StoreStats != nil {
		fmt.Fprintf(&b, "- Total sessions analyzed: %d\n", memory.StoreStats.TotalSessions)
		fmt.Fprintf(&b, "- Historical insights stored: %d\n", memory.StoreStats.TotalInsights)
	}
	fmt.Fprintf(&b, "- Analysis powered by AUTOOPS AI Multi-Agent System\n")

	return b.String()
}

func (a *ReportingAgent) writeKPISummary(b *strings.Builder, table *models.Table, trends *TrendFindings) {
	fmt.Fprintf(b, "## KPI Summary\n\n")
	fmt.Fprintf(b, "| KPI | Current Avg | Trend | Growth | Volatility |\n")
	fmt.Fprintf(b, "|-----|------------|-------|--------|------------|\n")

	for _, kpi := range []string{"Revenue", "Customers", "Conversion_Rate", "Marketing_Spend"} {
		if !table.HasColumn(kpi) {
			continue
		}
		stats, err := analytics.BasicStats(table, kpi)
		if err != nil {
			continue
		}
		direction, growth, volatility := "N/A", 0.0, 0.0
		if trend, ok := trends.KPITrends[kpi]; ok {
			direction = trend.TrendDirection
			growth = trend.TotalGrowthPct
			volatility = trend.Volatility
		}
		fmt.Fprintf(b, "| %s | %.2f | %s | %+.1f%% | %.1f%% |\n",
			kpi, stats.Mean, direction, growth, volatility)
	}
	fmt.Fprintf(b, "\n---\n\n")
}

func (a *ReportingAgent) writeKeyTrends(b *strings.Builder, trends *TrendFindings) {
	fmt.Fprintf(b, "## Key Changes & Trends\n\n")
	for i, trend := range trends.TopTrends {
		fmt.Fprintf(b, "%d. **%s**: %s trend with %+.1f%% growth\n",
			i+1, trend.KPI, trend.Direction, trend.GrowthPct)
	}
	fmt.Fprintf(b, "\n---\n\n")
}

func (a *ReportingAgent) writeAnomalies(b *strings.Builder, trends *TrendFindings) {
	fmt.Fprintf(b, "## Anomaly Detection\n\n")
	if len(trends.CriticalAnomalies) == 0 {
		fmt.Fprintf(b, "No significant anomalies detected in the analysis period.\n\n---\n\n")
		return
	}
	fmt.Fprintf(b, "The following anomalies were detected in the data:\n\n")
	for i, anomaly := range firstN(trends.CriticalAnomalies, 5) {
		fmt.Fprintf(b, "%d. **%s** on %s: Value = %.2f (Z-score: %.2f)\n",
			i+1, anomaly.KPI, anomaly.Date, anomaly.Value, anomaly.ZScore)
	}
	fmt.Fprintf(b, "\n---\n\n")
}

func (a *ReportingAgent) writeRootCauses(b *strings.Builder, rootCause *RootCauseFindings) {
	fmt.Fprintf(b, "## Root Cause Analysis\n\n")
	if len(rootCause.Hypotheses) > 0 {
		fmt.Fprintf(b, "### Key Findings:\n\n")
		for i, hypothesis := range firstN(rootCause.Hypotheses, 5) {
			fmt.Fprintf(b, "%d. %s\n", i+1, hypothesis)
		}
	}

	fmt.Fprintf(b, "\n### Correlation Insights:\n\n")
	if rootCause.Correlations != nil {
		for i, corr := range firstN(rootCause.Correlations.TopCorrelations, 3) {
			strength := "Moderate"
			if math.Abs(corr.Correlation) >= 0.7 {
				strength = "Strong"
			}
			direction := "negative"
			if corr.Correlation > 0 {
				direction = "positive"
			}
			fmt.Fprintf(b, "%d. %s %s correlation between **%s** and **%s** (r=%.2f)\n",
				i+1, strength, direction, corr.Col1, corr.Col2, corr.Correlation)
		}
	}
	fmt.Fprintf(b, "\n---\n\n")
}

func (a *ReportingAgent) writeHistoricalComparison(b *strings.Builder, memory *MemoryFindings) {
	fmt.Fprintf(b, "## Historical Comparison\n\n")
	if len(memory.HistoricalComparison) == 0 {
		fmt.Fprintf(b, "No historical data available for comparison.\n\n---\n\n")
		return
	}
	fmt.Fprintf(b, "Comparison with 30-day historical average:\n\n")

	kpis := make([]string, 0, len(memory.HistoricalComparison))
	for kpi := range memory.HistoricalComparison {
		kpis = append(kpis, kpi)
	}
	sort.Strings(kpis)
	for _, kpi := range kpis {
		comp := memory.HistoricalComparison[kpi]
		if comp.ChangePct == nil {
			continue
		}
		fmt.Fprintf(b, "- **%s**: %+.1f%% vs historical average\n", kpi, *comp.ChangePct)
	}
	fmt.Fprintf(b, "\n---\n\n")
}

func (a *ReportingAgent) writeRecommendations(b *strings.Builder, strategy *StrategyFindings) {
	fmt.Fprintf(b, "## Strategic Recommendations\n\n")
	for i, rec := range firstN(strategy.Recommendations, 5) {
		fmt.Fprintf(b, "### %d. %s\n\n", i+1, rec.Recommendation)
		fmt.Fprintf(b, "- **Priority:** %s\n", strings.ToUpper(rec.Priority))
		fmt.Fprintf(b, "- **Expected Impact:** %s\n", rec.ExpectedImpact)
		fmt.Fprintf(b, "- **Timeframe:** %s\n\n", rec.Timeframe)
	}
	fmt.Fprintf(b, "---\n\n")
}

func (a *ReportingAgent) writeActionPlans(b *strings.Builder, strategy *StrategyFindings) {
	fmt.Fprintf(b, "## Action Plans\n\n")
	for i, plan := range firstN(strategy.ActionPlans, 3) {
		title := plan.Recommendation
		if len(title) > 60 {
			title = title[:60] + "..."
		}
		fmt.Fprintf(b, "### Plan %d: %s\n\n", i+1, title)
		fmt.Fprintf(b, "**Actions:**\n")
		for _, action := range plan.Actions {
			fmt.Fprintf(b, "- %s\n", action)
		}
		fmt.Fprintf(b, "\n**Success Metrics:**\n")
		for _, metric := range plan.SuccessMetrics {
			fmt.Fprintf(b, "- %s\n", metric)
		}
		fmt.Fprintf(b, "\n**Timeline:** %s\n\n", plan.Timeline)
	}
	fmt.Fprintf(b, "---\n\n")
}

func (a *ReportingAgent) writeRisks(b *strings.Builder, strategy *StrategyFindings) {
	fmt.Fprintf(b, "## Risk Warnings\n\n")
	if len(strategy.Risks) == 0 {
		fmt.Fprintf(b, "No significant risks identified.\n\n---\n\n")
		return
	}
	for i, risk := range strategy.Risks {
		fmt.Fprintf(b, "%d. **%s**\n", i+1, risk.Risk)
		fmt.Fprintf(b, "   - Impact: %s\n", risk.Impact)
		fmt.Fprintf(b, "   - Mitigation: %s\n\n", risk.Mitigation)
	}
	fmt.Fprintf(b, "\n---\n\n")
}

func (a *ReportingAgent) writeOpportunities(b *strings.Builder, strategy *StrategyFindings) {
	fmt.Fprintf(b, "## Opportunities\n\n")
	if len(strategy.Opportunities) == 0 {
		fmt.Fprintf(b, "No specific opportunities identified at this time.\n\n---\n\n")
		return
	}
	for i, opp := range strategy.Opportunities {
		fmt.Fprintf(b, "%d. **%s**\n", i+1, opp.Opportunity)
		fmt.Fprintf(b, "   - Recommendation: %s\n", opp.Recommendation)
		fmt.Fprintf(b, "   - Expected Value: %s\n\n", opp.ExpectedValue)
	}
	fmt.Fprintf(b, "\n---\n\n")
}

func (a *ReportingAgent) writeForecast(b *strings.Builder, strategy *StrategyFindings) {
	fmt.Fprintf(b, "## Forecast\n\n")
	if len(strategy.Forecast) > 0 {
		fmt.Fprintf(b, "| KPI | Current Avg | 7-Day Projection | 30-Day Projection | Confidence |\n")
		fmt.Fprintf(b, "|-----|-------------|------------------|-------------------|------------|\n")

		kpis := make([]string, 0, len(strategy.Forecast))
		for kpi := range strategy.Forecast {
			kpis = append(kpis, kpi)
		}
		sort.Strings(kpis)
		for _, kpi := range kpis {
			proj := strategy.Forecast[kpi]
			fmt.Fprintf(b, "| %s | %.2f | %.2f | %.2f | %s |\n",
				kpi, proj.CurrentAvg, proj.Projected7D, proj.Projected30D, proj.Confidence)
		}
	}
	fmt.Fprintf(b, "\n---\n\n")
}
