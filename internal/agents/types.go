// Package agents wires the analysis pipeline: data intake, trend detection,
// root cause analysis, memory persistence, strategy generation, executive
// reporting, and evaluation. Agents are thin orchestrators over the
// analytics engine and the historical store; all heavy lifting happens
// there.
package agents

import (
	"github.com/irfandi/autoops-ai-go/internal/dataset"
	"github.com/irfandi/autoops-ai-go/internal/models"
)

// IntakeResult summarizes data loading and cleaning.
type IntakeResult struct {
	Table  *models.Table   `json:"-"`
	Report *dataset.Report `json:"report"`
}

// TopTrend is one of the most significant KPI movements, ranked by absolute
// growth.
type TopTrend struct {
	KPI        string  `json:"kpi"`
	GrowthPct  float64 `json:"growth_pct"`
	Direction  string  `json:"direction"`
	Volatility float64 `json:"volatility"`
}

// CriticalAnomaly is a flagged point worth surfacing in the report.
type CriticalAnomaly struct {
	KPI    string  `json:"kpi"`
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	ZScore float64 `json:"z_score"`
}

// TrendFindings aggregates per-KPI trend and anomaly results.
type TrendFindings struct {
	KPITrends         map[string]*models.TrendResult      `json:"kpi_trends"`
	Anomalies         map[string]*models.AnomalyResult    `json:"anomalies"`
	GrowthRates       map[string]*models.GrowthRateResult `json:"growth_rates"`
	KeyFindings       []string                            `json:"key_findings"`
	TopTrends         []TopTrend                          `json:"top_trends"`
	CriticalAnomalies []CriticalAnomaly                   `json:"critical_anomalies"`
}

// Driver names a KPI strongly correlated with a moving target KPI.
type Driver struct {
	Driver      string  `json:"driver"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
}

// KPIDrivers lists the potential drivers behind one top trend.
type KPIDrivers struct {
	KPI              string   `json:"kpi"`
	GrowthPct        float64  `json:"growth_pct"`
	PotentialDrivers []Driver `json:"potential_drivers"`
}

// ChannelStats summarizes performance for one acquisition channel.
type ChannelStats struct {
	Records       int     `json:"records"`
	AvgRevenue    float64 `json:"avg_revenue"`
	AvgCustomers  float64 `json:"avg_customers"`
	AvgConversion float64 `json:"avg_conversion"`
}

// RootCauseFindings aggregates correlation and driver analysis.
type RootCauseFindings struct {
	Correlations    *models.CorrelationMatrix `json:"correlations"`
	Drivers         []KPIDrivers              `json:"drivers"`
	Hypotheses      []string                  `json:"hypotheses"`
	ChannelAnalysis map[string]ChannelStats   `json:"channel_analysis,omitempty"`
}

// MemoryFindings reports what was persisted and the historical comparison.
type MemoryFindings struct {
	SessionID            string                          `json:"session_id"`
	CurrentKPIs          map[string]float64              `json:"current_kpis"`
	HistoricalComparison map[string]models.KPIComparison `json:"historical_comparison"`
	InsightsStored       []string                        `json:"insights_stored"`
	StoreStats           *models.StoreStats              `json:"memory_stats"`
}

// Recommendation is one prioritized strategic recommendation.
type Recommendation struct {
	Priority       string `json:"priority"`
	Category       string `json:"category"`
	KPI            string `json:"kpi"`
	Recommendation string `json:"recommendation"`
	ExpectedImpact string `json:"expected_impact"`
	Timeframe      string `json:"timeframe"`
}

// Risk is a flagged business risk with suggested mitigation.
type Risk struct {
	Severity   string `json:"severity"`
	Risk       string `json:"risk"`
	Impact     string `json:"impact"`
	Mitigation string `json:"mitigation"`
}

// Opportunity is a flagged growth opportunity.
type Opportunity struct {
	Potential      string `json:"potential"`
	Opportunity    string `json:"opportunity"`
	Recommendation string `json:"recommendation"`
	ExpectedValue  string `json:"expected_value"`
}

// ActionPlan expands a top recommendation into concrete actions and
// success metrics.
type ActionPlan struct {
	Recommendation string   `json:"recommendation"`
	Priority       string   `json:"priority"`
	Actions        []string `json:"actions"`
	SuccessMetrics []string `json:"success_metrics"`
	Timeline       string   `json:"timeline"`
}

// Projection is a naive linear forecast for one KPI.
type Projection struct {
	CurrentAvg   float64 `json:"current_avg"`
	Projected7D  float64 `json:"projected_7d"`
	Projected30D float64 `json:"projected_30d"`
	Confidence   string  `json:"confidence"`
}

// StrategyFindings aggregates the strategy agent's outputs.
type StrategyFindings struct {
	Recommendations []Recommendation      `json:"recommendations"`
	ActionPlans     []ActionPlan          `json:"action_plans"`
	Risks           []Risk                `json:"risks"`
	Opportunities   []Opportunity         `json:"opportunities"`
	Forecast        map[string]Projection `json:"forecast"`
}

// Evaluation scores the generated report and analysis chain on a 0-10
// scale per dimension.
type Evaluation struct {
	ClarityScore       float64  `json:"clarity_score"`
	LogicScore         float64  `json:"logic_score"`
	ActionabilityScore float64  `json:"actionability_score"`
	OverallScore       float64  `json:"overall_score"`
	ConfidenceScore    float64  `json:"confidence_score"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	Suggestions        []string `json:"improvement_suggestions"`
}
