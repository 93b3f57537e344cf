package agents

import (
	"errors"
	"fmt"
	"sort"

	"github.com/irfandi/autoops-ai-go/internal/analytics"
	"github.com/irfandi/autoops-ai-go/internal/logging"
	"github.com/irfandi/autoops-ai-go/internal/models"
)

// TrendDetectionAgent analyzes the configured KPI columns for trends,
// anomalies, and period-over-period growth. A KPI that fails analysis is
// skipped and logged, never fatal for the run.
type TrendDetectionAgent struct {
	logger        *logging.RunLogger
	kpiColumns    []string
	window        int
	growthPeriods int
	anomalyMethod string
}

func NewTrendDetectionAgent(logger *logging.RunLogger, kpiColumns []string, window, growthPeriods int, anomalyMethod string) *TrendDetectionAgent {
	return &TrendDetectionAgent{
		logger:        logger,
		kpiColumns:    kpiColumns,
		window:        window,
		growthPeriods: growthPeriods,
		anomalyMethod: anomalyMethod,
	}
}

// Execute runs trend and anomaly detection across the configured KPI
// columns; an empty configuration falls back to every column in the table.
func (a *TrendDetectionAgent) Execute(table *models.Table) (*TrendFindings, error) {
	findings := &TrendFindings{
		KPITrends:   map[string]*models.TrendResult{},
		Anomalies:   map[string]*models.AnomalyResult{},
		GrowthRates: map[string]*models.GrowthRateResult{},
	}

	columns := a.kpiColumns
	if len(columns) == 0 {
		columns = table.Columns
	}

	err := a.logger.TimeAgent("TrendDetectionAgent", func() error {
		for _, kpi := range columns {
			if !table.HasColumn(kpi) {
				continue
			}
			a.logger.ToolUsed("TrendDetectionAgent", "analytics.DetectTrend", map[string]any{"column": kpi})

			trend, err := analytics.DetectTrend(table, kpi, a.window)
			if err != nil {
				a.skipColumn(kpi, err)
				continue
			}
			findings.KPITrends[kpi] = trend

			anomalies, err := analytics.DetectAnomalies(table, kpi, a.anomalyMethod)
			if err != nil {
				a.skipColumn(kpi, err)
			} else {
				findings.Anomalies[kpi] = anomalies
			}

			// Short series cannot fill the comparison windows; that is not
			// a reason to skip the KPI's other findings.
			if growth, err := analytics.GrowthRate(table, kpi, a.growthPeriods); err == nil {
				findings.GrowthRates[kpi] = growth
				a.logger.Metric(kpi+"_period_growth_rate", growth.GrowthRatePct)
			}

			insight := fmt.Sprintf("%s: %s trend, %.1f%% total growth", kpi, trend.TrendDirection, trend.TotalGrowthPct)
			a.logger.Insight(insight, "trend")
			findings.KeyFindings = append(findings.KeyFindings, insight)

			if anomalies != nil && anomalies.AnomaliesFound > 0 {
				insight := fmt.Sprintf("%s: %d anomalies detected", kpi, anomalies.AnomaliesFound)
				a.logger.Insight(insight, "anomaly")
				findings.KeyFindings = append(findings.KeyFindings, insight)
			}

			a.logger.Metric(kpi+"_growth_rate", trend.TotalGrowthPct)
			a.logger.Metric(kpi+"_volatility", trend.Volatility)
		}

		findings.TopTrends = topTrends(findings.KPITrends)
		findings.CriticalAnomalies = criticalAnomalies(findings.Anomalies)
		return nil
	})
	return findings, err
}

func (a *TrendDetectionAgent) skipColumn(kpi string, err error) {
	var emptyErr *analytics.EmptyInputError
	if errors.As(err, &emptyErr) {
		a.logger.Logger().WithField("column", kpi).Warn("Skipping KPI with no usable data")
		return
	}
	a.logger.Logger().WithField("column", kpi).WithError(err).Warn("Skipping KPI")
}

// topTrends ranks trends by absolute total growth and keeps the top three.
func topTrends(trends map[string]*models.TrendResult) []TopTrend {
	var out []TopTrend
	for kpi, trend := range trends {
		out = append(out, TopTrend{
			KPI:        kpi,
			GrowthPct:  trend.TotalGrowthPct,
			Direction:  trend.TrendDirection,
			Volatility: trend.Volatility,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].GrowthPct, out[j].GrowthPct
		if ai < 0 {
			ai = -ai
		}
		if aj < 0 {
			aj = -aj
		}
		if ai != aj {
			return ai > aj
		}
		return out[i].KPI < out[j].KPI
	})
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// criticalAnomalies takes up to three flagged points per KPI and ranks them
// by z-score descending for the report.
func criticalAnomalies(anomalies map[string]*models.AnomalyResult) []CriticalAnomaly {
	var critical []CriticalAnomaly
	var kpis []string
	for kpi := range anomalies {
		kpis = append(kpis, kpi)
	}
	sort.Strings(kpis)

	for _, kpi := range kpis {
		result := anomalies[kpi]
		points := result.Anomalies
		if len(points) > 3 {
			points = points[:3]
		}
		for _, p := range points {
			critical = append(critical, CriticalAnomaly{
				KPI:    kpi,
				Date:   p.Date,
				Value:  p.Value,
				ZScore: p.ZScore,
			})
		}
	}

	sort.SliceStable(critical, func(i, j int) bool {
		return critical[i].ZScore > critical[j].ZScore
	})
	return critical
}
