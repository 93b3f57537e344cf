package agents

import (
	"errors"
	"fmt"
	"math"

	"github.com/irfandi/autoops-ai-go/internal/analytics"
	"github.com/irfandi/autoops-ai-go/internal/logging"
	"github.com/irfandi/autoops-ai-go/internal/models"
)

// RootCauseAgent investigates correlations between KPIs, identifies likely
// drivers behind the top trends, and breaks performance down by channel.
type RootCauseAgent struct {
	logger *logging.RunLogger
}

func NewRootCauseAgent(logger *logging.RunLogger) *RootCauseAgent {
	return &RootCauseAgent{logger: logger}
}

// Execute runs correlation and driver analysis over the table.
func (a *RootCauseAgent) Execute(table *models.Table, trends *TrendFindings) (*RootCauseFindings, error) {
	findings := &RootCauseFindings{}

	err := a.logger.TimeAgent("RootCauseAgent", func() error {
		a.logger.ToolUsed("RootCauseAgent", "analytics.CorrelationMatrix", nil)

		matrix, err := analytics.CorrelationMatrix(table, table.Columns)
		if err != nil {
			var colErr *analytics.InsufficientColumnsError
			if errors.As(err, &colErr) {
				a.logger.Logger().WithError(err).Warn("Skipping correlation analysis")
				findings.Hypotheses = []string{
					"No strong correlations detected. Changes may be due to external factors not captured in the current dataset.",
				}
				return nil
			}
			return err
		}
		findings.Correlations = matrix

		for _, corr := range firstN(matrix.TopCorrelations, 3) {
			a.logger.Insight(fmt.Sprintf("Correlation: %s <-> %s (r=%.3f)", corr.Col1, corr.Col2, corr.Correlation), "correlation")
		}

		for _, trend := range trends.TopTrends {
			findings.Drivers = append(findings.Drivers, KPIDrivers{
				KPI:              trend.KPI,
				GrowthPct:        trend.GrowthPct,
				PotentialDrivers: driversFor(trend.KPI, matrix),
			})
		}

		findings.Hypotheses = a.generateHypotheses(findings.Drivers)

		if hasChannels(table) {
			findings.ChannelAnalysis = a.analyzeChannels(table)
		}
		return nil
	})
	return findings, err
}

// driversFor collects top correlations involving the target KPI with
// |r| >= 0.5.
func driversFor(targetKPI string, matrix *models.CorrelationMatrix) []Driver {
	var drivers []Driver
	for _, corr := range matrix.TopCorrelations {
		if corr.Col1 != targetKPI && corr.Col2 != targetKPI {
			continue
		}
		other := corr.Col2
		if corr.Col2 == targetKPI {
			other = corr.Col1
		}
		if math.Abs(corr.Correlation) >= 0.5 {
			strength := "moderate"
			if math.Abs(corr.Correlation) >= 0.7 {
				strength = "strong"
			}
			drivers = append(drivers, Driver{
				Driver:      other,
				Correlation: corr.Correlation,
				Strength:    strength,
			})
		}
	}
	return drivers
}

func (a *RootCauseAgent) generateHypotheses(drivers []KPIDrivers) []string {
	var hypotheses []string

	for _, d := range drivers {
		var direction string
		switch {
		case d.GrowthPct > 10:
			direction = "increase"
		case d.GrowthPct < -10:
			direction = "decrease"
		default:
			continue
		}

		for _, driver := range d.PotentialDrivers {
			var hypothesis string
			if driver.Correlation > 0.5 {
				hypothesis = fmt.Sprintf("The %s in %s may be driven by changes in %s (correlation: %.2f)",
					direction, d.KPI, driver.Driver, driver.Correlation)
			} else if driver.Correlation < -0.5 {
				hypothesis = fmt.Sprintf("The %s in %s shows inverse relationship with %s (correlation: %.2f)",
					direction, d.KPI, driver.Driver, driver.Correlation)
			} else {
				continue
			}
			hypotheses = append(hypotheses, hypothesis)
			a.logger.Insight(hypothesis, "hypothesis")
		}
	}

	if len(hypotheses) == 0 {
		hypotheses = append(hypotheses,
			"No strong correlations detected. Changes may be due to external factors not captured in the current dataset.")
	}
	return hypotheses
}

func (a *RootCauseAgent) analyzeChannels(table *models.Table) map[string]ChannelStats {
	type accumulator struct {
		records    int
		revenue    float64
		customers  float64
		conversion float64
	}
	byChannel := map[string]*accumulator{}

	for _, row := range table.Rows {
		acc, ok := byChannel[row.Channel]
		if !ok {
			acc = &accumulator{}
			byChannel[row.Channel] = acc
		}
		acc.records++
		if v, ok := row.Value("Revenue"); ok {
			acc.revenue += v
		}
		if v, ok := row.Value("Customers"); ok {
			acc.customers += v
		}
		if v, ok := row.Value("Conversion_Rate"); ok {
			acc.conversion += v
		}
	}

	stats := make(map[string]ChannelStats, len(byChannel))
	bestChannel, bestRevenue := "", math.Inf(-1)
	for channel, acc := range byChannel {
		n := float64(acc.records)
		s := ChannelStats{
			Records:       acc.records,
			AvgRevenue:    acc.revenue / n,
			AvgCustomers:  acc.customers / n,
			AvgConversion: acc.conversion / n,
		}
		stats[channel] = s
		if s.AvgRevenue > bestRevenue {
			bestChannel, bestRevenue = channel, s.AvgRevenue
		}
	}

	if bestChannel != "" {
		a.logger.Insight(fmt.Sprintf("Best performing channel: %s (avg revenue: %.2f)", bestChannel, bestRevenue), "channel_performance")
	}
	return stats
}

func hasChannels(table *models.Table) bool {
	for _, row := range table.Rows {
		if row.Channel != "" {
			return true
		}
	}
	return false
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
