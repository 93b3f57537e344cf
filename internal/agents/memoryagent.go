package agents

import (
	"fmt"

	"github.com/irfandi/autoops-ai-go/internal/logging"
	"github.com/irfandi/autoops-ai-go/internal/memory"
	"github.com/irfandi/autoops-ai-go/internal/models"
)

// MemoryAgent persists the run into the historical store and compares
// current KPI averages against the stored history.
type MemoryAgent struct {
	logger       *logging.RunLogger
	store        *memory.Store
	lookbackDays int
}

func NewMemoryAgent(logger *logging.RunLogger, store *memory.Store, lookbackDays int) *MemoryAgent {
	return &MemoryAgent{logger: logger, store: store, lookbackDays: lookbackDays}
}

// Execute compares and persists the current run. Store failures are fatal
// for this agent: a store that cannot be read or written must never be
// silently repaired or skipped.
func (a *MemoryAgent) Execute(table *models.Table, trends *TrendFindings, rootCause *RootCauseFindings) (*MemoryFindings, error) {
	findings := &MemoryFindings{}

	err := a.logger.TimeAgent("MemoryAgent", func() error {
		currentKPIs := currentKPIAverages(table)
		findings.CurrentKPIs = currentKPIs

		a.logger.ToolUsed("MemoryAgent", "memory.CompareWithHistory", nil)
		comparison, err := a.store.CompareWithHistory(currentKPIs, a.lookbackDays)
		if err != nil {
			return err
		}
		findings.HistoricalComparison = comparison

		for kpi, comp := range comparison {
			if comp.ChangePct != nil {
				a.logger.Insight(fmt.Sprintf("%s: %.1f%% vs %d-day average (current: %.2f, historical: %.2f)",
					kpi, *comp.ChangePct, a.lookbackDays, comp.Current, *comp.HistoricalAvg),
					"historical_comparison")
			}
		}

		sessionData := map[string]any{
			"kpis":           currentKPIs,
			"top_trends":     trends.TopTrends,
			"key_hypotheses": firstN(rootCause.Hypotheses, 3),
		}
		if start, end, ok := table.DateRange(); ok {
			sessionData["date_range"] = map[string]any{
				"start": start.Format(models.DateLayout),
				"end":   end.Format(models.DateLayout),
			}
		}

		a.logger.ToolUsed("MemoryAgent", "memory.StoreSession", nil)
		sessionID, err := a.store.StoreSession(sessionData)
		if err != nil {
			return err
		}
		findings.SessionID = sessionID
		a.logger.Insight("Session stored: "+sessionID, "memory")

		a.logger.ToolUsed("MemoryAgent", "memory.StoreKPISnapshotsBatch", nil)
		snapshots := make(map[string]map[string]float64, table.Len())
		for _, row := range table.Rows {
			date := row.Date.Format(models.DateLayout)
			values := make(map[string]float64, len(table.Columns))
			for _, kpi := range table.Columns {
				if v, ok := row.Value(kpi); ok {
					values[kpi] = v
				}
			}
			snapshots[date] = values
		}
		if err := a.store.StoreKPISnapshotsBatch(snapshots); err != nil {
			return err
		}

		for _, hypothesis := range firstN(rootCause.Hypotheses, 3) {
			err := a.store.StoreInsight(models.Insight{
				Category: "hypothesis",
				Text:     hypothesis,
				Source:   "RootCauseAgent",
			})
			if err != nil {
				return err
			}
			findings.InsightsStored = append(findings.InsightsStored, hypothesis)
		}

		stats, err := a.store.Stats()
		if err != nil {
			return err
		}
		findings.StoreStats = stats
		return nil
	})
	return findings, err
}

// currentKPIAverages computes the mean of every KPI column over the whole
// table; these are the values compared against history and persisted with
// the session.
func currentKPIAverages(table *models.Table) map[string]float64 {
	averages := make(map[string]float64, len(table.Columns))
	for _, kpi := range table.Columns {
		values, _ := table.ColumnValues(kpi)
		if len(values) == 0 {
			continue
		}
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		averages[kpi] = sum / float64(len(values))
	}
	return averages
}
