package agents

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfandi/autoops-ai-go/internal/models"
)

func TestPipelineRun(t *testing.T) {
	// Declining revenue so the run produces trends, recommendations, and
	// risks rather than an all-stable report.
	path := writeMetricsCSV(t, 30, func(i int) float64 { return 3000 - 40*float64(i) })
	store := newAgentStore(t)

	pipeline := NewPipeline(newAgentLogger(t), store, PipelineOptions{
		TrendWindow:   7,
		AnomalyMethod: models.AnomalyMethodZScore,
		LookbackDays:  30,
	})

	result, err := pipeline.Run(path)
	require.NoError(t, err)

	require.NotNil(t, result.Intake)
	assert.Equal(t, 30, result.Intake.Table.Len())

	require.NotNil(t, result.Trends)
	assert.Contains(t, result.Trends.KPITrends, "Revenue")
	assert.Equal(t, models.TrendDownward, result.Trends.KPITrends["Revenue"].TrendDirection)

	require.NotNil(t, result.RootCause)
	assert.NotEmpty(t, result.RootCause.Hypotheses)

	require.NotNil(t, result.Memory)
	assert.NotEmpty(t, result.Memory.SessionID)

	require.NotNil(t, result.Strategy)
	assert.NotEmpty(t, result.Strategy.Recommendations)
	assert.Contains(t, result.Strategy.Forecast, "Revenue")

	assert.Contains(t, result.Report, "# AUTOOPS AI - Executive Business Report")
	assert.Contains(t, result.Report, "## Strategic Recommendations")

	require.NotNil(t, result.Evaluation)
	assert.Greater(t, result.Evaluation.OverallScore, 0.0)

	assert.Greater(t, result.Duration.Nanoseconds(), int64(0))
	assert.Contains(t, result.Metrics, "report_quality_score")
	assert.Greater(t, result.Resources.Goroutines, 0)

	// The memory agent persisted the session before reporting ran.
	sessions, err := store.GetRecentSessions(1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, result.Memory.SessionID, sessions[0].SessionID)
}

func TestPipelineRunMissingInput(t *testing.T) {
	pipeline := NewPipeline(newAgentLogger(t), newAgentStore(t), PipelineOptions{
		TrendWindow:   7,
		AnomalyMethod: models.AnomalyMethodZScore,
		LookbackDays:  30,
	})

	result, err := pipeline.Run("/nonexistent/metrics.csv")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPipelineRunAccumulatesHistory(t *testing.T) {
	store := newAgentStore(t)
	opts := PipelineOptions{TrendWindow: 7, AnomalyMethod: models.AnomalyMethodIQR, LookbackDays: 30}

	first := writeMetricsCSV(t, 14, func(i int) float64 { return 1000 + 10*float64(i) })
	_, err := NewPipeline(newAgentLogger(t), store, opts).Run(first)
	require.NoError(t, err)

	second := writeMetricsCSV(t, 14, func(i int) float64 { return 1200 + 10*float64(i) })
	result, err := NewPipeline(newAgentLogger(t), store, opts).Run(second)
	require.NoError(t, err)

	// Second run sees the first run's snapshots.
	comp, ok := result.Memory.HistoricalComparison["Revenue"]
	require.True(t, ok)
	require.NotNil(t, comp.ChangePct)
	assert.Greater(t, comp.DataPoints, 0)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)
}
