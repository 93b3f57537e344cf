package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfandi/autoops-ai-go/internal/models"
)

func TestBasicStats(t *testing.T) {
	table := singleColumnTable("Revenue", []float64{1, 2, 3, 4, 5})

	result, err := BasicStats(table, "Revenue")
	require.NoError(t, err)

	assert.InDelta(t, 3, result.Mean, 1e-10)
	assert.InDelta(t, 3, result.Median, 1e-10)
	assert.InDelta(t, 1.5811388300841898, result.Std, 1e-9)
	assert.InDelta(t, 1, result.Min, 1e-10)
	assert.InDelta(t, 5, result.Max, 1e-10)
	assert.InDelta(t, 2, result.Q25, 1e-10)
	assert.InDelta(t, 4, result.Q75, 1e-10)
	assert.Equal(t, 5, result.Count)
}

func TestBasicStatsDropsMissingValues(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table := &models.Table{
		Columns: []string{"Revenue"},
		Rows: []models.Observation{
			{Date: start, KPIs: map[string]float64{"Revenue": 10}},
			{Date: start.AddDate(0, 0, 1), KPIs: map[string]float64{"Revenue": 0}, Missing: map[string]bool{"Revenue": true}},
			{Date: start.AddDate(0, 0, 2), KPIs: map[string]float64{"Revenue": 20}},
		},
	}

	result, err := BasicStats(table, "Revenue")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.InDelta(t, 15, result.Mean, 1e-10)
}

func TestBasicStatsEmptyColumn(t *testing.T) {
	table := &models.Table{Columns: []string{"Revenue"}}
	_, err := BasicStats(table, "Revenue")

	var emptyErr *EmptyInputError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "Revenue", emptyErr.Column)
}
