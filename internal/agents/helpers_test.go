package agents

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/irfandi/autoops-ai-go/internal/logging"
	"github.com/irfandi/autoops-ai-go/internal/memory"
	"github.com/irfandi/autoops-ai-go/internal/models"
)

func newAgentLogger(t *testing.T) *logging.RunLogger {
	t.Helper()
	rl, err := logging.NewRunLogger(filepath.Join(t.TempDir(), "system.log"), "error")
	require.NoError(t, err)
	t.Cleanup(func() { rl.Close() })
	return rl
}

func newAgentStore(t *testing.T) *memory.Store {
	t.Helper()
	store, err := memory.NewStore(filepath.Join(t.TempDir(), "memory.json"))
	require.NoError(t, err)
	return store
}

// metricsTable builds a table over consecutive daily dates with the given
// per-column series and a repeating channel assignment.
func metricsTable(columns []string, series map[string][]float64, channels []string) *models.Table {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	for _, values := range series {
		if len(values) > n {
			n = len(values)
		}
	}

	rows := make([]models.Observation, n)
	for i := range rows {
		kpis := map[string]float64{}
		for name, values := range series {
			if i < len(values) {
				kpis[name] = values[i]
			}
		}
		channel := ""
		if len(channels) > 0 {
			channel = channels[i%len(channels)]
		}
		rows[i] = models.Observation{
			Date:    start.AddDate(0, 0, i),
			KPIs:    kpis,
			Channel: channel,
		}
	}
	return &models.Table{Rows: rows, Columns: columns}
}

// writeMetricsCSV renders a table-like dataset as a CSV file for intake
// tests.
func writeMetricsCSV(t *testing.T, days int, revenue func(i int) float64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date,Revenue,Customers,Conversion_Rate,Marketing_Spend,Channel\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	channels := []string{"Organic", "Paid", "Referral"}
	for i := 0; i < days; i++ {
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,%s\n",
			start.AddDate(0, 0, i).Format(models.DateLayout),
			revenue(i),
			50+float64(i),
			2.5+0.01*float64(i),
			200+2*float64(i),
			channels[i%len(channels)])
	}

	path := filepath.Join(t.TempDir(), "metrics.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}
