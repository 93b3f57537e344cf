package models

// Session is one complete analysis run's summarized inputs and outputs,
// stored for later period-over-period comparison. Sessions are append-only
// and never updated in place.
type Session struct {
	SessionID string         `json:"session_id"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Insight is a single stored finding. The store stamps Timestamp on write.
type Insight struct {
	Category  string `json:"category"`
	Text      string `json:"text"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp,omitempty"`
}

// StoreMetadata tracks the lifetime of the historical store document.
type StoreMetadata struct {
	CreatedAt     string `json:"created_at"`
	TotalSessions int    `json:"total_sessions"`
	LastUpdated   string `json:"last_updated,omitempty"`
}

// KPIComparison reports one KPI against its historical average. The pointer
// fields are nil when no history exists for the KPI, with DataPoints zero;
// that is a valid outcome, not an error.
type KPIComparison struct {
	Current       float64  `json:"current"`
	HistoricalAvg *float64 `json:"historical_avg"`
	Change        *float64 `json:"change"`
	ChangePct     *float64 `json:"change_pct"`
	DataPoints    int      `json:"data_points"`
}

// StoreStats summarizes the historical store contents.
type StoreStats struct {
	TotalSessions   int    `json:"total_sessions"`
	TotalInsights   int    `json:"total_insights"`
	KPIDatesTracked int    `json:"kpi_dates_tracked"`
	CreatedAt       string `json:"created_at"`
	LastUpdated     string `json:"last_updated"`
}
