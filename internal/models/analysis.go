package models

// BasicStats holds descriptive statistics for a single KPI column.
// Std is the sample standard deviation (ddof=1).
type BasicStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
	Count  int     `json:"count"`
}

// Trend directions.
const (
	TrendUpward   = "upward"
	TrendDownward = "downward"
	TrendStable   = "stable"
)

// TrendResult describes the movement of one KPI over the analyzed period.
// MovingAverage has the same length as the date-sorted input series.
type TrendResult struct {
	Column             string    `json:"column"`
	TotalGrowthPct     float64   `json:"total_growth_pct"`
	TrendDirection     string    `json:"trend_direction"`
	AvgPeriodChangePct float64   `json:"avg_period_change_pct"`
	Volatility         float64   `json:"volatility"`
	MovingAverage      []float64 `json:"moving_average"`
	RecentTrend        string    `json:"recent_trend"`
}

// Anomaly detection methods.
const (
	AnomalyMethodZScore = "zscore"
	AnomalyMethodIQR    = "iqr"
)

// AnomalyPoint is one flagged observation with its detection statistic.
// ZScore is set for the zscore method, the bounds for the iqr method.
type AnomalyPoint struct {
	Index      int     `json:"index"`
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
	ZScore     float64 `json:"z_score,omitempty"`
	LowerBound float64 `json:"lower_bound,omitempty"`
	UpperBound float64 `json:"upper_bound,omitempty"`
}

// AnomalyResult reports the outliers found in one KPI column. Anomalies is
// capped at the first ten flagged points in row order; AnomaliesFound and
// AnomalyRate always reflect the true totals.
type AnomalyResult struct {
	Column         string         `json:"column"`
	Method         string         `json:"method"`
	AnomaliesFound int            `json:"anomalies_found"`
	Anomalies      []AnomalyPoint `json:"anomalies"`
	AnomalyRate    float64        `json:"anomaly_rate"`
}

// CorrelationEntry captures the association between two KPI columns.
type CorrelationEntry struct {
	Col1                string  `json:"col1"`
	Col2                string  `json:"col2"`
	PearsonCorrelation  float64 `json:"pearson_correlation"`
	PearsonPValue       float64 `json:"pearson_p_value"`
	SpearmanCorrelation float64 `json:"spearman_correlation"`
	SpearmanPValue      float64 `json:"spearman_p_value"`
	Strength            string  `json:"strength"`
	Direction           string  `json:"direction"`
	Significant         bool    `json:"significant"`
}

// CorrelationPair is one off-diagonal cell of the correlation matrix.
type CorrelationPair struct {
	Col1        string  `json:"col1"`
	Col2        string  `json:"col2"`
	Correlation float64 `json:"correlation"`
}

// CorrelationMatrix is the full pairwise Pearson matrix over a KPI set plus
// the strongest pairs ranked by absolute coefficient.
type CorrelationMatrix struct {
	Matrix          map[string]map[string]float64 `json:"matrix"`
	TopCorrelations []CorrelationPair             `json:"top_correlations"`
	ColumnsAnalyzed []string                      `json:"columns_analyzed"`
}

// GrowthRateResult compares the most recent period window against the one
// before it, with rolling window-over-window change statistics.
type GrowthRateResult struct {
	Column           string  `json:"column"`
	Periods          int     `json:"periods"`
	RecentAverage    float64 `json:"recent_average"`
	PreviousAverage  float64 `json:"previous_average"`
	GrowthRatePct    float64 `json:"growth_rate_pct"`
	AvgPeriodGrowth  float64 `json:"avg_period_growth"`
	GrowthVolatility float64 `json:"growth_volatility"`
}
