// Package memory implements the durable historical store backing
// period-over-period comparison: analysis sessions, per-date KPI snapshots,
// and a bounded insight log, all kept in one JSON document.
//
// Every operation serializes through a single store-wide mutex for the full
// load -> mutate -> persist cycle. That is coarse-grained on purpose: call
// volume is low-frequency batch analysis, and correctness wins over
// throughput. Writes go to a temp file which is renamed over the original.
package memory

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/irfandi/autoops-ai-go/internal/models"
)

// maxInsights bounds the insight log; the oldest entries are evicted first.
const maxInsights = 100

// sessionIDLayout is the timestamp suffix of generated session IDs.
const sessionIDLayout = "20060102_150405"

// document is the full persisted representation. Mutating operations rewrite
// it whole; there is no partial write path.
type document struct {
	Sessions   []models.Session              `json:"sessions"`
	KPIHistory map[string]map[string]float64 `json:"kpi_history"`
	Insights   []models.Insight              `json:"insights"`
	Metadata   models.StoreMetadata          `json:"metadata"`
}

// Store is a concurrent-safe JSON-file store for sessions, KPI history, and
// insights. It exclusively owns the on-disk representation.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore opens the store at path, creating an empty document when none
// exists. An existing file is used as-is; parse failures surface on first
// access as StoreCorruptError rather than being repaired away.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	if _, err := os.Stat(path); err == nil {
		return s, nil
	} else if !os.IsNotExist(err) {
		return nil, &StoreUnavailableError{Path: path, Err: err}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StoreUnavailableError{Path: path, Err: err}
		}
	}

	doc := &document{
		Sessions:   []models.Session{},
		KPIHistory: map[string]map[string]float64{},
		Insights:   []models.Insight{},
		Metadata: models.StoreMetadata{
			CreatedAt: s.now().Format(time.RFC3339),
		},
	}
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &StoreUnavailableError{Path: s.path, Err: err}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &StoreCorruptError{Path: s.path, Err: err}
	}
	if doc.KPIHistory == nil {
		doc.KPIHistory = map[string]map[string]float64{}
	}
	return &doc, nil
}

func (s *Store) save(doc *document) error {
	doc.Metadata.LastUpdated = s.now().Format(time.RFC3339)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &StoreUnavailableError{Path: s.path, Err: err}
	}

	// Write-then-rename keeps a crash mid-write from clobbering the current
	// document.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &StoreUnavailableError{Path: s.path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &StoreUnavailableError{Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &StoreUnavailableError{Path: s.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &StoreUnavailableError{Path: s.path, Err: err}
	}
	return nil
}

// StoreSession appends a session record and returns its generated ID. The ID
// combines the new session count with a second-resolution timestamp.
func (s *Store) StoreSession(sessionData map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", err
	}

	sessionID := fmt.Sprintf("session_%d_%s", len(doc.Sessions)+1, s.now().Format(sessionIDLayout))
	doc.Sessions = append(doc.Sessions, models.Session{
		SessionID: sessionID,
		Timestamp: s.now().Format(time.RFC3339),
		Data:      sessionData,
	})
	doc.Metadata.TotalSessions++

	if err := s.save(doc); err != nil {
		return "", err
	}
	return sessionID, nil
}

// StoreKPISnapshot merges KPI values into the history for one date.
func (s *Store) StoreKPISnapshot(date string, kpis map[string]float64) error {
	return s.StoreKPISnapshotsBatch(map[string]map[string]float64{date: kpis})
}

// StoreKPISnapshotsBatch merges KPI values for many dates in a single
// load/persist cycle. Merging is per KPI field, last write wins; dates not
// previously tracked are created.
func (s *Store) StoreKPISnapshotsBatch(snapshots map[string]map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	for date, kpis := range snapshots {
		existing, ok := doc.KPIHistory[date]
		if !ok {
			existing = map[string]float64{}
			doc.KPIHistory[date] = existing
		}
		for name, value := range kpis {
			existing[name] = value
		}
	}

	return s.save(doc)
}

// StoreInsight stamps and appends an insight, then truncates the log to the
// most recent 100 entries in insertion order.
func (s *Store) StoreInsight(insight models.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	insight.Timestamp = s.now().Format(time.RFC3339)
	doc.Insights = append(doc.Insights, insight)
	if len(doc.Insights) > maxInsights {
		doc.Insights = doc.Insights[len(doc.Insights)-maxInsights:]
	}

	return s.save(doc)
}

// GetRecentSessions returns the last n sessions in insertion order, most
// recent last.
func (s *Store) GetRecentSessions(n int) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if n > len(doc.Sessions) {
		n = len(doc.Sessions)
	}
	out := make([]models.Session, n)
	copy(out, doc.Sessions[len(doc.Sessions)-n:])
	return out, nil
}

// GetKPIHistory returns up to `days` most recent recorded values for one
// KPI, keyed by date.
func (s *Store) GetKPIHistory(kpiName string, days int) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return collectKPIHistory(doc, kpiName, days), nil
}

// GetInsights returns the last n stored insights, optionally filtered by
// category first.
func (s *Store) GetInsights(category string, n int) ([]models.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	insights := doc.Insights
	if category != "" {
		filtered := make([]models.Insight, 0, len(insights))
		for _, ins := range insights {
			if ins.Category == category {
				filtered = append(filtered, ins)
			}
		}
		insights = filtered
	}

	if n > len(insights) {
		n = len(insights)
	}
	out := make([]models.Insight, n)
	copy(out, insights[len(insights)-n:])
	return out, nil
}

// CompareWithHistory reports each current KPI against the mean of its up to
// lookbackDays most recent historical values. A KPI with no history gets nil
// comparison fields and zero data points, which is an expected outcome.
func (s *Store) CompareWithHistory(currentKPIs map[string]float64, lookbackDays int) (map[string]models.KPIComparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	comparisons := make(map[string]models.KPIComparison, len(currentKPIs))
	for kpiName, current := range currentKPIs {
		history := collectKPIHistory(doc, kpiName, lookbackDays)
		if len(history) == 0 {
			comparisons[kpiName] = models.KPIComparison{Current: current}
			continue
		}

		sum := 0.0
		for _, v := range history {
			sum += v
		}
		avg := sum / float64(len(history))

		change := current - avg
		changePct := 0.0
		if avg != 0 {
			changePct = change / math.Abs(avg) * 100
		}

		comparisons[kpiName] = models.KPIComparison{
			Current:       current,
			HistoricalAvg: roundPtr(avg),
			Change:        roundPtr(change),
			ChangePct:     roundPtr(changePct),
			DataPoints:    len(history),
		}
	}
	return comparisons, nil
}

// Stats returns counts and lifetime timestamps for the store contents.
func (s *Store) Stats() (*models.StoreStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	return &models.StoreStats{
		TotalSessions:   doc.Metadata.TotalSessions,
		TotalInsights:   len(doc.Insights),
		KPIDatesTracked: len(doc.KPIHistory),
		CreatedAt:       doc.Metadata.CreatedAt,
		LastUpdated:     doc.Metadata.LastUpdated,
	}, nil
}

// ClearOldData drops KPI history, sessions, and insights dated strictly
// before today minus daysToKeep. The cutoff comparison is lexicographic on
// the YYYY-MM-DD prefix, valid only while timestamps stay zero-padded ISO.
func (s *Store) ClearOldData(daysToKeep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	cutoff := s.now().AddDate(0, 0, -daysToKeep).Format(models.DateLayout)

	for date := range doc.KPIHistory {
		if date < cutoff {
			delete(doc.KPIHistory, date)
		}
	}

	kept := doc.Sessions[:0]
	for _, session := range doc.Sessions {
		if datePrefix(session.Timestamp) >= cutoff {
			kept = append(kept, session)
		}
	}
	doc.Sessions = kept

	keptInsights := doc.Insights[:0]
	for _, insight := range doc.Insights {
		if datePrefix(insight.Timestamp) >= cutoff {
			keptInsights = append(keptInsights, insight)
		}
	}
	doc.Insights = keptInsights

	return s.save(doc)
}

// collectKPIHistory gathers every recorded value for one KPI, sorts the
// dates descending, and keeps at most `days` most recent entries.
func collectKPIHistory(doc *document, kpiName string, days int) map[string]float64 {
	var dates []string
	for date, kpis := range doc.KPIHistory {
		if _, ok := kpis[kpiName]; ok {
			dates = append(dates, date)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if days >= 0 && len(dates) > days {
		dates = dates[:days]
	}

	history := make(map[string]float64, len(dates))
	for _, date := range dates {
		history[date] = doc.KPIHistory[date][kpiName]
	}
	return history
}

func datePrefix(timestamp string) string {
	if len(timestamp) < len(models.DateLayout) {
		return timestamp
	}
	return timestamp[:len(models.DateLayout)]
}

func roundPtr(v float64) *float64 {
	rounded := math.Round(v*100) / 100
	return &rounded
}
