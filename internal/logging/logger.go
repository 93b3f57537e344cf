// Package logging provides the structured run logger shared by the pipeline
// agents: leveled output via logrus, per-agent execution traces with
// durations, and named metric collection for the run summary.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Trace is one recorded agent lifecycle event.
type Trace struct {
	Agent      string         `json:"agent"`
	Action     string         `json:"action"`
	Timestamp  string         `json:"timestamp"`
	DurationMS int64          `json:"duration_ms,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// RunLogger wraps logrus with agent-level tracing and metric collection for
// one analysis run.
type RunLogger struct {
	log   *logrus.Logger
	runID string

	mu      sync.Mutex
	traces  []Trace
	metrics map[string]float64
	file    *os.File
}

// NewRunLogger creates a logger writing to stderr and, when logFile is
// non-empty, to that file as well. Directories are created as needed.
func NewRunLogger(logFile string, level string) (*RunLogger, error) {
	log := logrus.New()
	log.SetLevel(ParseLevel(level))
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	rl := &RunLogger{
		log:     log,
		runID:   uuid.NewString(),
		metrics: map[string]float64{},
	}

	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		rl.file = f
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	log.WithField("run_id", rl.runID).Info("Analysis run started")
	return rl, nil
}

// RunID returns the unique identifier of this run.
func (r *RunLogger) RunID() string { return r.runID }

// Logger exposes the underlying logrus logger for free-form logging.
func (r *RunLogger) Logger() *logrus.Logger { return r.log }

// AgentStarted records and logs the start of an agent execution.
func (r *RunLogger) AgentStarted(agent string) {
	r.appendTrace(Trace{
		Agent:     agent,
		Action:    "start",
		Timestamp: time.Now().Format(time.RFC3339),
	})
	r.log.WithField("agent", agent).Info("Agent started")
}

// AgentFinished records and logs the end of an agent execution.
func (r *RunLogger) AgentFinished(agent string, duration time.Duration) {
	r.appendTrace(Trace{
		Agent:      agent,
		Action:     "end",
		Timestamp:  time.Now().Format(time.RFC3339),
		DurationMS: duration.Milliseconds(),
	})
	r.log.WithFields(logrus.Fields{
		"agent":       agent,
		"duration_ms": duration.Milliseconds(),
	}).Info("Agent completed")
}

// TimeAgent runs fn inside a start/end trace pair for the agent.
func (r *RunLogger) TimeAgent(agent string, fn func() error) error {
	r.AgentStarted(agent)
	start := time.Now()
	err := fn()
	r.AgentFinished(agent, time.Since(start))
	if err != nil {
		r.log.WithField("agent", agent).WithError(err).Error("Agent failed")
	}
	return err
}

// ToolUsed records a tool invocation by an agent.
func (r *RunLogger) ToolUsed(agent string, tool string, params map[string]any) {
	r.appendTrace(Trace{
		Agent:     agent,
		Action:    "tool:" + tool,
		Timestamp: time.Now().Format(time.RFC3339),
		Details:   params,
	})
	r.log.WithFields(logrus.Fields{"agent": agent, "tool": tool}).Debug("Tool invoked")
}

// Insight logs a categorized finding at info level.
func (r *RunLogger) Insight(text string, category string) {
	r.log.WithField("category", category).Infof("Insight: %s", text)
}

// Metric records a named numeric measurement for the run summary.
func (r *RunLogger) Metric(name string, value float64) {
	r.mu.Lock()
	r.metrics[name] = value
	r.mu.Unlock()
	r.log.WithFields(logrus.Fields{"metric": name, "value": value}).Debug("Metric recorded")
}

// Metrics returns a copy of the metrics recorded so far.
func (r *RunLogger) Metrics() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]float64, len(r.metrics))
	for k, v := range r.metrics {
		out[k] = v
	}
	return out
}

// Traces returns a copy of the recorded traces in insertion order.
func (r *RunLogger) Traces() []Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Trace, len(r.traces))
	copy(out, r.traces)
	return out
}

// Close flushes and closes the log file, if any.
func (r *RunLogger) Close() error {
	r.log.WithField("run_id", r.runID).Info("Analysis run finished")
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

func (r *RunLogger) appendTrace(t Trace) {
	r.mu.Lock()
	r.traces = append(r.traces, t)
	r.mu.Unlock()
}

// ParseLevel converts a config log level string to a logrus level,
// defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
