package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/irfandi/autoops-ai-go/internal/agents"
	"github.com/irfandi/autoops-ai-go/internal/config"
	"github.com/irfandi/autoops-ai-go/internal/logging"
	"github.com/irfandi/autoops-ai-go/internal/memory"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env if present; real env vars take precedence through viper.
	_ = godotenv.Load()

	input := flag.String("input", "", "path to input CSV file (overrides config)")
	output := flag.String("output", "", "path to output report file (overrides config)")
	memoryFile := flag.String("memory", "", "path to memory JSON file (overrides config)")
	storeStats := flag.Bool("store-stats", false, "print historical store statistics and exit")
	recentSessions := flag.Int("recent-sessions", 0, "print the N most recent stored sessions and exit")
	clearOlderThan := flag.Int("clear-older-than", 0, "delete store data older than N days and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	if *input != "" {
		cfg.Data.InputFile = *input
	}
	if *memoryFile != "" {
		cfg.Memory.File = *memoryFile
	}

	store, err := memory.NewStore(cfg.Memory.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open historical store: %v\n", err)
		return 1
	}

	// Store maintenance modes short-circuit the pipeline.
	switch {
	case *storeStats:
		return printStoreStats(store)
	case *recentSessions > 0:
		return printRecentSessions(store, *recentSessions)
	case *clearOlderThan > 0:
		if err := store.ClearOldData(*clearOlderThan); err != nil {
			fmt.Fprintf(os.Stderr, "failed to clear old data: %v\n", err)
			return 1
		}
		fmt.Printf("Cleared store data older than %d days\n", *clearOlderThan)
		return 0
	}

	runLogger, err := logging.NewRunLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer runLogger.Close()

	log := runLogger.Logger()
	log.Infof("AUTOOPS AI starting, run %s", runLogger.RunID())

	pipeline := agents.NewPipeline(runLogger, store, agents.PipelineOptions{
		KPIColumns:    cfg.Data.KPIColumns,
		TrendWindow:   cfg.Analytics.TrendWindow,
		GrowthPeriods: cfg.Analytics.GrowthPeriods,
		AnomalyMethod: cfg.Analytics.AnomalyMethod,
		LookbackDays:  cfg.Memory.LookbackDays,
	})

	result, err := pipeline.Run(cfg.Data.InputFile)
	if err != nil {
		log.Errorf("pipeline failed: %v", err)
		return 1
	}

	reportPath := *output
	if reportPath == "" {
		reportPath = filepath.Join(cfg.Report.OutputDir, "executive_report.md")
	}
	if err := writeReport(reportPath, result); err != nil {
		log.Errorf("failed to write report: %v", err)
		return 1
	}
	log.Infof("Report saved to %s", reportPath)

	tracePath := strings.TrimSuffix(reportPath, ".md") + "_trace.json"
	if err := writeTrace(tracePath, runLogger, result); err != nil {
		log.Warnf("failed to write trace: %v", err)
	} else {
		log.Infof("Trace saved to %s", tracePath)
	}

	log.Infof("Run completed in %s", result.Duration.Round(time.Millisecond))
	log.Infof("Quality score: %.1f/10, confidence: %.1f/10",
		result.Evaluation.OverallScore, result.Evaluation.ConfidenceScore)
	return 0
}

// writeReport writes the markdown report with the evaluation appended.
func writeReport(path string, result *agents.RunResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var b strings.Builder
	b.WriteString(result.Report)
	b.WriteString("\n\n---\n\n## System Evaluation\n\n")
	b.WriteString("**Quality Scores:**\n\n")
	fmt.Fprintf(&b, "- Clarity: %.1f/10\n", result.Evaluation.ClarityScore)
	fmt.Fprintf(&b, "- Logical Consistency: %.1f/10\n", result.Evaluation.LogicScore)
	fmt.Fprintf(&b, "- Actionability: %.1f/10\n", result.Evaluation.ActionabilityScore)
	fmt.Fprintf(&b, "- **Overall Score: %.1f/10**\n", result.Evaluation.OverallScore)
	fmt.Fprintf(&b, "- **Confidence Score: %.1f/10**\n\n", result.Evaluation.ConfidenceScore)

	if len(result.Evaluation.Strengths) > 0 {
		b.WriteString("**Strengths:**\n\n")
		for _, s := range result.Evaluation.Strengths {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(result.Evaluation.Weaknesses) > 0 {
		b.WriteString("**Areas for Improvement:**\n\n")
		for _, w := range result.Evaluation.Weaknesses {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
	if len(result.Evaluation.Suggestions) > 0 {
		b.WriteString("**Suggestions:**\n\n")
		for _, s := range result.Evaluation.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "---\n\n*Report generated by AUTOOPS AI on %s*\n",
		time.Now().Format("2006-01-02 15:04:05"))

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// writeTrace saves the run trace and metrics next to the report.
func writeTrace(path string, runLogger *logging.RunLogger, result *agents.RunResult) error {
	trace := map[string]any{
		"run_id":     runLogger.RunID(),
		"traces":     runLogger.Traces(),
		"metrics":    result.Metrics,
		"resources":  result.Resources,
		"evaluation": result.Evaluation,
	}
	data, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printStoreStats(store *memory.Store) int {
	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read store stats: %v\n", err)
		return 1
	}
	fmt.Printf("Sessions:          %d\n", stats.TotalSessions)
	fmt.Printf("Insights:          %d\n", stats.TotalInsights)
	fmt.Printf("KPI dates tracked: %d\n", stats.KPIDatesTracked)
	fmt.Printf("Created:           %s\n", stats.CreatedAt)
	fmt.Printf("Last updated:      %s\n", stats.LastUpdated)
	return 0
}

func printRecentSessions(store *memory.Store, n int) int {
	sessions, err := store.GetRecentSessions(n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read sessions: %v\n", err)
		return 1
	}
	for _, session := range sessions {
		fmt.Printf("%s  %s\n", session.SessionID, session.Timestamp)
	}
	return 0
}
