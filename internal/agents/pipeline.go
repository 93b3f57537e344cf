package agents

import (
	"time"

	"github.com/irfandi/autoops-ai-go/internal/logging"
	"github.com/irfandi/autoops-ai-go/internal/memory"
	"github.com/irfandi/autoops-ai-go/internal/telemetry"
)

// PipelineOptions configures one analysis run.
type PipelineOptions struct {
	KPIColumns    []string
	TrendWindow   int
	GrowthPeriods int
	AnomalyMethod string
	LookbackDays  int
}

// RunResult aggregates the outputs of every agent in one run.
type RunResult struct {
	Intake     *IntakeResult              `json:"intake"`
	Trends     *TrendFindings             `json:"trends"`
	RootCause  *RootCauseFindings         `json:"root_cause"`
	Memory     *MemoryFindings            `json:"memory"`
	Strategy   *StrategyFindings          `json:"strategy"`
	Report     string                     `json:"-"`
	Evaluation *Evaluation                `json:"evaluation"`
	Duration   time.Duration              `json:"-"`
	Metrics    map[string]float64         `json:"metrics"`
	Resources  telemetry.ResourceSnapshot `json:"resources"`
}

// Pipeline runs the seven agents in sequence over one input file.
type Pipeline struct {
	logger *logging.RunLogger
	store  *memory.Store
	opts   PipelineOptions
}

func NewPipeline(logger *logging.RunLogger, store *memory.Store, opts PipelineOptions) *Pipeline {
	return &Pipeline{logger: logger, store: store, opts: opts}
}

// Run executes the full chain: intake, trend detection, root cause,
// memory, strategy, reporting, evaluation. Each agent consumes the outputs
// of the ones before it; a failing agent aborts the run.
func (p *Pipeline) Run(inputPath string) (*RunResult, error) {
	started := time.Now()
	result := &RunResult{}

	intakeAgent := NewDataIntakeAgent(p.logger)
	intake, err := intakeAgent.Execute(inputPath)
	if err != nil {
		return nil, err
	}
	result.Intake = intake

	trendAgent := NewTrendDetectionAgent(p.logger, p.opts.KPIColumns, p.opts.TrendWindow, p.opts.GrowthPeriods, p.opts.AnomalyMethod)
	trends, err := trendAgent.Execute(intake.Table)
	if err != nil {
		return nil, err
	}
	result.Trends = trends

	rootCauseAgent := NewRootCauseAgent(p.logger)
	rootCause, err := rootCauseAgent.Execute(intake.Table, trends)
	if err != nil {
		return nil, err
	}
	result.RootCause = rootCause

	memoryAgent := NewMemoryAgent(p.logger, p.store, p.opts.LookbackDays)
	memoryFindings, err := memoryAgent.Execute(intake.Table, trends, rootCause)
	if err != nil {
		return nil, err
	}
	result.Memory = memoryFindings

	strategyAgent := NewStrategyAgent(p.logger)
	strategy, err := strategyAgent.Execute(intake.Table, trends, rootCause)
	if err != nil {
		return nil, err
	}
	result.Strategy = strategy

	reportingAgent := NewReportingAgent(p.logger)
	report, err := reportingAgent.Execute(intake.Table, intake, trends, rootCause, memoryFindings, strategy)
	if err != nil {
		return nil, err
	}
	result.Report = report

	evaluationAgent := NewEvaluationAgent(p.logger)
	evaluation, err := evaluationAgent.Execute(report, trends, rootCause, strategy)
	if err != nil {
		return nil, err
	}
	result.Evaluation = evaluation

	result.Duration = time.Since(started)
	result.Metrics = p.logger.Metrics()
	result.Resources = telemetry.Snapshot()
	return result, nil
}
