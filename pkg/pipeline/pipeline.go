// Package pipeline runs the registered checks over a changed-file set and
// turns their findings into a verdict.
//
// A run moves through Idle, Filtering, Running, Aggregating and Done. Check
// failures never abort a run: an error or panic inside a check becomes one
// blocking finding naming the check. The only run-level failure is a missing
// external tool, detected before any check starts.
package pipeline

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"time"

	"github.com/arthur-debert/presubmit/pkg/checks"
	"github.com/arthur-debert/presubmit/pkg/config"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/exclusion"
	"github.com/arthur-debert/presubmit/pkg/logging"
	"github.com/arthur-debert/presubmit/pkg/results"
	"github.com/arthur-debert/presubmit/pkg/toolrun"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Stage is a step of a run
type Stage string

const (
	StageIdle        Stage = "idle"
	StageFiltering   Stage = "filtering"
	StageRunning     Stage = "running"
	StageAggregating Stage = "aggregating"
	StageDone        Stage = "done"
)

// Pipeline holds everything that stays fixed across runs
type Pipeline struct {
	registry   *checks.Registry
	exclusions *exclusion.Set
	workers    int
	onStage    func(runID string, stage Stage)
	lookPath   func(string) (string, error)
	logger     zerolog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithExclusions replaces the exclusion set used by every run
func WithExclusions(set *exclusion.Set) Option {
	return func(p *Pipeline) {
		p.exclusions = set
	}
}

// WithWorkers sets how many checks may run at once
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n < 1 {
			n = 1
		}
		p.workers = n
	}
}

// WithStageHook registers a function called on every stage transition
func WithStageHook(fn func(runID string, stage Stage)) Option {
	return func(p *Pipeline) {
		p.onStage = fn
	}
}

// WithLookPath overrides how tool executables are resolved
func WithLookPath(fn func(string) (string, error)) Option {
	return func(p *Pipeline) {
		p.lookPath = fn
	}
}

// New creates a pipeline over reg. Without options it runs sequentially
// with the default exclusion set.
func New(reg *checks.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:   reg,
		exclusions: exclusion.Default(),
		workers:    1,
		lookPath:   exec.LookPath,
		logger:     logging.GetLogger("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromConfig builds the catalogue pipeline described by cfg
func FromConfig(cfg *config.Config, runner toolrun.Runner, opts ...Option) (*Pipeline, error) {
	reg, err := checks.Default(cfg, runner)
	if err != nil {
		return nil, err
	}
	excl, err := exclusion.Default().Replace(cfg.Exclusions.Patterns)
	if err != nil {
		return nil, err
	}
	base := []Option{WithExclusions(excl), WithWorkers(cfg.Pipeline.Workers)}
	return New(reg, append(base, opts...)...), nil
}

// Registry returns the checks of the pipeline
func (p *Pipeline) Registry() *checks.Registry {
	return p.registry
}

// Preflight verifies that every tool needed by the checks of mode is on PATH
func (p *Pipeline) Preflight(mode types.Mode) error {
	var missing []string
	for _, tool := range p.registry.Tools(mode) {
		if _, err := p.lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrToolMissing, "required tools not found on PATH: %v", missing).
			WithDetail("tools", missing)
	}
	return nil
}

// CheckOnUpload runs the common checks plus the upload-only ones
func (p *Pipeline) CheckOnUpload(ctx context.Context, files []*types.ChangedFile, root string) (types.Verdict, error) {
	return p.Run(ctx, types.ModeUpload, files, root)
}

// CheckOnCommit runs the common checks only
func (p *Pipeline) CheckOnCommit(ctx context.Context, files []*types.ChangedFile, root string) (types.Verdict, error) {
	return p.Run(ctx, types.ModeCommit, files, root)
}

// Run executes one invocation of the pipeline in mode
func (p *Pipeline) Run(ctx context.Context, mode types.Mode, files []*types.ChangedFile, root string) (types.Verdict, error) {
	runID := uuid.NewString()
	logger := p.logger.With().Str("run", runID).Str("mode", string(mode)).Logger()
	done := logging.LogOperationStart(logger, "presubmit")
	defer done()

	p.stage(runID, StageIdle)
	if err := p.Preflight(mode); err != nil {
		logger.Error().Err(err).Msg("Preflight failed")
		return types.Verdict{}, err
	}

	p.stage(runID, StageFiltering)
	kept, excluded := p.exclusions.Filter(files)
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Path < kept[j].Path })
	logger.Debug().
		Int("changed", len(files)).
		Int("excluded", len(excluded)).
		Msg("Filtered changed files")

	rc := &types.RunContext{
		ID:    runID,
		Mode:  mode,
		Root:  root,
		Files: kept,
	}

	p.stage(runID, StageRunning)
	perCheck := p.runChecks(ctx, rc, logger)

	p.stage(runID, StageAggregating)
	verdict, err := results.Aggregate(mode, perCheck)
	if err != nil {
		return verdict, err
	}

	p.stage(runID, StageDone)
	logger.Info().
		Str("outcome", string(verdict.Outcome)).
		Int("findings", len(verdict.Findings)).
		Msg("Presubmit completed")
	return verdict, nil
}

func (p *Pipeline) stage(runID string, s Stage) {
	if p.onStage != nil {
		p.onStage(runID, s)
	}
}

// runChecks stores each result at the check's registration index, so the
// order never depends on completion order
func (p *Pipeline) runChecks(ctx context.Context, rc *types.RunContext, logger zerolog.Logger) []results.CheckResult {
	selected := p.registry.ForMode(rc.Mode)
	out := make([]results.CheckResult, len(selected))

	if p.workers <= 1 {
		for i, c := range selected {
			out[i] = p.runCheck(ctx, c, rc, logger)
		}
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, c := range selected {
		g.Go(func() error {
			out[i] = p.runCheck(gctx, c, rc, logger)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (p *Pipeline) runCheck(ctx context.Context, c checks.Check, rc *types.RunContext, logger zerolog.Logger) (res results.CheckResult) {
	res = results.CheckResult{ID: c.ID, Kind: string(c.Kind), WarnOnUpload: c.WarnOnUpload}
	logger = logger.With().Str("check", c.ID).Logger()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := errors.Newf(errors.ErrCheckFailed, "check panicked: %v", r)
			logger.Error().Err(err).Msg("Check panicked")
			res.Findings = []types.Finding{checkFailure(c.ID, err)}
		}
	}()

	findings, err := c.Run(ctx, rc)
	if err != nil {
		logger.Error().Err(err).Msg("Check failed")
		res.Findings = []types.Finding{checkFailure(c.ID, err)}
		return res
	}

	for i := range findings {
		if findings[i].Check == "" {
			findings[i].Check = c.ID
		}
	}
	res.Findings = findings

	logger.Debug().
		Int("findings", len(findings)).
		Dur("duration", time.Since(start)).
		Msg("Check finished")
	return res
}

func checkFailure(id string, err error) types.Finding {
	return types.Finding{
		Check:    id,
		Severity: types.SeverityError,
		Message:  fmt.Sprintf("check %s failed: %v", id, err),
	}
}
