package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/worldmaps/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 3 scenarios (4.512s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// stageHooks reports pipeline stages to the debug log and, when set, to
// the spinner line.
type stageHooks struct {
	logger  *log.Logger
	spinner *Spinner
}

func (h *stageHooks) OnStageStart(_ context.Context, scenario, stage string) {
	h.logger.Debug("stage started", "scenario", scenario, "stage", stage)
	if h.spinner != nil {
		h.spinner.SetMessage(scenario + ": " + stage + "...")
	}
}

func (h *stageHooks) OnStageComplete(_ context.Context, scenario, stage string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "scenario", scenario, "stage", stage, "duration", d, "error", err)
		return
	}
	h.logger.Debug("stage done", "scenario", scenario, "stage", stage, "duration", d)
}

func (h *stageHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h *stageHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h *stageHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

// installHooks registers h for pipeline and cache events and returns a
// function restoring the no-op hooks.
func installHooks(h *stageHooks) func() {
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	return observability.Reset
}

var (
	_ observability.PipelineHooks = (*stageHooks)(nil)
	_ observability.CacheHooks    = (*stageHooks)(nil)
)
