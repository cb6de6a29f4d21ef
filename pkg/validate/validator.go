package validate

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rendis/khimera/internal/logging"
	"github.com/rendis/khimera/pkg/model"
	"github.com/rendis/khimera/pkg/plugin"
	"github.com/rendis/khimera/pkg/schema"
)

// Validator wraps Validate with logging and batch validation. It holds no
// per-run state and is safe for concurrent use.
type Validator struct {
	cfg Config
}

// New returns a Validator. Zero fields in cfg take their default.
func New(cfg Config) *Validator {
	return &Validator{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (v *Validator) Config() Config { return v.cfg }

// Validate checks p against m like the package-level Validate and logs the outcome.
func (v *Validator) Validate(ctx context.Context, p *plugin.Plugin, m *model.Model) *schema.Report {
	report := Validate(p, m)

	ctx = logging.WithPluginName(ctx, report.Plugin())
	ctx = logging.WithModelName(ctx, report.Model())
	v.cfg.Logger.DebugContext(ctx, "plugin validated",
		"valid", report.Valid(),
		"error_count", report.Len(),
	)
	return report
}

// ValidateAll checks every plugin against m, at most Config.Concurrency at a
// time. Reports are index aligned with plugins. If ctx is cancelled before
// every plugin was dispatched, the reports gathered so far are returned
// together with ctx.Err(); undispatched slots are nil.
func (v *Validator) ValidateAll(ctx context.Context, m *model.Model, plugins []*plugin.Plugin) ([]*schema.Report, error) {
	batchID := uuid.NewString()
	ctx = logging.WithBatchID(ctx, batchID)
	if m != nil {
		ctx = logging.WithModelName(ctx, m.Name())
	}
	logger := v.cfg.Logger

	logger.DebugContext(ctx, "validation batch started", "plugins", len(plugins), "concurrency", v.cfg.Concurrency)

	reports := make([]*schema.Report, len(plugins))
	var eg errgroup.Group
	eg.SetLimit(v.cfg.Concurrency)

	dispatched := 0
	for i, p := range plugins {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			// Each goroutine writes only its own slot.
			reports[i] = v.Validate(ctx, p, m)
			return nil
		})
		dispatched++
	}
	_ = eg.Wait()

	if dispatched < len(plugins) {
		logger.WarnContext(ctx, "validation batch cancelled",
			"dispatched", dispatched,
			"plugins", len(plugins),
			"error", ctx.Err(),
		)
		return reports, ctx.Err()
	}

	invalid := 0
	for _, r := range reports {
		if !r.Valid() {
			invalid++
		}
	}
	logger.DebugContext(ctx, "validation batch finished", "plugins", len(plugins), "invalid", invalid)
	return reports, nil
}
