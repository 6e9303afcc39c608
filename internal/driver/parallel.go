package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"commitlang/internal/config"
	"commitlang/internal/gitx"
	"commitlang/internal/rules"
)

// Lint analyzes every input in parallel and returns one result per input,
// in input order. An unreadable input yields a result carrying an
// input-unreadable error instead of aborting the batch; the returned error
// is reserved for context cancellation.
func Lint(ctx context.Context, inputs []Input, opts Options) ([]Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	engine := rules.NewEngine(cfg, opts.MaxDiagnostics)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Slots are per-index, so workers never share state.
	results := make([]Result, len(inputs))
	total := len(inputs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(total, 1)))

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			started := time.Now()
			emit(opts.Observer, Event{Name: displayName(in), Status: EventStart, Index: i, Total: total})
			results[i] = lintOne(in, engine)
			emit(opts.Observer, Event{
				Name:        results[i].Name,
				Status:      EventEnd,
				Index:       i,
				Total:       total,
				Elapsed:     time.Since(started),
				Diagnostics: len(results[i].Diagnostics),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// LintFiles lints message files, one result per path.
func LintFiles(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	inputs := make([]Input, len(paths))
	for i, p := range paths {
		inputs[i] = Input{Path: p}
	}
	return Lint(ctx, inputs, opts)
}

// LintRange lints every commit message in revRange of the repository
// containing dir, newest first. Results are named by abbreviated hash.
func LintRange(ctx context.Context, dir, revRange string, opts Options) ([]Result, error) {
	commits, err := gitx.Messages(ctx, dir, revRange)
	if err != nil {
		return nil, err
	}
	inputs := make([]Input, len(commits))
	for i, c := range commits {
		name := c.Hash
		if len(name) > 12 {
			name = name[:12]
		}
		inputs[i] = Input{Name: name, Content: c.Message}
	}
	return Lint(ctx, inputs, opts)
}

func displayName(in Input) string {
	if in.Name != "" {
		return in.Name
	}
	return in.Path
}

func emit(obs Observer, ev Event) {
	if obs != nil {
		obs(ev)
	}
}
