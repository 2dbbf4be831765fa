package generation

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"podcaster/internal/domain"
)

// Registry maps every job kind to its step.
type Registry struct {
	steps       map[domain.Job]Step
	concurrency int
}

// NewSteps builds the full step set sharing one completer.
func NewSteps(completer Completer, opts Options) *Registry {
	steps := []Step{
		NewSummaryStep(completer, opts),
		NewSocialPostsStep(completer, opts),
		NewTitlesStep(completer, opts),
		NewHashtagsStep(completer, opts),
		NewKeyMomentsStep(completer, opts),
		NewVideoTimestampsStep(completer, opts),
	}
	r := &Registry{steps: make(map[domain.Job]Step, len(steps)), concurrency: opts.Concurrency}
	for _, s := range steps {
		r.steps[s.Job()] = s
	}
	return r
}

func (r *Registry) Step(job domain.Job) (Step, bool) {
	s, ok := r.steps[job]
	return s, ok
}

// Generate runs a single job.
func (r *Registry) Generate(ctx context.Context, job domain.Job, transcript domain.Transcript) (Result, error) {
	s, ok := r.steps[job]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrInvalidJob, job)
	}
	return s.Generate(ctx, transcript), nil
}

// RunAll runs jobs concurrently. Steps never fail, so one job cannot cancel or
// spoil another; the only error is an unknown job, reported before any runs.
func (r *Registry) RunAll(ctx context.Context, transcript domain.Transcript, jobs []domain.Job) (map[domain.Job]Result, error) {
	for _, job := range jobs {
		if _, ok := r.steps[job]; !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidJob, job)
		}
	}

	var (
		mu  sync.Mutex
		out = make(map[domain.Job]Result, len(jobs))
		g   errgroup.Group
	)
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for _, job := range jobs {
		step := r.steps[job]
		g.Go(func() error {
			res := step.Generate(ctx, transcript)
			mu.Lock()
			out[job] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
