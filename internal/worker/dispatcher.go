// Package worker consumes retry events from the outbox and regenerates the
// requested asset, enforcing the caller's current plan before any model call.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
	"podcaster/internal/events"
	"podcaster/internal/generation"
	"podcaster/internal/infra/locks"
)

// ErrLockBusy means another worker is regenerating the same project field.
var ErrLockBusy = errors.New("worker: job already in progress")

type Queue interface {
	Claim(ctx context.Context) (*events.Event, error)
	Complete(ctx context.Context, id string) error
	Fail(ctx context.Context, id string, cause error) (string, error)
	Release(ctx context.Context, id string, delay time.Duration) error
	Discard(ctx context.Context, id string, cause error) error
}

type Generator interface {
	Generate(ctx context.Context, job domain.Job, transcript domain.Transcript) (generation.Result, error)
}

// Archiver keeps a copy of every generated result. Optional.
type Archiver interface {
	ArchiveResult(ctx context.Context, projectID, job string, at time.Time, value any) (string, error)
}

type Config struct {
	Resolver     *entitlement.Resolver
	Projects     domain.ProjectRepository
	Generator    Generator
	Queue        Queue
	Locker       locks.Locker
	Archive      Archiver
	Logger       zerolog.Logger
	PollInterval time.Duration
	LockTTL      time.Duration
	Concurrency  int
}

type Dispatcher struct {
	resolver     *entitlement.Resolver
	projects     domain.ProjectRepository
	generator    Generator
	queue        Queue
	locker       locks.Locker
	archive      Archiver
	logger       zerolog.Logger
	pollInterval time.Duration
	lockTTL      time.Duration
	concurrency  int
	now          func() time.Time
}

func New(cfg Config) *Dispatcher {
	if cfg.Resolver == nil {
		cfg.Resolver = entitlement.NewResolver(nil, nil)
	}
	if cfg.Locker == nil {
		cfg.Locker = locks.NewMemory()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Dispatcher{
		resolver:     cfg.Resolver,
		projects:     cfg.Projects,
		generator:    cfg.Generator,
		queue:        cfg.Queue,
		locker:       cfg.Locker,
		archive:      cfg.Archive,
		logger:       cfg.Logger,
		pollInterval: cfg.PollInterval,
		lockTTL:      cfg.LockTTL,
		concurrency:  cfg.Concurrency,
		now:          time.Now,
	}
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func permanent(err error) error { return permanentError{err: err} }

// IsPermanent reports whether retrying the event cannot succeed.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Handle processes one event. A nil error means the event is settled, which
// includes retries the current plan no longer unlocks.
func (d *Dispatcher) Handle(ctx context.Context, evt events.Event) error {
	if evt.Name != domain.RetryJobEventName {
		d.logger.Warn().Str("event_id", evt.ID).Str("name", evt.Name).Msg("worker: ignoring unknown event")
		return nil
	}
	var re domain.RetryEvent
	if err := evt.Decode(&re); err != nil {
		return permanent(err)
	}
	if !re.Job.Valid() {
		return permanent(fmt.Errorf("%w: %q", domain.ErrInvalidJob, re.Job))
	}
	log := d.logger.With().
		Str("event_id", evt.ID).
		Str("project_id", re.ProjectID).
		Str("job", string(re.Job)).
		Str("original_plan", string(re.OriginalPlan)).
		Str("current_plan", string(re.CurrentPlan)).
		Logger()

	if !d.resolver.HasFeatureAccess(re.CurrentPlan, re.Job.Feature()) {
		log.Warn().
			Str("minimum_plan", string(d.resolver.MinimumTierFor(re.Job.Feature()))).
			Msg("worker: feature not on current plan, skipping regeneration")
		return nil
	}
	if d.resolver.Catalog().Compare(re.OriginalPlan, re.CurrentPlan) < 0 {
		log.Info().Msg("upgrade_regeneration")
	}

	release, ok, err := d.locker.Acquire(ctx, locks.Key(re.ProjectID, string(re.Job)), d.lockTTL)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockBusy
	}
	defer release()

	project, err := d.projects.GetProject(ctx, re.ProjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return permanent(err)
		}
		return err
	}
	if !project.Active() {
		return permanent(fmt.Errorf("project %s: %w", re.ProjectID, domain.ErrNotFound))
	}
	if project.Transcript == nil {
		return permanent(fmt.Errorf("project %s has no transcript", re.ProjectID))
	}

	res, err := d.generator.Generate(ctx, re.Job, *project.Transcript)
	if err != nil {
		return permanent(err)
	}
	if err := d.projects.SaveAsset(ctx, re.ProjectID, re.Job, res.Value); err != nil {
		return fmt.Errorf("save asset: %w", err)
	}
	if d.archive != nil {
		if _, err := d.archive.ArchiveResult(ctx, re.ProjectID, string(re.Job), d.now(), res); err != nil {
			log.Warn().Err(err).Msg("worker: archive result failed")
		}
	}
	log.Info().Str("source", string(res.Source)).Str("reason", res.Reason).Msg("worker: job regenerated")
	return nil
}

// Process claims and settles at most one event. It reports whether an event
// was claimed.
func (d *Dispatcher) Process(ctx context.Context) (bool, error) {
	evt, err := d.queue.Claim(ctx)
	if err != nil {
		if errors.Is(err, events.ErrNoEvent) {
			return false, nil
		}
		return false, err
	}
	d.logger.Info().Str("event_id", evt.ID).Int("attempt", evt.Attempts).Msg("worker: picked event")

	herr := d.Handle(ctx, *evt)
	switch {
	case herr == nil:
		err = d.queue.Complete(ctx, evt.ID)
	case errors.Is(herr, ErrLockBusy):
		d.logger.Info().Str("event_id", evt.ID).Msg("worker: lock busy, re-queueing")
		err = d.queue.Release(ctx, evt.ID, d.pollInterval)
	case IsPermanent(herr):
		d.logger.Error().Err(herr).Str("event_id", evt.ID).Msg("worker: event discarded")
		err = d.queue.Discard(ctx, evt.ID, herr)
	default:
		var status string
		status, err = d.queue.Fail(ctx, evt.ID, herr)
		d.logger.Error().Err(herr).Str("event_id", evt.ID).Str("status", status).Msg("worker: event failed")
	}
	if err != nil {
		d.logger.Error().Err(err).Str("event_id", evt.ID).Msg("worker: settle event failed")
	}
	return true, nil
}

// Run polls the queue until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info().Int("concurrency", d.concurrency).Dur("poll_interval", d.pollInterval).Msg("worker: started")
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < d.concurrency; i++ {
		g.Go(func() error { return d.loop(ctx) })
	}
	return g.Wait()
}

func (d *Dispatcher) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		handled, err := d.Process(ctx)
		if err != nil {
			d.logger.Error().Err(err).Msg("worker: failed to claim event")
		}
		if handled {
			continue
		}
		timer := time.NewTimer(d.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
