// Package retry accepts a user's request to regenerate one job of a project
// and hands it to the worker as a single event carrying both the plan the
// project was produced under and the caller's current plan.
package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
	"podcaster/internal/plans"
)

// Caller is the authenticated requester as seen by the billing provider.
type Caller interface {
	UserID() string
	entitlement.CapabilityChecker
}

type ProjectReader interface {
	GetProject(ctx context.Context, id string) (*domain.Project, error)
}

type Publisher interface {
	Publish(ctx context.Context, event domain.RetryEvent) error
}

// Result reports an accepted retry.
type Result struct {
	Success      bool            `json:"success"`
	OriginalPlan domain.PlanTier `json:"original_plan"`
	CurrentPlan  domain.PlanTier `json:"current_plan"`
	Upgraded     bool            `json:"upgraded"`
}

type Service struct {
	resolver  *entitlement.Resolver
	projects  ProjectReader
	publisher Publisher
	logger    zerolog.Logger
}

func NewService(resolver *entitlement.Resolver, projects ProjectReader, publisher Publisher, logger zerolog.Logger) *Service {
	if resolver == nil {
		resolver = entitlement.NewResolver(plans.Default(), nil)
	}
	return &Service{resolver: resolver, projects: projects, publisher: publisher, logger: logger}
}

// RetryJob emits exactly one retry event on success and none on any error.
// Callers that do not own the project get ErrNotFound, as do callers of a
// soft-deleted project.
func (s *Service) RetryJob(ctx context.Context, caller Caller, projectID string, job domain.Job) (Result, error) {
	if caller == nil || strings.TrimSpace(caller.UserID()) == "" {
		return Result{}, domain.ErrUnauthorized
	}
	if !job.Valid() {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrInvalidJob, job)
	}
	userID := caller.UserID()
	currentPlan := s.resolver.ResolvePlan(caller)

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Result{}, domain.ErrNotFound
		}
		return Result{}, fmt.Errorf("load project %s: %w", projectID, err)
	}
	if !project.Active() || project.UserID != userID {
		return Result{}, domain.ErrNotFound
	}

	originalPlan := InferOriginalPlan(project.Assets())
	event := domain.RetryEvent{
		ProjectID:    projectID,
		Job:          job,
		UserID:       userID,
		OriginalPlan: originalPlan,
		CurrentPlan:  currentPlan,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return Result{}, fmt.Errorf("%w: %w", domain.ErrEmitFailed, err)
	}

	upgraded := s.resolver.Catalog().Compare(originalPlan, currentPlan) < 0
	s.logger.Info().
		Str("project_id", projectID).
		Str("job", string(job)).
		Str("user_id", userID).
		Str("original_plan", string(originalPlan)).
		Str("current_plan", string(currentPlan)).
		Bool("upgraded", upgraded).
		Msg("retry job queued")

	return Result{Success: true, OriginalPlan: originalPlan, CurrentPlan: currentPlan, Upgraded: upgraded}, nil
}
