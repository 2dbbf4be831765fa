package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
	"podcaster/internal/plans"
)

type testCaller struct {
	id   string
	plan domain.PlanTier
}

func (c testCaller) UserID() string { return c.id }

func (c testCaller) Satisfies(req entitlement.Requirement) bool {
	switch c.plan {
	case domain.PlanPremium:
		return req.Plan == domain.PlanPremium || req.Plan == domain.PlanStandard
	case domain.PlanStandard:
		return req.Plan == domain.PlanStandard
	}
	return false
}

type stubProjects struct {
	project *domain.Project
	err     error
	calls   int
}

func (s *stubProjects) GetProject(context.Context, string) (*domain.Project, error) {
	s.calls++
	return s.project, s.err
}

type recordingPublisher struct {
	events []domain.RetryEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.RetryEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func newService(projects ProjectReader, pub Publisher) *Service {
	return NewService(entitlement.NewResolver(plans.Default(), nil), projects, pub, zerolog.Nop())
}

func TestRetryJobPublishesEvent(t *testing.T) {
	projects := &stubProjects{project: &domain.Project{
		ID:     "p1",
		UserID: "u1",
		Titles: &domain.Titles{},
	}}
	pub := &recordingPublisher{}
	svc := newService(projects, pub)

	res, err := svc.RetryJob(context.Background(), testCaller{id: "u1", plan: domain.PlanPremium}, "p1", domain.JobKeyMoments)
	if err != nil {
		t.Fatalf("RetryJob returned error: %v", err)
	}
	if !res.Success || !res.Upgraded {
		t.Fatalf("result = %+v", res)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	want := domain.RetryEvent{
		ProjectID:    "p1",
		Job:          domain.JobKeyMoments,
		UserID:       "u1",
		OriginalPlan: domain.PlanStandard,
		CurrentPlan:  domain.PlanPremium,
	}
	if pub.events[0] != want {
		t.Fatalf("event = %+v, want %+v", pub.events[0], want)
	}
}

func TestRetryJobSamePlanIsNotUpgrade(t *testing.T) {
	projects := &stubProjects{project: &domain.Project{ID: "p1", UserID: "u1", Summary: &domain.Summary{}}}
	res, err := newService(projects, &recordingPublisher{}).RetryJob(context.Background(), testCaller{id: "u1"}, "p1", domain.JobSummary)
	if err != nil {
		t.Fatalf("RetryJob returned error: %v", err)
	}
	if res.Upgraded || res.OriginalPlan != domain.PlanFree || res.CurrentPlan != domain.PlanFree {
		t.Fatalf("result = %+v", res)
	}
}

func TestRetryJobFatalPathsEmitNothing(t *testing.T) {
	boom := errors.New("db down")
	deletedAt := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		caller   Caller
		projects *stubProjects
		job      domain.Job
		wantErr  error
	}{
		{name: "nil caller", caller: nil, projects: &stubProjects{project: &domain.Project{}}, job: domain.JobSummary, wantErr: domain.ErrUnauthorized},
		{name: "anonymous caller", caller: testCaller{}, projects: &stubProjects{project: &domain.Project{}}, job: domain.JobSummary, wantErr: domain.ErrUnauthorized},
		{name: "unknown job", caller: testCaller{id: "u1"}, projects: &stubProjects{project: &domain.Project{}}, job: "podcastArt", wantErr: domain.ErrInvalidJob},
		{name: "missing project", caller: testCaller{id: "u1"}, projects: &stubProjects{}, job: domain.JobSummary, wantErr: domain.ErrNotFound},
		{name: "repo not found", caller: testCaller{id: "u1"}, projects: &stubProjects{err: domain.ErrNotFound}, job: domain.JobSummary, wantErr: domain.ErrNotFound},
		{name: "other owner", caller: testCaller{id: "u1"}, projects: &stubProjects{project: &domain.Project{UserID: "u2"}}, job: domain.JobSummary, wantErr: domain.ErrNotFound},
		{name: "ownerless project", caller: testCaller{id: "u1"}, projects: &stubProjects{project: &domain.Project{}}, job: domain.JobSummary, wantErr: domain.ErrNotFound},
		{name: "soft-deleted project", caller: testCaller{id: "u1"}, projects: &stubProjects{project: &domain.Project{UserID: "u1", DeletedAt: &deletedAt}}, job: domain.JobSummary, wantErr: domain.ErrNotFound},
		{name: "repo failure", caller: testCaller{id: "u1"}, projects: &stubProjects{err: boom}, job: domain.JobSummary, wantErr: boom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			_, err := newService(tc.projects, pub).RetryJob(context.Background(), tc.caller, "p1", tc.job)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if len(pub.events) != 0 {
				t.Fatalf("published %d events on a fatal path", len(pub.events))
			}
		})
	}
}

func TestRetryJobUnauthorizedSkipsProjectLookup(t *testing.T) {
	projects := &stubProjects{project: &domain.Project{}}
	_, err := newService(projects, &recordingPublisher{}).RetryJob(context.Background(), testCaller{}, "p1", domain.JobSummary)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	if projects.calls != 0 {
		t.Fatalf("project lookup ran %d times for an anonymous caller", projects.calls)
	}
}

func TestRetryJobPropagatesEmitFailure(t *testing.T) {
	boom := errors.New("queue unavailable")
	projects := &stubProjects{project: &domain.Project{UserID: "u1"}}
	res, err := newService(projects, &recordingPublisher{err: boom}).RetryJob(context.Background(), testCaller{id: "u1"}, "p1", domain.JobSummary)
	if !errors.Is(err, domain.ErrEmitFailed) || !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped emit failure", err)
	}
	if res.Success {
		t.Fatal("failed emission must not report success")
	}
}

func TestInferOriginalPlan(t *testing.T) {
	cases := []struct {
		name   string
		assets domain.AssetPresence
		want   domain.PlanTier
	}{
		{name: "nothing", assets: domain.AssetPresence{}, want: domain.PlanFree},
		{name: "summary only", assets: domain.AssetPresence{Summary: true}, want: domain.PlanFree},
		{name: "titles only", assets: domain.AssetPresence{Titles: true}, want: domain.PlanStandard},
		{name: "hashtags", assets: domain.AssetPresence{Summary: true, Hashtags: true}, want: domain.PlanStandard},
		{name: "social posts", assets: domain.AssetPresence{SocialMediaPosts: true}, want: domain.PlanStandard},
		{name: "key moments only", assets: domain.AssetPresence{KeyMoments: true}, want: domain.PlanPremium},
		{name: "timestamps with standard assets", assets: domain.AssetPresence{VideoTimestamps: true, Titles: true}, want: domain.PlanPremium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferOriginalPlan(tc.assets); got != tc.want {
				t.Fatalf("InferOriginalPlan() = %q, want %q", got, tc.want)
			}
		})
	}
}
