package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
	"podcaster/internal/middleware"
	"podcaster/internal/retry"
)

type Retrier interface {
	RetryJob(ctx context.Context, caller retry.Caller, projectID string, job domain.Job) (retry.Result, error)
}

type ProjectStore interface {
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	GetUserProjectCount(ctx context.Context, userID string, includeDeleted bool) (int, error)
}

type App struct {
	Resolver *entitlement.Resolver
	Retry    Retrier
	Projects ProjectStore
	Logger   zerolog.Logger
	Now      func() time.Time
	// Ping checks backing services for readiness. Nil means always ready.
	Ping func(ctx context.Context) error
}

func NewApp(resolver *entitlement.Resolver, retrier Retrier, projects ProjectStore, logger zerolog.Logger) *App {
	return &App{Resolver: resolver, Retry: retrier, Projects: projects, Logger: logger, Now: time.Now}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

// currentPrincipal returns nil when the request carries no authenticated user.
func (a *App) currentPrincipal(r *http.Request) *middleware.Principal {
	p := middleware.PrincipalFromContext(r.Context())
	if p == nil || p.ID == "" {
		return nil
	}
	return p
}
