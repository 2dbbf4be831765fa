package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"podcaster/internal/domain"
	"podcaster/pkg/zip"
)

// RetryJob queues regeneration of one job. Projects owned by someone else
// are reported as missing.
func (a *App) RetryJob(w http.ResponseWriter, r *http.Request) {
	p := a.currentPrincipal(r)
	if p == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project id required")
		return
	}
	var req retryRequest
	if err := decodeRequest(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	result, err := a.Retry.RetryJob(r.Context(), p, projectID, domain.Job(strings.TrimSpace(req.Job)))
	switch {
	case err == nil:
		a.json(w, http.StatusAccepted, result)
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	case errors.Is(err, domain.ErrInvalidJob):
		a.error(w, http.StatusBadRequest, "invalid_job", "unknown job")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "project not found")
	case errors.Is(err, domain.ErrEmitFailed):
		a.Logger.Error().Err(err).Str("project_id", projectID).Msg("retry emission failed")
		a.error(w, http.StatusBadGateway, "emit_failed", "failed to queue retry")
	default:
		a.Logger.Error().Err(err).Str("project_id", projectID).Msg("retry failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue retry")
	}
}

type exportManifest struct {
	ProjectID  string       `json:"project_id"`
	Name       string       `json:"name"`
	Jobs       []domain.Job `json:"jobs"`
	ExportedAt time.Time    `json:"exported_at"`
}

// ExportProject streams the generated assets of a project as a zip of JSON
// files plus a manifest.
func (a *App) ExportProject(w http.ResponseWriter, r *http.Request) {
	p := a.currentPrincipal(r)
	if p == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	projectID := chi.URLParam(r, "projectID")
	project, err := a.Projects.GetProject(r.Context(), projectID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.Logger.Error().Err(err).Str("project_id", projectID).Msg("load project failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load project")
		return
	}
	if !project.Active() || project.UserID != p.ID {
		a.error(w, http.StatusNotFound, "not_found", "project not found")
		return
	}

	generated := project.GeneratedAssets()
	jobs := make([]domain.Job, 0, len(generated))
	for job := range generated {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i] < jobs[j] })

	modified := project.UpdatedAt
	if modified.IsZero() {
		modified = a.Now()
	}
	assets := make([]zip.Asset, 0, len(jobs)+1)
	manifest, err := zip.JSONAsset("manifest.json", exportManifest{
		ProjectID:  project.ID,
		Name:       project.Name,
		Jobs:       jobs,
		ExportedAt: modified.UTC(),
	})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build export")
		return
	}
	assets = append(assets, manifest)
	for _, job := range jobs {
		asset, err := zip.JSONAsset(string(job)+".json", generated[job])
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to build export")
			return
		}
		assets = append(assets, asset)
	}
	archive, err := zip.ArchiveAssets(assets, modified)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build export")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=project-%s.zip", project.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
