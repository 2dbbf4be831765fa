package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"podcaster/internal/domain"
	"podcaster/internal/infra"
	"podcaster/internal/sqlinline"
)

// ProjectRepositoryPG implements domain.ProjectRepository.
type ProjectRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewProjectRepository creates a project repository on the marker-checked runner.
func NewProjectRepository(sql infra.SQLExecutor) *ProjectRepositoryPG {
	return &ProjectRepositoryPG{sql: sql}
}

// GetProject loads a project with its transcript and generated assets.
// Malformed ids and missing rows both yield domain.ErrNotFound.
func (r *ProjectRepositoryPG) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	var (
		p                                     domain.Project
		transcript, summary, social, titles   []byte
		hashtags, keyMoments, videoTimestamps []byte
		deletedAt                             *time.Time
	)
	err := r.sql.QueryRow(ctx, sqlinline.QSelectProjectByID, id).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Status,
		&transcript,
		&summary,
		&social,
		&titles,
		&hashtags,
		&keyMoments,
		&videoTimestamps,
		&deletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select project: %w", err)
	}
	p.DeletedAt = deletedAt

	decoders := []struct {
		column string
		raw    []byte
		assign func([]byte) error
	}{
		{"transcript", transcript, func(b []byte) error { return decodeInto(b, &p.Transcript) }},
		{"summary", summary, func(b []byte) error { return decodeInto(b, &p.Summary) }},
		{"social_media_posts", social, func(b []byte) error { return decodeInto(b, &p.SocialMediaPosts) }},
		{"titles", titles, func(b []byte) error { return decodeInto(b, &p.Titles) }},
		{"hashtags", hashtags, func(b []byte) error { return decodeInto(b, &p.Hashtags) }},
		{"key_moments", keyMoments, func(b []byte) error { return decodeInto(b, &p.KeyMoments) }},
		{"video_timestamps", videoTimestamps, func(b []byte) error { return decodeInto(b, &p.VideoTimestamps) }},
	}
	for _, d := range decoders {
		if len(d.raw) == 0 {
			continue
		}
		if err := d.assign(d.raw); err != nil {
			return nil, fmt.Errorf("decode project %s %s: %w", id, d.column, err)
		}
	}
	return &p, nil
}

// decodeInto leaves *dst nil for SQL null or JSON null.
func decodeInto[T any](raw []byte, dst **T) error {
	if string(raw) == "null" {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

// GetUserProjectCount counts a user's projects, soft-deleted ones included
// when includeDeleted is set.
func (r *ProjectRepositoryPG) GetUserProjectCount(ctx context.Context, userID string, includeDeleted bool) (int, error) {
	var count int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountUserProjects, userID, includeDeleted).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

// SaveAsset writes one job's result into its own column.
func (r *ProjectRepositoryPG) SaveAsset(ctx context.Context, projectID string, job domain.Job, value any) error {
	if !job.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidJob, job)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", job, err)
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateProjectAsset, projectID, string(job), raw)
	if err != nil {
		return fmt.Errorf("save %s: %w", job, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateProject inserts a processed project owning transcript.
func (r *ProjectRepositoryPG) CreateProject(ctx context.Context, userID, name string, transcript *domain.Transcript) (string, error) {
	raw, err := json.Marshal(transcript)
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	var id string
	if err := r.sql.QueryRow(ctx, sqlinline.QInsertProject, userID, name, raw).Scan(&id); err != nil {
		return "", fmt.Errorf("insert project: %w", err)
	}
	return id, nil
}

// SoftDelete marks a project deleted. It still counts toward lifetime quotas.
func (r *ProjectRepositoryPG) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSoftDeleteProject, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.ProjectRepository = (*ProjectRepositoryPG)(nil)
