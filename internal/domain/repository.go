package domain

import "context"

// ProjectRepository is the document-store surface the core reads from and the
// worker writes generated assets back to.
type ProjectRepository interface {
	GetProject(ctx context.Context, projectID string) (*Project, error)
	GetUserProjectCount(ctx context.Context, userID string, includeDeleted bool) (int, error)
	SaveAsset(ctx context.Context, projectID string, job Job, value any) error
}

// CredentialRepository resolves provider tokens stored outside the environment.
type CredentialRepository interface {
	Token(ctx context.Context, provider string) (string, error)
}
