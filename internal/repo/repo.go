package repo

import (
	"context"
	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/repo/pgdb"
	"opportunity-search-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type ApiKey interface {
	// GetKey returns the stored key for (orgId, source) or
	// repo_errors.ErrNotFound. Every query is partitioned by orgId; no
	// cross-tenant read exists.
	GetKey(ctx context.Context, orgId string, source string) (*entity.SourceKey, error)
	UpsertKey(ctx context.Context, orgId string, source string, apiKey string) error
}

type SavedSearch interface {
	CreateSavedSearch(ctx context.Context, input *entity.CreateSavedSearchInput) (uuid.UUID, error)
	GetSavedSearchById(ctx context.Context, id string) (*entity.SavedSearch, error)
	ListSavedSearches(ctx context.Context, orgId string, source string, pg *entity.PaginationInput) ([]entity.SavedSearch, error)
	// UpdateSavedSearch overwrites the mutable fields; it reports
	// repo_errors.ErrNotFound when the row no longer exists, as a single
	// atomic check-and-write.
	UpdateSavedSearch(ctx context.Context, id string, s *entity.SavedSearch) error
	DeleteSavedSearch(ctx context.Context, id string) error
	// ListEnabledSavedSearches pages through every enabled saved search for
	// the background runner, regardless of organization.
	ListEnabledSavedSearches(ctx context.Context, frequency string, pg *entity.PaginationInput) ([]entity.SavedSearch, error)
}

type Document interface {
	// CreateDocument inserts one document row and reports
	// repo_errors.ErrAlreadyExists when the
	// (org, project, source, opportunity, attachment) tuple is already
	// present. The uniqueness check and the insert are one atomic write.
	CreateDocument(ctx context.Context, input *entity.CreateDocumentInput) (uuid.UUID, error)
	ListDocumentsByOpportunity(ctx context.Context, orgId string, projectId string, source string, opportunityId string) ([]entity.Document, error)
}

type Repositories struct {
	Diagnostics
	ApiKey
	SavedSearch
	Document
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		ApiKey:      pgdb.NewApiKeyRepo(p),
		SavedSearch: pgdb.NewSavedSearchRepo(p),
		Document:    pgdb.NewDocumentRepo(p),
	}
}
