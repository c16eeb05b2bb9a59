package service

import (
	"context"
	"time"

	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/provider"
	"opportunity-search-api/internal/repo"
	"opportunity-search-api/pkg/objectstore"
)

type Diagnostics interface {
	Ping() error
}

type Search interface {
	Search(ctx context.Context, orgId string, criteria *entity.SearchCriteria) (*entity.SearchResultPage, error)
}

type Importer interface {
	Import(ctx context.Context, input *entity.ImportInput) (*entity.ImportResultOutputModel, error)
}

type SavedSearch interface {
	CreateSavedSearch(ctx context.Context, input *entity.CreateSavedSearchInput) (*entity.SavedSearchOutputModel, error)
	ListSavedSearches(ctx context.Context, orgId string, source string, pg *entity.PaginationInput) ([]entity.SavedSearchOutputModel, error)
	EditSavedSearch(ctx context.Context, id string, patch *entity.PatchSavedSearchInput) (*entity.SavedSearchOutputModel, error)
	DeleteSavedSearch(ctx context.Context, id string) error
}

type Credential interface {
	SetKey(ctx context.Context, orgId string, source string, apiKey string) error
	GetKeyStatus(ctx context.Context, orgId string, source string) (*entity.KeyStatusOutputModel, error)
}

type Description interface {
	FetchDescription(ctx context.Context, orgId string, source string, descriptionRef string) (string, error)
}

type Services struct {
	Diagnostics Diagnostics
	Search      Search
	Importer    Importer
	SavedSearch SavedSearch
	Credential  Credential
	Description Description
}

// Deps carries everything the services need, constructed once at process
// start and injected so tests can substitute fakes.
type Deps struct {
	Repos           *repo.Repositories
	Providers       *provider.Registry
	ObjectStore     objectstore.Store
	Pipeline        PipelineTrigger
	ProviderTimeout time.Duration
}

func NewServices(deps Deps) *Services {
	if deps.ProviderTimeout <= 0 {
		deps.ProviderTimeout = 20 * time.Second
	}

	return &Services{
		Diagnostics: NewDiagnosticsService(deps.Repos),
		Search:      NewSearchService(deps.Repos.ApiKey, deps.Providers, deps.ProviderTimeout),
		Importer:    NewImportService(deps.Repos.ApiKey, deps.Repos.Document, deps.Providers, deps.ObjectStore, deps.Pipeline, deps.ProviderTimeout),
		SavedSearch: NewSavedSearchService(deps.Repos.SavedSearch),
		Credential:  NewCredentialService(deps.Repos.ApiKey, deps.Providers, deps.ProviderTimeout),
		Description: NewDescriptionService(deps.Repos.ApiKey, deps.Providers, deps.ProviderTimeout),
	}
}
