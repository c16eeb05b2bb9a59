package service

import (
	"context"
	"errors"
	"time"

	"opportunity-search-api/internal/provider"
	"opportunity-search-api/internal/repo"
	"opportunity-search-api/internal/repo/repo_errors"
)

type DescriptionService struct {
	apiKeyRepo repo.ApiKey
	providers  *provider.Registry
	timeout    time.Duration
}

func NewDescriptionService(apiKeyRepo repo.ApiKey, providers *provider.Registry, timeout time.Duration) *DescriptionService {
	return &DescriptionService{
		apiKeyRepo: apiKeyRepo,
		providers:  providers,
		timeout:    timeout,
	}
}

// FetchDescription resolves the source adapter and passes the reference
// through. The returned string is raw, unsanitized HTML from the source;
// callers own sanitization before rendering. Descriptions are fetched on
// demand and not cached.
func (s *DescriptionService) FetchDescription(ctx context.Context, orgId string, source string, descriptionRef string) (string, error) {
	prov, ok := s.providers.Provider(source)
	if !ok {
		return "", ErrUnknownSource
	}

	key, err := s.apiKeyRepo.GetKey(ctx, orgId, source)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return "", ErrApiKeyNotConfigured
		}

		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	description, err := prov.GetDescription(callCtx, descriptionRef, key.ApiKey)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return "", ErrDescriptionNotFound
		}

		return "", err
	}

	return description, nil
}
