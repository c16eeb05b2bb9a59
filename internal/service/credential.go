package service

import (
	"context"
	"errors"
	"time"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/provider"
	"opportunity-search-api/internal/repo"
	"opportunity-search-api/internal/repo/repo_errors"
)

type CredentialService struct {
	apiKeyRepo repo.ApiKey
	providers  *provider.Registry
	timeout    time.Duration
}

func NewCredentialService(apiKeyRepo repo.ApiKey, providers *provider.Registry, timeout time.Duration) *CredentialService {
	return &CredentialService{
		apiKeyRepo: apiKeyRepo,
		providers:  providers,
		timeout:    timeout,
	}
}

func (s *CredentialService) SetKey(ctx context.Context, orgId string, source string, apiKey string) error {
	if !common.IsKnownSource(source) {
		return ErrUnknownSource
	}

	return s.apiKeyRepo.UpsertKey(ctx, orgId, source, apiKey)
}

// GetKeyStatus reports two independent facts: whether a key is stored at all,
// and whether the provider still accepts it. "Add a key" and "key rejected"
// are different states for the caller. The raw key is never returned; only a
// masked suffix.
func (s *CredentialService) GetKeyStatus(ctx context.Context, orgId string, source string) (*entity.KeyStatusOutputModel, error) {
	if !common.IsKnownSource(source) {
		return nil, ErrUnknownSource
	}

	key, err := s.apiKeyRepo.GetKey(ctx, orgId, source)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return &entity.KeyStatusOutputModel{Source: source, Configured: false, Valid: false}, nil
		}

		return nil, err
	}

	return &entity.KeyStatusOutputModel{
		Source:     source,
		Configured: true,
		Valid:      s.probe(ctx, source, key.ApiKey),
		MaskedKey:  maskKey(key.ApiKey),
		UpdatedAt:  key.UpdatedAt,
	}, nil
}

// probe performs the lightest possible live call: a one-item search over the
// last week. Any provider-side rejection or failure reads as "not valid".
func (s *CredentialService) probe(ctx context.Context, source string, apiKey string) bool {
	prov, ok := s.providers.Provider(source)
	if !ok {
		return false
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	criteria := &entity.SearchCriteria{
		PostedFrom: now.AddDate(0, 0, -7).Format(common.DateLayoutInternal),
		PostedTo:   now.Format(common.DateLayoutInternal),
		Limit:      1,
	}

	_, err := prov.Search(callCtx, criteria, apiKey)

	return err == nil
}

func maskKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "****"
	}

	return "…" + apiKey[len(apiKey)-4:]
}
