package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/provider"
	"opportunity-search-api/internal/repo"
	"opportunity-search-api/internal/repo/repo_errors"
)

type SearchService struct {
	apiKeyRepo repo.ApiKey
	providers  *provider.Registry
	timeout    time.Duration
}

func NewSearchService(apiKeyRepo repo.ApiKey, providers *provider.Registry, timeout time.Duration) *SearchService {
	return &SearchService{
		apiKeyRepo: apiKeyRepo,
		providers:  providers,
		timeout:    timeout,
	}
}

type sourceOutcome struct {
	items []entity.SearchOpportunitySlim
	total int
	err   error
}

// Search fans the criteria out to every target source concurrently and
// assembles the page in fixed priority order, so completion timing never
// changes the observed output. One source failing degrades that source to an
// error string; it never fails the whole call.
func (s *SearchService) Search(ctx context.Context, orgId string, criteria *entity.SearchCriteria) (*entity.SearchResultPage, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}

	targets, keys, missing, err := s.resolveTargets(ctx, orgId, criteria)
	if err != nil {
		return nil, err
	}

	outcomes := make(map[string]*sourceOutcome, len(targets))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, source := range targets {
		wg.Add(1)
		go func(source string) {
			defer wg.Done()

			out := s.searchOne(ctx, source, criteria, keys[source])

			mu.Lock()
			outcomes[source] = out
			mu.Unlock()
		}(source)
	}
	wg.Wait()

	page := &entity.SearchResultPage{
		Opportunities: make([]entity.SearchOpportunitySlim, 0),
		Limit:         criteria.Limit,
		Offset:        criteria.Offset,
	}

	// An explicitly requested source without a configured key surfaces as
	// that source's error; sources omitted implicitly stay silent.
	for _, source := range missing {
		setSourceError(page, source, ErrApiKeyNotConfigured.Error())
	}

	for _, source := range common.SourcePriority {
		out, ok := outcomes[source]
		if !ok {
			continue
		}
		if out.err != nil {
			setSourceError(page, source, out.err.Error())
			continue
		}

		page.Opportunities = append(page.Opportunities, out.items...)
		setSourceTotal(page, source, out.total)
	}

	page.Total = page.TotalSamGov + page.TotalDibbs

	return page, nil
}

// resolveTargets decides which sources to query. With explicit criteria
// sources, a missing key is reported back per source; without, sources with
// no key are silently omitted ("not configured" is not an error state).
func (s *SearchService) resolveTargets(ctx context.Context, orgId string, criteria *entity.SearchCriteria) (targets []string, keys map[string]string, missing []string, err error) {
	requested := criteria.Sources
	explicit := len(requested) > 0
	if !explicit {
		requested = s.providers.Sources()
	}

	keys = make(map[string]string, len(requested))
	for _, source := range requested {
		key, err := s.apiKeyRepo.GetKey(ctx, orgId, source)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				if explicit {
					missing = append(missing, source)
				}
				continue
			}

			return nil, nil, nil, err
		}

		targets = append(targets, source)
		keys[source] = key.ApiKey
	}

	return targets, keys, missing, nil
}

func (s *SearchService) searchOne(ctx context.Context, source string, criteria *entity.SearchCriteria, apiKey string) *sourceOutcome {
	prov, ok := s.providers.Provider(source)
	if !ok {
		return &sourceOutcome{err: ErrUnknownSource}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := prov.Search(callCtx, criteria, apiKey)
	if err != nil {
		// A timeout degrades the same way any provider failure does.
		return &sourceOutcome{err: err}
	}

	items := result.Items
	if items == nil {
		items = make([]entity.SearchOpportunitySlim, 0)
	}

	return &sourceOutcome{items: items, total: result.Total}
}

func setSourceError(page *entity.SearchResultPage, source string, message string) {
	switch source {
	case common.SourceSamGov:
		page.SamGovError = message
	case common.SourceDibbs:
		page.DibbsError = message
	}
}

func setSourceTotal(page *entity.SearchResultPage, source string, total int) {
	switch source {
	case common.SourceSamGov:
		page.TotalSamGov = total
	case common.SourceDibbs:
		page.TotalDibbs = total
	}
}
