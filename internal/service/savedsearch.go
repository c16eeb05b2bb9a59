package service

import (
	"context"
	"errors"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/repo"
	"opportunity-search-api/internal/repo/repo_errors"
)

type SavedSearchService struct {
	savedSearchRepo repo.SavedSearch
}

func NewSavedSearchService(savedSearchRepo repo.SavedSearch) *SavedSearchService {
	return &SavedSearchService{savedSearchRepo: savedSearchRepo}
}

// CreateSavedSearch validates the criteria with the same gate the aggregator
// uses, then persists them with provider-native dates.
func (s *SavedSearchService) CreateSavedSearch(ctx context.Context, input *entity.CreateSavedSearchInput) (*entity.SavedSearchOutputModel, error) {
	if !common.IsKnownSource(input.Source) {
		return nil, ErrUnknownSource
	}
	if err := validateFrequency(input.Frequency); err != nil {
		return nil, err
	}
	if err := validateCriteria(&input.Criteria); err != nil {
		return nil, err
	}

	native, err := input.Criteria.WithProviderDates()
	if err != nil {
		return nil, ErrInvalidDate
	}

	stored := *input
	stored.Criteria = *native

	id, err := s.savedSearchRepo.CreateSavedSearch(ctx, &stored)
	if err != nil {
		return nil, err
	}

	saved, err := s.savedSearchRepo.GetSavedSearchById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapSavedSearch(saved)
}

func (s *SavedSearchService) ListSavedSearches(ctx context.Context, orgId string, source string, pg *entity.PaginationInput) ([]entity.SavedSearchOutputModel, error) {
	if source != "" && !common.IsKnownSource(source) {
		return nil, ErrUnknownSource
	}

	searches, err := s.savedSearchRepo.ListSavedSearches(ctx, orgId, source, pg)
	if err != nil {
		return nil, err
	}

	return mapSavedSearches(searches)
}

// EditSavedSearch merges the patch over the stored record; omitted fields
// keep their prior values. The merged criteria pass the shared validation
// gate before anything is written.
func (s *SavedSearchService) EditSavedSearch(ctx context.Context, id string, patch *entity.PatchSavedSearchInput) (*entity.SavedSearchOutputModel, error) {
	stored, err := s.savedSearchRepo.GetSavedSearchById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrSavedSearchNotFound
		}

		return nil, err
	}

	if patch.Name != nil {
		stored.Name = *patch.Name
	}
	if patch.ProjectId != nil {
		stored.ProjectId = *patch.ProjectId
	}
	if patch.Frequency != nil {
		if err := validateFrequency(*patch.Frequency); err != nil {
			return nil, err
		}
		stored.Frequency = *patch.Frequency
	}
	if patch.AutoImport != nil {
		stored.AutoImport = *patch.AutoImport
	}
	if patch.NotifyEmails != nil {
		stored.NotifyEmails = *patch.NotifyEmails
	}
	if patch.IsEnabled != nil {
		stored.IsEnabled = *patch.IsEnabled
	}
	if patch.Criteria != nil {
		if err := validateCriteria(patch.Criteria); err != nil {
			return nil, err
		}
		native, err := patch.Criteria.WithProviderDates()
		if err != nil {
			return nil, ErrInvalidDate
		}
		stored.Criteria = *native
	}

	if err := s.savedSearchRepo.UpdateSavedSearch(ctx, id, stored); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrSavedSearchNotFound
		}

		return nil, err
	}

	updated, err := s.savedSearchRepo.GetSavedSearchById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapSavedSearch(updated)
}

func (s *SavedSearchService) DeleteSavedSearch(ctx context.Context, id string) error {
	err := s.savedSearchRepo.DeleteSavedSearch(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrSavedSearchNotFound
		}

		return err
	}

	return nil
}
