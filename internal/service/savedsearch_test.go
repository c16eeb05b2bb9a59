package service

import (
	"context"
	"testing"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateInput() *entity.CreateSavedSearchInput {
	return &entity.CreateSavedSearchInput{
		OrgId:     "org-1",
		Source:    common.SourceSamGov,
		Name:      "cloud watch",
		ProjectId: "proj-1",
		Criteria: entity.SearchCriteria{
			Keywords:   "cloud",
			PostedFrom: "2025-01-01",
			PostedTo:   "2025-01-31",
			Limit:      25,
		},
		Frequency:    common.FrequencyDaily,
		AutoImport:   true,
		NotifyEmails: []string{"capture@example.com"},
		IsEnabled:    true,
	}
}

func TestCreateSavedSearchStoresProviderDatesAndReturnsISO(t *testing.T) {
	repo := newFakeSavedSearchRepo()
	svc := NewSavedSearchService(repo)

	out, err := svc.CreateSavedSearch(context.Background(), validCreateInput())
	require.NoError(t, err)

	// client sees the ISO values it submitted
	assert.Equal(t, "2025-01-01", out.Criteria.PostedFrom)
	assert.Equal(t, "2025-01-31", out.Criteria.PostedTo)

	// storage holds the provider-native form
	stored, err := repo.GetSavedSearchById(context.Background(), out.SavedSearchId)
	require.NoError(t, err)
	assert.Equal(t, "01/01/2025", stored.Criteria.PostedFrom)
	assert.Equal(t, "01/31/2025", stored.Criteria.PostedTo)
}

func TestCreateSavedSearchRejectsWhatTheAggregatorWouldReject(t *testing.T) {
	repo := newFakeSavedSearchRepo()
	svc := NewSavedSearchService(repo)

	input := validCreateInput()
	input.Criteria.PostedFrom = "2025-02-01"
	input.Criteria.PostedTo = "2025-01-01"

	_, err := svc.CreateSavedSearch(context.Background(), input)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	searches, listErr := repo.ListSavedSearches(context.Background(), "org-1", "", entity.NewPaginationInput(10, 0))
	require.NoError(t, listErr)
	assert.Empty(t, searches)
}

func TestCreateSavedSearchRejectsUnknownSourceAndFrequency(t *testing.T) {
	svc := NewSavedSearchService(newFakeSavedSearchRepo())

	input := validCreateInput()
	input.Source = "EBAY"
	_, err := svc.CreateSavedSearch(context.Background(), input)
	assert.ErrorIs(t, err, ErrUnknownSource)

	input = validCreateInput()
	input.Frequency = "MONTHLY"
	_, err = svc.CreateSavedSearch(context.Background(), input)
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func TestEditSavedSearchMergesPartially(t *testing.T) {
	repo := newFakeSavedSearchRepo()
	svc := NewSavedSearchService(repo)

	created, err := svc.CreateSavedSearch(context.Background(), validCreateInput())
	require.NoError(t, err)

	newName := "renamed"
	enabled := false
	out, err := svc.EditSavedSearch(context.Background(), created.SavedSearchId, &entity.PatchSavedSearchInput{
		Name:      &newName,
		IsEnabled: &enabled,
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", out.Name)
	assert.False(t, out.IsEnabled)
	// untouched fields keep their prior values
	assert.Equal(t, common.FrequencyDaily, out.Frequency)
	assert.True(t, out.AutoImport)
	assert.Equal(t, "2025-01-01", out.Criteria.PostedFrom)
	assert.Equal(t, "cloud", out.Criteria.Keywords)
}

func TestEditSavedSearchValidatesPatchedCriteria(t *testing.T) {
	repo := newFakeSavedSearchRepo()
	svc := NewSavedSearchService(repo)

	created, err := svc.CreateSavedSearch(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = svc.EditSavedSearch(context.Background(), created.SavedSearchId, &entity.PatchSavedSearchInput{
		Criteria: &entity.SearchCriteria{PostedFrom: "2025-03-01", PostedTo: "2025-02-01"},
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	// stored criteria unchanged
	unchanged, err := svc.EditSavedSearch(context.Background(), created.SavedSearchId, &entity.PatchSavedSearchInput{})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", unchanged.Criteria.PostedFrom)
}

func TestEditSavedSearchNotFound(t *testing.T) {
	svc := NewSavedSearchService(newFakeSavedSearchRepo())

	name := "x"
	_, err := svc.EditSavedSearch(context.Background(), "11111111-2222-3333-4444-555555555555", &entity.PatchSavedSearchInput{Name: &name})
	assert.ErrorIs(t, err, ErrSavedSearchNotFound)
}

func TestDeleteSavedSearch(t *testing.T) {
	repo := newFakeSavedSearchRepo()
	svc := NewSavedSearchService(repo)

	created, err := svc.CreateSavedSearch(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSavedSearch(context.Background(), created.SavedSearchId))
	assert.ErrorIs(t, svc.DeleteSavedSearch(context.Background(), created.SavedSearchId), ErrSavedSearchNotFound)
}
