package service

import (
	"opportunity-search-api/internal/entity"
)

// mapSavedSearch converts a stored saved search into its output model,
// rewriting criteria dates from the persisted provider-native format back to
// internal ISO so clients round-trip the values they submitted.
func mapSavedSearch(s *entity.SavedSearch) (*entity.SavedSearchOutputModel, error) {
	criteria, err := s.Criteria.WithInternalDates()
	if err != nil {
		return nil, err
	}

	emails := s.NotifyEmails
	if emails == nil {
		emails = make([]string, 0)
	}

	return &entity.SavedSearchOutputModel{
		SavedSearchId: s.Id.String(),
		OrgId:         s.OrgId,
		Source:        s.Source,
		Name:          s.Name,
		ProjectId:     s.ProjectId,
		Criteria:      *criteria,
		Frequency:     s.Frequency,
		AutoImport:    s.AutoImport,
		NotifyEmails:  emails,
		IsEnabled:     s.IsEnabled,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}, nil
}

func mapSavedSearches(searches []entity.SavedSearch) ([]entity.SavedSearchOutputModel, error) {
	out := make([]entity.SavedSearchOutputModel, 0, len(searches))
	for i := range searches {
		m, err := mapSavedSearch(&searches[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}

	return out, nil
}
