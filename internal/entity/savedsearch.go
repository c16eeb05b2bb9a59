package entity

import (
	"github.com/google/uuid"
)

// db model; Criteria is stored as jsonb with provider-native dates.
type SavedSearch struct {
	Id           uuid.UUID      `db:"id"`
	OrgId        string         `db:"org_id"`
	Source       string         `db:"source"`
	Name         string         `db:"name"`
	ProjectId    string         `db:"project_id"`
	Criteria     SearchCriteria `db:"criteria"`
	Frequency    string         `db:"frequency"`
	AutoImport   bool           `db:"auto_import"`
	NotifyEmails []string       `db:"notify_emails"`
	IsEnabled    bool           `db:"is_enabled"`
	CreatedAt    string         `db:"created_at"`
	UpdatedAt    string         `db:"updated_at"`
}

// service + repo input model
type CreateSavedSearchInput struct {
	OrgId        string
	Source       string
	Name         string
	ProjectId    string
	Criteria     SearchCriteria // given with internal ISO dates
	Frequency    string
	AutoImport   bool
	NotifyEmails []string
	IsEnabled    bool
}

// partial edit; nil fields keep their stored value
type PatchSavedSearchInput struct {
	Name         *string
	ProjectId    *string
	Criteria     *SearchCriteria
	Frequency    *string
	AutoImport   *bool
	NotifyEmails *[]string
	IsEnabled    *bool
}

// controller model; dates back in internal ISO form
type SavedSearchOutputModel struct {
	SavedSearchId string         `json:"savedSearchId"`
	OrgId         string         `json:"orgId"`
	Source        string         `json:"source"`
	Name          string         `json:"name"`
	ProjectId     string         `json:"projectId,omitempty"`
	Criteria      SearchCriteria `json:"criteria"`
	Frequency     string         `json:"frequency"`
	AutoImport    bool           `json:"autoImport"`
	NotifyEmails  []string       `json:"notifyEmails"`
	IsEnabled     bool           `json:"isEnabled"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
}
