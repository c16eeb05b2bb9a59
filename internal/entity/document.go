package entity

import (
	"github.com/google/uuid"
)

// db model. One row per staged attachment; the
// (org, project, source, opportunity, attachment) tuple is unique so a
// re-import can never duplicate a document.
type Document struct {
	Id            uuid.UUID `db:"id"`
	OrgId         string    `db:"org_id"`
	ProjectId     string    `db:"project_id"`
	Source        string    `db:"source"`
	OpportunityId string    `db:"opportunity_id"`
	AttachmentId  string    `db:"attachment_id"`
	Filename      string    `db:"filename"`
	ObjectKey     string    `db:"object_key"`
	ContentType   string    `db:"content_type"`
	CreatedAt     string    `db:"created_at"`
}

// service + repo input model
type CreateDocumentInput struct {
	OrgId         string
	ProjectId     string
	Source        string
	OpportunityId string
	AttachmentId  string
	Filename      string
	ObjectKey     string
	ContentType   string
}

// service input model for one import call
type ImportInput struct {
	OrgId         string
	ProjectId     string
	Source        string
	OpportunityId string
	PostedFrom    string // internal ISO date
	PostedTo      string // internal ISO date
}

// controller model
type ImportResultOutputModel struct {
	Imported int `json:"imported"`
}
