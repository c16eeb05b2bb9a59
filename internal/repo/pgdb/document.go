package pgdb

import (
	"context"
	"errors"
	"time"

	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/repo/repo_errors"
	"opportunity-search-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres error code for unique_violation.
const pqUniqueViolation = "23505"

type DocumentRepo struct {
	*postgres.Postgres
}

func NewDocumentRepo(pgdb *postgres.Postgres) *DocumentRepo {
	return &DocumentRepo{pgdb}
}

// CreateDocument relies on the unique index over
// (org_id, project_id, source, opportunity_id, attachment_id): two concurrent
// imports of the same attachment race on the insert and exactly one wins, the
// other gets ErrAlreadyExists.
func (r *DocumentRepo) CreateDocument(ctx context.Context, input *entity.CreateDocumentInput) (uuid.UUID, error) {
	id := uuid.New()
	sqlReq, args, _ := r.SqlBuilder.
		Insert("document").
		Columns("id", "org_id", "project_id", "source", "opportunity_id", "attachment_id", "filename", "object_key", "content_type").
		Values(id, input.OrgId, input.ProjectId, input.Source, input.OpportunityId,
			input.AttachmentId, input.Filename, input.ObjectKey, input.ContentType).
		ToSql()

	if _, err := r.Database.ExecContext(ctx, sqlReq, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return uuid.Nil, repo_errors.ErrAlreadyExists
		}

		return uuid.Nil, err
	}

	return id, nil
}

func (r *DocumentRepo) ListDocumentsByOpportunity(ctx context.Context, orgId string, projectId string, source string, opportunityId string) ([]entity.Document, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("id, org_id, project_id, source, opportunity_id, attachment_id, filename, object_key, content_type, created_at").
		From("document").
		Where("org_id = ? and project_id = ? and source = ? and opportunity_id = ?",
			orgId, projectId, source, opportunityId).
		OrderBy("created_at").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := make([]entity.Document, 0)
	for rows.Next() {
		var d entity.Document
		var createdAt time.Time
		err := rows.Scan(&d.Id, &d.OrgId, &d.ProjectId, &d.Source, &d.OpportunityId,
			&d.AttachmentId, &d.Filename, &d.ObjectKey, &d.ContentType, &createdAt)
		if err != nil {
			return nil, err
		}
		d.CreatedAt = createdAt.Format(time.RFC3339)
		documents = append(documents, d)
	}

	return documents, rows.Err()
}
