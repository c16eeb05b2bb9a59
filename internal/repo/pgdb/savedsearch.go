package pgdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/repo/repo_errors"
	"opportunity-search-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SavedSearchRepo struct {
	*postgres.Postgres
}

func NewSavedSearchRepo(pgdb *postgres.Postgres) *SavedSearchRepo {
	return &SavedSearchRepo{pgdb}
}

const savedSearchColumns = "id, org_id, source, name, project_id, criteria, frequency, auto_import, notify_emails, is_enabled, created_at, updated_at"

func (r *SavedSearchRepo) CreateSavedSearch(ctx context.Context, input *entity.CreateSavedSearchInput) (uuid.UUID, error) {
	criteria, err := json.Marshal(input.Criteria)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	sqlReq, args, _ := r.SqlBuilder.
		Insert("saved_search").
		Columns("id", "org_id", "source", "name", "project_id", "criteria", "frequency", "auto_import", "notify_emails", "is_enabled").
		Values(id, input.OrgId, input.Source, input.Name, input.ProjectId, criteria,
			input.Frequency, input.AutoImport, pq.Array(input.NotifyEmails), input.IsEnabled).
		ToSql()

	if _, err := r.Database.ExecContext(ctx, sqlReq, args...); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *SavedSearchRepo) GetSavedSearchById(ctx context.Context, id string) (*entity.SavedSearch, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(savedSearchColumns).
		From("saved_search").
		Where("id = ?", uuidForm).
		ToSql()

	row := r.Database.QueryRowContext(ctx, sqlReq, args...)
	s, err := scanSavedSearch(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return s, nil
}

func (r *SavedSearchRepo) ListSavedSearches(ctx context.Context, orgId string, source string, pg *entity.PaginationInput) ([]entity.SavedSearch, error) {
	builder := r.SqlBuilder.
		Select(savedSearchColumns).
		From("saved_search").
		Where("org_id = ?", orgId).
		OrderBy("created_at desc").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset))
	if source != "" {
		builder = builder.Where("source = ?", source)
	}

	sqlReq, args, _ := builder.ToSql()

	return r.querySavedSearches(ctx, sqlReq, args)
}

func (r *SavedSearchRepo) ListEnabledSavedSearches(ctx context.Context, frequency string, pg *entity.PaginationInput) ([]entity.SavedSearch, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(savedSearchColumns).
		From("saved_search").
		Where("is_enabled = true and frequency = ?", frequency).
		OrderBy("created_at").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.querySavedSearches(ctx, sqlReq, args)
}

func (r *SavedSearchRepo) UpdateSavedSearch(ctx context.Context, id string, s *entity.SavedSearch) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	criteria, err := json.Marshal(s.Criteria)
	if err != nil {
		return err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Update("saved_search").
		Set("name", s.Name).
		Set("project_id", s.ProjectId).
		Set("criteria", criteria).
		Set("frequency", s.Frequency).
		Set("auto_import", s.AutoImport).
		Set("notify_emails", pq.Array(s.NotifyEmails)).
		Set("is_enabled", s.IsEnabled).
		Set("updated_at", time.Now()).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, sqlReq, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *SavedSearchRepo) DeleteSavedSearch(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	sqlReq, args, _ := r.SqlBuilder.
		Delete("saved_search").
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, sqlReq, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *SavedSearchRepo) querySavedSearches(ctx context.Context, sqlReq string, args []interface{}) ([]entity.SavedSearch, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	searches := make([]entity.SavedSearch, 0)
	for rows.Next() {
		s, err := scanSavedSearch(rows.Scan)
		if err != nil {
			return nil, err
		}
		searches = append(searches, *s)
	}

	return searches, rows.Err()
}

func scanSavedSearch(scan func(dest ...interface{}) error) (*entity.SavedSearch, error) {
	var s entity.SavedSearch
	var criteria []byte
	var createdAt, updatedAt time.Time

	err := scan(&s.Id, &s.OrgId, &s.Source, &s.Name, &s.ProjectId, &criteria,
		&s.Frequency, &s.AutoImport, pq.Array(&s.NotifyEmails), &s.IsEnabled, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(criteria, &s.Criteria); err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Format(time.RFC3339)
	s.UpdatedAt = updatedAt.Format(time.RFC3339)

	return &s, nil
}
