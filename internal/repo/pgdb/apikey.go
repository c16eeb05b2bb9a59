package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/repo/repo_errors"
	"opportunity-search-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

type ApiKeyRepo struct {
	*postgres.Postgres
}

func NewApiKeyRepo(pgdb *postgres.Postgres) *ApiKeyRepo {
	return &ApiKeyRepo{pgdb}
}

func (r *ApiKeyRepo) GetKey(ctx context.Context, orgId string, source string) (*entity.SourceKey, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("org_id, source, api_key, updated_at").
		From("source_api_key").
		Where("org_id = ? and source = ?", orgId, source).
		ToSql()

	var key entity.SourceKey
	var updatedAt time.Time
	err := r.Database.QueryRowContext(ctx, sqlReq, args...).
		Scan(&key.OrgId, &key.Source, &key.ApiKey, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	key.UpdatedAt = updatedAt.Format(time.RFC3339)

	return &key, nil
}

func (r *ApiKeyRepo) UpsertKey(ctx context.Context, orgId string, source string, apiKey string) error {
	sqlReq, args, _ := r.SqlBuilder.
		Insert("source_api_key").
		Columns("org_id", "source", "api_key", "updated_at").
		Values(orgId, source, apiKey, squirrel.Expr("now()")).
		Suffix("on conflict (org_id, source) do update set api_key = excluded.api_key, updated_at = now()").
		ToSql()

	_, err := r.Database.ExecContext(ctx, sqlReq, args...)
	if err != nil {
		return err
	}

	return nil
}
