package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	portsrepo "github.com/bizcoreapp/bizcore_backend/internal/core/ports/repositories"
	"github.com/bizcoreapp/bizcore_backend/internal/models"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/mapping"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/pagination"
)

type PgxEntityRepository struct {
	pool *pgxpool.Pool
}

// NewPgxEntityRepository creates a new repository for entity and dynamic field data.
func NewPgxEntityRepository(pool *pgxpool.Pool) portsrepo.EntityRepositoryFacade {
	return &PgxEntityRepository{pool: pool}
}

const entityColumns = `entity_id, organization_id, entity_type, entity_name, entity_code, smart_code, status, parent_entity_id, created_at, created_by, last_updated_at, last_updated_by`

func scanEntity(row pgx.Row) (models.Entity, error) {
	var m models.Entity
	err := row.Scan(
		&m.EntityID,
		&m.OrganizationID,
		&m.EntityType,
		&m.EntityName,
		&m.EntityCode,
		&m.SmartCode,
		&m.Status,
		&m.ParentEntityID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	m := mapping.ToModelEntity(entity)
	query := `
		INSERT INTO entities (` + entityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		m.EntityID,
		m.OrganizationID,
		m.EntityType,
		m.EntityName,
		m.EntityCode,
		m.SmartCode,
		m.Status,
		m.ParentEntityID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("entity %s: %w", m.EntityID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert entity %s: %w", m.EntityID, err)
	}
	return nil
}

func (r *PgxEntityRepository) UpdateEntity(ctx context.Context, entity domain.Entity) error {
	m := mapping.ToModelEntity(entity)
	query := `
		UPDATE entities
		SET entity_type = $2, entity_name = $3, entity_code = $4, smart_code = $5, parent_entity_id = $6, last_updated_at = $7, last_updated_by = $8
		WHERE entity_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.EntityID,
		m.EntityType,
		m.EntityName,
		m.EntityCode,
		m.SmartCode,
		m.ParentEntityID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update entity %s: %w", m.EntityID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE entity_id = $1;`
	m, err := scanEntity(r.pool.QueryRow(ctx, query, entityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entity by ID %s: %w", entityID, err)
	}
	entity := mapping.ToDomainEntity(m)
	return &entity, nil
}

// ListEntities pages through an organization's entities, newest first, with
// optional filters applied in SQL so the tenant scope never widens.
func (r *PgxEntityRepository) ListEntities(ctx context.Context, organizationID string, filters portsrepo.EntityListFilters, limit int, nextToken *string) ([]domain.Entity, *string, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE organization_id = $1`
	args := []any{organizationID}

	if filters.EntityType != "" {
		args = append(args, filters.EntityType)
		query += fmt.Sprintf(` AND entity_type = $%d`, len(args))
	}
	if filters.Status != "" {
		args = append(args, string(filters.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filters.SmartCode != "" {
		args = append(args, filters.SmartCode)
		query += fmt.Sprintf(` AND smart_code = $%d`, len(args))
	}
	if nextToken != nil && *nextToken != "" {
		createdAt, rowID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, createdAt, rowID)
		query += fmt.Sprintf(` AND (created_at, entity_id) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY created_at DESC, entity_id DESC LIMIT $%d;`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entities for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	ms := []models.Entity{}
	for rows.Next() {
		m, err := scanEntity(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entity row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entity rows: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.EntityID)
		token = &t
	}
	return mapping.ToDomainEntitySlice(ms), token, nil
}

func (r *PgxEntityRepository) UpdateEntityStatus(ctx context.Context, entityID string, status domain.LifecycleStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE entities
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entity_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, entityID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update entity status %s: %w", entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// HardDeleteEntity removes the entity and its dynamic fields in one
// database transaction.
func (r *PgxEntityRepository) HardDeleteEntity(ctx context.Context, entityID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM dynamic_fields WHERE entity_id = $1;`, entityID); err != nil {
		return fmt.Errorf("failed to delete dynamic fields for entity %s: %w", entityID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM entities WHERE entity_id = $1;`, entityID)
	if err != nil {
		return fmt.Errorf("failed to delete entity %s: %w", entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit entity delete for %s: %w", entityID, err)
	}
	return nil
}

const dynamicFieldColumns = `field_id, organization_id, entity_id, field_name, field_type, value_text, value_number, value_boolean, value_date, value_json, smart_code, created_at, created_by, last_updated_at, last_updated_by`

const upsertDynamicFieldQuery = `
	INSERT INTO dynamic_fields (` + dynamicFieldColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (entity_id, field_name) DO UPDATE
	SET field_type = EXCLUDED.field_type,
		value_text = EXCLUDED.value_text,
		value_number = EXCLUDED.value_number,
		value_boolean = EXCLUDED.value_boolean,
		value_date = EXCLUDED.value_date,
		value_json = EXCLUDED.value_json,
		smart_code = EXCLUDED.smart_code,
		last_updated_at = EXCLUDED.last_updated_at,
		last_updated_by = EXCLUDED.last_updated_by;
`

func dynamicFieldArgs(m models.DynamicField) []any {
	return []any{
		m.FieldID,
		m.OrganizationID,
		m.EntityID,
		m.FieldName,
		m.FieldType,
		m.ValueText,
		m.ValueNumber,
		m.ValueBoolean,
		m.ValueDate,
		m.ValueJSON,
		m.SmartCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// UpsertDynamicField writes one attribute value; last write wins on the
// (entity_id, field_name) key.
func (r *PgxEntityRepository) UpsertDynamicField(ctx context.Context, field domain.DynamicField) error {
	m := mapping.ToModelDynamicField(field)
	if _, err := r.pool.Exec(ctx, upsertDynamicFieldQuery, dynamicFieldArgs(m)...); err != nil {
		return fmt.Errorf("failed to upsert dynamic field %s for entity %s: %w", m.FieldName, m.EntityID, err)
	}
	return nil
}

// UpsertDynamicFieldsBatch applies every field within one database
// transaction using a pgx batch.
func (r *PgxEntityRepository) UpsertDynamicFieldsBatch(ctx context.Context, fields []domain.DynamicField) error {
	if len(fields) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, field := range fields {
		batch.Queue(upsertDynamicFieldQuery, dynamicFieldArgs(mapping.ToModelDynamicField(field))...)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute dynamic field batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit dynamic field batch: %w", err)
	}
	return nil
}

func scanDynamicField(row pgx.Row) (models.DynamicField, error) {
	var m models.DynamicField
	err := row.Scan(
		&m.FieldID,
		&m.OrganizationID,
		&m.EntityID,
		&m.FieldName,
		&m.FieldType,
		&m.ValueText,
		&m.ValueNumber,
		&m.ValueBoolean,
		&m.ValueDate,
		&m.ValueJSON,
		&m.SmartCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxEntityRepository) FindDynamicField(ctx context.Context, entityID string, fieldName string) (*domain.DynamicField, error) {
	query := `SELECT ` + dynamicFieldColumns + ` FROM dynamic_fields WHERE entity_id = $1 AND field_name = $2;`
	m, err := scanDynamicField(r.pool.QueryRow(ctx, query, entityID, fieldName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find dynamic field %s for entity %s: %w", fieldName, entityID, err)
	}
	field := mapping.ToDomainDynamicField(m)
	return &field, nil
}

func (r *PgxEntityRepository) ListDynamicFields(ctx context.Context, entityID string) ([]domain.DynamicField, error) {
	query := `SELECT ` + dynamicFieldColumns + ` FROM dynamic_fields WHERE entity_id = $1 ORDER BY field_name;`
	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dynamic fields for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	ms := []models.DynamicField{}
	for rows.Next() {
		m, err := scanDynamicField(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dynamic field row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dynamic field rows: %w", err)
	}
	return mapping.ToDomainDynamicFieldSlice(ms), nil
}
