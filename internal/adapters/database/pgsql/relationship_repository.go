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

type PgxRelationshipRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRelationshipRepository creates a new repository for relationship data.
func NewPgxRelationshipRepository(pool *pgxpool.Pool) portsrepo.RelationshipRepositoryFacade {
	return &PgxRelationshipRepository{pool: pool}
}

const relationshipColumns = `relationship_id, organization_id, from_entity_id, to_entity_id, relationship_type, relationship_data, smart_code, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanRelationship(row pgx.Row) (models.Relationship, error) {
	var m models.Relationship
	err := row.Scan(
		&m.RelationshipID,
		&m.OrganizationID,
		&m.FromEntityID,
		&m.ToEntityID,
		&m.RelationshipType,
		&m.RelationshipData,
		&m.SmartCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxRelationshipRepository) SaveRelationship(ctx context.Context, rel domain.Relationship) error {
	m := mapping.ToModelRelationship(rel)
	query := `
		INSERT INTO relationships (` + relationshipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		m.RelationshipID,
		m.OrganizationID,
		m.FromEntityID,
		m.ToEntityID,
		m.RelationshipType,
		m.RelationshipData,
		m.SmartCode,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("relationship %s: %w", m.RelationshipID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert relationship %s: %w", m.RelationshipID, err)
	}
	return nil
}

func (r *PgxRelationshipRepository) FindRelationshipByID(ctx context.Context, relationshipID string) (*domain.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE relationship_id = $1;`
	m, err := scanRelationship(r.pool.QueryRow(ctx, query, relationshipID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find relationship by ID %s: %w", relationshipID, err)
	}
	rel := mapping.ToDomainRelationship(m)
	return &rel, nil
}

func (r *PgxRelationshipRepository) ListRelationships(ctx context.Context, organizationID string, filters portsrepo.RelationshipListFilters, limit int, nextToken *string) ([]domain.Relationship, *string, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE organization_id = $1`
	args := []any{organizationID}

	if filters.FromEntityID != "" {
		args = append(args, filters.FromEntityID)
		query += fmt.Sprintf(` AND from_entity_id = $%d`, len(args))
	}
	if filters.ToEntityID != "" {
		args = append(args, filters.ToEntityID)
		query += fmt.Sprintf(` AND to_entity_id = $%d`, len(args))
	}
	if filters.RelationshipType != "" {
		args = append(args, filters.RelationshipType)
		query += fmt.Sprintf(` AND relationship_type = $%d`, len(args))
	}
	if filters.ActiveOnly {
		query += ` AND is_active = TRUE`
	}
	if nextToken != nil && *nextToken != "" {
		createdAt, rowID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, createdAt, rowID)
		query += fmt.Sprintf(` AND (created_at, relationship_id) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY created_at DESC, relationship_id DESC LIMIT $%d;`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query relationships for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	ms := []models.Relationship{}
	for rows.Next() {
		m, err := scanRelationship(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan relationship row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating relationship rows: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.RelationshipID)
		token = &t
	}
	return mapping.ToDomainRelationshipSlice(ms), token, nil
}

func (r *PgxRelationshipRepository) DeactivateRelationship(ctx context.Context, relationshipID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE relationships
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE relationship_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, relationshipID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate relationship %s: %w", relationshipID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateRelationshipsForEntity dissolves every active edge touching the
// entity on either side. Zero affected rows is fine.
func (r *PgxRelationshipRepository) DeactivateRelationshipsForEntity(ctx context.Context, organizationID string, entityID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE relationships
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1
		  AND (from_entity_id = $2 OR to_entity_id = $2)
		  AND is_active = TRUE;
	`
	if _, err := r.pool.Exec(ctx, query, organizationID, entityID, updatedAt, updatedBy); err != nil {
		return fmt.Errorf("failed to deactivate relationships for entity %s: %w", entityID, err)
	}
	return nil
}

func (r *PgxRelationshipRepository) HasActiveRelationships(ctx context.Context, organizationID string, entityID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM relationships
			WHERE organization_id = $1
			  AND (from_entity_id = $2 OR to_entity_id = $2)
			  AND is_active = TRUE
		);
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, organizationID, entityID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active relationships for entity %s: %w", entityID, err)
	}
	return exists, nil
}
