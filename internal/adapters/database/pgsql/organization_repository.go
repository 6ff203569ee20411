package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	portsrepo "github.com/bizcoreapp/bizcore_backend/internal/core/ports/repositories"
	"github.com/bizcoreapp/bizcore_backend/internal/models"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/mapping"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/pagination"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether the error is a unique constraint breach.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

type PgxOrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewPgxOrganizationRepository creates a new repository for organization data.
func NewPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{pool: pool}
}

func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	m := mapping.ToModelOrganization(org)
	query := `
		INSERT INTO organizations (organization_id, name, code, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.OrganizationID,
		m.Name,
		m.Code,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("organization code %s: %w", m.Code, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert organization %s: %w", m.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `
		SELECT organization_id, name, code, status, created_at, created_by, last_updated_at, last_updated_by
		FROM organizations
		WHERE organization_id = $1;
	`
	var m models.Organization
	err := r.pool.QueryRow(ctx, query, organizationID).Scan(
		&m.OrganizationID,
		&m.Name,
		&m.Code,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find organization by ID %s: %w", organizationID, err)
	}
	org := mapping.ToDomainOrganization(m)
	return &org, nil
}

// ListOrganizations pages through tenants with a keyset on (created_at, id).
func (r *PgxOrganizationRepository) ListOrganizations(ctx context.Context, limit int, nextToken *string) ([]domain.Organization, *string, error) {
	query := `
		SELECT organization_id, name, code, status, created_at, created_by, last_updated_at, last_updated_by
		FROM organizations
	`
	args := []any{}
	if nextToken != nil && *nextToken != "" {
		createdAt, rowID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (created_at, organization_id) < ($1, $2)`
		args = append(args, createdAt, rowID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, organization_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	ms := []models.Organization{}
	for rows.Next() {
		var m models.Organization
		if err := rows.Scan(
			&m.OrganizationID,
			&m.Name,
			&m.Code,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan organization row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating organization rows: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.OrganizationID)
		token = &t
	}
	return mapping.ToDomainOrganizationSlice(ms), token, nil
}

func (r *PgxOrganizationRepository) UpdateOrganizationStatus(ctx context.Context, organizationID string, status domain.LifecycleStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE organizations
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, organizationID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update organization status %s: %w", organizationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
