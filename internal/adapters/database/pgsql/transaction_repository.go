package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bizcoreapp/bizcore_backend/internal/apperrors"
	"github.com/bizcoreapp/bizcore_backend/internal/core/domain"
	portsrepo "github.com/bizcoreapp/bizcore_backend/internal/core/ports/repositories"
	"github.com/bizcoreapp/bizcore_backend/internal/models"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/mapping"
	"github.com/bizcoreapp/bizcore_backend/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTransactionRepository creates a new repository for transaction header and line data.
func NewPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{pool: pool}
}

const transactionColumns = `transaction_id, organization_id, transaction_type, transaction_code, smart_code, transaction_date, source_entity_id, target_entity_id, total_amount, status, reference_number, metadata, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, transaction_id, line_number, line_type, line_entity_id, quantity, unit_amount, line_amount, smart_code, line_data, created_at, created_by, last_updated_at, last_updated_by`

const insertLineQuery = `
	INSERT INTO transaction_lines (` + lineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.OrganizationID,
		&m.TransactionType,
		&m.TransactionCode,
		&m.SmartCode,
		&m.TransactionDate,
		&m.SourceEntityID,
		&m.TargetEntityID,
		&m.TotalAmount,
		&m.Status,
		&m.ReferenceNumber,
		&m.Metadata,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func lineArgs(m models.TransactionLine) []any {
	return []any{
		m.LineID,
		m.TransactionID,
		m.LineNumber,
		m.LineType,
		m.LineEntityID,
		m.Quantity,
		m.UnitAmount,
		m.LineAmount,
		m.SmartCode,
		m.LineData,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveTransaction saves a header and its lines within a DB transaction so a
// partial line set is never visible.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, lines []domain.TransactionLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	m := mapping.ToModelTransaction(txn)
	headerQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.TransactionID,
		m.OrganizationID,
		m.TransactionType,
		m.TransactionCode,
		m.SmartCode,
		m.TransactionDate,
		m.SourceEntityID,
		m.TargetEntityID,
		m.TotalAmount,
		m.Status,
		m.ReferenceNumber,
		m.Metadata,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s: %w", m.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(insertLineQuery, lineArgs(mapping.ToModelTransactionLine(line))...)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s line numbers: %w", m.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute line batch for transaction %s: %w", m.TransactionID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *PgxTransactionRepository) FindLinesByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionLine, error) {
	query := `SELECT ` + lineColumns + ` FROM transaction_lines WHERE transaction_id = $1 ORDER BY line_number;`
	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	ms := []models.TransactionLine{}
	for rows.Next() {
		var m models.TransactionLine
		if err := rows.Scan(
			&m.LineID,
			&m.TransactionID,
			&m.LineNumber,
			&m.LineType,
			&m.LineEntityID,
			&m.Quantity,
			&m.UnitAmount,
			&m.LineAmount,
			&m.SmartCode,
			&m.LineData,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row for transaction %s: %w", transactionID, err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for transaction %s: %w", transactionID, err)
	}
	return mapping.ToDomainTransactionLineSlice(ms), nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, organizationID string, filters portsrepo.TransactionListFilters, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE organization_id = $1`
	args := []any{organizationID}

	if filters.TransactionType != "" {
		args = append(args, filters.TransactionType)
		query += fmt.Sprintf(` AND transaction_type = $%d`, len(args))
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
		query += fmt.Sprintf(` AND (created_at, transaction_id) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT $%d;`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	ms := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &t
	}
	return mapping.ToDomainTransactionSlice(ms), token, nil
}

// ListRecentTransactions returns headers dated on or after since, newest
// first. Feeds duplicate scoring, so no pagination token.
func (r *PgxTransactionRepository) ListRecentTransactions(ctx context.Context, organizationID string, since time.Time, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE organization_id = $1 AND transaction_date >= $2 AND status <> 'cancelled'
		ORDER BY transaction_date DESC, transaction_id DESC
		LIMIT $3;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transactions for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	ms := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

// AppendLines inserts lines under the locked header and refreshes the header
// total in the same database transaction. The FOR UPDATE lock serializes
// concurrent appends against the same header.
func (r *PgxTransactionRepository) AppendLines(ctx context.Context, transactionID string, lines []domain.TransactionLine, newTotalAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var lockedID string
	err = tx.QueryRow(ctx, `SELECT transaction_id FROM transactions WHERE transaction_id = $1 FOR UPDATE;`, transactionID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(insertLineQuery, lineArgs(mapping.ToModelTransactionLine(line))...)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s line numbers: %w", transactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute line batch for transaction %s: %w", transactionID, err)
	}

	updateQuery := `
		UPDATE transactions
		SET total_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, transactionID, newTotalAmount, updatedAt, updatedBy); err != nil {
		return fmt.Errorf("failed to update total for transaction %s: %w", transactionID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit line append for transaction %s: %w", transactionID, err)
	}
	return nil
}

// UpdateTransactionStatus moves the header status. A non-nil metadata
// replaces the stored blob; nil keeps it untouched.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, metadata json.RawMessage, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, metadata = COALESCE($3, metadata), last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, transactionID, string(status), metadata, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update transaction status %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// HardDeleteTransaction removes the header and its lines in one database
// transaction.
func (r *PgxTransactionRepository) HardDeleteTransaction(ctx context.Context, transactionID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to delete lines for transaction %s: %w", transactionID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction delete for %s: %w", transactionID, err)
	}
	return nil
}
