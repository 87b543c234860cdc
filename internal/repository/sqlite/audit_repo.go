package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cotizadorapp/internal/domain"
	"cotizadorapp/internal/repository"
)

// AuditRepo implements repository.AuditRepository
type AuditRepo struct {
	db *DB
}

// NewAuditRepo creates a new AuditRepo
func NewAuditRepo(db *DB) repository.AuditRepository {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	query := `INSERT INTO audit_log (user_email, action, record_id, detail) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, entry.UserEmail, entry.Action, entry.RecordID, entry.Detail)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get audit entry ID: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns a page of audit entries, newest first, plus the total
// count matching the filter.
func (r *AuditRepo) List(ctx context.Context, filter repository.AuditFilter, page, pageSize int) ([]domain.AuditEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}

	var conds []string
	var args []any
	if filter.Start != "" {
		conds = append(conds, `timestamp >= ?`)
		args = append(args, filter.Start)
	}
	if filter.End != "" {
		conds = append(conds, `timestamp <= ?`)
		args = append(args, filter.End)
	}
	if filter.UserEmail != "" {
		conds = append(conds, `user_email LIKE ?`)
		args = append(args, "%"+filter.UserEmail+"%")
	}
	if filter.RecordID > 0 {
		conds = append(conds, `record_id = ?`)
		args = append(args, filter.RecordID)
	}
	if filter.Action != "" {
		conds = append(conds, `action = ?`)
		args = append(args, filter.Action)
	}

	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := `SELECT id, timestamp, user_email, action, record_id, detail FROM audit_log` +
		where + ` ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.UserEmail, &e.Action, &e.RecordID, &detail); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Detail = detail.String
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
