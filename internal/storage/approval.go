package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
)

var _ service.ApprovalStore = (*SQLiteStorage)(nil)

// Get returns the stored metadata for a negotiation, or nil when none exists.
func (s *SQLiteStorage) Get(ctx context.Context, id int64) (*model.ApprovalMeta, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	var approval, rejection sql.NullString
	var reason string
	err := s.db.QueryRowContext(ctx, `
		SELECT approval_date, rejection_date, rejection_reason
		FROM approval_meta
		WHERE negotiation_id = ?
	`, id).Scan(&approval, &rejection, &reason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read approval metadata for %d: %w", id, err)
	}

	return scanMeta(approval, rejection, reason)
}

// Set replaces the stored metadata for a negotiation.
func (s *SQLiteStorage) Set(ctx context.Context, id int64, meta model.ApprovalMeta) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	if err := validateMeta(meta); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO approval_meta (negotiation_id, approval_date, rejection_date, rejection_reason)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(negotiation_id) DO UPDATE SET
			approval_date = excluded.approval_date,
			rejection_date = excluded.rejection_date,
			rejection_reason = excluded.rejection_reason
	`, id, nullDate(meta.ApprovalDate), nullDate(meta.RejectionDate), meta.RejectionReason)
	if err != nil {
		return fmt.Errorf("failed to save approval metadata for %d: %w", id, err)
	}
	return nil
}

// All returns every stored record keyed by negotiation id.
func (s *SQLiteStorage) All(ctx context.Context) (map[int64]model.ApprovalMeta, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT negotiation_id, approval_date, rejection_date, rejection_reason
		FROM approval_meta
		ORDER BY negotiation_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64]model.ApprovalMeta)
	for rows.Next() {
		var id int64
		var approval, rejection sql.NullString
		var reason string
		if err := rows.Scan(&id, &approval, &rejection, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan approval metadata: %w", err)
		}
		meta, err := scanMeta(approval, rejection, reason)
		if err != nil {
			return nil, err
		}
		out[id] = *meta
	}
	return out, rows.Err()
}

func scanMeta(approval, rejection sql.NullString, reason string) (*model.ApprovalMeta, error) {
	meta := &model.ApprovalMeta{RejectionReason: reason}
	var err error
	if meta.ApprovalDate, err = parseNullDate(approval); err != nil {
		return nil, err
	}
	if meta.RejectionDate, err = parseNullDate(rejection); err != nil {
		return nil, err
	}
	return meta, nil
}

func nullDate(d *model.Date) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(s sql.NullString) (*model.Date, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := model.ParseDate(s.String)
	if err != nil {
		return nil, fmt.Errorf("stored date: %w", err)
	}
	return d.Ptr(), nil
}
