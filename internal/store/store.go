package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidReference is returned when a link points at a row that does not exist.
var ErrInvalidReference = errors.New("invalid reference")

type scanner interface{ Scan(...any) error }

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func inClause(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

func count(ctx context.Context, db *sql.DB, query string, args []any) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// replaceLinks rewrites the association rows owned by one side of the
// quest/applicant relationship.
func replaceLinks(ctx context.Context, tx *sql.Tx, ownerCol, otherCol string, ownerID int64, otherIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM rel_quest__applicant WHERE `+ownerCol+` = ?`, ownerID); err != nil {
		return fmt.Errorf("clear links: %w", err)
	}
	for _, otherID := range otherIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO rel_quest__applicant (`+ownerCol+`, `+otherCol+`) VALUES (?, ?)`,
			ownerID, otherID,
		)
		if isForeignKeyErr(err) {
			return fmt.Errorf("%w: %s %d does not exist", ErrInvalidReference, strings.TrimSuffix(otherCol, "_id"), otherID)
		}
		if err != nil {
			return fmt.Errorf("insert link: %w", err)
		}
	}
	return nil
}

func isForeignKeyErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
