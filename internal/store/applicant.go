package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/quests/internal/model"
	"github.com/dukerupert/quests/internal/query"
)

type ApplicantStore struct {
	db *sql.DB
}

func NewApplicantStore(db *sql.DB) *ApplicantStore {
	return &ApplicantStore{db: db}
}

const applicantCols = `applicant.id, applicant.discord_handle`

func scanApplicant(s scanner) (*model.Applicant, error) {
	var a model.Applicant
	if err := s.Scan(&a.ID, &a.DiscordHandle); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ApplicantStore) Create(ctx context.Context, a *model.Applicant) (*model.Applicant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `INSERT INTO applicant (discord_handle) VALUES (?)`, a.DiscordHandle)
	if err != nil {
		return nil, fmt.Errorf("insert applicant: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if a.Quests != nil {
		if err := replaceLinks(ctx, tx, "applicant_id", "quest_id", id, questIDs(a.Quests)); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit applicant: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the applicant with its quests loaded, or nil if it does not exist.
func (s *ApplicantStore) GetByID(ctx context.Context, id int64) (*model.Applicant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+applicantCols+` FROM applicant WHERE applicant.id = ?`, id)
	a, err := scanApplicant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get applicant: %w", err)
	}

	applicants := []model.Applicant{*a}
	if err := s.LoadQuests(ctx, applicants); err != nil {
		return nil, err
	}
	return &applicants[0], nil
}

func (s *ApplicantStore) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM applicant WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("applicant exists: %w", err)
	}
	return true, nil
}

func (s *ApplicantStore) Update(ctx context.Context, a *model.Applicant) (*model.Applicant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE applicant SET discord_handle = ? WHERE id = ?`, a.DiscordHandle, a.ID); err != nil {
		return nil, fmt.Errorf("update applicant: %w", err)
	}

	if a.Quests != nil {
		if err := replaceLinks(ctx, tx, "applicant_id", "quest_id", a.ID, questIDs(a.Quests)); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit applicant: %w", err)
	}
	return s.GetByID(ctx, a.ID)
}

func (s *ApplicantStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM applicant WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete applicant: %w", err)
	}
	return nil
}

// Find returns the applicants matching spec. Quests are not loaded.
func (s *ApplicantStore) Find(ctx context.Context, spec *query.Spec, p query.Pageable) ([]model.Applicant, error) {
	stmt, args := spec.SelectSQL(applicantCols, p)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("find applicants: %w", err)
	}
	defer rows.Close()

	var applicants []model.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		applicants = append(applicants, *a)
	}
	return applicants, rows.Err()
}

func (s *ApplicantStore) Count(ctx context.Context, spec *query.Spec) (int64, error) {
	stmt, args := spec.CountSQL()
	n, err := count(ctx, s.db, stmt, args)
	if err != nil {
		return 0, fmt.Errorf("count applicants: %w", err)
	}
	return n, nil
}

// LoadQuests fills Quests (id and title only) on every applicant.
func (s *ApplicantStore) LoadQuests(ctx context.Context, applicants []model.Applicant) error {
	if len(applicants) == 0 {
		return nil
	}
	index := make(map[int64]int, len(applicants))
	ids := make([]int64, 0, len(applicants))
	for i := range applicants {
		applicants[i].Quests = []model.Quest{}
		index[applicants[i].ID] = i
		ids = append(ids, applicants[i].ID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT l.applicant_id, q.id, q.title
		 FROM rel_quest__applicant l JOIN quest q ON q.id = l.quest_id
		 WHERE l.applicant_id IN `+inClause(len(ids))+`
		 ORDER BY q.id ASC`,
		idArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("load applicant quests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var applicantID int64
		var q model.Quest
		if err := rows.Scan(&applicantID, &q.ID, &q.Title); err != nil {
			return fmt.Errorf("scan applicant quest: %w", err)
		}
		i := index[applicantID]
		applicants[i].Quests = append(applicants[i].Quests, q)
	}
	return rows.Err()
}

func questIDs(quests []model.Quest) []int64 {
	ids := make([]int64, len(quests))
	for i, q := range quests {
		ids[i] = q.ID
	}
	return ids
}
