package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/quests/internal/model"
	"github.com/dukerupert/quests/internal/query"
)

type QuestStore struct {
	db *sql.DB
}

func NewQuestStore(db *sql.DB) *QuestStore {
	return &QuestStore{db: db}
}

const questCols = `quest.id, quest.title, quest.description, quest.reward, quest.expires_on,
	quest.review_start_date, quest.max_applicants, quest.assignee, quest.status, quest.private_notes`

func scanQuest(s scanner) (*model.Quest, error) {
	var q model.Quest
	var description, assignee, privateNotes sql.NullString

	err := s.Scan(
		&q.ID, &q.Title, &description, &q.Reward, &q.ExpiresOn,
		&q.ReviewStartDate, &q.MaxApplicants, &assignee, &q.Status, &privateNotes,
	)
	if err != nil {
		return nil, err
	}

	q.Description = stringPtr(description)
	q.Assignee = stringPtr(assignee)
	q.PrivateNotes = stringPtr(privateNotes)
	return &q, nil
}

// Create inserts q and, when q.Applicants is non-nil, links those applicants.
func (s *QuestStore) Create(ctx context.Context, q *model.Quest) (*model.Quest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO quest (title, description, reward, expires_on, review_start_date, max_applicants, assignee, status, private_notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Title, nullString(q.Description), q.Reward, q.ExpiresOn, q.ReviewStartDate,
		q.MaxApplicants, nullString(q.Assignee), q.Status, nullString(q.PrivateNotes),
	)
	if err != nil {
		return nil, fmt.Errorf("insert quest: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if q.Applicants != nil {
		if err := replaceLinks(ctx, tx, "quest_id", "applicant_id", id, applicantIDs(q.Applicants)); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit quest: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the quest with its applicants loaded, or nil if it does not exist.
func (s *QuestStore) GetByID(ctx context.Context, id int64) (*model.Quest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+questCols+` FROM quest WHERE quest.id = ?`, id)
	q, err := scanQuest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quest: %w", err)
	}

	quests := []model.Quest{*q}
	if err := s.LoadApplicants(ctx, quests); err != nil {
		return nil, err
	}
	return &quests[0], nil
}

func (s *QuestStore) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM quest WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("quest exists: %w", err)
	}
	return true, nil
}

// Update overwrites every column of q. Links are replaced only when
// q.Applicants is non-nil.
func (s *QuestStore) Update(ctx context.Context, q *model.Quest) (*model.Quest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE quest
		 SET title = ?, description = ?, reward = ?, expires_on = ?, review_start_date = ?,
		     max_applicants = ?, assignee = ?, status = ?, private_notes = ?
		 WHERE id = ?`,
		q.Title, nullString(q.Description), q.Reward, q.ExpiresOn, q.ReviewStartDate,
		q.MaxApplicants, nullString(q.Assignee), q.Status, nullString(q.PrivateNotes), q.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update quest: %w", err)
	}

	if q.Applicants != nil {
		if err := replaceLinks(ctx, tx, "quest_id", "applicant_id", q.ID, applicantIDs(q.Applicants)); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit quest: %w", err)
	}
	return s.GetByID(ctx, q.ID)
}

// Delete removes the quest; its association rows go with it, its applicants stay.
func (s *QuestStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quest WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete quest: %w", err)
	}
	return nil
}

// Find returns the quests matching spec. Applicants are not loaded.
func (s *QuestStore) Find(ctx context.Context, spec *query.Spec, p query.Pageable) ([]model.Quest, error) {
	stmt, args := spec.SelectSQL(questCols, p)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("find quests: %w", err)
	}
	defer rows.Close()

	var quests []model.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quest: %w", err)
		}
		quests = append(quests, *q)
	}
	return quests, rows.Err()
}

func (s *QuestStore) Count(ctx context.Context, spec *query.Spec) (int64, error) {
	stmt, args := spec.CountSQL()
	n, err := count(ctx, s.db, stmt, args)
	if err != nil {
		return 0, fmt.Errorf("count quests: %w", err)
	}
	return n, nil
}

// LoadApplicants fills Applicants on every quest, ordered by applicant id.
func (s *QuestStore) LoadApplicants(ctx context.Context, quests []model.Quest) error {
	if len(quests) == 0 {
		return nil
	}
	index := make(map[int64]int, len(quests))
	ids := make([]int64, 0, len(quests))
	for i := range quests {
		quests[i].Applicants = []model.Applicant{}
		index[quests[i].ID] = i
		ids = append(ids, quests[i].ID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT l.quest_id, a.id, a.discord_handle
		 FROM rel_quest__applicant l JOIN applicant a ON a.id = l.applicant_id
		 WHERE l.quest_id IN `+inClause(len(ids))+`
		 ORDER BY a.id ASC`,
		idArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("load quest applicants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questID int64
		var a model.Applicant
		if err := rows.Scan(&questID, &a.ID, &a.DiscordHandle); err != nil {
			return fmt.Errorf("scan quest applicant: %w", err)
		}
		i := index[questID]
		quests[i].Applicants = append(quests[i].Applicants, a)
	}
	return rows.Err()
}

func applicantIDs(applicants []model.Applicant) []int64 {
	ids := make([]int64, len(applicants))
	for i, a := range applicants {
		ids[i] = a.ID
	}
	return ids
}
