package model

import (
	"database/sql/driver"
	"fmt"
)

type QuestStatus string

const (
	QuestStatusOpen     QuestStatus = "OPEN"
	QuestStatusClaimed  QuestStatus = "CLAIMED"
	QuestStatusInReview QuestStatus = "INREVIEW"
	QuestStatusClosed   QuestStatus = "CLOSED"
)

// QuestStatuses lists every status in declaration order.
var QuestStatuses = []QuestStatus{
	QuestStatusOpen,
	QuestStatusClaimed,
	QuestStatusInReview,
	QuestStatusClosed,
}

func (s QuestStatus) Valid() bool {
	switch s {
	case QuestStatusOpen, QuestStatusClaimed, QuestStatusInReview, QuestStatusClosed:
		return true
	}
	return false
}

// ParseQuestStatus accepts only the literal enum names.
func ParseQuestStatus(s string) (QuestStatus, error) {
	st := QuestStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown quest status %q", s)
	}
	return st, nil
}

// Quest is the persisted shape of a quest row plus its linked applicants.
type Quest struct {
	ID              int64
	Title           string
	Description     *string
	Reward          string
	ExpiresOn       Date
	ReviewStartDate Date
	MaxApplicants   int
	Assignee        *string
	Status          QuestStatus
	PrivateNotes    *string

	// Applicants is nil when the relationship was not loaded.
	Applicants []Applicant
}

func (s QuestStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *QuestStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan quest status: unsupported type %T", src)
	}
	st, err := ParseQuestStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
