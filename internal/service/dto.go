package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/quests/internal/model"
)

// QuestDTO is the wire shape of a quest. Every field is a pointer so a
// PATCH body can tell "absent" from "zero".
type QuestDTO struct {
	ID              *int64             `json:"id"`
	Title           *string            `json:"title" validate:"required,min=1"`
	Description     *string            `json:"description"`
	Reward          *string            `json:"reward" validate:"required,min=1"`
	ExpiresOn       *model.Date        `json:"expiresOn" validate:"required"`
	ReviewStartDate *model.Date        `json:"reviewStartDate" validate:"required"`
	MaxApplicants   *int               `json:"maxApplicants" validate:"required,min=1"`
	Assignee        *string            `json:"assignee"`
	Status          *model.QuestStatus `json:"status" validate:"required,oneof=OPEN CLAIMED INREVIEW CLOSED"`
	PrivateNotes    *string            `json:"privateNotes,omitempty"`
	Applicants      []ApplicantRef     `json:"applicants,omitempty"`
}

type ApplicantRef struct {
	ID            int64  `json:"id"`
	DiscordHandle string `json:"discordHandle,omitempty"`
}

type ApplicantDTO struct {
	ID            *int64     `json:"id"`
	DiscordHandle *string    `json:"discordHandle" validate:"required,min=1"`
	Quests        []QuestRef `json:"quests,omitempty"`
}

type QuestRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
}

var validate = validator.New()

func validateDTO(entity string, dto any) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return alert(entity, "validation", err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", lowerFirst(fe.Field()), fe.Tag()))
	}
	return alert(entity, "validation", strings.Join(msgs, "; "))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// QuestToDTO maps every stored field. Applicants are included when loaded.
func QuestToDTO(q model.Quest) QuestDTO {
	id := q.ID
	title := q.Title
	reward := q.Reward
	expiresOn := q.ExpiresOn
	reviewStart := q.ReviewStartDate
	maxApplicants := q.MaxApplicants
	status := q.Status

	dto := QuestDTO{
		ID:              &id,
		Title:           &title,
		Description:     clone(q.Description),
		Reward:          &reward,
		ExpiresOn:       &expiresOn,
		ReviewStartDate: &reviewStart,
		MaxApplicants:   &maxApplicants,
		Assignee:        clone(q.Assignee),
		Status:          &status,
		PrivateNotes:    clone(q.PrivateNotes),
	}
	if q.Applicants != nil {
		dto.Applicants = make([]ApplicantRef, len(q.Applicants))
		for i, a := range q.Applicants {
			dto.Applicants[i] = ApplicantRef{ID: a.ID, DiscordHandle: a.DiscordHandle}
		}
	}
	return dto
}

// questListDTO is the list projection: private notes stay out of listings.
func questListDTO(q model.Quest) QuestDTO {
	dto := QuestToDTO(q)
	dto.PrivateNotes = nil
	return dto
}

// QuestFromDTO expects a validated DTO; absent required fields map to zero values.
func QuestFromDTO(d QuestDTO) model.Quest {
	q := model.Quest{
		ID:           deref(d.ID),
		Title:        deref(d.Title),
		Description:  clone(d.Description),
		Reward:       deref(d.Reward),
		Assignee:     clone(d.Assignee),
		Status:       deref(d.Status),
		PrivateNotes: clone(d.PrivateNotes),
	}
	q.ExpiresOn = deref(d.ExpiresOn)
	q.ReviewStartDate = deref(d.ReviewStartDate)
	q.MaxApplicants = deref(d.MaxApplicants)
	if d.Applicants != nil {
		q.Applicants = make([]model.Applicant, len(d.Applicants))
		for i, a := range d.Applicants {
			q.Applicants[i] = model.Applicant{ID: a.ID}
		}
	}
	return q
}

// mergeQuest copies every non-nil field of patch onto q. A nil applicant
// list leaves the stored links untouched.
func mergeQuest(q *model.Quest, patch QuestDTO) {
	if patch.Title != nil {
		q.Title = *patch.Title
	}
	if patch.Description != nil {
		q.Description = clone(patch.Description)
	}
	if patch.Reward != nil {
		q.Reward = *patch.Reward
	}
	if patch.ExpiresOn != nil {
		q.ExpiresOn = *patch.ExpiresOn
	}
	if patch.ReviewStartDate != nil {
		q.ReviewStartDate = *patch.ReviewStartDate
	}
	if patch.MaxApplicants != nil {
		q.MaxApplicants = *patch.MaxApplicants
	}
	if patch.Assignee != nil {
		q.Assignee = clone(patch.Assignee)
	}
	if patch.Status != nil {
		q.Status = *patch.Status
	}
	if patch.PrivateNotes != nil {
		q.PrivateNotes = clone(patch.PrivateNotes)
	}

	q.Applicants = nil
	if patch.Applicants != nil {
		q.Applicants = QuestFromDTO(QuestDTO{Applicants: patch.Applicants}).Applicants
	}
}

func ApplicantToDTO(a model.Applicant) ApplicantDTO {
	id := a.ID
	handle := a.DiscordHandle
	dto := ApplicantDTO{ID: &id, DiscordHandle: &handle}
	if a.Quests != nil {
		dto.Quests = make([]QuestRef, len(a.Quests))
		for i, q := range a.Quests {
			dto.Quests[i] = QuestRef{ID: q.ID, Title: q.Title}
		}
	}
	return dto
}

func ApplicantFromDTO(d ApplicantDTO) model.Applicant {
	a := model.Applicant{ID: deref(d.ID), DiscordHandle: deref(d.DiscordHandle)}
	if d.Quests != nil {
		a.Quests = make([]model.Quest, len(d.Quests))
		for i, q := range d.Quests {
			a.Quests[i] = model.Quest{ID: q.ID}
		}
	}
	return a
}

func mergeApplicant(a *model.Applicant, patch ApplicantDTO) {
	if patch.DiscordHandle != nil {
		a.DiscordHandle = *patch.DiscordHandle
	}
	a.Quests = nil
	if patch.Quests != nil {
		a.Quests = ApplicantFromDTO(ApplicantDTO{Quests: patch.Quests}).Quests
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
