package criteria

import (
	"github.com/dukerupert/quests/internal/filter"
	"github.com/dukerupert/quests/internal/model"
)

// QuestCriteria is the set of filters a quest listing or count can take,
// e.g. /api/quests?id.greaterThan=5&title.contains=bounty&assignee.specified=false.
type QuestCriteria struct {
	ID              *filter.Long
	Title           *filter.String
	Description     *filter.String
	Reward          *filter.String
	ExpiresOn       *filter.Range[model.Date]
	ReviewStartDate *filter.Range[model.Date]
	MaxApplicants   *filter.Int
	Assignee        *filter.String
	Status          *filter.Filter[model.QuestStatus]
	PrivateNotes    *filter.String
	ApplicantID     *filter.Long

	// Distinct collapses rows duplicated by the applicant join. Unset means true.
	Distinct *bool
}

func (c QuestCriteria) IsDistinct() bool {
	return c.Distinct == nil || *c.Distinct
}

func (c QuestCriteria) Copy() QuestCriteria {
	cp := QuestCriteria{
		ID:              c.ID.Copy(),
		Title:           c.Title.Copy(),
		Description:     c.Description.Copy(),
		Reward:          c.Reward.Copy(),
		ExpiresOn:       c.ExpiresOn.Copy(),
		ReviewStartDate: c.ReviewStartDate.Copy(),
		MaxApplicants:   c.MaxApplicants.Copy(),
		Assignee:        c.Assignee.Copy(),
		Status:          c.Status.Copy(),
		PrivateNotes:    c.PrivateNotes.Copy(),
		ApplicantID:     c.ApplicantID.Copy(),
	}
	if c.Distinct != nil {
		d := *c.Distinct
		cp.Distinct = &d
	}
	return cp
}
