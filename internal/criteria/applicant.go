package criteria

import "github.com/dukerupert/quests/internal/filter"

// ApplicantCriteria filters applicants; QuestID matches applicants linked
// to the given quests.
type ApplicantCriteria struct {
	ID            *filter.Long
	DiscordHandle *filter.String
	QuestID       *filter.Long

	Distinct *bool
}

func (c ApplicantCriteria) IsDistinct() bool {
	return c.Distinct == nil || *c.Distinct
}

func (c ApplicantCriteria) Copy() ApplicantCriteria {
	cp := ApplicantCriteria{
		ID:            c.ID.Copy(),
		DiscordHandle: c.DiscordHandle.Copy(),
		QuestID:       c.QuestID.Copy(),
	}
	if c.Distinct != nil {
		d := *c.Distinct
		cp.Distinct = &d
	}
	return cp
}
