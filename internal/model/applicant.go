package model

// Applicant is the persisted shape of an applicant row plus its linked quests.
type Applicant struct {
	ID            int64
	DiscordHandle string

	// Quests is nil when the relationship was not loaded.
	Quests []Quest
}
