package criteria

import (
	"log/slog"
	"strings"
)

type emptier interface{ IsEmpty() bool }

func active(names []string, filters []emptier) string {
	var set []string
	for i, f := range filters {
		if !f.IsEmpty() {
			set = append(set, names[i])
		}
	}
	return strings.Join(set, ",")
}

// LogValue lists the fields that carry at least one operator.
func (c QuestCriteria) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("fields", active(
			[]string{"id", "title", "description", "reward", "expiresOn", "reviewStartDate",
				"maxApplicants", "assignee", "status", "privateNotes", "applicantId"},
			[]emptier{c.ID, c.Title, c.Description, c.Reward, c.ExpiresOn, c.ReviewStartDate,
				c.MaxApplicants, c.Assignee, c.Status, c.PrivateNotes, c.ApplicantID},
		)),
		slog.Bool("distinct", c.IsDistinct()),
	)
}

func (c ApplicantCriteria) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("fields", active(
			[]string{"id", "discordHandle", "questId"},
			[]emptier{c.ID, c.DiscordHandle, c.QuestID},
		)),
		slog.Bool("distinct", c.IsDistinct()),
	)
}
