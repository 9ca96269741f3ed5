package query

import (
	"github.com/dukerupert/quests/internal/criteria"
	"github.com/dukerupert/quests/internal/filter"
)

const (
	QuestTable     = "quest"
	ApplicantTable = "applicant"
	LinkTable      = "rel_quest__applicant"
)

// Quest columns.
const (
	QuestID              Column = "quest.id"
	QuestTitle           Column = "quest.title"
	QuestDescription     Column = "quest.description"
	QuestReward          Column = "quest.reward"
	QuestExpiresOn       Column = "quest.expires_on"
	QuestReviewStartDate Column = "quest.review_start_date"
	QuestMaxApplicants   Column = "quest.max_applicants"
	QuestAssignee        Column = "quest.assignee"
	QuestStatus          Column = "quest.status"
	QuestPrivateNotes    Column = "quest.private_notes"
)

// Applicant columns.
const (
	ApplicantID            Column = "applicant.id"
	ApplicantDiscordHandle Column = "applicant.discord_handle"
)

const (
	joinQuestLinks      = "LEFT JOIN " + LinkTable + " ON " + LinkTable + ".quest_id = quest.id"
	joinLinkedApplicant = "LEFT JOIN applicant ON applicant.id = " + LinkTable + ".applicant_id"
	joinApplicantLinks  = "LEFT JOIN " + LinkTable + " ON " + LinkTable + ".applicant_id = applicant.id"
	joinLinkedQuest     = "LEFT JOIN quest ON quest.id = " + LinkTable + ".quest_id"
)

// QuestSortable maps API property names to sortable quest columns.
var QuestSortable = map[string]Column{
	"id":              QuestID,
	"title":           QuestTitle,
	"description":     QuestDescription,
	"reward":          QuestReward,
	"expiresOn":       QuestExpiresOn,
	"reviewStartDate": QuestReviewStartDate,
	"maxApplicants":   QuestMaxApplicants,
	"assignee":        QuestAssignee,
	"status":          QuestStatus,
}

var ApplicantSortable = map[string]Column{
	"id":            ApplicantID,
	"discordHandle": ApplicantDiscordHandle,
}

// Quest compiles quest criteria. Scalar fields are added in declaration
// order, the applicant relationship last.
func Quest(c criteria.QuestCriteria) *Spec {
	s := NewSpec(QuestTable, QuestID).Distinct(c.IsDistinct())

	s.And(compileRange(QuestID, c.ID)...)
	s.And(compileString(QuestTitle, c.Title)...)
	s.And(compileString(QuestDescription, c.Description)...)
	s.And(compileString(QuestReward, c.Reward)...)
	s.And(compileRange(QuestExpiresOn, c.ExpiresOn)...)
	s.And(compileRange(QuestReviewStartDate, c.ReviewStartDate)...)
	s.And(compileRange(QuestMaxApplicants, c.MaxApplicants)...)
	s.And(compileString(QuestAssignee, c.Assignee)...)
	s.And(compileFilter(QuestStatus, c.Status)...)
	s.And(compileString(QuestPrivateNotes, c.PrivateNotes)...)

	if !c.ApplicantID.IsEmpty() {
		s.Join(joinQuestLinks).Join(joinLinkedApplicant)
		s.And(compileRange(ApplicantID, c.ApplicantID)...)
	}
	return s
}

// Applicant compiles applicant criteria.
func Applicant(c criteria.ApplicantCriteria) *Spec {
	s := NewSpec(ApplicantTable, ApplicantID).Distinct(c.IsDistinct())

	s.And(compileRange(ApplicantID, c.ID)...)
	s.And(compileString(ApplicantDiscordHandle, c.DiscordHandle)...)

	if !c.QuestID.IsEmpty() {
		s.Join(joinApplicantLinks).Join(joinLinkedQuest)
		s.And(compileRange(QuestID, c.QuestID)...)
	}
	return s
}

// compileFilter emits one predicate per set operator. specified=false wins
// over everything else on the same filter. NULL never satisfies a negated
// operator: notEquals and notIn follow SQL three-valued logic.
//
// Args keep their Go types; database/sql applies driver.Valuer at execution
// time and reports a failing Value as a query error.
func compileFilter[T any](col Column, f *filter.Filter[T]) []Predicate {
	if f.IsEmpty() {
		return nil
	}
	c := string(col)
	if f.Specified != nil && !*f.Specified {
		return []Predicate{{SQL: c + " IS NULL"}}
	}

	var preds []Predicate
	if f.Equals != nil {
		preds = append(preds, Predicate{SQL: c + " = ?", Args: []any{*f.Equals}})
	}
	if f.NotEquals != nil {
		preds = append(preds, Predicate{SQL: c + " <> ?", Args: []any{*f.NotEquals}})
	}
	if len(f.In) > 0 {
		preds = append(preds, Predicate{SQL: c + " IN (" + placeholders(len(f.In)) + ")", Args: args(f.In)})
	}
	if len(f.NotIn) > 0 {
		preds = append(preds, Predicate{SQL: c + " NOT IN (" + placeholders(len(f.NotIn)) + ")", Args: args(f.NotIn)})
	}
	if f.Specified != nil {
		preds = append(preds, Predicate{SQL: c + " IS NOT NULL"})
	}
	return preds
}

func compileRange[T any](col Column, f *filter.Range[T]) []Predicate {
	if f.IsEmpty() {
		return nil
	}
	preds := compileFilter(col, &f.Filter)
	if f.Specified != nil && !*f.Specified {
		return preds
	}

	c := string(col)
	if f.GreaterThan != nil {
		preds = append(preds, Predicate{SQL: c + " > ?", Args: []any{*f.GreaterThan}})
	}
	if f.GreaterThanOrEqual != nil {
		preds = append(preds, Predicate{SQL: c + " >= ?", Args: []any{*f.GreaterThanOrEqual}})
	}
	if f.LessThan != nil {
		preds = append(preds, Predicate{SQL: c + " < ?", Args: []any{*f.LessThan}})
	}
	if f.LessThanOrEqual != nil {
		preds = append(preds, Predicate{SQL: c + " <= ?", Args: []any{*f.LessThanOrEqual}})
	}
	return preds
}

// compileString matches substrings with instr so contains is
// case-sensitive; LIKE in SQLite folds ASCII case.
func compileString(col Column, f *filter.String) []Predicate {
	if f.IsEmpty() {
		return nil
	}
	preds := compileFilter(col, &f.Filter)
	if f.Specified != nil && !*f.Specified {
		return preds
	}

	c := string(col)
	if f.Contains != nil {
		preds = append(preds, Predicate{SQL: "instr(" + c + ", ?) > 0", Args: []any{*f.Contains}})
	}
	if f.DoesNotContain != nil {
		preds = append(preds, Predicate{SQL: "instr(" + c + ", ?) = 0", Args: []any{*f.DoesNotContain}})
	}
	return preds
}

func args[T any](vals []T) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
