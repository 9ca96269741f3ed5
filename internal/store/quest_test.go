package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/quests/internal/criteria"
	"github.com/dukerupert/quests/internal/database"
	"github.com/dukerupert/quests/internal/filter"
	"github.com/dukerupert/quests/internal/model"
	"github.com/dukerupert/quests/internal/query"
)

func setupTestDB(t *testing.T) (*QuestStore, *ApplicantStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewQuestStore(db), NewApplicantStore(db)
}

func newQuest(title string) *model.Quest {
	return &model.Quest{
		Title:           title,
		Reward:          "100 USDC",
		ExpiresOn:       model.NewDate(1970, time.January, 1),
		ReviewStartDate: model.NewDate(1970, time.January, 1),
		MaxApplicants:   1,
		Status:          model.QuestStatusOpen,
	}
}

func TestQuestCRUD(t *testing.T) {
	qs, _ := setupTestDB(t)
	ctx := context.Background()

	in := newQuest("Bounty")
	in.Description = filter.Ptr("D")
	created, err := qs.Create(ctx, in)
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
	if created.Title != "Bounty" {
		t.Errorf("title = %q, want %q", created.Title, "Bounty")
	}
	if created.Description == nil || *created.Description != "D" {
		t.Errorf("description = %v, want D", created.Description)
	}
	if created.Assignee != nil {
		t.Errorf("assignee = %v, want nil", created.Assignee)
	}
	if created.ExpiresOn.String() != "1970-01-01" {
		t.Errorf("expires_on = %s, want 1970-01-01", created.ExpiresOn)
	}
	if created.Status != model.QuestStatusOpen {
		t.Errorf("status = %q, want OPEN", created.Status)
	}
	if created.Applicants == nil || len(created.Applicants) != 0 {
		t.Errorf("applicants = %v, want empty loaded slice", created.Applicants)
	}

	created.Title = "Renamed"
	created.Status = model.QuestStatusClaimed
	created.Assignee = filter.Ptr("ann")
	updated, err := qs.Update(ctx, created)
	if err != nil {
		t.Fatalf("update quest: %v", err)
	}
	if updated.Title != "Renamed" || updated.Status != model.QuestStatusClaimed {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Assignee == nil || *updated.Assignee != "ann" {
		t.Errorf("assignee = %v, want ann", updated.Assignee)
	}

	ok, err := qs.Exists(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v", ok, err)
	}

	if err := qs.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete quest: %v", err)
	}
	got, err := qs.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get deleted quest: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
	ok, _ = qs.Exists(ctx, created.ID)
	if ok {
		t.Error("expected quest to no longer exist")
	}
}

func TestQuestLinksAndCascade(t *testing.T) {
	qs, as := setupTestDB(t)
	ctx := context.Background()

	ann, _ := as.Create(ctx, &model.Applicant{DiscordHandle: "ann#1"})
	bob, _ := as.Create(ctx, &model.Applicant{DiscordHandle: "bob#2"})

	q := newQuest("Linked")
	q.Applicants = []model.Applicant{{ID: bob.ID}, {ID: ann.ID}}
	created, err := qs.Create(ctx, q)
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}
	if len(created.Applicants) != 2 || created.Applicants[0].ID != ann.ID {
		t.Fatalf("applicants = %+v, want ann then bob", created.Applicants)
	}
	if created.Applicants[1].DiscordHandle != "bob#2" {
		t.Errorf("applicants[1].DiscordHandle = %q, want bob#2", created.Applicants[1].DiscordHandle)
	}

	// nil applicants on update leaves links alone
	created.Applicants = nil
	updated, err := qs.Update(ctx, created)
	if err != nil {
		t.Fatalf("update quest: %v", err)
	}
	if len(updated.Applicants) != 2 {
		t.Errorf("applicants after nil update = %d, want 2", len(updated.Applicants))
	}

	// deleting an applicant keeps the quest
	if err := as.Delete(ctx, ann.ID); err != nil {
		t.Fatalf("delete applicant: %v", err)
	}
	got, _ := qs.GetByID(ctx, created.ID)
	if got == nil {
		t.Fatal("quest should survive applicant delete")
	}
	if len(got.Applicants) != 1 || got.Applicants[0].ID != bob.ID {
		t.Errorf("applicants = %+v, want only bob", got.Applicants)
	}

	// deleting the quest keeps the applicant
	if err := qs.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete quest: %v", err)
	}
	b, _ := as.GetByID(ctx, bob.ID)
	if b == nil {
		t.Fatal("applicant should survive quest delete")
	}
	if len(b.Quests) != 0 {
		t.Errorf("quests = %+v, want none", b.Quests)
	}
}

func TestQuestLinkUnknownApplicant(t *testing.T) {
	qs, _ := setupTestDB(t)

	q := newQuest("Dangling")
	q.Applicants = []model.Applicant{{ID: 404}}
	_, err := qs.Create(context.Background(), q)
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference", err)
	}

	n, err := qs.Count(context.Background(), query.Quest(criteria.QuestCriteria{}))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0 after rolled back create", n)
	}
}

func TestQuestFindByCriteria(t *testing.T) {
	qs, as := setupTestDB(t)
	ctx := context.Background()

	a := newQuest("Alpha bounty")
	a.Assignee = filter.Ptr("ann")
	a.MaxApplicants = 3
	b := newQuest("Beta")
	b.Status = model.QuestStatusClosed
	b.ExpiresOn = model.NewDate(2030, time.June, 1)
	c := newQuest("Gamma Bounty")
	c.MaxApplicants = 5

	qa, _ := qs.Create(ctx, a)
	qb, _ := qs.Create(ctx, b)
	qc, _ := qs.Create(ctx, c)

	ann, _ := as.Create(ctx, &model.Applicant{DiscordHandle: "ann#1", Quests: []model.Quest{{ID: qa.ID}, {ID: qc.ID}}})
	as.Create(ctx, &model.Applicant{DiscordHandle: "bob#2", Quests: []model.Quest{{ID: qa.ID}}})

	tests := []struct {
		name string
		c    criteria.QuestCriteria
		want []int64
	}{
		{"empty", criteria.QuestCriteria{}, []int64{qa.ID, qb.ID, qc.ID}},
		{"id equals", criteria.QuestCriteria{ID: &filter.Long{Filter: filter.Filter[int64]{Equals: &qb.ID}}}, []int64{qb.ID}},
		{"contains is case sensitive", criteria.QuestCriteria{Title: &filter.String{Contains: filter.Ptr("bounty")}}, []int64{qa.ID}},
		{"assignee specified", criteria.QuestCriteria{Assignee: &filter.String{Filter: filter.Filter[string]{Specified: filter.Ptr(true)}}}, []int64{qa.ID}},
		{"assignee not specified", criteria.QuestCriteria{Assignee: &filter.String{Filter: filter.Filter[string]{Specified: filter.Ptr(false)}}}, []int64{qb.ID, qc.ID}},
		{"assignee not equals excludes null", criteria.QuestCriteria{Assignee: &filter.String{Filter: filter.Filter[string]{NotEquals: filter.Ptr("zed")}}}, []int64{qa.ID}},
		{"assignee does not contain excludes null", criteria.QuestCriteria{Assignee: &filter.String{DoesNotContain: filter.Ptr("zed")}}, []int64{qa.ID}},
		{"assignee in excludes null", criteria.QuestCriteria{Assignee: &filter.String{Filter: filter.Filter[string]{In: []string{"ann", "zed"}}}}, []int64{qa.ID}},
		{"max applicants range", criteria.QuestCriteria{MaxApplicants: &filter.Int{GreaterThan: filter.Ptr(1), LessThanOrEqual: filter.Ptr(3)}}, []int64{qa.ID}},
		{"expires after", criteria.QuestCriteria{ExpiresOn: &filter.Range[model.Date]{GreaterThan: filter.Ptr(model.NewDate(2000, time.January, 1))}}, []int64{qb.ID}},
		{"status not in", criteria.QuestCriteria{Status: &filter.Filter[model.QuestStatus]{NotIn: []model.QuestStatus{model.QuestStatusClosed}}}, []int64{qa.ID, qc.ID}},
		{"by applicant", criteria.QuestCriteria{ApplicantID: &filter.Long{Filter: filter.Filter[int64]{Equals: &ann.ID}}}, []int64{qa.ID, qc.ID}},
		{"without applicants", criteria.QuestCriteria{ApplicantID: &filter.Long{Filter: filter.Filter[int64]{Specified: filter.Ptr(false)}}}, []int64{qb.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := query.Quest(tt.c)
			got, err := qs.Find(ctx, spec, query.Pageable{})
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if ids := questIDs(got); !equalIDs(ids, tt.want) {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
			n, err := qs.Count(ctx, spec)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != int64(len(got)) {
				t.Errorf("count = %d, find returned %d", n, len(got))
			}
		})
	}
}

func TestQuestFindWithoutDistinctKeepsJoinDuplicates(t *testing.T) {
	qs, as := setupTestDB(t)
	ctx := context.Background()

	q, _ := qs.Create(ctx, newQuest("Shared"))
	a1, _ := as.Create(ctx, &model.Applicant{DiscordHandle: "a", Quests: []model.Quest{{ID: q.ID}}})
	a2, _ := as.Create(ctx, &model.Applicant{DiscordHandle: "b", Quests: []model.Quest{{ID: q.ID}}})

	c := criteria.QuestCriteria{ApplicantID: &filter.Long{Filter: filter.Filter[int64]{In: []int64{a1.ID, a2.ID}}}}
	got, _ := qs.Find(ctx, query.Quest(c), query.Pageable{})
	if len(got) != 1 {
		t.Errorf("distinct find = %d rows, want 1", len(got))
	}

	c.Distinct = filter.Ptr(false)
	spec := query.Quest(c)
	got, _ = qs.Find(ctx, spec, query.Pageable{})
	n, _ := qs.Count(ctx, spec)
	if len(got) != 2 || n != 2 {
		t.Errorf("non-distinct find = %d rows, count = %d, want 2 and 2", len(got), n)
	}
}

func TestQuestFindPaged(t *testing.T) {
	qs, _ := setupTestDB(t)
	ctx := context.Background()

	for _, title := range []string{"c", "a", "d", "b", "e"} {
		if _, err := qs.Create(ctx, newQuest(title)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	p := query.Pageable{Page: 1, Size: 2, Sort: []query.Order{{Column: query.QuestTitle}}}
	got, err := qs.Find(ctx, query.Quest(criteria.QuestCriteria{}), p)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 || got[0].Title != "c" || got[1].Title != "d" {
		t.Errorf("page = %+v, want c, d", got)
	}
	if got[0].Applicants != nil {
		t.Error("applicants should not be loaded by Find")
	}
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var errBadValue = errors.New("unrepresentable value")

type failingValuer struct{}

func (failingValuer) Value() (driver.Value, error) {
	return nil, errBadValue
}

func TestQuestFindReportsValuerError(t *testing.T) {
	qs, _ := setupTestDB(t)
	ctx := context.Background()
	if _, err := qs.Create(ctx, newQuest("Alpha")); err != nil {
		t.Fatalf("create: %v", err)
	}

	spec := query.NewSpec(query.QuestTable, query.QuestID).
		And(query.Predicate{SQL: "quest.expires_on < ?", Args: []any{failingValuer{}}})

	if _, err := qs.Find(ctx, spec, query.Pageable{}); !errors.Is(err, errBadValue) {
		t.Errorf("find err = %v, want %v", err, errBadValue)
	}
	if _, err := qs.Count(ctx, spec); !errors.Is(err, errBadValue) {
		t.Errorf("count err = %v, want %v", err, errBadValue)
	}
}
