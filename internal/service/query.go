package service

import (
	"context"
	"log/slog"

	"github.com/dukerupert/quests/internal/criteria"
	"github.com/dukerupert/quests/internal/model"
	"github.com/dukerupert/quests/internal/query"
	"github.com/dukerupert/quests/internal/store"
)

// Page is one slice of a filtered, sorted result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func newPage[T any](content []T, total int64, p query.Pageable) Page[T] {
	if content == nil {
		content = []T{}
	}
	page := Page[T]{Content: content, TotalElements: total, Number: p.Page, Size: p.Size}
	switch {
	case p.Paged():
		page.TotalPages = int((total + int64(p.Size) - 1) / int64(p.Size))
	case total > 0:
		page.TotalPages = 1
	}
	return page
}

type findOptions struct {
	eager bool
}

// FindOption adjusts how a query service loads its results.
type FindOption func(*findOptions)

// WithRelations loads the many-to-many side of every result.
func WithRelations() FindOption {
	return func(o *findOptions) { o.eager = true }
}

func applyOptions(opts []FindOption) findOptions {
	var o findOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// QuestQueryService runs read-only criteria queries over quests.
type QuestQueryService struct {
	store  *store.QuestStore
	logger *slog.Logger
}

func NewQuestQueryService(s *store.QuestStore, logger *slog.Logger) *QuestQueryService {
	return &QuestQueryService{store: s, logger: logger}
}

func (s *QuestQueryService) FindByCriteria(ctx context.Context, c criteria.QuestCriteria, opts ...FindOption) ([]QuestDTO, error) {
	s.logger.Debug("find quests by criteria", "criteria", c)
	quests, err := s.find(ctx, query.Quest(c), query.Pageable{}, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return questDTOs(quests), nil
}

// FindPageByCriteria returns one page of matches. The count and the page
// share the same compiled query.
func (s *QuestQueryService) FindPageByCriteria(ctx context.Context, c criteria.QuestCriteria, p query.Pageable, opts ...FindOption) (Page[QuestDTO], error) {
	s.logger.Debug("find quest page by criteria", "criteria", c, "page", p.Page, "size", p.Size)
	spec := query.Quest(c)

	total, err := s.store.Count(ctx, spec)
	if err != nil {
		return Page[QuestDTO]{}, err
	}
	if total == 0 || (p.Paged() && int64(p.Offset()) >= total) {
		return newPage[QuestDTO](nil, total, p), nil
	}

	quests, err := s.find(ctx, spec, p, applyOptions(opts))
	if err != nil {
		return Page[QuestDTO]{}, err
	}
	return newPage(questDTOs(quests), total, p), nil
}

func (s *QuestQueryService) CountByCriteria(ctx context.Context, c criteria.QuestCriteria) (int64, error) {
	s.logger.Debug("count quests by criteria", "criteria", c)
	return s.store.Count(ctx, query.Quest(c))
}

func (s *QuestQueryService) find(ctx context.Context, spec *query.Spec, p query.Pageable, o findOptions) ([]model.Quest, error) {
	quests, err := s.store.Find(ctx, spec, p)
	if err != nil {
		return nil, err
	}
	if o.eager {
		if err := s.store.LoadApplicants(ctx, quests); err != nil {
			return nil, err
		}
	}
	return quests, nil
}

func questDTOs(quests []model.Quest) []QuestDTO {
	out := make([]QuestDTO, len(quests))
	for i, q := range quests {
		out[i] = questListDTO(q)
	}
	return out
}

// ApplicantQueryService runs read-only criteria queries over applicants.
type ApplicantQueryService struct {
	store  *store.ApplicantStore
	logger *slog.Logger
}

func NewApplicantQueryService(s *store.ApplicantStore, logger *slog.Logger) *ApplicantQueryService {
	return &ApplicantQueryService{store: s, logger: logger}
}

func (s *ApplicantQueryService) FindByCriteria(ctx context.Context, c criteria.ApplicantCriteria, opts ...FindOption) ([]ApplicantDTO, error) {
	s.logger.Debug("find applicants by criteria", "criteria", c)
	applicants, err := s.find(ctx, query.Applicant(c), query.Pageable{}, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return applicantDTOs(applicants), nil
}

func (s *ApplicantQueryService) FindPageByCriteria(ctx context.Context, c criteria.ApplicantCriteria, p query.Pageable, opts ...FindOption) (Page[ApplicantDTO], error) {
	s.logger.Debug("find applicant page by criteria", "criteria", c, "page", p.Page, "size", p.Size)
	spec := query.Applicant(c)

	total, err := s.store.Count(ctx, spec)
	if err != nil {
		return Page[ApplicantDTO]{}, err
	}
	if total == 0 || (p.Paged() && int64(p.Offset()) >= total) {
		return newPage[ApplicantDTO](nil, total, p), nil
	}

	applicants, err := s.find(ctx, spec, p, applyOptions(opts))
	if err != nil {
		return Page[ApplicantDTO]{}, err
	}
	return newPage(applicantDTOs(applicants), total, p), nil
}

func (s *ApplicantQueryService) CountByCriteria(ctx context.Context, c criteria.ApplicantCriteria) (int64, error) {
	s.logger.Debug("count applicants by criteria", "criteria", c)
	return s.store.Count(ctx, query.Applicant(c))
}

func (s *ApplicantQueryService) find(ctx context.Context, spec *query.Spec, p query.Pageable, o findOptions) ([]model.Applicant, error) {
	applicants, err := s.store.Find(ctx, spec, p)
	if err != nil {
		return nil, err
	}
	if o.eager {
		if err := s.store.LoadQuests(ctx, applicants); err != nil {
			return nil, err
		}
	}
	return applicants, nil
}

func applicantDTOs(applicants []model.Applicant) []ApplicantDTO {
	out := make([]ApplicantDTO, len(applicants))
	for i, a := range applicants {
		out[i] = ApplicantToDTO(a)
	}
	return out
}
