package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/quests/internal/model"
	"github.com/dukerupert/quests/internal/store"
)

const questEntity = "quest"

type QuestService struct {
	store  *store.QuestStore
	logger *slog.Logger
}

func NewQuestService(s *store.QuestStore, logger *slog.Logger) *QuestService {
	return &QuestService{store: s, logger: logger}
}

// Create stores a new quest. The body must not carry an id.
func (s *QuestService) Create(ctx context.Context, dto QuestDTO) (QuestDTO, error) {
	s.logger.Debug("create quest", "title", deref(dto.Title))
	if dto.ID != nil {
		return QuestDTO{}, alert(questEntity, "idexists", "A new quest cannot already have an ID")
	}
	if err := validateDTO(questEntity, dto); err != nil {
		return QuestDTO{}, err
	}

	q := QuestFromDTO(dto)
	created, err := s.store.Create(ctx, &q)
	if err != nil {
		return QuestDTO{}, s.storeErr(err)
	}
	return QuestToDTO(*created), nil
}

// Update replaces every field of the quest identified by id, including its
// applicant links.
func (s *QuestService) Update(ctx context.Context, id int64, dto QuestDTO) (QuestDTO, error) {
	s.logger.Debug("update quest", "id", id)
	if err := s.checkExisting(ctx, id, dto.ID); err != nil {
		return QuestDTO{}, err
	}
	if err := validateDTO(questEntity, dto); err != nil {
		return QuestDTO{}, err
	}

	q := QuestFromDTO(dto)
	if q.Applicants == nil {
		q.Applicants = []model.Applicant{}
	}
	updated, err := s.store.Update(ctx, &q)
	if err != nil {
		return QuestDTO{}, s.storeErr(err)
	}
	return QuestToDTO(*updated), nil
}

// PartialUpdate overwrites only the non-nil fields of dto.
func (s *QuestService) PartialUpdate(ctx context.Context, id int64, dto QuestDTO) (QuestDTO, error) {
	s.logger.Debug("partial update quest", "id", id)
	if err := checkIDs(questEntity, id, dto.ID); err != nil {
		return QuestDTO{}, err
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return QuestDTO{}, err
	}
	if existing == nil {
		return QuestDTO{}, alert(questEntity, "idnotfound", "Entity not found")
	}

	mergeQuest(existing, dto)
	if err := validateDTO(questEntity, QuestToDTO(*existing)); err != nil {
		return QuestDTO{}, err
	}
	updated, err := s.store.Update(ctx, existing)
	if err != nil {
		return QuestDTO{}, s.storeErr(err)
	}
	return QuestToDTO(*updated), nil
}

// FindOne returns the quest with its applicants.
func (s *QuestService) FindOne(ctx context.Context, id int64) (QuestDTO, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return QuestDTO{}, err
	}
	if q == nil {
		return QuestDTO{}, ErrNotFound
	}
	return QuestToDTO(*q), nil
}

func (s *QuestService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.store.Exists(ctx, id)
}

func (s *QuestService) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("delete quest", "id", id)
	return s.store.Delete(ctx, id)
}

func (s *QuestService) checkExisting(ctx context.Context, id int64, bodyID *int64) error {
	if err := checkIDs(questEntity, id, bodyID); err != nil {
		return err
	}
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return alert(questEntity, "idnotfound", "Entity not found")
	}
	return nil
}

func (s *QuestService) storeErr(err error) error {
	if errors.Is(err, store.ErrInvalidReference) {
		return alert(questEntity, "applicantnotfound", "Linked applicant does not exist")
	}
	return fmt.Errorf("save quest: %w", err)
}
