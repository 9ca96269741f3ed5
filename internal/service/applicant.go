package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/quests/internal/model"
	"github.com/dukerupert/quests/internal/store"
)

const applicantEntity = "applicant"

type ApplicantService struct {
	store  *store.ApplicantStore
	logger *slog.Logger
}

func NewApplicantService(s *store.ApplicantStore, logger *slog.Logger) *ApplicantService {
	return &ApplicantService{store: s, logger: logger}
}

func (s *ApplicantService) Create(ctx context.Context, dto ApplicantDTO) (ApplicantDTO, error) {
	s.logger.Debug("create applicant", "discord_handle", deref(dto.DiscordHandle))
	if dto.ID != nil {
		return ApplicantDTO{}, alert(applicantEntity, "idexists", "A new applicant cannot already have an ID")
	}
	if err := validateDTO(applicantEntity, dto); err != nil {
		return ApplicantDTO{}, err
	}

	a := ApplicantFromDTO(dto)
	created, err := s.store.Create(ctx, &a)
	if err != nil {
		return ApplicantDTO{}, s.storeErr(err)
	}
	return ApplicantToDTO(*created), nil
}

func (s *ApplicantService) Update(ctx context.Context, id int64, dto ApplicantDTO) (ApplicantDTO, error) {
	s.logger.Debug("update applicant", "id", id)
	if err := checkIDs(applicantEntity, id, dto.ID); err != nil {
		return ApplicantDTO{}, err
	}
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return ApplicantDTO{}, err
	}
	if !ok {
		return ApplicantDTO{}, alert(applicantEntity, "idnotfound", "Entity not found")
	}
	if err := validateDTO(applicantEntity, dto); err != nil {
		return ApplicantDTO{}, err
	}

	a := ApplicantFromDTO(dto)
	if a.Quests == nil {
		a.Quests = []model.Quest{}
	}
	updated, err := s.store.Update(ctx, &a)
	if err != nil {
		return ApplicantDTO{}, s.storeErr(err)
	}
	return ApplicantToDTO(*updated), nil
}

func (s *ApplicantService) PartialUpdate(ctx context.Context, id int64, dto ApplicantDTO) (ApplicantDTO, error) {
	s.logger.Debug("partial update applicant", "id", id)
	if err := checkIDs(applicantEntity, id, dto.ID); err != nil {
		return ApplicantDTO{}, err
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ApplicantDTO{}, err
	}
	if existing == nil {
		return ApplicantDTO{}, alert(applicantEntity, "idnotfound", "Entity not found")
	}

	mergeApplicant(existing, dto)
	if err := validateDTO(applicantEntity, ApplicantToDTO(*existing)); err != nil {
		return ApplicantDTO{}, err
	}
	updated, err := s.store.Update(ctx, existing)
	if err != nil {
		return ApplicantDTO{}, s.storeErr(err)
	}
	return ApplicantToDTO(*updated), nil
}

// FindOne returns the applicant with the quests it applied to.
func (s *ApplicantService) FindOne(ctx context.Context, id int64) (ApplicantDTO, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ApplicantDTO{}, err
	}
	if a == nil {
		return ApplicantDTO{}, ErrNotFound
	}
	return ApplicantToDTO(*a), nil
}

func (s *ApplicantService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.store.Exists(ctx, id)
}

func (s *ApplicantService) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("delete applicant", "id", id)
	return s.store.Delete(ctx, id)
}

func (s *ApplicantService) storeErr(err error) error {
	if errors.Is(err, store.ErrInvalidReference) {
		return alert(applicantEntity, "questnotfound", "Linked quest does not exist")
	}
	return fmt.Errorf("save applicant: %w", err)
}
