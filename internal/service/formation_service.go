package service

import (
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/repository"
	"edutrack_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type FormationService struct {
	FormationRepo *repository.FormationRepository
	UserRepo      *repository.UserRepository
}

func NewFormationService(formationRepo *repository.FormationRepository, userRepo *repository.UserRepository) *FormationService {
	return &FormationService{
		FormationRepo: formationRepo,
		UserRepo:      userRepo,
	}
}

type FormationInput struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	MaxParticipants int    `json:"maxParticipants"`
}

func (s *FormationService) Create(trainerID uint, input FormationInput) (*model.Formation, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.New("title is required")
	}

	formation := &model.Formation{
		Title:           input.Title,
		Description:     input.Description,
		TrainerID:       trainerID,
		MaxParticipants: input.MaxParticipants,
		Status:          model.FormationDraft,
	}
	if err := s.FormationRepo.Create(formation); err != nil {
		return nil, err
	}
	return formation, nil
}

func (s *FormationService) Get(id uint) (*model.Formation, error) {
	formation, err := s.FormationRepo.FindByIDWithModules(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFormationNotFound
		}
		return nil, err
	}
	return formation, nil
}

func (s *FormationService) ListActive(page, limit int) ([]model.Formation, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.FormationRepo.FindActive(page, limit)
}

func (s *FormationService) ListByTrainer(trainerID uint) ([]model.Formation, error) {
	return s.FormationRepo.FindByTrainer(trainerID)
}

func (s *FormationService) ListEnrolled(userID uint) ([]model.Formation, error) {
	return s.FormationRepo.FindEnrolled(userID)
}

// Update lets the owning trainer change the mutable fields.
func (s *FormationService) Update(trainerID, id uint, input FormationInput) (*model.Formation, error) {
	formation, err := s.FormationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFormationNotFound
		}
		return nil, err
	}
	if formation.TrainerID != trainerID {
		return nil, util.ErrPermissionDenied
	}

	formation.Title = input.Title
	formation.Description = input.Description
	formation.MaxParticipants = input.MaxParticipants
	if err := s.FormationRepo.Update(formation); err != nil {
		return nil, err
	}
	return formation, nil
}

func (s *FormationService) SetStatus(trainerID, id uint, status model.FormationStatus) error {
	formation, err := s.FormationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrFormationNotFound
		}
		return err
	}
	if formation.TrainerID != trainerID {
		return util.ErrPermissionDenied
	}
	return s.FormationRepo.UpdateStatus(id, status)
}

// Join enrolls a learner, respecting the participant limit.
func (s *FormationService) Join(formationID, userID uint) error {
	formation, err := s.FormationRepo.FindByID(formationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrFormationNotFound
		}
		return err
	}
	if formation.Status != model.FormationActive {
		return util.ErrFormationNotFound
	}

	enrolled, err := s.FormationRepo.IsEnrolled(formationID, userID)
	if err != nil {
		return err
	}
	if enrolled {
		return util.ErrAlreadyEnrolled
	}

	return s.FormationRepo.Enroll(formationID, userID)
}

// AssertOwner verifies the formation exists and belongs to the trainer.
func (s *FormationService) AssertOwner(trainerID, formationID uint) error {
	formation, err := s.FormationRepo.FindByID(formationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrFormationNotFound
		}
		return err
	}
	if formation.TrainerID != trainerID {
		return util.ErrPermissionDenied
	}
	return nil
}

// Participants resolves the enrolled users of a formation for its trainer.
func (s *FormationService) Participants(trainerID, formationID uint) ([]model.User, error) {
	formation, err := s.FormationRepo.FindByID(formationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFormationNotFound
		}
		return nil, err
	}
	if formation.TrainerID != trainerID {
		return nil, util.ErrPermissionDenied
	}

	ids, err := s.FormationRepo.ParticipantIDs(formationID)
	if err != nil {
		return nil, err
	}
	return s.UserRepo.FindByIDs(ids)
}
