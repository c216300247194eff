package service

import (
	"context"
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/repository"
	"edutrack_backend/internal/util"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
)

// ContentService manages the module/lesson tree under a formation, including
// the transactional reorder and reindex-on-delete batches.
type ContentService struct {
	FormationRepo *repository.FormationRepository
	ModuleRepo    *repository.ModuleRepository
	LessonRepo    *repository.LessonRepository
	QuizRepo      *repository.QuizRepository
	Storage       *StorageService
}

func NewContentService(
	formationRepo *repository.FormationRepository,
	moduleRepo *repository.ModuleRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
	storage *StorageService,
) *ContentService {
	return &ContentService{
		FormationRepo: formationRepo,
		ModuleRepo:    moduleRepo,
		LessonRepo:    lessonRepo,
		QuizRepo:      quizRepo,
		Storage:       storage,
	}
}

func (s *ContentService) ownedFormation(trainerID, formationID uint) (*model.Formation, error) {
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
	return formation, nil
}

func (s *ContentService) ownedModule(trainerID, moduleID uint) (*model.Module, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if _, err := s.ownedFormation(trainerID, module.FormationID); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ContentService) CreateModule(trainerID, formationID uint, title string) (*model.Module, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title is required")
	}
	if _, err := s.ownedFormation(trainerID, formationID); err != nil {
		return nil, err
	}

	order, err := s.ModuleRepo.NextOrder(formationID)
	if err != nil {
		return nil, err
	}

	module := &model.Module{
		FormationID: formationID,
		Title:       title,
		Order:       order,
	}
	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ContentService) RenameModule(trainerID, moduleID uint, title string) (*model.Module, error) {
	module, err := s.ownedModule(trainerID, moduleID)
	if err != nil {
		return nil, err
	}
	module.Title = title
	if err := s.ModuleRepo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

// ReorderModules applies a drag result: the full ordered id list is rewritten
// atomically.
func (s *ContentService) ReorderModules(trainerID, formationID uint, orderedIDs []uint) error {
	if _, err := s.ownedFormation(trainerID, formationID); err != nil {
		return err
	}
	return s.ModuleRepo.Reorder(formationID, orderedIDs)
}

// DeleteModule removes the module, its lessons and quiz questions, and
// compacts the order of the remaining modules.
func (s *ContentService) DeleteModule(trainerID, moduleID uint) error {
	module, err := s.ownedModule(trainerID, moduleID)
	if err != nil {
		return err
	}

	questions, err := s.QuizRepo.FindQuestionsByModule(module.ID)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if err := s.QuizRepo.DeleteQuestion(q.ID); err != nil {
			return err
		}
	}

	return s.ModuleRepo.Delete(module.ID)
}

func (s *ContentService) Modules(formationID uint) ([]model.Module, error) {
	return s.ModuleRepo.FindByFormationWithLessons(formationID)
}

type LessonInput struct {
	Title    string           `json:"title" binding:"required"`
	Type     model.LessonType `json:"type" binding:"required"`
	Content  string           `json:"content"`
	Duration int              `json:"duration"`
}

func (s *ContentService) CreateLesson(trainerID, moduleID uint, input LessonInput) (*model.Lesson, error) {
	module, err := s.ownedModule(trainerID, moduleID)
	if err != nil {
		return nil, err
	}

	switch input.Type {
	case model.LessonText, model.LessonVideo, model.LessonPDF:
	default:
		return nil, fmt.Errorf("unknown lesson type %q", input.Type)
	}

	order, err := s.LessonRepo.NextOrder(module.ID)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		ModuleID: module.ID,
		Title:    input.Title,
		Type:     input.Type,
		Content:  input.Content,
		Duration: input.Duration,
		Order:    order,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UploadLessonMedia stores an uploaded video or PDF and attaches it to the
// lesson. Video duration is probed when the client did not supply one.
func (s *ContentService) UploadLessonMedia(ctx context.Context, trainerID, lessonID uint, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if _, err := s.ownedModule(trainerID, lesson.ModuleID); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimePDF})
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	// Spool to a temp file so ffprobe can inspect it before upload.
	tmp, err := os.CreateTemp("", "lesson-*"+filepath.Ext(file.Filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		return nil, err
	}

	if util.IsVideo(mimeType) && lesson.Duration == 0 {
		if info, err := util.GetVideoInfo(tmp.Name()); err == nil {
			lesson.Duration = int(info.Duration)
		}
	}

	filename := fmt.Sprintf("lessons/%d-%s%s", lesson.ID, model.GenerateUUID(), filepath.Ext(file.Filename))
	url, err := s.Storage.UploadFile(ctx, filename, tmp.Name(), mimeType)
	if err != nil {
		return nil, err
	}

	lesson.Content = url
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *ContentService) ReorderLessons(trainerID, moduleID uint, orderedIDs []uint) error {
	if _, err := s.ownedModule(trainerID, moduleID); err != nil {
		return err
	}
	return s.LessonRepo.Reorder(moduleID, orderedIDs)
}

func (s *ContentService) DeleteLesson(trainerID, lessonID uint) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	if _, err := s.ownedModule(trainerID, lesson.ModuleID); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lesson.ID)
}

// CreateQuestion adds a quiz question to a module the trainer owns.
func (s *ContentService) CreateQuestion(trainerID uint, question *model.QuizQuestion) error {
	if _, err := s.ownedModule(trainerID, question.ModuleID); err != nil {
		return err
	}
	if err := ValidateQuestion(question); err != nil {
		return err
	}
	if question.Order == 0 {
		existing, err := s.QuizRepo.FindQuestionsByModule(question.ModuleID)
		if err != nil {
			return err
		}
		question.Order = len(existing)
	}
	return s.QuizRepo.CreateQuestion(question)
}

func (s *ContentService) DeleteQuestion(trainerID, questionID uint) error {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		return err
	}
	if _, err := s.ownedModule(trainerID, question.ModuleID); err != nil {
		return err
	}
	return s.QuizRepo.DeleteQuestion(questionID)
}
