package service

import (
	"context"
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/repository"
	"edutrack_backend/internal/util"
	"edutrack_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LessonKey renders the progress key of a regular lesson.
func LessonKey(lessonID uint) string {
	return strconv.FormatUint(uint64(lessonID), 10)
}

// QuizLessonKey is the synthetic key a passed quiz completes, so quizzes count
// in the same completion arithmetic as lessons.
func QuizLessonKey(moduleID uint) string {
	return fmt.Sprintf("quiz-%d", moduleID)
}

type ModuleProgress struct {
	ModuleID         uint   `json:"moduleId"`
	Title            string `json:"title"`
	CompletedLessons int    `json:"completedLessons"`
	TotalLessons     int    `json:"totalLessons"`
	Percentage       int    `json:"percentage"`
	Completed        bool   `json:"completed"`
}

type FormationProgress struct {
	FormationID      uint             `json:"formationId"`
	CompletedLessons int              `json:"completedLessons"`
	TotalLessons     int              `json:"totalLessons"`
	Percentage       int              `json:"percentage"`
	Modules          []ModuleProgress `json:"modules"`
}

// ComputeModuleProgress derives one module's completion ratio from its lesson
// list and the learner's completed-key set. A module with zero lessons is
// never complete.
func ComputeModuleProgress(module *model.Module, completed map[string]bool) ModuleProgress {
	p := ModuleProgress{
		ModuleID:     module.ID,
		Title:        module.Title,
		TotalLessons: len(module.Lessons),
	}

	for _, lesson := range module.Lessons {
		if completed[LessonKey(lesson.ID)] {
			p.CompletedLessons++
		}
	}

	if p.TotalLessons == 0 {
		return p
	}

	p.Percentage = int(math.Round(100 * float64(p.CompletedLessons) / float64(p.TotalLessons)))
	p.Completed = p.CompletedLessons == p.TotalLessons
	return p
}

// ComputeFormationProgress aggregates per-module ratios and the overall
// percentage. The overall ratio divides by the total lesson count across all
// modules of the formation.
func ComputeFormationProgress(formationID uint, modules []model.Module, completed map[string]bool) FormationProgress {
	fp := FormationProgress{
		FormationID: formationID,
		Modules:     make([]ModuleProgress, 0, len(modules)),
	}

	for i := range modules {
		mp := ComputeModuleProgress(&modules[i], completed)
		fp.Modules = append(fp.Modules, mp)
		fp.CompletedLessons += mp.CompletedLessons
		fp.TotalLessons += mp.TotalLessons
	}

	if fp.TotalLessons > 0 {
		fp.Percentage = int(math.Round(100 * float64(fp.CompletedLessons) / float64(fp.TotalLessons)))
	}
	return fp
}

// ProgressEvent is pushed to live subscribers whenever a completion lands.
type ProgressEvent struct {
	UserID      uint      `json:"userId"`
	FormationID uint      `json:"formationId"`
	ModuleID    uint      `json:"moduleId"`
	LessonKey   string    `json:"lessonKey"`
	CompletedAt time.Time `json:"completedAt"`
}

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	ModuleRepo   *repository.ModuleRepository
	LessonRepo   *repository.LessonRepository
	Redis        *redis.Client
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	moduleRepo *repository.ModuleRepository,
	lessonRepo *repository.LessonRepository,
	rdb *redis.Client,
) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		ModuleRepo:   moduleRepo,
		LessonRepo:   lessonRepo,
		Redis:        rdb,
	}
}

func progressChannel(userID, formationID uint) string {
	return fmt.Sprintf("progress:%d:%d", userID, formationID)
}

// CompleteLesson appends a completion record for (user, lesson). Repeated
// completion is a no-op; subscribers only hear about the first one.
func (s *ProgressService) CompleteLesson(userID, lessonID uint) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}

	module, err := s.ModuleRepo.FindByID(lesson.ModuleID)
	if err != nil {
		return err
	}

	record := &model.ProgressRecord{
		UserID:      userID,
		FormationID: module.FormationID,
		ModuleID:    module.ID,
		LessonKey:   LessonKey(lessonID),
		CompletedAt: time.Now(),
	}
	if err := s.ProgressRepo.Create(record); err != nil {
		return err
	}
	if record.ID == 0 {
		// Conflict: the lesson was already completed.
		return nil
	}

	s.publish(record)
	return nil
}

// RecordQuizPass files the synthetic quiz completion for a module.
func (s *ProgressService) RecordQuizPass(userID, formationID, moduleID uint) error {
	record := &model.ProgressRecord{
		UserID:      userID,
		FormationID: formationID,
		ModuleID:    moduleID,
		LessonKey:   QuizLessonKey(moduleID),
		CompletedAt: time.Now(),
	}
	if err := s.ProgressRepo.Create(record); err != nil {
		return err
	}
	if record.ID == 0 {
		return nil
	}

	s.publish(record)
	return nil
}

func (s *ProgressService) publish(record *model.ProgressRecord) {
	if s.Redis == nil {
		return
	}

	event := ProgressEvent{
		UserID:      record.UserID,
		FormationID: record.FormationID,
		ModuleID:    record.ModuleID,
		LessonKey:   record.LessonKey,
		CompletedAt: record.CompletedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Redis.Publish(ctx, progressChannel(record.UserID, record.FormationID), payload).Err(); err != nil {
		logger.Log.Warn("failed to publish progress event", zap.Error(err))
	}
}

// GetFormationProgress snapshots the module list once and joins it with the
// learner's completion set.
func (s *ProgressService) GetFormationProgress(userID, formationID uint) (*FormationProgress, error) {
	modules, err := s.ModuleRepo.FindByFormationWithLessons(formationID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ProgressRepo.CompletedLessonKeys(userID, formationID)
	if err != nil {
		return nil, err
	}

	fp := ComputeFormationProgress(formationID, modules, completed)
	return &fp, nil
}

// Subscribe delivers live progress events for (user, formation) until the
// cancel function is called or ctx ends. Ordering across different
// subscriptions is not guaranteed.
func (s *ProgressService) Subscribe(ctx context.Context, userID, formationID uint) (<-chan ProgressEvent, func(), error) {
	sub := s.Redis.Subscribe(ctx, progressChannel(userID, formationID))

	// Force the subscription onto the wire before returning.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, err
	}

	events := make(chan ProgressEvent, 16)
	done := make(chan struct{})

	go func() {
		defer close(events)
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event ProgressEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logger.Log.Warn("malformed progress event", zap.Error(err))
					continue
				}
				select {
				case events <- event:
				default:
					// Slow consumer: drop rather than block the pump.
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		close(done)
		sub.Close()
	}
	return events, cancel, nil
}
