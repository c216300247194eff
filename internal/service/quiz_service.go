package service

import (
	"edutrack_backend/internal/config"
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/util"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

type QuizStore interface {
	FindQuestionsByModule(moduleID uint) ([]model.QuizQuestion, error)
	CountResults(userID, moduleID uint) (int64, error)
	CreateResult(result *model.QuizResult) error
	FindResults(userID, moduleID uint) ([]model.QuizResult, error)
}

type ModuleDirectory interface {
	FindByID(id uint) (*model.Module, error)
}

// QuizPassRecorder files the synthetic completion a passed quiz produces.
type QuizPassRecorder interface {
	RecordQuizPass(userID, formationID, moduleID uint) error
}

type QuizService struct {
	Quizzes  QuizStore
	Modules  ModuleDirectory
	Progress QuizPassRecorder
	Cfg      *config.Config
}

func NewQuizService(quizzes QuizStore, modules ModuleDirectory, progress QuizPassRecorder, cfg *config.Config) *QuizService {
	return &QuizService{
		Quizzes:  quizzes,
		Modules:  modules,
		Progress: progress,
		Cfg:      cfg,
	}
}

type QuizScore struct {
	Score       int  `json:"score"`
	TotalPoints int  `json:"totalPoints"`
	Percentage  int  `json:"percentage"`
	Passed      bool `json:"passed"`
}

// ScoreQuiz computes the weighted score of answers against questions, in
// question order. Questions without an explicit point value weigh 1.
func ScoreQuiz(questions []model.QuizQuestion, answers []int, passThreshold int) QuizScore {
	var score QuizScore

	for i, q := range questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		score.TotalPoints += points
		if i < len(answers) && answers[i] == q.CorrectIndex {
			score.Score += points
		}
	}

	if score.TotalPoints > 0 {
		score.Percentage = int(math.Round(100 * float64(score.Score) / float64(score.TotalPoints)))
	}
	score.Passed = score.Percentage >= passThreshold
	return score
}

// Submit scores one attempt and appends the result. Every attempt creates an
// independent row; the attempt number counts prior rows plus one. A pass also
// records the module's synthetic quiz completion.
func (s *QuizService) Submit(userID, moduleID uint, answers []int) (*model.QuizResult, error) {
	module, err := s.Modules.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	questions, err := s.Quizzes.FindQuestionsByModule(moduleID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuizEmpty
	}
	if len(answers) != len(questions) {
		return nil, util.ErrAnswerCountMismatch
	}

	score := ScoreQuiz(questions, answers, s.Cfg.Quiz.PassThreshold)

	prior, err := s.Quizzes.CountResults(userID, moduleID)
	if err != nil {
		return nil, err
	}

	result := &model.QuizResult{
		UserID:      userID,
		ModuleID:    moduleID,
		FormationID: module.FormationID,
		Score:       score.Score,
		TotalPoints: score.TotalPoints,
		Percentage:  score.Percentage,
		Passed:      score.Passed,
		Attempt:     int(prior) + 1,
		UserAnswers: model.IntSlice(answers),
		CompletedAt: time.Now(),
	}
	if err := s.Quizzes.CreateResult(result); err != nil {
		return nil, err
	}

	if score.Passed && s.Progress != nil {
		if err := s.Progress.RecordQuizPass(userID, module.FormationID, moduleID); err != nil {
			// The attempt is already persisted; completion bookkeeping failing
			// must not fail the submission.
			return result, nil
		}
	}

	return result, nil
}

// Questions returns a module's quiz in learner form, correct answers stripped
// by the model's serialization.
func (s *QuizService) Questions(moduleID uint) ([]model.QuizQuestion, error) {
	return s.Quizzes.FindQuestionsByModule(moduleID)
}

// History lists a learner's attempts for a module, newest first.
func (s *QuizService) History(userID, moduleID uint) ([]model.QuizResult, error) {
	return s.Quizzes.FindResults(userID, moduleID)
}

// ValidateQuestion rejects questions that cannot be answered.
func ValidateQuestion(q *model.QuizQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("question text is required")
	}
	if len(q.Options) < 2 {
		return errors.New("at least two options are required")
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return errors.New("correct index is out of range")
	}
	return nil
}
