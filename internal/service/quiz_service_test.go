package service

import (
	"edutrack_backend/internal/config"
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeQuizStore struct {
	questions []model.QuizQuestion
	results   []model.QuizResult
}

func (f *fakeQuizStore) FindQuestionsByModule(moduleID uint) ([]model.QuizQuestion, error) {
	return f.questions, nil
}

func (f *fakeQuizStore) CountResults(userID, moduleID uint) (int64, error) {
	var n int64
	for _, r := range f.results {
		if r.UserID == userID && r.ModuleID == moduleID {
			n++
		}
	}
	return n, nil
}

func (f *fakeQuizStore) CreateResult(result *model.QuizResult) error {
	result.ID = uint(len(f.results) + 1)
	f.results = append(f.results, *result)
	return nil
}

func (f *fakeQuizStore) FindResults(userID, moduleID uint) ([]model.QuizResult, error) {
	var out []model.QuizResult
	for i := len(f.results) - 1; i >= 0; i-- {
		r := f.results[i]
		if r.UserID == userID && r.ModuleID == moduleID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeModuleDirectory struct {
	modules map[uint]*model.Module
}

func (f *fakeModuleDirectory) FindByID(id uint) (*model.Module, error) {
	m, ok := f.modules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

type fakePassRecorder struct {
	passes []uint // module ids
}

func (f *fakePassRecorder) RecordQuizPass(userID, formationID, moduleID uint) error {
	f.passes = append(f.passes, moduleID)
	return nil
}

func question(id uint, correct, points int) model.QuizQuestion {
	return model.QuizQuestion{
		BaseModel:    model.BaseModel{ID: id},
		ModuleID:     1,
		Question:     "q",
		Options:      model.StringSlice{"a", "b", "c"},
		CorrectIndex: correct,
		Points:       points,
	}
}

func TestScoreQuiz(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, 0, 0), // zero points weighs 1
		question(2, 1, 0),
		question(3, 2, 0),
	}

	score := ScoreQuiz(questions, []int{0, 1, 0}, 70)
	assert.Equal(t, 2, score.Score)
	assert.Equal(t, 3, score.TotalPoints)
	assert.Equal(t, 67, score.Percentage)
	assert.False(t, score.Passed)

	// Same inputs, same outputs.
	again := ScoreQuiz(questions, []int{0, 1, 0}, 70)
	assert.Equal(t, score, again)
}

func TestScoreQuizWeighted(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, 0, 3),
		question(2, 1, 1),
	}

	score := ScoreQuiz(questions, []int{0, 0}, 70)
	assert.Equal(t, 3, score.Score)
	assert.Equal(t, 4, score.TotalPoints)
	assert.Equal(t, 75, score.Percentage)
	assert.True(t, score.Passed)
}

func TestScoreQuizPassBoundary(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, 0, 0),
		question(2, 1, 0),
		question(3, 2, 0),
		question(4, 0, 0),
		question(5, 1, 0),
		question(6, 2, 0),
		question(7, 0, 0),
		question(8, 1, 0),
		question(9, 2, 0),
		question(10, 0, 0),
	}

	// 7/10 correct meets the 70 threshold exactly.
	answers := []int{0, 1, 2, 0, 1, 2, 0, 2, 0, 1}
	score := ScoreQuiz(questions, answers, 70)
	assert.Equal(t, 70, score.Percentage)
	assert.True(t, score.Passed)
}

func newQuizService(store *fakeQuizStore, modules *fakeModuleDirectory, recorder *fakePassRecorder) *QuizService {
	cfg := &config.Config{}
	cfg.Quiz.PassThreshold = 70
	return NewQuizService(store, modules, recorder, cfg)
}

func TestSubmitCountsAttempts(t *testing.T) {
	store := &fakeQuizStore{questions: []model.QuizQuestion{question(1, 0, 0), question(2, 1, 0)}}
	modules := &fakeModuleDirectory{modules: map[uint]*model.Module{
		1: {BaseModel: model.BaseModel{ID: 1}, FormationID: 5, Title: "m"},
	}}
	recorder := &fakePassRecorder{}
	svc := newQuizService(store, modules, recorder)

	first, err := svc.Submit(7, 1, []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Attempt)
	assert.False(t, first.Passed)
	assert.Empty(t, recorder.passes)

	second, err := svc.Submit(7, 1, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Attempt)
	assert.True(t, second.Passed)
	assert.Equal(t, []uint{1}, recorder.passes)

	// Both attempts are kept.
	history, err := svc.History(7, 1)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Attempt)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	store := &fakeQuizStore{questions: []model.QuizQuestion{question(1, 0, 0)}}
	modules := &fakeModuleDirectory{modules: map[uint]*model.Module{
		1: {BaseModel: model.BaseModel{ID: 1}, FormationID: 5},
	}}
	svc := newQuizService(store, modules, &fakePassRecorder{})

	_, err := svc.Submit(7, 99, []int{0})
	assert.ErrorIs(t, err, util.ErrModuleNotFound)

	_, err = svc.Submit(7, 1, []int{0, 1})
	assert.ErrorIs(t, err, util.ErrAnswerCountMismatch)

	store.questions = nil
	_, err = svc.Submit(7, 1, []int{0})
	assert.ErrorIs(t, err, util.ErrQuizEmpty)
}

func TestValidateQuestion(t *testing.T) {
	valid := question(1, 1, 1)
	assert.NoError(t, ValidateQuestion(&valid))

	empty := question(1, 1, 1)
	empty.Question = "  "
	assert.Error(t, ValidateQuestion(&empty))

	short := question(1, 0, 1)
	short.Options = model.StringSlice{"only"}
	assert.Error(t, ValidateQuestion(&short))

	oob := question(1, 3, 1)
	assert.Error(t, ValidateQuestion(&oob))
}
