package service

import (
	"edutrack_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func moduleWithLessons(id uint, title string, lessonIDs ...uint) model.Module {
	m := model.Module{
		BaseModel: model.BaseModel{ID: id},
		Title:     title,
	}
	for _, lid := range lessonIDs {
		m.Lessons = append(m.Lessons, model.Lesson{
			BaseModel: model.BaseModel{ID: lid},
			ModuleID:  id,
		})
	}
	return m
}

func completedSet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func TestComputeModuleProgress(t *testing.T) {
	module := moduleWithLessons(1, "Basics", 10, 11, 12)

	p := ComputeModuleProgress(&module, completedSet(LessonKey(10), LessonKey(12)))
	assert.Equal(t, 2, p.CompletedLessons)
	assert.Equal(t, 3, p.TotalLessons)
	assert.Equal(t, 67, p.Percentage)
	assert.False(t, p.Completed)

	p = ComputeModuleProgress(&module, completedSet(LessonKey(10), LessonKey(11), LessonKey(12)))
	assert.Equal(t, 100, p.Percentage)
	assert.True(t, p.Completed)
}

func TestComputeModuleProgressEmptyModule(t *testing.T) {
	module := moduleWithLessons(1, "Empty")

	p := ComputeModuleProgress(&module, completedSet())
	assert.Equal(t, 0, p.TotalLessons)
	assert.Equal(t, 0, p.Percentage)
	assert.False(t, p.Completed)
}

func TestComputeModuleProgressIgnoresForeignKeys(t *testing.T) {
	module := moduleWithLessons(1, "Basics", 10)

	// Completions belonging to other modules or quizzes don't leak in.
	p := ComputeModuleProgress(&module, completedSet(LessonKey(99), QuizLessonKey(1)))
	assert.Equal(t, 0, p.CompletedLessons)
}

func TestComputeFormationProgress(t *testing.T) {
	modules := []model.Module{
		moduleWithLessons(1, "Intro", 10),
		moduleWithLessons(2, "Deep dive", 20, 21),
	}

	fp := ComputeFormationProgress(5, modules, completedSet(LessonKey(10), LessonKey(20)))
	assert.Equal(t, uint(5), fp.FormationID)
	assert.Equal(t, 2, fp.CompletedLessons)
	assert.Equal(t, 3, fp.TotalLessons)
	// Overall ratio is completed over total, not an average of module ratios.
	assert.Equal(t, 67, fp.Percentage)
	assert.Len(t, fp.Modules, 2)
	assert.True(t, fp.Modules[0].Completed)
	assert.False(t, fp.Modules[1].Completed)
}

func TestComputeFormationProgressNoLessons(t *testing.T) {
	fp := ComputeFormationProgress(5, nil, completedSet())
	assert.Equal(t, 0, fp.Percentage)
	assert.Empty(t, fp.Modules)
}

func TestLessonKeys(t *testing.T) {
	assert.Equal(t, "42", LessonKey(42))
	assert.Equal(t, "quiz-7", QuizLessonKey(7))
	assert.NotEqual(t, LessonKey(7), QuizLessonKey(7))
}
