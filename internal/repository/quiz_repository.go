package repository

import (
	"edutrack_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) CreateQuestion(question *model.QuizQuestion) error {
	return r.DB.Create(question).Error
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.QuizQuestion, error) {
	var question model.QuizQuestion
	err := r.DB.First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuizRepository) FindQuestionsByModule(moduleID uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("module_id = ?", moduleID).
		Order("`order` ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.QuizQuestion{}, id).Error
}

func (r *QuizRepository) CreateResult(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

func (r *QuizRepository) CountResults(userID, moduleID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizResult{}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Count(&count).Error
	return count, err
}

func (r *QuizRepository) FindResults(userID, moduleID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}
