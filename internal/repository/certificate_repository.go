package repository

import (
	"edutrack_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Create(cert *model.Certificate) error {
	return r.DB.Create(cert).Error
}

func (r *CertificateRepository) FindByUser(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) Exists(userID, formationID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Certificate{}).
		Where("user_id = ? AND formation_id = ?", userID, formationID).
		Count(&count).Error
	return count > 0, err
}
