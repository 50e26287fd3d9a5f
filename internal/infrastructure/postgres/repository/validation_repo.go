package repository

import (
	"errors"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/mappers"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultValidationRepository struct {
	DB *gorm.DB
}

func NewDefaultValidationRepository(db *gorm.DB) *DefaultValidationRepository {
	return &DefaultValidationRepository{DB: db}
}

func (r *DefaultValidationRepository) GetValidation(customerID, affiliateID string) (*domain.CPAValidation, error) {
	var model models.CPAValidationModel
	err := r.DB.
		Where("customer_id = ? AND affiliate_id = ?", customerID, affiliateID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainValidation(&model), nil
}

func (r *DefaultValidationRepository) InsertValidation(validation *domain.CPAValidation) (bool, error) {
	model := mappers.ToGORMValidation(validation)
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "affiliate_id"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
