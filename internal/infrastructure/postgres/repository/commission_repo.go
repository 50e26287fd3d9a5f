package repository

import (
	"errors"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/mappers"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCommissionRepository struct {
	DB *gorm.DB
}

func NewDefaultCommissionRepository(db *gorm.DB) *DefaultCommissionRepository {
	return &DefaultCommissionRepository{DB: db}
}

func (r *DefaultCommissionRepository) InsertCommission(commission *domain.Commission) (bool, error) {
	model := mappers.ToGORMCommission(commission)
	result := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "source_ref"},
			{Name: "source_affiliate_id"},
			{Name: "recipient_id"},
			{Name: "level"},
		},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DefaultCommissionRepository) GetCommissionByID(commissionID string) (*domain.Commission, error) {
	var model models.CommissionModel
	if err := r.DB.First(&model, "id = ?", commissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommissionNotFound
		}
		return nil, err
	}
	return mappers.ToDomainCommission(&model), nil
}

func (r *DefaultCommissionRepository) ListCommissionsBySourceRef(sourceRef string) ([]*domain.Commission, error) {
	var commissionModels []models.CommissionModel
	if err := r.DB.
		Where("source_ref = ?", sourceRef).
		Order("level ASC").
		Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	commissions := make([]*domain.Commission, len(commissionModels))
	for i := range commissionModels {
		commissions[i] = mappers.ToDomainCommission(&commissionModels[i])
	}
	return commissions, nil
}

func (r *DefaultCommissionRepository) ListCommissions(filters domain.CommissionFilters, page, limit int32) ([]*domain.Commission, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	query := r.DB.Model(&models.CommissionModel{})
	if filters.RecipientID != "" {
		query = query.Where("recipient_id = ?", filters.RecipientID)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", string(filters.Type))
	}
	if filters.Status != "" {
		query = query.Where("status = ?", string(filters.Status))
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var commissionModels []models.CommissionModel
	if err := query.
		Order("created_at DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&commissionModels).Error; err != nil {
		return nil, 0, err
	}

	commissions := make([]*domain.Commission, len(commissionModels))
	for i := range commissionModels {
		commissions[i] = mappers.ToDomainCommission(&commissionModels[i])
	}
	return commissions, total, nil
}

func (r *DefaultCommissionRepository) UpdateStatus(commissionID string, from, to domain.CommissionStatus, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status": string(to),
	}
	switch to {
	case domain.CommissionStatusApproved:
		updates["approved_at"] = at
	case domain.CommissionStatusPaid:
		updates["paid_at"] = at
	}
	result := r.DB.Model(&models.CommissionModel{}).
		Where("id = ? AND status = ?", commissionID, string(from)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
