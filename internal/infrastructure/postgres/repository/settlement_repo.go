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

type DefaultSettlementRepository struct {
	DB *gorm.DB
}

func NewDefaultSettlementRepository(db *gorm.DB) *DefaultSettlementRepository {
	return &DefaultSettlementRepository{DB: db}
}

func (r *DefaultSettlementRepository) GetOrCreatePeriod(period *domain.SettlementPeriod) (*domain.SettlementPeriod, bool, error) {
	model := mappers.ToGORMPeriod(period)
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}, {Name: "starts_at"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return period, true, nil
	}

	var existing models.SettlementPeriodModel
	if err := r.DB.
		Where("type = ? AND starts_at = ?", string(period.Type), period.StartsAt).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return mappers.ToDomainPeriod(&existing), false, nil
}

func (r *DefaultSettlementRepository) GetPeriodByID(periodID string) (*domain.SettlementPeriod, error) {
	var model models.SettlementPeriodModel
	if err := r.DB.First(&model, "id = ?", periodID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainPeriod(&model), nil
}

func (r *DefaultSettlementRepository) AdvancePeriodStatus(periodID string, from, to domain.PeriodStatus) (bool, error) {
	result := r.DB.Model(&models.SettlementPeriodModel{}).
		Where("id = ? AND status = ?", periodID, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DefaultSettlementRepository) FinishPeriod(periodID string, totalGGR, totalNGR float64, at time.Time) error {
	return r.DB.Model(&models.SettlementPeriodModel{}).
		Where("id = ?", periodID).
		Updates(map[string]interface{}{
			"status":     string(domain.PeriodStatusSettled),
			"total_ggr":  totalGGR,
			"total_ngr":  totalNGR,
			"settled_at": at,
		}).Error
}

func (r *DefaultSettlementRepository) UpsertAffiliateSettlement(settlement *domain.AffiliateSettlement) (*domain.AffiliateSettlement, error) {
	model := mappers.ToGORMAffiliateSettlement(settlement)
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "period_id"}, {Name: "affiliate_id"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return settlement, nil
	}

	// A resumed run keeps the numbers the first run computed.
	var existing models.AffiliateSettlementModel
	if err := r.DB.
		Where("period_id = ? AND affiliate_id = ?", settlement.PeriodID, settlement.AffiliateID).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainAffiliateSettlement(&existing), nil
}

func (r *DefaultSettlementRepository) MarkDistributed(periodID, affiliateID string) error {
	return r.DB.Model(&models.AffiliateSettlementModel{}).
		Where("period_id = ? AND affiliate_id = ?", periodID, affiliateID).
		Update("distributed", true).Error
}

func (r *DefaultSettlementRepository) ListSettlementsByPeriod(periodID string) ([]*domain.AffiliateSettlement, error) {
	var settlementModels []models.AffiliateSettlementModel
	if err := r.DB.
		Where("period_id = ?", periodID).
		Find(&settlementModels).Error; err != nil {
		return nil, err
	}
	settlements := make([]*domain.AffiliateSettlement, len(settlementModels))
	for i := range settlementModels {
		settlements[i] = mappers.ToDomainAffiliateSettlement(&settlementModels[i])
	}
	return settlements, nil
}

func (r *DefaultSettlementRepository) LatestCarryover(affiliateID string, before time.Time) (float64, error) {
	var model models.AffiliateSettlementModel
	err := r.DB.
		Joins("JOIN settlement_periods ON settlement_periods.id = affiliate_settlements.period_id").
		Where("affiliate_settlements.affiliate_id = ? AND settlement_periods.starts_at < ?", affiliateID, before).
		Order("settlement_periods.starts_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return model.CarryoverOut, nil
}

func (r *DefaultSettlementRepository) SaveVault(vault *domain.Vault) error {
	model := mappers.ToGORMVault(vault)
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "period_id"}},
		UpdateAll: true,
	}).Create(model).Error
}

func (r *DefaultSettlementRepository) GetVaultByPeriod(periodID string) (*domain.Vault, error) {
	var model models.VaultModel
	if err := r.DB.First(&model, "period_id = ?", periodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainVault(&model), nil
}
