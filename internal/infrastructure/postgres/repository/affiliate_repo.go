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

type DefaultAffiliateRepository struct {
	DB *gorm.DB
}

func NewDefaultAffiliateRepository(db *gorm.DB) *DefaultAffiliateRepository {
	return &DefaultAffiliateRepository{DB: db}
}

func (r *DefaultAffiliateRepository) CreateAffiliate(affiliate *domain.Affiliate) error {
	model := mappers.ToGORMAffiliate(affiliate)
	return r.DB.Create(model).Error
}

func (r *DefaultAffiliateRepository) GetAffiliateByID(affiliateID string) (*domain.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.DB.First(&model, "id = ?", affiliateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAffiliateNotFound
		}
		return nil, err
	}
	return mappers.ToDomainAffiliate(&model), nil
}

func (r *DefaultAffiliateRepository) GetAffiliateByUserID(userID string) (*domain.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.DB.First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAffiliateNotFound
		}
		return nil, err
	}
	return mappers.ToDomainAffiliate(&model), nil
}

func (r *DefaultAffiliateRepository) GetAffiliateByReferralCode(code string) (*domain.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.DB.First(&model, "referral_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAffiliateNotFound
		}
		return nil, err
	}
	return mappers.ToDomainAffiliate(&model), nil
}

func (r *DefaultAffiliateRepository) UpdateStatus(affiliateID string, status domain.AffiliateStatus) error {
	return r.DB.Model(&models.AffiliateModel{}).
		Where("id = ?", affiliateID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

func (r *DefaultAffiliateRepository) RecordIndication(event *domain.IndicationEvent) (bool, error) {
	model := models.IndicationEventModel{
		TransactionID: event.TransactionID,
		AffiliateID:   event.AffiliateID,
		CreatedAt:     event.CreatedAt,
	}
	result := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DefaultAffiliateRepository) IncrementIndications(affiliateID string, direct, total int64) error {
	return r.DB.Model(&models.AffiliateModel{}).
		Where("id = ?", affiliateID).
		Updates(map[string]interface{}{
			"direct_indications":         gorm.Expr("direct_indications + ?", direct),
			"total_indications":          gorm.Expr("total_indications + ?", total),
			"indications_since_inactive": gorm.Expr("indications_since_inactive + ?", total),
			"updated_at":                 time.Now(),
		}).Error
}

func (r *DefaultAffiliateRepository) RecordProgression(event *domain.ProgressionEvent) (bool, error) {
	model := models.ProgressionEventModel{
		ID:                 event.ID,
		AffiliateID:        event.AffiliateID,
		OldCategory:        int32(event.OldCategory),
		NewCategory:        int32(event.NewCategory),
		BonificationAmount: event.BonificationAmount,
		CreatedAt:          event.CreatedAt,
	}
	result := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DefaultAffiliateRepository) UpdateProgression(affiliateID string, category domain.Category, level int32, directPct, indirectPct float64) error {
	return r.DB.Model(&models.AffiliateModel{}).
		Where("id = ?", affiliateID).
		Updates(map[string]interface{}{
			"category":                   int32(category),
			"category_level":             level,
			"rev_share_percent_direct":   directPct,
			"rev_share_percent_indirect": indirectPct,
			"updated_at":                 time.Now(),
		}).Error
}

func (r *DefaultAffiliateRepository) RecordActivity(affiliateID string, at time.Time) error {
	return r.DB.Model(&models.AffiliateModel{}).
		Where("id = ?", affiliateID).
		Updates(map[string]interface{}{
			"last_activity_at": at,
			"updated_at":       time.Now(),
		}).Error
}

func (r *DefaultAffiliateRepository) AddCommissionEarnings(affiliateID string, amount float64) error {
	return r.DB.Model(&models.AffiliateModel{}).
		Where("id = ?", affiliateID).
		Updates(map[string]interface{}{
			"lifetime_commissions": gorm.Expr("lifetime_commissions + ?", amount),
			"period_commissions":   gorm.Expr("period_commissions + ?", amount),
			"available_balance":    gorm.Expr("available_balance + ?", amount),
			"updated_at":           time.Now(),
		}).Error
}

func (r *DefaultAffiliateRepository) FindDormant(lastActivityBefore time.Time) ([]*domain.Affiliate, error) {
	var affiliateModels []models.AffiliateModel
	if err := r.DB.
		Where("last_activity_at < ? AND status IN (?)", lastActivityBefore,
			[]string{string(domain.AffiliateStatusActive), string(domain.AffiliateStatusInactive)}).
		Find(&affiliateModels).Error; err != nil {
		return nil, err
	}
	affiliates := make([]*domain.Affiliate, len(affiliateModels))
	for i := range affiliateModels {
		affiliates[i] = mappers.ToDomainAffiliate(&affiliateModels[i])
	}
	return affiliates, nil
}

func (r *DefaultAffiliateRepository) FindReduced() ([]*domain.Affiliate, error) {
	var affiliateModels []models.AffiliateModel
	if err := r.DB.
		Where("reduction_factor > 0").
		Find(&affiliateModels).Error; err != nil {
		return nil, err
	}
	affiliates := make([]*domain.Affiliate, len(affiliateModels))
	for i := range affiliateModels {
		affiliates[i] = mappers.ToDomainAffiliate(&affiliateModels[i])
	}
	return affiliates, nil
}

func (r *DefaultAffiliateRepository) SetReduction(affiliateID string, factor float64, inactiveSince time.Time) error {
	return r.DB.Model(&models.AffiliateModel{}).
		Where("id = ?", affiliateID).
		Updates(map[string]interface{}{
			"reduction_factor": factor,
			"inactive_since":   gorm.Expr("COALESCE(inactive_since, ?)", inactiveSince),
			"status":           string(domain.AffiliateStatusInactive),
			"updated_at":       time.Now(),
		}).Error
}

func (r *DefaultAffiliateRepository) ClearReduction(affiliateID string, at time.Time) error {
	return r.DB.Model(&models.AffiliateModel{}).
		Where("id = ?", affiliateID).
		Updates(map[string]interface{}{
			"reduction_factor":           0.0,
			"inactive_since":             nil,
			"indications_since_inactive": 0,
			"status":                     string(domain.AffiliateStatusActive),
			"last_activity_at":           at,
			"updated_at":                 time.Now(),
		}).Error
}
