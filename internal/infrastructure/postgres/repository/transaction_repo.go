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

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

func (r *DefaultTransactionRepository) InsertTransaction(transaction *domain.Transaction) (bool, error) {
	model := mappers.ToGORMTransaction(transaction)
	result := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DefaultTransactionRepository) GetTransactionByID(transactionID string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.DB.First(&model, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) UpdateTransactionStatus(transactionID string, status domain.TransactionStatus, amount float64) error {
	return r.DB.Model(&models.TransactionModel{}).
		Where("id = ? AND engine_done = ?", transactionID, false).
		Updates(map[string]interface{}{
			"status": string(status),
			"amount": amount,
		}).Error
}

func (r *DefaultTransactionRepository) MarkEngineProcessed(transactionID string, at time.Time) error {
	return r.DB.Model(&models.TransactionModel{}).
		Where("id = ?", transactionID).
		Updates(map[string]interface{}{
			"engine_done":  true,
			"processed_at": at,
		}).Error
}

func (r *DefaultTransactionRepository) FirstDeposit(customerID string) (*domain.Transaction, error) {
	var model models.TransactionModel
	err := r.DB.
		Where("customer_id = ? AND type = ? AND status = ?",
			customerID, string(domain.TransactionTypeDeposit), string(domain.TransactionStatusProcessed)).
		Order("created_at ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) CountDepositsInWindow(customerID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&models.TransactionModel{}).
		Where("customer_id = ? AND type = ? AND status = ? AND created_at >= ? AND created_at <= ?",
			customerID, string(domain.TransactionTypeDeposit), string(domain.TransactionStatusProcessed), from, to).
		Count(&count).Error
	return count, err
}

func (r *DefaultTransactionRepository) MaxDepositInWindow(customerID string, from, to time.Time) (float64, error) {
	var max *float64
	err := r.DB.Model(&models.TransactionModel{}).
		Select("MAX(amount)").
		Where("customer_id = ? AND type = ? AND status = ? AND created_at >= ? AND created_at <= ?",
			customerID, string(domain.TransactionTypeDeposit), string(domain.TransactionStatusProcessed), from, to).
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *DefaultTransactionRepository) GGRInWindow(customerID string, from, to time.Time) (float64, error) {
	var sum *float64
	err := r.DB.Model(&models.TransactionModel{}).
		Select("SUM(amount)").
		Where("customer_id = ? AND type = ? AND status = ? AND created_at >= ? AND created_at <= ?",
			customerID, string(domain.TransactionTypeBet), string(domain.TransactionStatusProcessed), from, to).
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

func (r *DefaultTransactionRepository) AggregateGGRByAffiliate(from, to time.Time) (map[string]float64, error) {
	type row struct {
		AffiliateID string
		GGR         float64
	}
	var rows []row
	err := r.DB.Model(&models.TransactionModel{}).
		Select("affiliate_id, SUM(amount) AS ggr").
		Where("type = ? AND status = ? AND created_at >= ? AND created_at < ?",
			string(domain.TransactionTypeBet), string(domain.TransactionStatusProcessed), from, to).
		Group("affiliate_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]float64, len(rows))
	for _, r := range rows {
		if r.AffiliateID == "" {
			continue
		}
		result[r.AffiliateID] = r.GGR
	}
	return result, nil
}
