package repository

import (
	"github.com/apostamax/affiliate-service/internal/domain"
	"gorm.io/gorm"
)

// GormUnitOfWork binds the repository set to a single database transaction.
type GormUnitOfWork struct {
	DB *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{DB: db}
}

func (u *GormUnitOfWork) Do(fn func(repos *domain.RepoSet) error) error {
	return u.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&domain.RepoSet{
			Affiliates:   NewDefaultAffiliateRepository(tx),
			Commissions:  NewDefaultCommissionRepository(tx),
			Transactions: NewDefaultTransactionRepository(tx),
			Validations:  NewDefaultValidationRepository(tx),
			Settlements:  NewDefaultSettlementRepository(tx),
		})
	})
}
