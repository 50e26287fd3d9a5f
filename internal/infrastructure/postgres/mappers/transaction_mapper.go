package mappers

import (
	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:          model.ID,
		ExternalID:  model.ExternalID,
		CustomerID:  model.CustomerID,
		AffiliateID: model.AffiliateID,
		Type:        domain.TransactionType(model.Type),
		Amount:      model.Amount,
		Currency:    model.Currency,
		Status:      domain.TransactionStatus(model.Status),
		Metadata:    model.Metadata,
		EngineDone:  model.EngineDone,
		ProcessedAt: model.ProcessedAt,
		CreatedAt:   model.CreatedAt,
	}
}

func ToGORMTransaction(transaction *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:          transaction.ID,
		ExternalID:  transaction.ExternalID,
		CustomerID:  transaction.CustomerID,
		AffiliateID: transaction.AffiliateID,
		Type:        string(transaction.Type),
		Amount:      transaction.Amount,
		Currency:    transaction.Currency,
		Status:      string(transaction.Status),
		Metadata:    transaction.Metadata,
		EngineDone:  transaction.EngineDone,
		ProcessedAt: transaction.ProcessedAt,
		CreatedAt:   transaction.CreatedAt,
	}
}

func ToDomainValidation(model *models.CPAValidationModel) *domain.CPAValidation {
	return &domain.CPAValidation{
		ID:          model.ID,
		CustomerID:  model.CustomerID,
		AffiliateID: model.AffiliateID,
		Model:       domain.CPAModel(model.Model),
		Status:      domain.ValidationStatus(model.Status),
		ValidatedAt: model.ValidatedAt,
	}
}

func ToGORMValidation(validation *domain.CPAValidation) *models.CPAValidationModel {
	return &models.CPAValidationModel{
		ID:          validation.ID,
		CustomerID:  validation.CustomerID,
		AffiliateID: validation.AffiliateID,
		Model:       string(validation.Model),
		Status:      string(validation.Status),
		ValidatedAt: validation.ValidatedAt,
	}
}
