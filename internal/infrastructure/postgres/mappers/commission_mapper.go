package mappers

import (
	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/models"
)

func ToDomainCommission(model *models.CommissionModel) *domain.Commission {
	return &domain.Commission{
		ID:                model.ID,
		RecipientID:       model.RecipientID,
		SourceAffiliateID: model.SourceAffiliateID,
		CustomerID:        model.CustomerID,
		SourceRef:         model.SourceRef,
		Type:              domain.CommissionType(model.Type),
		Level:             model.Level,
		BaseAmount:        model.BaseAmount,
		Percent:           model.Percent,
		Amount:            model.Amount,
		FinalAmount:       model.FinalAmount,
		Status:            domain.CommissionStatus(model.Status),
		Metadata:          model.Metadata,
		CreatedAt:         model.CreatedAt,
		ApprovedAt:        model.ApprovedAt,
		PaidAt:            model.PaidAt,
	}
}

func ToGORMCommission(commission *domain.Commission) *models.CommissionModel {
	return &models.CommissionModel{
		ID:                commission.ID,
		RecipientID:       commission.RecipientID,
		SourceAffiliateID: commission.SourceAffiliateID,
		CustomerID:        commission.CustomerID,
		SourceRef:         commission.SourceRef,
		Type:              string(commission.Type),
		Level:             commission.Level,
		BaseAmount:        commission.BaseAmount,
		Percent:           commission.Percent,
		Amount:            commission.Amount,
		FinalAmount:       commission.FinalAmount,
		Status:            string(commission.Status),
		Metadata:          commission.Metadata,
		CreatedAt:         commission.CreatedAt,
		ApprovedAt:        commission.ApprovedAt,
		PaidAt:            commission.PaidAt,
	}
}
