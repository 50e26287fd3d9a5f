package mappers

import (
	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/models"
)

func ToDomainAffiliate(model *models.AffiliateModel) *domain.Affiliate {
	return &domain.Affiliate{
		ID:           model.ID,
		UserID:       model.UserID,
		ReferralCode: model.ReferralCode,
		SponsorID:    model.SponsorID,
		Depth:        model.Depth,
		Progression: domain.AffiliateProgression{
			Category:                domain.Category(model.Category),
			CategoryLevel:           model.CategoryLevel,
			DirectIndications:       model.DirectIndications,
			TotalIndications:        model.TotalIndications,
			RevSharePercentDirect:   model.RevSharePercentDirect,
			RevSharePercentIndirect: model.RevSharePercentIndirect,
		},
		Financials: domain.AffiliateFinancials{
			LifetimeCommissions: model.LifetimeCommissions,
			LifetimeVolume:      model.LifetimeVolume,
			PeriodCommissions:   model.PeriodCommissions,
			PeriodVolume:        model.PeriodVolume,
			AvailableBalance:    model.AvailableBalance,
			LockedBalance:       model.LockedBalance,
		},
		Status:                   domain.AffiliateStatus(model.Status),
		LastActivityAt:           model.LastActivityAt,
		InactiveSince:            model.InactiveSince,
		IndicationsSinceInactive: model.IndicationsSinceInactive,
		RevShareReductionFactor:  model.ReductionFactor,
		CreatedAt:                model.CreatedAt,
		UpdatedAt:                model.UpdatedAt,
	}
}

func ToGORMAffiliate(affiliate *domain.Affiliate) *models.AffiliateModel {
	return &models.AffiliateModel{
		ID:                       affiliate.ID,
		UserID:                   affiliate.UserID,
		ReferralCode:             affiliate.ReferralCode,
		SponsorID:                affiliate.SponsorID,
		Depth:                    affiliate.Depth,
		Category:                 int32(affiliate.Progression.Category),
		CategoryLevel:            affiliate.Progression.CategoryLevel,
		DirectIndications:        affiliate.Progression.DirectIndications,
		TotalIndications:         affiliate.Progression.TotalIndications,
		RevSharePercentDirect:    affiliate.Progression.RevSharePercentDirect,
		RevSharePercentIndirect:  affiliate.Progression.RevSharePercentIndirect,
		LifetimeCommissions:      affiliate.Financials.LifetimeCommissions,
		LifetimeVolume:           affiliate.Financials.LifetimeVolume,
		PeriodCommissions:        affiliate.Financials.PeriodCommissions,
		PeriodVolume:             affiliate.Financials.PeriodVolume,
		AvailableBalance:         affiliate.Financials.AvailableBalance,
		LockedBalance:            affiliate.Financials.LockedBalance,
		Status:                   string(affiliate.Status),
		LastActivityAt:           affiliate.LastActivityAt,
		InactiveSince:            affiliate.InactiveSince,
		IndicationsSinceInactive: affiliate.IndicationsSinceInactive,
		ReductionFactor:          affiliate.RevShareReductionFactor,
		CreatedAt:                affiliate.CreatedAt,
		UpdatedAt:                affiliate.UpdatedAt,
	}
}
