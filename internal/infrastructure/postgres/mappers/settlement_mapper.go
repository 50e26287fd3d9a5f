package mappers

import (
	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/models"
)

func ToDomainPeriod(model *models.SettlementPeriodModel) *domain.SettlementPeriod {
	return &domain.SettlementPeriod{
		ID:        model.ID,
		Type:      domain.PeriodType(model.Type),
		StartsAt:  model.StartsAt,
		EndsAt:    model.EndsAt,
		Status:    domain.PeriodStatus(model.Status),
		TotalGGR:  model.TotalGGR,
		TotalNGR:  model.TotalNGR,
		SettledAt: model.SettledAt,
		CreatedAt: model.CreatedAt,
	}
}

func ToGORMPeriod(period *domain.SettlementPeriod) *models.SettlementPeriodModel {
	return &models.SettlementPeriodModel{
		ID:        period.ID,
		Type:      string(period.Type),
		StartsAt:  period.StartsAt,
		EndsAt:    period.EndsAt,
		Status:    string(period.Status),
		TotalGGR:  period.TotalGGR,
		TotalNGR:  period.TotalNGR,
		SettledAt: period.SettledAt,
		CreatedAt: period.CreatedAt,
	}
}

func ToDomainAffiliateSettlement(model *models.AffiliateSettlementModel) *domain.AffiliateSettlement {
	return &domain.AffiliateSettlement{
		ID:           model.ID,
		PeriodID:     model.PeriodID,
		AffiliateID:  model.AffiliateID,
		GGR:          model.GGR,
		NGR:          model.NGR,
		CarryoverIn:  model.CarryoverIn,
		CarryoverOut: model.CarryoverOut,
		Distributed:  model.Distributed,
		CreatedAt:    model.CreatedAt,
	}
}

func ToGORMAffiliateSettlement(settlement *domain.AffiliateSettlement) *models.AffiliateSettlementModel {
	return &models.AffiliateSettlementModel{
		ID:           settlement.ID,
		PeriodID:     settlement.PeriodID,
		AffiliateID:  settlement.AffiliateID,
		GGR:          settlement.GGR,
		NGR:          settlement.NGR,
		CarryoverIn:  settlement.CarryoverIn,
		CarryoverOut: settlement.CarryoverOut,
		Distributed:  settlement.Distributed,
		CreatedAt:    settlement.CreatedAt,
	}
}

func ToDomainVault(model *models.VaultModel) *domain.Vault {
	return &domain.Vault{
		ID:                 model.ID,
		PeriodID:           model.PeriodID,
		TotalNGR:           model.TotalNGR,
		AffiliatesShare:    model.AffiliatesShare,
		RankingsShare:      model.RankingsShare,
		NextDistributionAt: model.NextDistributionAt,
		CreatedAt:          model.CreatedAt,
	}
}

func ToGORMVault(vault *domain.Vault) *models.VaultModel {
	return &models.VaultModel{
		ID:                 vault.ID,
		PeriodID:           vault.PeriodID,
		TotalNGR:           vault.TotalNGR,
		AffiliatesShare:    vault.AffiliatesShare,
		RankingsShare:      vault.RankingsShare,
		NextDistributionAt: vault.NextDistributionAt,
		CreatedAt:          vault.CreatedAt,
	}
}
