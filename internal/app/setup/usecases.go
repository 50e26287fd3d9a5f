package setup

import (
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	"github.com/apostamax/affiliate-service/internal/usecase"
)

type UseCases struct {
	Engine     *usecase.DefaultEngineUsecase
	Settlement *usecase.DefaultSettlementUsecase
	Inactivity *usecase.DefaultInactivityUsecase
	Affiliate  usecase.AffiliateUsecase
	Commission usecase.CommissionUsecase
	Metrics    *metrics.EngineMetrics
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	engineMetrics := deps.Metrics

	resolver := usecase.NewDefaultHierarchyResolver(deps.Repositories.AffiliateRepo, engineMetrics)
	validator := usecase.NewDefaultCPAValidatorUsecase(engineMetrics)
	distributor := usecase.NewDefaultDistributorUsecase(engineMetrics)
	progression := usecase.NewDefaultProgressionUsecase(engineMetrics)

	engine := usecase.NewDefaultEngineUsecase(
		deps.UnitOfWork,
		deps.Tables,
		resolver,
		validator,
		distributor,
		progression,
		deps.Publisher,
		engineMetrics,
		deps.Config.Engine.MaxHierarchyLevels,
	)

	settlement := usecase.NewDefaultSettlementUsecase(
		deps.UnitOfWork,
		deps.Tables,
		resolver,
		distributor,
		deps.Publisher,
		engineMetrics,
		deps.Config.Engine.MaxHierarchyLevels,
	)

	inactivity := usecase.NewDefaultInactivityUsecase(deps.UnitOfWork, deps.Tables, engineMetrics)

	return &UseCases{
		Engine:     engine,
		Settlement: settlement,
		Inactivity: inactivity,
		Affiliate:  usecase.NewDefaultAffiliateUsecase(deps.Repositories.AffiliateRepo, resolver),
		Commission: usecase.NewDefaultCommissionUsecase(deps.Repositories.CommissionRepo, deps.Repositories.AffiliateRepo),
		Metrics:    engineMetrics,
	}
}
