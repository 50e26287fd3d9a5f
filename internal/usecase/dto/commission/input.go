package commissiondto

import "github.com/apostamax/affiliate-service/internal/domain"

type ListCommissionsInput struct {
	Filters domain.CommissionFilters
	Page    int32
	Limit   int32
}

type ListCommissionsOutput struct {
	Commissions []*domain.Commission
	Total       int64
}
