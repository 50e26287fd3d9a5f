package usecase

import (
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// DefaultCPAValidatorUsecase decides whether a (customer, affiliate) pair has
// earned its one-time CPA. Two models are checked in order: a qualifying
// first deposit, then the trailing activity window. The stored validation
// row is the single source of truth; re-checks after a win are no-ops.
type DefaultCPAValidatorUsecase struct {
	metrics *metrics.EngineMetrics
}

func NewDefaultCPAValidatorUsecase(m *metrics.EngineMetrics) *DefaultCPAValidatorUsecase {
	return &DefaultCPAValidatorUsecase{metrics: m}
}

func (uc *DefaultCPAValidatorUsecase) Validate(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	customerID, affiliateID string,
	now time.Time,
) (*domain.ValidationResult, error) {
	existing, err := repos.Validations.GetValidation(customerID, affiliateID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &domain.ValidationResult{
			Passed:         true,
			NewlyValidated: false,
			Model:          existing.Model,
		}, nil
	}

	model, passed, err := uc.evaluate(repos, cfg, customerID, now)
	if err != nil {
		return nil, err
	}
	if !passed {
		uc.metrics.RecordValidation(string(model), "pending")
		return &domain.ValidationResult{Passed: false}, nil
	}

	inserted, err := repos.Validations.InsertValidation(&domain.CPAValidation{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		AffiliateID: affiliateID,
		Model:       model,
		Status:      domain.ValidationStatusValidated,
		ValidatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordValidation(string(model), "validated")

	return &domain.ValidationResult{
		Passed:         true,
		NewlyValidated: inserted,
		Model:          model,
	}, nil
}

func (uc *DefaultCPAValidatorUsecase) evaluate(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	customerID string,
	now time.Time,
) (domain.CPAModel, bool, error) {
	first, err := repos.Transactions.FirstDeposit(customerID)
	if err != nil {
		return "", false, err
	}
	if first != nil && first.Amount >= cfg.CPA.MinFirstDeposit {
		return domain.CPAModelFirstDeposit, true, nil
	}

	// trailing window, recomputed on every attempt so late activity counts
	from := now.AddDate(0, 0, -cfg.CPA.ValidationWindowDays)

	maxDeposit, err := repos.Transactions.MaxDepositInWindow(customerID, from, now)
	if err != nil {
		return "", false, err
	}
	if maxDeposit < cfg.CPA.MinActivityDeposit {
		return domain.CPAModelActivity, false, nil
	}

	depositCount, err := repos.Transactions.CountDepositsInWindow(customerID, from, now)
	if err != nil {
		return "", false, err
	}
	if depositCount >= cfg.CPA.MinActivityCount {
		return domain.CPAModelActivity, true, nil
	}

	ggr, err := repos.Transactions.GGRInWindow(customerID, from, now)
	if err != nil {
		return "", false, err
	}
	return domain.CPAModelActivity, ggr >= cfg.CPA.MinActivityGGR, nil
}
