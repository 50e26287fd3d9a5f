package usecase

import (
	"fmt"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// DefaultDistributorUsecase turns a validated CPA or a settled NGR figure
// into commission rows for the sponsor chain. Every insert is guarded by the
// commission unique index, so replays of the same source produce no new rows.
type DefaultDistributorUsecase struct {
	metrics *metrics.EngineMetrics
}

func NewDefaultDistributorUsecase(m *metrics.EngineMetrics) *DefaultDistributorUsecase {
	return &DefaultDistributorUsecase{metrics: m}
}

// DistributeCPA pays the fixed per-level amounts up the chain plus the
// direct bonus to the immediate sponsor. The triggering transaction id is
// the source ref for every row.
func (uc *DefaultDistributorUsecase) DistributeCPA(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	transaction *domain.Transaction,
	chain []*domain.ChainNode,
	now time.Time,
) ([]*domain.Commission, error) {
	created := make([]*domain.Commission, 0, len(chain)+1)

	for _, node := range chain {
		if !uc.eligible(node.Affiliate) {
			continue
		}
		amount := cfg.CPA.LevelAmounts[node.Level-1]
		if amount <= 0 {
			continue
		}
		commission := &domain.Commission{
			ID:                uuid.New().String(),
			RecipientID:       node.Affiliate.ID,
			SourceAffiliateID: transaction.AffiliateID,
			CustomerID:        transaction.CustomerID,
			SourceRef:         transaction.ID,
			Type:              domain.CommissionTypeCPA,
			Level:             node.Level,
			BaseAmount:        amount,
			Amount:            amount,
			FinalAmount:       amount,
			Status:            domain.CommissionStatusCalculated,
			CreatedAt:         now,
		}
		inserted, err := repos.Commissions.InsertCommission(commission)
		if err != nil {
			return nil, err
		}
		if inserted {
			created = append(created, commission)
			uc.metrics.RecordCommission(string(domain.CommissionTypeCPA), node.Level, amount)
		}
	}

	if len(chain) > 0 && uc.eligible(chain[0].Affiliate) && cfg.CPA.DirectBonusAmount > 0 {
		bonus := &domain.Commission{
			ID:                uuid.New().String(),
			RecipientID:       chain[0].Affiliate.ID,
			SourceAffiliateID: transaction.AffiliateID,
			CustomerID:        transaction.CustomerID,
			SourceRef:         transaction.ID,
			Type:              domain.CommissionTypeBonus,
			Level:             0,
			BaseAmount:        cfg.CPA.DirectBonusAmount,
			Amount:            cfg.CPA.DirectBonusAmount,
			FinalAmount:       cfg.CPA.DirectBonusAmount,
			Status:            domain.CommissionStatusCalculated,
			CreatedAt:         now,
		}
		inserted, err := repos.Commissions.InsertCommission(bonus)
		if err != nil {
			return nil, err
		}
		if inserted {
			created = append(created, bonus)
			uc.metrics.RecordCommission(string(domain.CommissionTypeBonus), 0, bonus.Amount)
		}
	}

	return created, nil
}

// DistributeRevShare pays a period's positive NGR up the chain. Each
// recipient earns at their own rate: the direct rate at level 1, the
// indirect rate above, both after any inactivity reduction.
func (uc *DefaultDistributorUsecase) DistributeRevShare(
	repos *domain.RepoSet,
	period *domain.SettlementPeriod,
	sourceAffiliateID string,
	ngr float64,
	chain []*domain.ChainNode,
	now time.Time,
) ([]*domain.Commission, error) {
	if ngr <= 0 {
		return nil, nil
	}

	created := make([]*domain.Commission, 0, len(chain))
	for _, node := range chain {
		if !uc.eligible(node.Affiliate) {
			continue
		}

		var percent float64
		if node.Level == 1 {
			percent = node.Affiliate.EffectiveRevShareDirect()
		} else {
			percent = node.Affiliate.EffectiveRevShareIndirect()
		}
		if percent <= 0 {
			continue
		}

		amount := ngr * percent / 100
		commission := &domain.Commission{
			ID:                uuid.New().String(),
			RecipientID:       node.Affiliate.ID,
			SourceAffiliateID: sourceAffiliateID,
			SourceRef:         period.ID,
			Type:              domain.CommissionTypeRevShare,
			Level:             node.Level,
			BaseAmount:        ngr,
			Percent:           percent,
			Amount:            amount,
			FinalAmount:       amount,
			Status:            domain.CommissionStatusCalculated,
			Metadata:          fmt.Sprintf(`{"period_type":%q}`, period.Type),
			CreatedAt:         now,
		}
		inserted, err := repos.Commissions.InsertCommission(commission)
		if err != nil {
			return nil, err
		}
		if inserted {
			created = append(created, commission)
			uc.metrics.RecordCommission(string(domain.CommissionTypeRevShare), node.Level, amount)
		}
	}

	return created, nil
}

// RecordIndicationCascade bumps indication counters once per validating
// transaction: the triggering affiliate gains a direct indication, every
// ancestor a total one. The indication event row is the replay guard.
func (uc *DefaultDistributorUsecase) RecordIndicationCascade(
	repos *domain.RepoSet,
	transaction *domain.Transaction,
	chain []*domain.ChainNode,
	now time.Time,
) (bool, error) {
	recorded, err := repos.Affiliates.RecordIndication(&domain.IndicationEvent{
		TransactionID: transaction.ID,
		AffiliateID:   transaction.AffiliateID,
		CreatedAt:     now,
	})
	if err != nil || !recorded {
		return false, err
	}

	if err := repos.Affiliates.IncrementIndications(transaction.AffiliateID, 1, 1); err != nil {
		return false, err
	}
	for _, node := range chain {
		if err := repos.Affiliates.IncrementIndications(node.Affiliate.ID, 0, 1); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (uc *DefaultDistributorUsecase) eligible(affiliate *domain.Affiliate) bool {
	switch affiliate.Status {
	case domain.AffiliateStatusSuspended, domain.AffiliateStatusBanned:
		uc.metrics.RecordSkippedRecipient(string(affiliate.Status))
		return false
	default:
		return true
	}
}
