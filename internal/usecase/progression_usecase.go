package usecase

import (
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// DefaultProgressionUsecase recomputes an affiliate's category, sub-level
// and revshare rates from the total indication count. Categories only move
// up: indication counters are lifetime accumulators and never decrease, so
// a lower band can only appear after a config change and is ignored.
type DefaultProgressionUsecase struct {
	metrics *metrics.EngineMetrics
}

func NewDefaultProgressionUsecase(m *metrics.EngineMetrics) *DefaultProgressionUsecase {
	return &DefaultProgressionUsecase{metrics: m}
}

// Recompute runs inside the caller's transaction and returns the progression
// event when a promotion happened, nil otherwise.
func (uc *DefaultProgressionUsecase) Recompute(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	affiliateID string,
	now time.Time,
) (*domain.ProgressionEvent, error) {
	affiliate, err := repos.Affiliates.GetAffiliateByID(affiliateID)
	if err != nil {
		return nil, err
	}

	total := affiliate.Progression.TotalIndications
	band, ok := cfg.CategoryFor(total)
	if !ok {
		return nil, domain.ErrConfigMissing
	}

	if band.Category < affiliate.Progression.Category {
		// config moved the band below the earned category, keep the category
		band, ok = cfg.CategoryConfigOf(affiliate.Progression.Category)
		if !ok {
			return nil, domain.ErrConfigMissing
		}
	}

	level := SubLevelFor(band, total)
	if band.Category == affiliate.Progression.Category && level < affiliate.Progression.CategoryLevel {
		// a reload that narrows the band must not pull an earned level back
		level = affiliate.Progression.CategoryLevel
	}
	directPct := DirectPercentFor(band, level)

	promoted := band.Category > affiliate.Progression.Category
	changed := promoted ||
		level != affiliate.Progression.CategoryLevel ||
		directPct != affiliate.Progression.RevSharePercentDirect ||
		band.IndirectRevSharePercent != affiliate.Progression.RevSharePercentIndirect

	if !changed {
		return nil, nil
	}

	var event *domain.ProgressionEvent
	if promoted {
		candidate := &domain.ProgressionEvent{
			ID:                 uuid.New().String(),
			AffiliateID:        affiliate.ID,
			OldCategory:        affiliate.Progression.Category,
			NewCategory:        band.Category,
			BonificationAmount: band.BonificationAmount,
			CreatedAt:          now,
		}
		created, err := repos.Affiliates.RecordProgression(candidate)
		if err != nil {
			return nil, err
		}
		if created {
			event = candidate
			if band.BonificationAmount > 0 {
				if err := uc.payBonification(repos, affiliate, candidate, now); err != nil {
					return nil, err
				}
			}
			uc.metrics.RecordPromotion(band.Category.String(), band.BonificationAmount)
		}
	}

	err = repos.Affiliates.UpdateProgression(
		affiliate.ID, band.Category, level, directPct, band.IndirectRevSharePercent)
	if err != nil {
		return nil, err
	}

	return event, nil
}

// payBonification writes the one-time promotion bonus, keyed by the
// progression event so a replay cannot pay it twice.
func (uc *DefaultProgressionUsecase) payBonification(
	repos *domain.RepoSet,
	affiliate *domain.Affiliate,
	event *domain.ProgressionEvent,
	now time.Time,
) error {
	inserted, err := repos.Commissions.InsertCommission(&domain.Commission{
		ID:                uuid.New().String(),
		RecipientID:       affiliate.ID,
		SourceAffiliateID: affiliate.ID,
		SourceRef:         event.ID,
		Type:              domain.CommissionTypeBonus,
		Level:             0,
		BaseAmount:        event.BonificationAmount,
		Percent:           0,
		Amount:            event.BonificationAmount,
		FinalAmount:       event.BonificationAmount,
		Status:            domain.CommissionStatusCalculated,
		CreatedAt:         now,
	})
	if err != nil {
		return err
	}
	if inserted {
		uc.metrics.RecordCommission(string(domain.CommissionTypeBonus), 0, event.BonificationAmount)
	}
	return nil
}

// SubLevelFor interpolates the indication count onto the band's sub-levels.
// Integer arithmetic keeps the mapping monotone: each extra indication moves
// the level by zero or one, and the band's last count lands on the last
// sub-level.
func SubLevelFor(band *domain.CategoryConfig, totalIndications int64) int32 {
	span := band.MaxIndications - band.MinIndications
	if band.SubLevels <= 1 || span <= 1 {
		return 1
	}
	offset := totalIndications - band.MinIndications
	if offset < 0 {
		offset = 0
	}
	if offset > span-1 {
		offset = span - 1
	}
	return 1 + int32(offset*int64(band.SubLevels-1)/(span-1))
}

// DirectPercentFor maps a sub-level onto the band's revshare range.
func DirectPercentFor(band *domain.CategoryConfig, level int32) float64 {
	if band.SubLevels <= 1 {
		return band.MinRevSharePercent
	}
	if level > band.SubLevels {
		return band.MaxRevSharePercent
	}
	step := (band.MaxRevSharePercent - band.MinRevSharePercent) / float64(band.SubLevels-1)
	return band.MinRevSharePercent + step*float64(level-1)
}
