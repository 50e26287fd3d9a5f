package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	publisher "github.com/apostamax/affiliate-service/internal/infrastructure/kafka"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// DefaultSettlementUsecase closes revshare periods. A run is resumable: the
// period row, the per-affiliate settlement rows and the commission unique
// index each pin down work already done, so a crash mid-run and a second
// invocation converge on the same numbers.
type DefaultSettlementUsecase struct {
	uow         domain.UnitOfWork
	config      domain.ConfigProvider
	resolver    *DefaultHierarchyResolver
	distributor *DefaultDistributorUsecase
	publisher   EventPublisher
	metrics     *metrics.EngineMetrics
	maxLevels   int
	now         func() time.Time
}

func NewDefaultSettlementUsecase(
	uow domain.UnitOfWork,
	config domain.ConfigProvider,
	resolver *DefaultHierarchyResolver,
	distributor *DefaultDistributorUsecase,
	pub EventPublisher,
	m *metrics.EngineMetrics,
	maxLevels int,
) *DefaultSettlementUsecase {
	if maxLevels <= 0 || maxLevels > domain.MaxHierarchyLevels {
		maxLevels = domain.MaxHierarchyLevels
	}
	return &DefaultSettlementUsecase{
		uow:         uow,
		config:      config,
		resolver:    resolver,
		distributor: distributor,
		publisher:   pub,
		metrics:     m,
		maxLevels:   maxLevels,
		now:         time.Now,
	}
}

// RunSettlement settles the most recent fully elapsed period.
func (uc *DefaultSettlementUsecase) RunSettlement() error {
	cfg, err := uc.config.Snapshot()
	if err != nil {
		uc.metrics.RecordError("config")
		return fmt.Errorf("load config snapshot: %w", err)
	}
	start, end := PeriodBounds(cfg.RevShare, uc.now())
	return uc.settle(cfg, cfg.RevShare.Frequency, start, end)
}

// RunCustomSettlement settles explicit bounds, used for backfills.
func (uc *DefaultSettlementUsecase) RunCustomSettlement(start, end time.Time) error {
	cfg, err := uc.config.Snapshot()
	if err != nil {
		uc.metrics.RecordError("config")
		return fmt.Errorf("load config snapshot: %w", err)
	}
	if !end.After(start) {
		return fmt.Errorf("settlement period end %s not after start %s", end, start)
	}
	return uc.settle(cfg, domain.PeriodTypeCustom, start, end)
}

func (uc *DefaultSettlementUsecase) settle(
	cfg *domain.ConfigSnapshot,
	periodType domain.PeriodType,
	start, end time.Time,
) error {
	began := uc.now()
	var settledEvent *publisher.SettlementEvent

	err := uc.uow.Do(func(repos *domain.RepoSet) error {
		period, created, err := repos.Settlements.GetOrCreatePeriod(&domain.SettlementPeriod{
			ID:       uuid.New().String(),
			Type:     periodType,
			StartsAt: start,
			EndsAt:   end,
			Status:   domain.PeriodStatusOpen,
		})
		if err != nil {
			return err
		}
		if period.Status == domain.PeriodStatusSettled {
			slog.Info("period already settled", "period_id", period.ID)
			return nil
		}
		if created {
			slog.Info("opened settlement period",
				"period_id", period.ID, "type", periodType,
				"starts_at", start, "ends_at", end)
		}

		if period.Status == domain.PeriodStatusOpen {
			if _, err := repos.Settlements.AdvancePeriodStatus(
				period.ID, domain.PeriodStatusOpen, domain.PeriodStatusSettling); err != nil {
				return err
			}
		}

		event, err := uc.settlePeriod(repos, cfg, period, start, end)
		if err != nil {
			return err
		}
		settledEvent = event
		return nil
	})

	outcome := "ok"
	if err != nil {
		outcome = "error"
		uc.metrics.RecordError("settlement")
	}
	uc.metrics.RecordSettlementRun(string(periodType), outcome, uc.now().Sub(began).Seconds())

	if err == nil && settledEvent != nil {
		if pubErr := uc.publisher.PublishJSON(
			publisher.TopicSettlementEvents, settledEvent.PeriodID, settledEvent); pubErr != nil {
			slog.Error("failed to publish kafka SettlementEvent",
				"period_id", settledEvent.PeriodID, "error", pubErr.Error())
		}
	}
	return err
}

func (uc *DefaultSettlementUsecase) settlePeriod(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	period *domain.SettlementPeriod,
	start, end time.Time,
) (*publisher.SettlementEvent, error) {
	now := uc.now()

	ggrByAffiliate, err := repos.Transactions.AggregateGGRByAffiliate(start, end)
	if err != nil {
		return nil, err
	}

	// deterministic order keeps resumed runs walking the same sequence
	affiliateIDs := make([]string, 0, len(ggrByAffiliate))
	for id := range ggrByAffiliate {
		affiliateIDs = append(affiliateIDs, id)
	}
	sort.Strings(affiliateIDs)

	var totalGGR, totalNGR, positiveNGR float64
	for _, affiliateID := range affiliateIDs {
		ggr := ggrByAffiliate[affiliateID]

		carryoverIn, err := repos.Settlements.LatestCarryover(affiliateID, start)
		if err != nil {
			return nil, err
		}

		ngr := ggr*cfg.RevShare.RetainedFraction + carryoverIn
		carryoverOut := 0.0
		if ngr < 0 {
			carryoverOut = ngr
		}

		settlement, err := repos.Settlements.UpsertAffiliateSettlement(&domain.AffiliateSettlement{
			ID:           uuid.New().String(),
			PeriodID:     period.ID,
			AffiliateID:  affiliateID,
			GGR:          ggr,
			NGR:          ngr,
			CarryoverIn:  carryoverIn,
			CarryoverOut: carryoverOut,
			CreatedAt:    now,
		})
		if err != nil {
			return nil, err
		}

		// prior run already wrote these commissions
		if settlement.Distributed {
			totalGGR += settlement.GGR
			totalNGR += settlement.NGR
			if settlement.NGR > 0 {
				positiveNGR += settlement.NGR
			}
			continue
		}

		if settlement.NGR > 0 {
			chain, err := uc.resolver.ResolveChainWith(repos.Affiliates, affiliateID, uc.maxLevels)
			if err != nil {
				if errors.Is(err, domain.ErrAffiliateNotFound) {
					slog.Warn("GGR source affiliate missing, skipping",
						"affiliate_id", affiliateID, "period_id", period.ID)
					continue
				}
				return nil, err
			}
			if _, err := uc.distributor.DistributeRevShare(
				repos, period, affiliateID, settlement.NGR, chain, now); err != nil {
				return nil, err
			}
			positiveNGR += settlement.NGR
		} else if settlement.NGR < 0 {
			uc.metrics.RecordNegativeCarryover(settlement.NGR)
			slog.Info("negative NGR carried over",
				"affiliate_id", affiliateID, "period_id", period.ID, "ngr", settlement.NGR)
		}

		if err := repos.Settlements.MarkDistributed(period.ID, affiliateID); err != nil {
			return nil, err
		}
		totalGGR += settlement.GGR
		totalNGR += settlement.NGR
	}

	vault := &domain.Vault{
		ID:                 uuid.New().String(),
		PeriodID:           period.ID,
		TotalNGR:           positiveNGR,
		AffiliatesShare:    positiveNGR * cfg.Vault.AffiliatesSharePercent / 100,
		RankingsShare:      positiveNGR * cfg.Vault.RankingsSharePercent / 100,
		NextDistributionAt: nextDistributionAt(cfg.RevShare.Frequency, end),
		CreatedAt:          now,
	}
	if err := repos.Settlements.SaveVault(vault); err != nil {
		return nil, err
	}

	if err := repos.Settlements.FinishPeriod(period.ID, totalGGR, totalNGR, now); err != nil {
		return nil, err
	}
	if _, err := repos.Settlements.AdvancePeriodStatus(
		period.ID, domain.PeriodStatusSettling, domain.PeriodStatusSettled); err != nil {
		return nil, err
	}

	return &publisher.SettlementEvent{
		PeriodID:   period.ID,
		PeriodType: string(period.Type),
		TotalGGR:   totalGGR,
		TotalNGR:   totalNGR,
		Affiliates: len(affiliateIDs),
	}, nil
}

// nextDistributionAt projects the vault's next scheduled payout from the
// configured settlement cadence.
func nextDistributionAt(frequency domain.PeriodType, end time.Time) time.Time {
	if frequency == domain.PeriodTypeMonthly {
		return end.AddDate(0, 1, 0)
	}
	return end.AddDate(0, 0, 7)
}

// PeriodBounds returns the most recent fully elapsed period before now.
func PeriodBounds(schedule domain.RevShareSchedule, now time.Time) (time.Time, time.Time) {
	switch schedule.Frequency {
	case domain.PeriodTypeMonthly:
		end := time.Date(now.Year(), now.Month(), 1, schedule.AnchorHour, 0, 0, 0, now.Location())
		if now.Before(end) {
			end = end.AddDate(0, -1, 0)
		}
		return end.AddDate(0, -1, 0), end
	default:
		end := time.Date(now.Year(), now.Month(), now.Day(), schedule.AnchorHour, 0, 0, 0, now.Location())
		for end.Weekday() != time.Weekday(schedule.AnchorWeekday) || end.After(now) {
			end = end.AddDate(0, 0, -1)
			end = time.Date(end.Year(), end.Month(), end.Day(), schedule.AnchorHour, 0, 0, 0, now.Location())
		}
		return end.AddDate(0, 0, -7), end
	}
}
