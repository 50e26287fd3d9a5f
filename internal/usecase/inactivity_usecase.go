package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
)

// DefaultInactivityUsecase is the daily sweep behind revshare reductions.
// Dormant affiliates pick up a reduction factor that steps with the weeks
// of inactivity; affiliates whose own activity resumed get cleared here,
// while reactivation through new indications happens on the ingest path.
type DefaultInactivityUsecase struct {
	uow     domain.UnitOfWork
	config  domain.ConfigProvider
	metrics *metrics.EngineMetrics
	now     func() time.Time
}

func NewDefaultInactivityUsecase(
	uow domain.UnitOfWork,
	config domain.ConfigProvider,
	m *metrics.EngineMetrics,
) *DefaultInactivityUsecase {
	return &DefaultInactivityUsecase{
		uow:     uow,
		config:  config,
		metrics: m,
		now:     time.Now,
	}
}

func (uc *DefaultInactivityUsecase) Run() error {
	cfg, err := uc.config.Snapshot()
	if err != nil {
		uc.metrics.RecordError("config")
		return fmt.Errorf("load config snapshot: %w", err)
	}

	now := uc.now()
	return uc.uow.Do(func(repos *domain.RepoSet) error {
		if err := uc.applyNewReductions(repos, cfg, now); err != nil {
			return err
		}
		return uc.reviewReduced(repos, cfg, now)
	})
}

func (uc *DefaultInactivityUsecase) applyNewReductions(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	now time.Time,
) error {
	threshold := now.AddDate(0, 0, -cfg.Inactivity.DormancyDays)
	dormant, err := repos.Affiliates.FindDormant(threshold)
	if err != nil {
		return err
	}

	for _, affiliate := range dormant {
		weeks := weeksSince(affiliate.LastActivityAt, now)
		factor := cfg.ReductionFor(weeks)
		if factor <= 0 {
			continue
		}
		if err := repos.Affiliates.SetReduction(affiliate.ID, factor, now); err != nil {
			return err
		}
		uc.metrics.RecordReduction(weeks)
		slog.Info("inactivity reduction applied",
			"affiliate_id", affiliate.ID, "weeks", weeks, "factor", factor)
	}
	return nil
}

func (uc *DefaultInactivityUsecase) reviewReduced(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	now time.Time,
) error {
	reduced, err := repos.Affiliates.FindReduced()
	if err != nil {
		return err
	}

	for _, affiliate := range reduced {
		if affiliate.InactiveSince == nil {
			continue
		}

		// own activity after going dormant lifts the reduction
		if affiliate.LastActivityAt.After(*affiliate.InactiveSince) {
			if err := repos.Affiliates.ClearReduction(affiliate.ID, now); err != nil {
				return err
			}
			uc.metrics.RecordReactivation()
			slog.Info("affiliate reactivated by own activity", "affiliate_id", affiliate.ID)
			continue
		}

		// otherwise the factor keeps stepping with elapsed weeks
		weeks := weeksSince(affiliate.LastActivityAt, now)
		factor := cfg.ReductionFor(weeks)
		if factor > affiliate.RevShareReductionFactor {
			if err := repos.Affiliates.SetReduction(affiliate.ID, factor, *affiliate.InactiveSince); err != nil {
				return err
			}
			uc.metrics.RecordReduction(weeks)
			slog.Info("inactivity reduction escalated",
				"affiliate_id", affiliate.ID, "weeks", weeks, "factor", factor)
		}
	}
	return nil
}

func weeksSince(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()) / (24 * 7)
}
