package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/usecase"
	"github.com/robfig/cron/v3"
)

// ConfigRefresher re-reads the table snapshot between cron fires.
type ConfigRefresher interface {
	Refresh(ctx context.Context) (*domain.ConfigSnapshot, error)
}

// BackgroundTasks owns the periodic work: weekly settlement, the daily
// inactivity sweep and the config snapshot refresh.
type BackgroundTasks struct {
	Settlement *usecase.DefaultSettlementUsecase
	Inactivity *usecase.DefaultInactivityUsecase
	Refresher  ConfigRefresher

	SettlementCron    string
	InactivityCron    string
	ConfigRefreshSecs int

	scheduler *cron.Cron
}

func NewBackgroundTasks(
	settlement *usecase.DefaultSettlementUsecase,
	inactivity *usecase.DefaultInactivityUsecase,
	refresher ConfigRefresher,
	settlementCron, inactivityCron string,
	configRefreshSecs int,
) *BackgroundTasks {
	return &BackgroundTasks{
		Settlement:        settlement,
		Inactivity:        inactivity,
		Refresher:         refresher,
		SettlementCron:    settlementCron,
		InactivityCron:    inactivityCron,
		ConfigRefreshSecs: configRefreshSecs,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	bt.scheduler = cron.New()

	if _, err := bt.scheduler.AddFunc(bt.SettlementCron, func() {
		if err := bt.Settlement.RunSettlement(); err != nil {
			slog.Error("settlement run failed", "error", err.Error())
		}
	}); err != nil {
		return err
	}

	if _, err := bt.scheduler.AddFunc(bt.InactivityCron, func() {
		if err := bt.Inactivity.Run(); err != nil {
			slog.Error("inactivity sweep failed", "error", err.Error())
		}
	}); err != nil {
		return err
	}

	bt.scheduler.Start()
	go bt.startConfigRefresh(ctx)
	go func() {
		<-ctx.Done()
		bt.scheduler.Stop()
	}()
	return nil
}

func (bt *BackgroundTasks) startConfigRefresh(ctx context.Context) {
	if bt.ConfigRefreshSecs <= 0 {
		return
	}
	ticker := time.NewTicker(time.Duration(bt.ConfigRefreshSecs) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.Refresher.Refresh(ctx); err != nil {
				slog.Error("config refresh failed", "error", err.Error())
			}
		}
	}
}
