package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/models"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/repository"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.AffiliateModel{},
		&models.ProgressionEventModel{},
		&models.IndicationEventModel{},
		&models.CommissionModel{},
		&models.TransactionModel{},
		&models.CPAValidationModel{},
		&models.SettlementPeriodModel{},
		&models.AffiliateSettlementModel{},
		&models.VaultModel{},
	))
	return db
}

func sampleCommission(id string) *domain.Commission {
	return &domain.Commission{
		ID:                id,
		RecipientID:       "recipient-1",
		SourceAffiliateID: "source-1",
		SourceRef:         "tx-1",
		Type:              domain.CommissionTypeCPA,
		Level:             1,
		Amount:            35,
		FinalAmount:       35,
		Status:            domain.CommissionStatusCalculated,
		CreatedAt:         time.Now(),
	}
}

func TestInsertCommission_UniquePerSourceAndLevel(t *testing.T) {
	repo := repository.NewDefaultCommissionRepository(newTestDB(t))

	inserted, err := repo.InsertCommission(sampleCommission("com-1"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// same tuple under a fresh id is swallowed
	inserted, err = repo.InsertCommission(sampleCommission("com-2"))
	require.NoError(t, err)
	assert.False(t, inserted)

	// a different level for the same source is a distinct payment
	other := sampleCommission("com-3")
	other.Level = 2
	inserted, err = repo.InsertCommission(other)
	require.NoError(t, err)
	assert.True(t, inserted)

	// same recipient earning from a different descendant is distinct too
	sibling := sampleCommission("com-4")
	sibling.SourceAffiliateID = "source-2"
	inserted, err = repo.InsertCommission(sibling)
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestUpdateStatus_GuardsExpectedState(t *testing.T) {
	repo := repository.NewDefaultCommissionRepository(newTestDB(t))

	_, err := repo.InsertCommission(sampleCommission("com-1"))
	require.NoError(t, err)

	moved, err := repo.UpdateStatus("com-1", domain.CommissionStatusApproved, domain.CommissionStatusPaid, time.Now())
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = repo.UpdateStatus("com-1", domain.CommissionStatusCalculated, domain.CommissionStatusApproved, time.Now())
	require.NoError(t, err)
	assert.True(t, moved)

	commission, err := repo.GetCommissionByID("com-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionStatusApproved, commission.Status)
	assert.NotNil(t, commission.ApprovedAt)
}

func TestTransactionAggregates(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewDefaultTransactionRepository(db)
	now := time.Now()

	seed := func(id string, txType domain.TransactionType, amount float64, at time.Time) {
		t.Helper()
		inserted, err := repo.InsertTransaction(&domain.Transaction{
			ID:          id,
			CustomerID:  "cust-1",
			AffiliateID: "aff-1",
			Type:        txType,
			Amount:      amount,
			Currency:    "BRL",
			Status:      domain.TransactionStatusProcessed,
			CreatedAt:   at,
		})
		require.NoError(t, err)
		require.True(t, inserted)
	}

	seed("dep-1", domain.TransactionTypeDeposit, 30, now.AddDate(0, 0, -20))
	seed("dep-2", domain.TransactionTypeDeposit, 80, now.AddDate(0, 0, -10))
	seed("dep-old", domain.TransactionTypeDeposit, 500, now.AddDate(0, 0, -60))
	seed("bet-1", domain.TransactionTypeBet, 100, now.AddDate(0, 0, -5))
	seed("bet-2", domain.TransactionTypeBet, -40, now.AddDate(0, 0, -4))

	from := now.AddDate(0, 0, -30)

	first, err := repo.FirstDeposit("cust-1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "dep-old", first.ID)

	count, err := repo.CountDepositsInWindow("cust-1", from, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	maxDep, err := repo.MaxDepositInWindow("cust-1", from, now)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, maxDep, 1e-9)

	ggr, err := repo.GGRInWindow("cust-1", from, now)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, ggr, 1e-9)

	byAffiliate, err := repo.AggregateGGRByAffiliate(from, now)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, byAffiliate["aff-1"], 1e-9)
}

func TestTransactionAggregates_EmptyWindow(t *testing.T) {
	repo := repository.NewDefaultTransactionRepository(newTestDB(t))
	now := time.Now()

	first, err := repo.FirstDeposit("nobody")
	require.NoError(t, err)
	assert.Nil(t, first)

	maxDep, err := repo.MaxDepositInWindow("nobody", now.AddDate(0, 0, -30), now)
	require.NoError(t, err)
	assert.Zero(t, maxDep)

	ggr, err := repo.GGRInWindow("nobody", now.AddDate(0, 0, -30), now)
	require.NoError(t, err)
	assert.Zero(t, ggr)
}

func TestGetOrCreatePeriod_Idempotent(t *testing.T) {
	repo := repository.NewDefaultSettlementRepository(newTestDB(t))
	start := time.Date(2026, 8, 17, 3, 0, 0, 0, time.UTC)

	period := &domain.SettlementPeriod{
		ID:       "per-1",
		Type:     domain.PeriodTypeWeekly,
		StartsAt: start,
		EndsAt:   start.AddDate(0, 0, 7),
		Status:   domain.PeriodStatusOpen,
	}

	first, created, err := repo.GetOrCreatePeriod(period)
	require.NoError(t, err)
	assert.True(t, created)

	duplicate := *period
	duplicate.ID = "per-2"
	second, created, err := repo.GetOrCreatePeriod(&duplicate)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpsertAffiliateSettlement_KeepsFirstRow(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewDefaultSettlementRepository(db)
	start := time.Date(2026, 8, 17, 3, 0, 0, 0, time.UTC)

	_, _, err := repo.GetOrCreatePeriod(&domain.SettlementPeriod{
		ID:       "per-1",
		Type:     domain.PeriodTypeWeekly,
		StartsAt: start,
		EndsAt:   start.AddDate(0, 0, 7),
		Status:   domain.PeriodStatusOpen,
	})
	require.NoError(t, err)

	first, err := repo.UpsertAffiliateSettlement(&domain.AffiliateSettlement{
		ID:          "set-1",
		PeriodID:    "per-1",
		AffiliateID: "aff-1",
		GGR:         800,
		NGR:         640,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)

	replay, err := repo.UpsertAffiliateSettlement(&domain.AffiliateSettlement{
		ID:          "set-2",
		PeriodID:    "per-1",
		AffiliateID: "aff-1",
		GGR:         0,
		NGR:         0,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)
	assert.InDelta(t, 640.0, replay.NGR, 1e-9)
}
