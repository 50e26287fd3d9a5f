package usecase_test

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/models"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/repository"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// promauto registers against the default registry, so the whole test
// binary shares one metrics instance.
var testMetrics = metrics.NewEngineMetrics()

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

func newRepoSet(db *gorm.DB) *domain.RepoSet {
	return &domain.RepoSet{
		Affiliates:   repository.NewDefaultAffiliateRepository(db),
		Commissions:  repository.NewDefaultCommissionRepository(db),
		Transactions: repository.NewDefaultTransactionRepository(db),
		Validations:  repository.NewDefaultValidationRepository(db),
		Settlements:  repository.NewDefaultSettlementRepository(db),
	}
}

func testSnapshot() *domain.ConfigSnapshot {
	return &domain.ConfigSnapshot{
		Version: "test-v1",
		Categories: []domain.CategoryConfig{
			{
				Category:                domain.CategoryJogador,
				MinIndications:          0,
				MaxIndications:          11,
				MinRevSharePercent:      1,
				MaxRevSharePercent:      5,
				IndirectRevSharePercent: 0.5,
				SubLevels:               11,
				ReactivationIndications: 2,
			},
			{
				Category:                domain.CategoryIniciante,
				MinIndications:          11,
				MaxIndications:          31,
				MinRevSharePercent:      5,
				MaxRevSharePercent:      10,
				IndirectRevSharePercent: 1,
				SubLevels:               20,
				BonificationAmount:      50,
				ReactivationIndications: 3,
			},
			{
				Category:                domain.CategoryAfiliado,
				MinIndications:          31,
				MaxIndications:          101,
				MinRevSharePercent:      10,
				MaxRevSharePercent:      20,
				IndirectRevSharePercent: 2,
				SubLevels:               70,
				BonificationAmount:      200,
				ReactivationIndications: 5,
			},
			{
				Category:                domain.CategoryProfissional,
				MinIndications:          101,
				MaxIndications:          math.MaxInt64,
				MinRevSharePercent:      20,
				MaxRevSharePercent:      30,
				IndirectRevSharePercent: 3,
				SubLevels:               1,
				BonificationAmount:      500,
				ReactivationIndications: 10,
			},
		},
		CPA: domain.CPAConfig{
			LevelAmounts:         [domain.MaxHierarchyLevels]float64{35, 10, 5, 3, 2},
			DirectBonusAmount:    10,
			MinFirstDeposit:      50,
			MinActivityDeposit:   20,
			MinActivityCount:     3,
			MinActivityGGR:       100,
			ValidationWindowDays: 30,
		},
		RevShare: domain.RevShareSchedule{
			Frequency:        domain.PeriodTypeWeekly,
			AnchorWeekday:    1,
			AnchorHour:       3,
			RetainedFraction: 0.8,
		},
		Inactivity: domain.InactivitySchedule{
			DormancyDays: 30,
			Steps:        map[int]float64{4: 0.25, 8: 0.5, 12: 1.0},
		},
		Vault: domain.VaultSchedule{
			AffiliatesSharePercent: 70,
			RankingsSharePercent:   30,
		},
	}
}

// seedChain creates a sponsor line root <- a1 <- ... <- a(n-1) and returns
// ids leaf-first, so ids[0] is the deepest affiliate.
func seedChain(t *testing.T, repos *domain.RepoSet, n int) []string {
	t.Helper()
	ids := make([]string, n)
	sponsorID := ""
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("aff-%02d", n-i)
		createAffiliate(t, repos, id, sponsorID)
		sponsorID = id
		ids[n-1-i] = id
	}
	return ids
}

func createAffiliate(t *testing.T, repos *domain.RepoSet, id, sponsorID string) *domain.Affiliate {
	t.Helper()
	affiliate := &domain.Affiliate{
		ID:           id,
		UserID:       "user-" + id,
		ReferralCode: "ref-" + id,
		SponsorID:    sponsorID,
		Progression: domain.AffiliateProgression{
			Category:              domain.CategoryJogador,
			CategoryLevel:         1,
			RevSharePercentDirect: 1,
		},
		Status:         domain.AffiliateStatusActive,
		LastActivityAt: time.Now(),
		CreatedAt:      time.Now(),
	}
	require.NoError(t, repos.Affiliates.CreateAffiliate(affiliate))
	return affiliate
}

type recordedEvent struct {
	Topic string
	Key   string
	Event interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) PublishJSON(topic, key string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *fakePublisher) byTopic(topic string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

func seedTransaction(t *testing.T, repos *domain.RepoSet, id, customerID, affiliateID string, txType domain.TransactionType, amount float64, at time.Time) {
	t.Helper()
	inserted, err := repos.Transactions.InsertTransaction(&domain.Transaction{
		ID:          id,
		CustomerID:  customerID,
		AffiliateID: affiliateID,
		Type:        txType,
		Amount:      amount,
		Currency:    "BRL",
		Status:      domain.TransactionStatusProcessed,
		CreatedAt:   at,
	})
	require.NoError(t, err)
	require.True(t, inserted)
}
