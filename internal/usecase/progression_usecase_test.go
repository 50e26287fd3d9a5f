package usecase_test

import (
	"testing"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubLevelFor_MonotoneWithinBand(t *testing.T) {
	cfg := testSnapshot()
	band, ok := cfg.CategoryConfigOf(domain.CategoryJogador)
	require.True(t, ok)

	// 11 counts onto 11 sub-levels, one per indication
	prev := int32(0)
	for count := int64(0); count < band.MaxIndications; count++ {
		level := usecase.SubLevelFor(band, count)
		assert.GreaterOrEqual(t, level, prev)
		assert.GreaterOrEqual(t, level, int32(1))
		assert.LessOrEqual(t, level, band.SubLevels)
		prev = level
	}
	assert.Equal(t, int32(1), usecase.SubLevelFor(band, 0))
	assert.Equal(t, int32(10), usecase.SubLevelFor(band, 9))
	assert.Equal(t, band.SubLevels, usecase.SubLevelFor(band, band.MaxIndications-1))
}

func TestSubLevelFor_SingleSubLevel(t *testing.T) {
	cfg := testSnapshot()
	band, ok := cfg.CategoryConfigOf(domain.CategoryProfissional)
	require.True(t, ok)

	assert.Equal(t, int32(1), usecase.SubLevelFor(band, 101))
	assert.Equal(t, int32(1), usecase.SubLevelFor(band, 5000))
}

func TestDirectPercentFor_SpansBandRange(t *testing.T) {
	cfg := testSnapshot()
	band, ok := cfg.CategoryConfigOf(domain.CategoryJogador)
	require.True(t, ok)

	assert.InDelta(t, band.MinRevSharePercent, usecase.DirectPercentFor(band, 1), 1e-9)
	assert.InDelta(t, band.MaxRevSharePercent, usecase.DirectPercentFor(band, band.SubLevels), 1e-9)

	mid := usecase.DirectPercentFor(band, 6)
	assert.Greater(t, mid, band.MinRevSharePercent)
	assert.Less(t, mid, band.MaxRevSharePercent)
}

func TestRecompute_PromotionPaysBonificationOnce(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	cfg := testSnapshot()
	progression := usecase.NewDefaultProgressionUsecase(testMetrics)

	affiliate := createAffiliate(t, repos, "promoted", "")
	require.NoError(t, repos.Affiliates.IncrementIndications(affiliate.ID, 11, 11))

	event, err := progression.Recompute(repos, cfg, affiliate.ID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.CategoryJogador, event.OldCategory)
	assert.Equal(t, domain.CategoryIniciante, event.NewCategory)
	assert.Equal(t, 50.0, event.BonificationAmount)

	updated, err := repos.Affiliates.GetAffiliateByID(affiliate.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryIniciante, updated.Progression.Category)
	assert.Equal(t, int32(1), updated.Progression.CategoryLevel)
	assert.InDelta(t, 5.0, updated.Progression.RevSharePercentDirect, 1e-9)
	assert.InDelta(t, 1.0, updated.Progression.RevSharePercentIndirect, 1e-9)

	bonuses, err := repos.Commissions.ListCommissionsBySourceRef(event.ID)
	require.NoError(t, err)
	require.Len(t, bonuses, 1)
	assert.Equal(t, domain.CommissionTypeBonus, bonuses[0].Type)
	assert.Equal(t, 50.0, bonuses[0].FinalAmount)
	assert.Equal(t, affiliate.ID, bonuses[0].RecipientID)

	// a second recompute over the same counters changes nothing
	again, err := progression.Recompute(repos, cfg, affiliate.ID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestRecompute_SubLevelAdvancesWithoutPromotion(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	cfg := testSnapshot()
	progression := usecase.NewDefaultProgressionUsecase(testMetrics)

	affiliate := createAffiliate(t, repos, "climber", "")
	require.NoError(t, repos.Affiliates.IncrementIndications(affiliate.ID, 9, 9))

	event, err := progression.Recompute(repos, cfg, affiliate.ID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, event)

	updated, err := repos.Affiliates.GetAffiliateByID(affiliate.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryJogador, updated.Progression.Category)
	assert.Equal(t, int32(10), updated.Progression.CategoryLevel)
}

func TestRecompute_KeptLevelSurvivesBandNarrowing(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	cfg := testSnapshot()
	progression := usecase.NewDefaultProgressionUsecase(testMetrics)

	// earned level 10 under an older, wider iniciante band; under the
	// current tables 12 indications would map to level 2
	affiliate := createAffiliate(t, repos, "veteran", "")
	require.NoError(t, repos.Affiliates.IncrementIndications(affiliate.ID, 12, 12))
	require.NoError(t, repos.Affiliates.UpdateProgression(
		affiliate.ID, domain.CategoryIniciante, 10, 0, 1.0))

	event, err := progression.Recompute(repos, cfg, affiliate.ID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, event)

	updated, err := repos.Affiliates.GetAffiliateByID(affiliate.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryIniciante, updated.Progression.Category)
	assert.Equal(t, int32(10), updated.Progression.CategoryLevel)

	band, ok := cfg.CategoryConfigOf(domain.CategoryIniciante)
	require.True(t, ok)
	assert.InDelta(t, usecase.DirectPercentFor(band, 10), updated.Progression.RevSharePercentDirect, 1e-9)
}

func TestDirectPercentFor_CapsAboveBandSubLevels(t *testing.T) {
	cfg := testSnapshot()
	band, ok := cfg.CategoryConfigOf(domain.CategoryJogador)
	require.True(t, ok)

	assert.InDelta(t, band.MaxRevSharePercent, usecase.DirectPercentFor(band, band.SubLevels+5), 1e-9)
}

func TestRecompute_NoBandForCount(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	progression := usecase.NewDefaultProgressionUsecase(testMetrics)

	cfg := testSnapshot()
	cfg.Categories = cfg.Categories[:1]

	affiliate := createAffiliate(t, repos, "stranded", "")
	require.NoError(t, repos.Affiliates.IncrementIndications(affiliate.ID, 50, 50))

	_, err := progression.Recompute(repos, cfg, affiliate.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}
