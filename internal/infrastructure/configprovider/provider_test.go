package configprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProviderMetrics = metrics.NewEngineMetrics()

func sampleDocument() tablesDocument {
	return tablesDocument{
		Version: "2026-08-01",
		Categories: []categoryTable{
			{
				Name:               "jogador",
				MinIndications:     0,
				MaxIndications:     11,
				MinRevSharePercent: 1,
				MaxRevSharePercent: 5,
				SubLevels:          11,
			},
			{
				Name:                    "iniciante",
				MinIndications:          11,
				MaxIndications:          1 << 40,
				MinRevSharePercent:      5,
				MaxRevSharePercent:      10,
				IndirectRevSharePercent: 1,
				SubLevels:               20,
				BonificationAmount:      50,
			},
		},
		CPA: cpaTable{
			LevelAmounts:         []float64{35, 10, 5, 3, 2},
			DirectBonusAmount:    10,
			MinFirstDeposit:      50,
			MinActivityDeposit:   20,
			MinActivityCount:     3,
			MinActivityGGR:       100,
			ValidationWindowDays: 30,
		},
		RevShare: revShareTable{
			Frequency:        "WEEKLY",
			AnchorWeekday:    1,
			AnchorHour:       3,
			RetainedFraction: 0.8,
		},
		Inactivity: inactivityTable{
			DormancyDays: 30,
			Steps:        map[int]float64{4: 0.25, 8: 0.5, 12: 1},
		},
		Vault: vaultTable{AffiliatesSharePercent: 70, RankingsSharePercent: 30},
	}
}

func TestToSnapshot_ValidDocument(t *testing.T) {
	doc := sampleDocument()
	snapshot, err := doc.toSnapshot()
	require.NoError(t, err)

	assert.Equal(t, "2026-08-01", snapshot.Version)
	assert.Len(t, snapshot.Categories, 2)
	assert.Equal(t, [domain.MaxHierarchyLevels]float64{35, 10, 5, 3, 2}, snapshot.CPA.LevelAmounts)
	assert.Equal(t, domain.PeriodTypeWeekly, snapshot.RevShare.Frequency)

	band, ok := snapshot.CategoryFor(9)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryJogador, band.Category)

	band, ok = snapshot.CategoryFor(11)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryIniciante, band.Category)
}

func TestToSnapshot_UnknownCategory(t *testing.T) {
	doc := sampleDocument()
	doc.Categories[0].Name = "imperador"
	_, err := doc.toSnapshot()
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestToSnapshot_GapBetweenBands(t *testing.T) {
	doc := sampleDocument()
	doc.Categories[1].MinIndications = 15
	_, err := doc.toSnapshot()
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestToSnapshot_TooManyCPALevels(t *testing.T) {
	doc := sampleDocument()
	doc.CPA.LevelAmounts = []float64{35, 10, 5, 3, 2, 1}
	_, err := doc.toSnapshot()
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestReductionFor_StepFunction(t *testing.T) {
	doc := sampleDocument()
	snapshot, err := doc.toSnapshot()
	require.NoError(t, err)

	assert.Zero(t, snapshot.ReductionFor(3))
	assert.InDelta(t, 0.25, snapshot.ReductionFor(4), 1e-9)
	assert.InDelta(t, 0.25, snapshot.ReductionFor(7), 1e-9)
	assert.InDelta(t, 0.5, snapshot.ReductionFor(11), 1e-9)
	assert.InDelta(t, 1.0, snapshot.ReductionFor(52), 1e-9)
}

func TestCachedProvider_RefreshAndReuse(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/tables", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(sampleDocument()))
	}))
	defer server.Close()

	provider := NewCachedProvider(NewHTTPTableLoader(server.URL), nil, 0, testProviderMetrics)
	okReloads := testutil.ToFloat64(testProviderMetrics.ConfigReloadsTotal.WithLabelValues("ok"))

	first, err := provider.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01", first.Version)

	// served from the in-memory snapshot, no second fetch
	second, err := provider.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), hits.Load())

	provider.Invalidate()
	_, err = provider.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())

	assert.InDelta(t, okReloads+2,
		testutil.ToFloat64(testProviderMetrics.ConfigReloadsTotal.WithLabelValues("ok")), 1e-9)
}

func TestCachedProvider_BadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	provider := NewCachedProvider(NewHTTPTableLoader(server.URL), nil, 0, testProviderMetrics)
	errReloads := testutil.ToFloat64(testProviderMetrics.ConfigReloadsTotal.WithLabelValues("error"))

	_, err := provider.Snapshot()
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
	assert.InDelta(t, errReloads+1,
		testutil.ToFloat64(testProviderMetrics.ConfigReloadsTotal.WithLabelValues("error")), 1e-9)
}
