package configprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	"github.com/redis/go-redis/v9"
)

const cacheKey = "affiliate:config:tables"

// HTTPTableLoader fetches the raw tables document from the configuration
// service.
type HTTPTableLoader struct {
	Address string
	Client  *http.Client
}

func NewHTTPTableLoader(address string) *HTTPTableLoader {
	return &HTTPTableLoader{
		Address: address,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (l *HTTPTableLoader) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/tables", l.Address), nil)
	if err != nil {
		return nil, err
	}
	response, err := l.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("config service returned %d", response.StatusCode)
	}
	return io.ReadAll(response.Body)
}

// CachedProvider keeps the current snapshot behind an atomic pointer so a
// reload is all-or-nothing from the engine's point of view. The raw document
// is cached in redis; Invalidate drops the cache and forces a refetch.
type CachedProvider struct {
	loader   *HTTPTableLoader
	redis    *redis.Client
	cacheTTL time.Duration
	metrics  *metrics.EngineMetrics
	current  atomic.Pointer[domain.ConfigSnapshot]
}

func NewCachedProvider(
	loader *HTTPTableLoader,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	m *metrics.EngineMetrics,
) *CachedProvider {
	return &CachedProvider{
		loader:   loader,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

func (p *CachedProvider) Snapshot() (*domain.ConfigSnapshot, error) {
	if snapshot := p.current.Load(); snapshot != nil {
		return snapshot, nil
	}
	return p.Refresh(context.Background())
}

// Refresh loads the latest document (redis first, then the config service),
// validates it and swaps it in atomically.
func (p *CachedProvider) Refresh(ctx context.Context) (*domain.ConfigSnapshot, error) {
	raw, fromCache, err := p.loadRaw(ctx)
	if err != nil {
		p.recordReload("error")
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigMissing, err)
	}

	var document tablesDocument
	if err := json.Unmarshal(raw, &document); err != nil {
		p.recordReload("error")
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigMissing, err)
	}
	snapshot, err := document.toSnapshot()
	if err != nil {
		p.recordReload("error")
		return nil, err
	}

	if !fromCache && p.redis != nil {
		if err := p.redis.Set(ctx, cacheKey, raw, p.cacheTTL).Err(); err != nil {
			slog.Warn("failed to cache config tables", "error", err.Error())
		}
	}

	p.current.Store(snapshot)
	p.recordReload("ok")
	slog.Info("config tables loaded", "version", snapshot.Version, "from_cache", fromCache)
	return snapshot, nil
}

func (p *CachedProvider) recordReload(outcome string) {
	if p.metrics != nil {
		p.metrics.RecordConfigReload(outcome)
	}
}

func (p *CachedProvider) loadRaw(ctx context.Context) ([]byte, bool, error) {
	if p.redis != nil {
		raw, err := p.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			return raw, true, nil
		}
		if !errors.Is(err, redis.Nil) {
			slog.Warn("config cache read failed", "error", err.Error())
		}
	}
	raw, err := p.loader.Fetch(ctx)
	return raw, false, err
}

// Invalidate drops the cached document and the in-memory snapshot. The next
// Snapshot call refetches from the configuration service.
func (p *CachedProvider) Invalidate() {
	if p.redis != nil {
		if err := p.redis.Del(context.Background(), cacheKey).Err(); err != nil {
			slog.Warn("config cache invalidation failed", "error", err.Error())
		}
	}
	p.current.Store(nil)
}

// StaticProvider serves a fixed snapshot. Used in tests and tooling.
type StaticProvider struct {
	Tables *domain.ConfigSnapshot
}

func (p *StaticProvider) Snapshot() (*domain.ConfigSnapshot, error) {
	if p.Tables == nil {
		return nil, domain.ErrConfigMissing
	}
	return p.Tables, nil
}

func (p *StaticProvider) Invalidate() {}
