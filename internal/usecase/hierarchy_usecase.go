package usecase

import (
	"errors"
	"log/slog"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
)

// DefaultHierarchyResolver walks sponsor chains. A walk is bounded twice:
// by maxLevels and by a visited set, so a corrupted sponsor graph with a
// cycle degrades to a short chain instead of an infinite loop.
type DefaultHierarchyResolver struct {
	affiliateRepo domain.AffiliateRepository
	metrics       *metrics.EngineMetrics
}

func NewDefaultHierarchyResolver(repo domain.AffiliateRepository, m *metrics.EngineMetrics) *DefaultHierarchyResolver {
	return &DefaultHierarchyResolver{
		affiliateRepo: repo,
		metrics:       m,
	}
}

func (r *DefaultHierarchyResolver) ResolveChain(affiliateID string, maxLevels int) ([]*domain.ChainNode, error) {
	return r.ResolveChainWith(r.affiliateRepo, affiliateID, maxLevels)
}

// ResolveChainWith runs the same walk against a transaction-bound repository
// so distribution sees the chain the commit sees.
func (r *DefaultHierarchyResolver) ResolveChainWith(repo domain.AffiliateRepository, affiliateID string, maxLevels int) ([]*domain.ChainNode, error) {
	if maxLevels <= 0 || maxLevels > domain.MaxHierarchyLevels {
		maxLevels = domain.MaxHierarchyLevels
	}

	start, err := repo.GetAffiliateByID(affiliateID)
	if err != nil {
		return nil, err
	}

	visited := map[string]struct{}{start.ID: {}}
	chain := make([]*domain.ChainNode, 0, maxLevels)
	sponsorID := start.SponsorID

	for level := int32(1); int(level) <= maxLevels && sponsorID != ""; level++ {
		if _, seen := visited[sponsorID]; seen {
			slog.Warn("sponsor graph cycle detected, truncating chain",
				"affiliate_id", affiliateID, "repeated_id", sponsorID, "level", level)
			r.metrics.RecordCycleWarning()
			break
		}

		sponsor, err := repo.GetAffiliateByID(sponsorID)
		if errors.Is(err, domain.ErrAffiliateNotFound) {
			// dangling sponsor reference, treat as tree root
			slog.Warn("sponsor missing, truncating chain",
				"affiliate_id", affiliateID, "missing_id", sponsorID, "level", level)
			break
		}
		if err != nil {
			return nil, err
		}

		visited[sponsor.ID] = struct{}{}
		chain = append(chain, &domain.ChainNode{Affiliate: sponsor, Level: level})
		sponsorID = sponsor.SponsorID
	}

	return chain, nil
}
