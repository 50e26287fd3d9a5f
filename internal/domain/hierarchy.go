package domain

// MaxHierarchyLevels bounds every sponsor-chain walk. The walk stops here
// no matter what shape the stored graph has.
const MaxHierarchyLevels = 5

// ChainNode is one ancestor in a resolved sponsor chain, immediate sponsor
// first. Level starts at 1.
type ChainNode struct {
	Affiliate *Affiliate
	Level     int32
}

type HierarchyResolver interface {
	// ResolveChain walks up from the affiliate, at most maxLevels hops.
	// Reaching the tree root early is not an error: the chain is simply
	// shorter. The originating affiliate is never part of the result.
	ResolveChain(affiliateID string, maxLevels int) ([]*ChainNode, error)
}
