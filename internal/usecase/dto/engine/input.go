package enginedto

import "time"

// ProcessTransactionInput carries one financial transaction into the engine.
type ProcessTransactionInput struct {
	TransactionID string
	ExternalID    string
	CustomerID    string
	AffiliateID   string
	Type          string
	Amount        float64
	Currency      string
	Status        string
	OccurredAt    time.Time
}

type RunSettlementInput struct {
	PeriodType string
	StartsAt   time.Time
	EndsAt     time.Time
}
