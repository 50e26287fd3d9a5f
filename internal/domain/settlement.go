package domain

import "time"

type PeriodType string

const (
	PeriodTypeWeekly  PeriodType = "WEEKLY"
	PeriodTypeMonthly PeriodType = "MONTHLY"
	PeriodTypeCustom  PeriodType = "CUSTOM"
)

type PeriodStatus string

const (
	PeriodStatusOpen     PeriodStatus = "OPEN"
	PeriodStatusSettling PeriodStatus = "SETTLING"
	PeriodStatusSettled  PeriodStatus = "SETTLED"
)

type SettlementPeriod struct {
	ID        string
	Type      PeriodType
	StartsAt  time.Time
	EndsAt    time.Time
	Status    PeriodStatus
	TotalGGR  float64
	TotalNGR  float64
	SettledAt *time.Time
	CreatedAt time.Time
}

// AffiliateSettlement is the per-affiliate outcome of one period. A negative
// NGR is never paid: it leaves the period as CarryoverOut and enters the
// next one as CarryoverIn.
type AffiliateSettlement struct {
	ID           string
	PeriodID     string
	AffiliateID  string
	GGR          float64
	NGR          float64
	CarryoverIn  float64
	CarryoverOut float64
	Distributed  bool
	CreatedAt    time.Time
}

// Vault is the period-scoped NGR pool split between the affiliate share and
// the rankings prize share. It belongs to the period, not to any affiliate.
type Vault struct {
	ID                 string
	PeriodID           string
	TotalNGR           float64
	AffiliatesShare    float64
	RankingsShare      float64
	NextDistributionAt time.Time
	CreatedAt          time.Time
}

type SettlementRepository interface {
	// GetOrCreatePeriod returns the stored period for (type, start) or
	// creates it; the bool reports whether it was created.
	GetOrCreatePeriod(period *SettlementPeriod) (*SettlementPeriod, bool, error)
	GetPeriodByID(periodID string) (*SettlementPeriod, error)
	// AdvancePeriodStatus is a guarded transition; false when the period
	// was not in the expected status.
	AdvancePeriodStatus(periodID string, from, to PeriodStatus) (bool, error)
	FinishPeriod(periodID string, totalGGR, totalNGR float64, at time.Time) error

	// UpsertAffiliateSettlement keeps the first row written for the
	// (period, affiliate) pair so a resumed run reuses prior numbers.
	UpsertAffiliateSettlement(settlement *AffiliateSettlement) (*AffiliateSettlement, error)
	MarkDistributed(periodID, affiliateID string) error
	ListSettlementsByPeriod(periodID string) ([]*AffiliateSettlement, error)
	// LatestCarryover returns the carryover-out of the affiliate's most
	// recent settled period starting before the given time.
	LatestCarryover(affiliateID string, before time.Time) (float64, error)

	SaveVault(vault *Vault) error
	GetVaultByPeriod(periodID string) (*Vault, error)
}
