package domain

import (
	"time"
)

type AffiliateStatus string

const (
	AffiliateStatusActive    AffiliateStatus = "ACTIVE"
	AffiliateStatusInactive  AffiliateStatus = "INACTIVE"
	AffiliateStatusSuspended AffiliateStatus = "SUSPENDED"
	AffiliateStatusBanned    AffiliateStatus = "BANNED"
)

// Category is the affiliate progression tier. Ordering matters: comparisons
// use the numeric rank, never the string value.
type Category int32

const (
	CategoryJogador Category = iota
	CategoryIniciante
	CategoryAfiliado
	CategoryProfissional
	CategoryExpert
	CategoryMestre
	CategoryLenda
)

var categoryNames = map[Category]string{
	CategoryJogador:      "jogador",
	CategoryIniciante:    "iniciante",
	CategoryAfiliado:     "afiliado",
	CategoryProfissional: "profissional",
	CategoryExpert:       "expert",
	CategoryMestre:       "mestre",
	CategoryLenda:        "lenda",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

func ParseCategory(name string) (Category, bool) {
	for c, n := range categoryNames {
		if n == name {
			return c, true
		}
	}
	return CategoryJogador, false
}

type Affiliate struct {
	ID           string
	UserID       string
	ReferralCode string
	SponsorID    string // empty for tree roots
	Depth        int32

	Progression AffiliateProgression
	Financials  AffiliateFinancials

	Status                   AffiliateStatus
	LastActivityAt           time.Time
	InactiveSince            *time.Time
	IndicationsSinceInactive int64
	RevShareReductionFactor  float64 // 0..1, set by the inactivity tracker

	CreatedAt time.Time
	UpdatedAt time.Time
}

type AffiliateProgression struct {
	Category                Category
	CategoryLevel           int32
	DirectIndications       int64
	TotalIndications        int64
	RevSharePercentDirect   float64 // level-1 rate
	RevSharePercentIndirect float64 // levels 2..5 rate
}

type AffiliateFinancials struct {
	LifetimeCommissions float64
	LifetimeVolume      float64
	PeriodCommissions   float64
	PeriodVolume        float64
	AvailableBalance    float64
	LockedBalance       float64
}

// EffectiveRevShareDirect applies the inactivity reduction factor to the
// level-1 rate.
func (a *Affiliate) EffectiveRevShareDirect() float64 {
	return a.Progression.RevSharePercentDirect * (1 - a.RevShareReductionFactor)
}

func (a *Affiliate) EffectiveRevShareIndirect() float64 {
	return a.Progression.RevSharePercentIndirect * (1 - a.RevShareReductionFactor)
}

// ProgressionEvent records a category change. The (affiliate, category) pair
// is unique in storage: it is the guard that pays bonification exactly once.
type ProgressionEvent struct {
	ID                 string
	AffiliateID        string
	OldCategory        Category
	NewCategory        Category
	BonificationAmount float64
	CreatedAt          time.Time
}

// IndicationEvent marks that a transaction already incremented indication
// counters. Unique by transaction id.
type IndicationEvent struct {
	TransactionID string
	AffiliateID   string
	CreatedAt     time.Time
}

type AffiliateRepository interface {
	CreateAffiliate(affiliate *Affiliate) error
	GetAffiliateByID(affiliateID string) (*Affiliate, error)
	GetAffiliateByUserID(userID string) (*Affiliate, error)
	GetAffiliateByReferralCode(code string) (*Affiliate, error)
	UpdateStatus(affiliateID string, status AffiliateStatus) error

	// RecordIndication returns false when the transaction already bumped
	// counters; the unique constraint closes the race, not app code.
	RecordIndication(event *IndicationEvent) (bool, error)
	IncrementIndications(affiliateID string, direct, total int64) error
	RecordProgression(event *ProgressionEvent) (bool, error)
	UpdateProgression(affiliateID string, category Category, level int32, directPct, indirectPct float64) error

	RecordActivity(affiliateID string, at time.Time) error
	AddCommissionEarnings(affiliateID string, amount float64) error

	FindDormant(lastActivityBefore time.Time) ([]*Affiliate, error)
	FindReduced() ([]*Affiliate, error)
	SetReduction(affiliateID string, factor float64, inactiveSince time.Time) error
	ClearReduction(affiliateID string, at time.Time) error
}
