package models

import "time"

type AffiliateModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	UserID       string `gorm:"uniqueIndex:idx_affiliate_user"`
	ReferralCode string `gorm:"uniqueIndex:idx_affiliate_code"`
	SponsorID    string `gorm:"index:idx_affiliate_sponsor"`
	Depth        int32

	Category                int32 `gorm:"index:idx_affiliate_category"`
	CategoryLevel           int32
	DirectIndications       int64
	TotalIndications        int64
	RevSharePercentDirect   float64
	RevSharePercentIndirect float64

	LifetimeCommissions float64
	LifetimeVolume      float64
	PeriodCommissions   float64
	PeriodVolume        float64
	AvailableBalance    float64
	LockedBalance       float64

	Status                   string `gorm:"index:idx_affiliate_status"`
	LastActivityAt           time.Time
	InactiveSince            *time.Time
	IndicationsSinceInactive int64
	ReductionFactor          float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AffiliateModel) TableName() string {
	return "affiliates"
}

// ProgressionEventModel: the (affiliate, category) uniqueness pays each
// category bonification at most once.
type ProgressionEventModel struct {
	ID                 string `gorm:"primaryKey;type:uuid"`
	AffiliateID        string `gorm:"uniqueIndex:idx_progression_once;index"`
	NewCategory        int32  `gorm:"uniqueIndex:idx_progression_once"`
	OldCategory        int32
	BonificationAmount float64
	CreatedAt          time.Time
}

func (ProgressionEventModel) TableName() string {
	return "progression_events"
}

// IndicationEventModel: one transaction bumps indication counters once.
type IndicationEventModel struct {
	TransactionID string `gorm:"primaryKey"`
	AffiliateID   string `gorm:"index"`
	CreatedAt     time.Time
}

func (IndicationEventModel) TableName() string {
	return "indication_events"
}
