package models

import "time"

// CommissionModel rows are guarded by idx_commission_once: at most one row
// per (source_ref, source_affiliate, recipient, level). Cancelled rows keep
// their slot so a cancelled payout is never silently re-created.
type CommissionModel struct {
	ID                string `gorm:"primaryKey;type:uuid"`
	RecipientID       string `gorm:"uniqueIndex:idx_commission_once;index:idx_commission_recipient"`
	SourceAffiliateID string `gorm:"uniqueIndex:idx_commission_once"`
	SourceRef         string `gorm:"uniqueIndex:idx_commission_once;index:idx_commission_source"`
	Level             int32  `gorm:"uniqueIndex:idx_commission_once"`
	CustomerID        string `gorm:"index"`
	Type              string `gorm:"index:idx_commission_type"`
	BaseAmount        float64
	Percent           float64
	Amount            float64
	FinalAmount       float64
	Status            string `gorm:"index:idx_commission_status"`
	Metadata          string
	CreatedAt         time.Time `gorm:"index:idx_commission_created"`
	ApprovedAt        *time.Time
	PaidAt            *time.Time
}

func (CommissionModel) TableName() string {
	return "commissions"
}
