package models

import "time"

type TransactionModel struct {
	ID          string `gorm:"primaryKey"`
	ExternalID  string `gorm:"index"`
	CustomerID  string `gorm:"index:idx_tx_customer_type"`
	AffiliateID string `gorm:"index:idx_tx_affiliate"`
	Type        string `gorm:"index:idx_tx_customer_type"`
	Amount      float64
	Currency    string
	Status      string `gorm:"index:idx_tx_status"`
	Metadata    string
	EngineDone  bool
	ProcessedAt *time.Time
	CreatedAt   time.Time `gorm:"index:idx_tx_created"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// CPAValidationModel: unique (customer, affiliate) pair is the validator's
// terminal-state guard.
type CPAValidationModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	CustomerID  string `gorm:"uniqueIndex:idx_validation_pair"`
	AffiliateID string `gorm:"uniqueIndex:idx_validation_pair;index"`
	Model       string
	Status      string
	ValidatedAt time.Time
	CreatedAt   time.Time
}

func (CPAValidationModel) TableName() string {
	return "cpa_validations"
}
