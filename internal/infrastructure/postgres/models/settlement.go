package models

import "time"

type SettlementPeriodModel struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Type      string    `gorm:"uniqueIndex:idx_period_once"`
	StartsAt  time.Time `gorm:"uniqueIndex:idx_period_once"`
	EndsAt    time.Time
	Status    string `gorm:"index:idx_period_status"`
	TotalGGR  float64
	TotalNGR  float64
	SettledAt *time.Time
	CreatedAt time.Time
}

func (SettlementPeriodModel) TableName() string {
	return "settlement_periods"
}

type AffiliateSettlementModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	PeriodID     string `gorm:"uniqueIndex:idx_settlement_once;index"`
	AffiliateID  string `gorm:"uniqueIndex:idx_settlement_once;index"`
	GGR          float64
	NGR          float64
	CarryoverIn  float64
	CarryoverOut float64
	Distributed  bool
	CreatedAt    time.Time
}

func (AffiliateSettlementModel) TableName() string {
	return "affiliate_settlements"
}

type VaultModel struct {
	ID                 string `gorm:"primaryKey;type:uuid"`
	PeriodID           string `gorm:"uniqueIndex:idx_vault_period"`
	TotalNGR           float64
	AffiliatesShare    float64
	RankingsShare      float64
	NextDistributionAt time.Time
	CreatedAt          time.Time
}

func (VaultModel) TableName() string {
	return "vaults"
}
