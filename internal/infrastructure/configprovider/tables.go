package configprovider

import (
	"fmt"

	"github.com/apostamax/affiliate-service/internal/domain"
)

// tablesDocument is the JSON shape served by the configuration service.
type tablesDocument struct {
	Version    string          `json:"version"`
	Categories []categoryTable `json:"categories"`
	CPA        cpaTable        `json:"cpa"`
	RevShare   revShareTable   `json:"revshare"`
	Inactivity inactivityTable `json:"inactivity"`
	Vault      vaultTable      `json:"vault"`
}

type categoryTable struct {
	Name                    string   `json:"name"`
	MinIndications          int64    `json:"min_indications"`
	MaxIndications          int64    `json:"max_indications"`
	MinRevSharePercent      float64  `json:"min_revshare_percent"`
	MaxRevSharePercent      float64  `json:"max_revshare_percent"`
	IndirectRevSharePercent float64  `json:"indirect_revshare_percent"`
	SubLevels               int32    `json:"sub_levels"`
	BonificationAmount      float64  `json:"bonification_amount"`
	ReactivationIndications int64    `json:"reactivation_indications"`
	Features                []string `json:"features"`
}

type cpaTable struct {
	LevelAmounts         []float64 `json:"level_amounts"`
	DirectBonusAmount    float64   `json:"direct_bonus_amount"`
	MinFirstDeposit      float64   `json:"min_first_deposit"`
	MinActivityDeposit   float64   `json:"min_activity_deposit"`
	MinActivityCount     int64     `json:"min_activity_count"`
	MinActivityGGR       float64   `json:"min_activity_ggr"`
	ValidationWindowDays int       `json:"validation_window_days"`
}

type revShareTable struct {
	Frequency        string  `json:"frequency"`
	AnchorWeekday    int     `json:"anchor_weekday"`
	AnchorHour       int     `json:"anchor_hour"`
	RetainedFraction float64 `json:"retained_fraction"`
}

type inactivityTable struct {
	DormancyDays int             `json:"dormancy_days"`
	Steps        map[int]float64 `json:"steps"`
}

type vaultTable struct {
	AffiliatesSharePercent float64 `json:"affiliates_share_percent"`
	RankingsSharePercent   float64 `json:"rankings_share_percent"`
}

func (d *tablesDocument) toSnapshot() (*domain.ConfigSnapshot, error) {
	snapshot := &domain.ConfigSnapshot{
		Version: d.Version,
		RevShare: domain.RevShareSchedule{
			Frequency:        domain.PeriodType(d.RevShare.Frequency),
			AnchorWeekday:    d.RevShare.AnchorWeekday,
			AnchorHour:       d.RevShare.AnchorHour,
			RetainedFraction: d.RevShare.RetainedFraction,
		},
		Inactivity: domain.InactivitySchedule{
			DormancyDays: d.Inactivity.DormancyDays,
			Steps:        d.Inactivity.Steps,
		},
		Vault: domain.VaultSchedule{
			AffiliatesSharePercent: d.Vault.AffiliatesSharePercent,
			RankingsSharePercent:   d.Vault.RankingsSharePercent,
		},
	}

	for _, table := range d.Categories {
		category, ok := domain.ParseCategory(table.Name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrConfigMissing, table.Name)
		}
		snapshot.Categories = append(snapshot.Categories, domain.CategoryConfig{
			Category:                category,
			MinIndications:          table.MinIndications,
			MaxIndications:          table.MaxIndications,
			MinRevSharePercent:      table.MinRevSharePercent,
			MaxRevSharePercent:      table.MaxRevSharePercent,
			IndirectRevSharePercent: table.IndirectRevSharePercent,
			SubLevels:               table.SubLevels,
			BonificationAmount:      table.BonificationAmount,
			ReactivationIndications: table.ReactivationIndications,
			Features:                table.Features,
		})
	}

	if len(d.CPA.LevelAmounts) > domain.MaxHierarchyLevels {
		return nil, fmt.Errorf("%w: cpa table has %d levels, max %d",
			domain.ErrConfigMissing, len(d.CPA.LevelAmounts), domain.MaxHierarchyLevels)
	}
	copy(snapshot.CPA.LevelAmounts[:], d.CPA.LevelAmounts)
	snapshot.CPA.DirectBonusAmount = d.CPA.DirectBonusAmount
	snapshot.CPA.MinFirstDeposit = d.CPA.MinFirstDeposit
	snapshot.CPA.MinActivityDeposit = d.CPA.MinActivityDeposit
	snapshot.CPA.MinActivityCount = d.CPA.MinActivityCount
	snapshot.CPA.MinActivityGGR = d.CPA.MinActivityGGR
	snapshot.CPA.ValidationWindowDays = d.CPA.ValidationWindowDays
	if snapshot.CPA.ValidationWindowDays <= 0 {
		snapshot.CPA.ValidationWindowDays = 30
	}
	if snapshot.Inactivity.DormancyDays <= 0 {
		snapshot.Inactivity.DormancyDays = 30
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return snapshot, nil
}
