package domain

import (
	"fmt"
	"sort"
)

// CategoryConfig is one progression band. Indication ranges are closed-open:
// a count belongs to the category with MinIndications <= count < MaxIndications.
type CategoryConfig struct {
	Category                Category
	MinIndications          int64
	MaxIndications          int64 // exclusive; the last band uses a sentinel upper bound
	MinRevSharePercent      float64
	MaxRevSharePercent      float64
	IndirectRevSharePercent float64
	SubLevels               int32
	BonificationAmount      float64
	ReactivationIndications int64
	Features                []string
}

type CPAConfig struct {
	LevelAmounts         [MaxHierarchyLevels]float64 // index 0 = level 1
	DirectBonusAmount    float64
	MinFirstDeposit      float64
	MinActivityDeposit   float64
	MinActivityCount     int64
	MinActivityGGR       float64
	ValidationWindowDays int
}

type RevShareSchedule struct {
	Frequency        PeriodType
	AnchorWeekday    int // 0=Sunday, used by weekly periods
	AnchorHour       int
	RetainedFraction float64 // NGR = GGR * RetainedFraction
}

// InactivitySchedule maps weeks-inactive to a reduction factor. It is a
// sparse step function: the highest threshold <= weeks applies.
type InactivitySchedule struct {
	DormancyDays int
	Steps        map[int]float64
}

type VaultSchedule struct {
	AffiliatesSharePercent float64
	RankingsSharePercent   float64
}

// ConfigSnapshot is one immutable version of every table the engine reads.
// Callers receive a snapshot once per operation and never observe a reload
// mid-call.
type ConfigSnapshot struct {
	Version    string
	Categories []CategoryConfig
	CPA        CPAConfig
	RevShare   RevShareSchedule
	Inactivity InactivitySchedule
	Vault      VaultSchedule
}

// CategoryFor maps a total indication count to its unique band.
func (s *ConfigSnapshot) CategoryFor(totalIndications int64) (*CategoryConfig, bool) {
	for i := range s.Categories {
		c := &s.Categories[i]
		if totalIndications >= c.MinIndications && totalIndications < c.MaxIndications {
			return c, true
		}
	}
	return nil, false
}

func (s *ConfigSnapshot) CategoryConfigOf(category Category) (*CategoryConfig, bool) {
	for i := range s.Categories {
		if s.Categories[i].Category == category {
			return &s.Categories[i], true
		}
	}
	return nil, false
}

// ReductionFor picks the highest configured step not above weeksInactive.
func (s *ConfigSnapshot) ReductionFor(weeksInactive int) float64 {
	factor := 0.0
	best := -1
	for weeks, f := range s.Inactivity.Steps {
		if weeks <= weeksInactive && weeks > best {
			best = weeks
			factor = f
		}
	}
	return factor
}

// Validate rejects snapshots whose category bands are not contiguous and
// non-overlapping; a torn table could place an affiliate outside every band.
func (s *ConfigSnapshot) Validate() error {
	if len(s.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrConfigMissing)
	}
	bands := make([]CategoryConfig, len(s.Categories))
	copy(bands, s.Categories)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinIndications < bands[j].MinIndications })
	for i, band := range bands {
		if band.MaxIndications <= band.MinIndications {
			return fmt.Errorf("%w: category %s has empty range", ErrConfigMissing, band.Category)
		}
		if band.SubLevels < 1 {
			return fmt.Errorf("%w: category %s has no sub-levels", ErrConfigMissing, band.Category)
		}
		if i > 0 && band.MinIndications != bands[i-1].MaxIndications {
			return fmt.Errorf("%w: gap or overlap between %s and %s",
				ErrConfigMissing, bands[i-1].Category, band.Category)
		}
	}
	if s.RevShare.RetainedFraction <= 0 || s.RevShare.RetainedFraction > 1 {
		return fmt.Errorf("%w: retained fraction out of range", ErrConfigMissing)
	}
	return nil
}

// ConfigProvider hands out table snapshots. Implementations swap versions
// atomically; Invalidate forces the next Snapshot to refetch.
type ConfigProvider interface {
	Snapshot() (*ConfigSnapshot, error)
	Invalidate()
}
