package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EngineMetrics groups every engine-side prometheus collector.
type EngineMetrics struct {
	CommissionsCreatedTotal prometheus.CounterVec
	CommissionAmountTotal   prometheus.CounterVec

	CPAValidationsTotal     prometheus.CounterVec
	CategoryPromotionsTotal prometheus.CounterVec
	BonificationAmountTotal prometheus.Counter

	SettlementRunsTotal    prometheus.CounterVec
	SettlementDuration     prometheus.Histogram
	NegativeCarryoverTotal prometheus.Counter

	ReductionsAppliedTotal   prometheus.CounterVec
	ReactivationsTotal       prometheus.Counter
	HierarchyCycleWarnsTotal prometheus.Counter
	SkippedRecipientsTotal   prometheus.CounterVec

	ConfigReloadsTotal prometheus.CounterVec
	EngineErrorsTotal  prometheus.CounterVec
}

func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		CommissionsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_created_total",
				Help: "Commission rows written, by type and hierarchy level",
			},
			[]string{"type", "level"},
		),

		CommissionAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_amount_total",
				Help: "Total commission amount written, by type",
			},
			[]string{"type"},
		),

		CPAValidationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cpa_validations_total",
				Help: "CPA validation evaluations, by model and outcome",
			},
			[]string{"model", "outcome"},
		),

		CategoryPromotionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "category_promotions_total",
				Help: "Category promotions, by new category",
			},
			[]string{"category"},
		),

		BonificationAmountTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bonification_amount_total",
				Help: "Total one-time bonification amount paid",
			},
		),

		SettlementRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_runs_total",
				Help: "RevShare settlement runs, by period type and outcome",
			},
			[]string{"period_type", "outcome"},
		),

		SettlementDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "settlement_duration_seconds",
				Help:    "Wall time of one settlement run",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),

		NegativeCarryoverTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "negative_carryover_total",
				Help: "Total negative NGR carried into following periods",
			},
		),

		ReductionsAppliedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inactivity_reductions_applied_total",
				Help: "Inactivity reductions applied, by weeks bucket",
			},
			[]string{"weeks"},
		),

		ReactivationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "reactivations_total",
				Help: "Affiliates reactivated after dormancy",
			},
		),

		HierarchyCycleWarnsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hierarchy_cycle_warnings_total",
				Help: "Sponsor-graph cycles detected during chain walks",
			},
		),

		SkippedRecipientsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "distribution_skipped_recipients_total",
				Help: "Chain members skipped during distribution, by reason",
			},
			[]string{"reason"},
		),

		ConfigReloadsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "config_reloads_total",
				Help: "Configuration snapshot reloads, by outcome",
			},
			[]string{"outcome"},
		),

		EngineErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_errors_total",
				Help: "Engine processing errors, by stage",
			},
			[]string{"stage"},
		),
	}
}

func (m *EngineMetrics) RecordCommission(commissionType string, level int32, amount float64) {
	m.CommissionsCreatedTotal.WithLabelValues(commissionType, levelLabel(level)).Inc()
	m.CommissionAmountTotal.WithLabelValues(commissionType).Add(amount)
}

func (m *EngineMetrics) RecordValidation(model, outcome string) {
	m.CPAValidationsTotal.WithLabelValues(model, outcome).Inc()
}

func (m *EngineMetrics) RecordPromotion(category string, bonification float64) {
	m.CategoryPromotionsTotal.WithLabelValues(category).Inc()
	m.BonificationAmountTotal.Add(bonification)
}

func (m *EngineMetrics) RecordSettlementRun(periodType, outcome string, durationSeconds float64) {
	m.SettlementRunsTotal.WithLabelValues(periodType, outcome).Inc()
	m.SettlementDuration.Observe(durationSeconds)
}

func (m *EngineMetrics) RecordNegativeCarryover(amount float64) {
	if amount < 0 {
		amount = -amount
	}
	m.NegativeCarryoverTotal.Add(amount)
}

func (m *EngineMetrics) RecordReduction(weeks int) {
	m.ReductionsAppliedTotal.WithLabelValues(levelLabel(int32(weeks))).Inc()
}

func (m *EngineMetrics) RecordReactivation() {
	m.ReactivationsTotal.Inc()
}

func (m *EngineMetrics) RecordCycleWarning() {
	m.HierarchyCycleWarnsTotal.Inc()
}

func (m *EngineMetrics) RecordSkippedRecipient(reason string) {
	m.SkippedRecipientsTotal.WithLabelValues(reason).Inc()
}

func (m *EngineMetrics) RecordConfigReload(outcome string) {
	m.ConfigReloadsTotal.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) RecordError(stage string) {
	m.EngineErrorsTotal.WithLabelValues(stage).Inc()
}

func levelLabel(level int32) string {
	switch level {
	case 0:
		return "0"
	case 1:
		return "1"
	case 2:
		return "2"
	case 3:
		return "3"
	case 4:
		return "4"
	case 5:
		return "5"
	default:
		return "other"
	}
}
