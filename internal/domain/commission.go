package domain

import "time"

type CommissionType string

const (
	CommissionTypeCPA      CommissionType = "CPA"
	CommissionTypeRevShare CommissionType = "REVSHARE"
	CommissionTypeBonus    CommissionType = "BONUS"
)

type CommissionStatus string

const (
	CommissionStatusCalculated CommissionStatus = "CALCULATED"
	CommissionStatusApproved   CommissionStatus = "APPROVED"
	CommissionStatusPaid       CommissionStatus = "PAID"
	CommissionStatusCancelled  CommissionStatus = "CANCELLED"
	CommissionStatusDisputed   CommissionStatus = "DISPUTED"
)

// Commission is one payout row. SourceRef is the idempotency anchor: the
// triggering transaction id for CPA, the settlement period id for revshare,
// the progression event id for bonification. Level 0 is a direct/bonus
// payment, 1 the direct sponsor, 2..5 indirect sponsors.
type Commission struct {
	ID                string
	RecipientID       string
	SourceAffiliateID string
	CustomerID        string
	SourceRef         string
	Type              CommissionType
	Level             int32
	BaseAmount        float64
	Percent           float64
	Amount            float64
	FinalAmount       float64
	Status            CommissionStatus
	Metadata          string
	CreatedAt         time.Time
	ApprovedAt        *time.Time
	PaidAt            *time.Time
}

type CommissionFilters struct {
	RecipientID string
	Type        CommissionType
	Status      CommissionStatus
	DateFrom    time.Time
	DateTo      time.Time
}

type CommissionRepository interface {
	// InsertCommission returns false when a row for the same
	// (source_ref, source_affiliate, recipient, level) tuple already
	// exists. Enforced by a storage unique index, not a read-then-write.
	InsertCommission(commission *Commission) (bool, error)
	GetCommissionByID(commissionID string) (*Commission, error)
	ListCommissionsBySourceRef(sourceRef string) ([]*Commission, error)
	ListCommissions(filters CommissionFilters, page, limit int32) ([]*Commission, int64, error)
	// UpdateStatus moves a commission from one status to another and
	// returns false if the row was not in the expected status.
	UpdateStatus(commissionID string, from, to CommissionStatus, at time.Time) (bool, error)
}
