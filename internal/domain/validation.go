package domain

import "time"

type CPAModel string

const (
	CPAModelFirstDeposit CPAModel = "FIRST_DEPOSIT"
	CPAModelActivity     CPAModel = "ACTIVITY"
)

type ValidationStatus string

const (
	ValidationStatusValidated ValidationStatus = "VALIDATED"
)

// CPAValidation is the terminal state of the per (customer, affiliate) pair
// state machine. The pair is unique in storage; only one model ever wins.
type CPAValidation struct {
	ID          string
	CustomerID  string
	AffiliateID string
	Model       CPAModel
	Status      ValidationStatus
	ValidatedAt time.Time
}

// ValidationResult distinguishes "validated right now" from "was already
// validated": only the former triggers CPA distribution.
type ValidationResult struct {
	Passed         bool
	NewlyValidated bool
	Model          CPAModel
}

type ValidationRepository interface {
	GetValidation(customerID, affiliateID string) (*CPAValidation, error)
	// InsertValidation returns false when the pair is already validated.
	InsertValidation(validation *CPAValidation) (bool, error)
}
