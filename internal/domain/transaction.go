package domain

import "time"

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeBet        TransactionType = "BET"
	TransactionTypeSale       TransactionType = "SALE"
	TransactionTypeBonus      TransactionType = "BONUS"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusProcessed TransactionStatus = "PROCESSED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// Transaction is an append-only ingested event. The id is the idempotency
// key: re-delivery of an already engine-processed transaction is a no-op.
// BET rows carry the stake as a positive amount and paid-out wins as
// negative amounts, so GGR over a window reduces to SUM(amount) of bets.
type Transaction struct {
	ID          string
	ExternalID  string
	CustomerID  string
	AffiliateID string
	Type        TransactionType
	Amount      float64
	Currency    string
	Status      TransactionStatus
	Metadata    string
	EngineDone  bool
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

type TransactionRepository interface {
	// InsertTransaction returns false when the id already exists.
	InsertTransaction(transaction *Transaction) (bool, error)
	GetTransactionByID(transactionID string) (*Transaction, error)
	// UpdateTransactionStatus rewrites the status and amount of a stored
	// row that the engine has not finished yet, so a PENDING delivery
	// followed by a PROCESSED one converges on the final state.
	UpdateTransactionStatus(transactionID string, status TransactionStatus, amount float64) error
	MarkEngineProcessed(transactionID string, at time.Time) error

	FirstDeposit(customerID string) (*Transaction, error)
	CountDepositsInWindow(customerID string, from, to time.Time) (int64, error)
	MaxDepositInWindow(customerID string, from, to time.Time) (float64, error)
	// GGRInWindow sums processed bet amounts for the customer.
	GGRInWindow(customerID string, from, to time.Time) (float64, error)
	// AggregateGGRByAffiliate sums processed bet amounts per originating
	// affiliate over a settlement period.
	AggregateGGRByAffiliate(from, to time.Time) (map[string]float64, error)
}
