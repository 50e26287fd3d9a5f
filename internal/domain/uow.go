package domain

// RepoSet bundles the repositories bound to one storage transaction.
type RepoSet struct {
	Affiliates   AffiliateRepository
	Commissions  CommissionRepository
	Transactions TransactionRepository
	Validations  ValidationRepository
	Settlements  SettlementRepository
}

// UnitOfWork runs fn inside a single persistence transaction. Every write a
// distribution call makes goes through one Do invocation: either all of it
// commits or none of it does.
type UnitOfWork interface {
	Do(fn func(repos *RepoSet) error) error
}
