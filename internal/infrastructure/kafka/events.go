package publisher

// Topics the engine talks to. Transaction events come in; engine facts go
// out. Payloads are plain facts: ids and amounts, nothing the consumer has
// to call back for.
const (
	TopicTransactionEvents = "transaction-events"
	TopicCommissionEvents  = "commission-events"
	TopicCategoryEvents    = "category-events"
	TopicSettlementEvents  = "settlement-events"
)

type TransactionEvent struct {
	TransactionID string  `json:"transaction_id"`
	ExternalID    string  `json:"external_id"`
	CustomerID    string  `json:"customer_id"`
	AffiliateID   string  `json:"affiliate_id"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	OccurredAt    string  `json:"occurred_at"`
}

type CommissionEvent struct {
	CommissionID string  `json:"commission_id"`
	RecipientID  string  `json:"recipient_id"`
	SourceID     string  `json:"source_affiliate_id"`
	SourceRef    string  `json:"source_ref"`
	Type         string  `json:"type"`
	Level        int32   `json:"level"`
	Amount       float64 `json:"amount"`
}

type CategoryEvent struct {
	AffiliateID  string  `json:"affiliate_id"`
	OldCategory  string  `json:"old_category"`
	NewCategory  string  `json:"new_category"`
	Level        int32   `json:"level"`
	Bonification float64 `json:"bonification"`
}

type SettlementEvent struct {
	PeriodID   string  `json:"period_id"`
	PeriodType string  `json:"period_type"`
	TotalGGR   float64 `json:"total_ggr"`
	TotalNGR   float64 `json:"total_ngr"`
	Affiliates int     `json:"affiliates"`
}
