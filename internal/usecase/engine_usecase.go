package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	publisher "github.com/apostamax/affiliate-service/internal/infrastructure/kafka"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	enginedto "github.com/apostamax/affiliate-service/internal/usecase/dto/engine"
)

// EventPublisher is the slice of the kafka publisher the engine needs.
type EventPublisher interface {
	PublishJSON(topic, key string, event interface{}) error
}

// DefaultEngineUsecase is the single entry point for ingested transactions.
// One call performs, inside one storage transaction: ingestion, activity
// tracking, CPA validation, commission distribution, indication counting and
// progression. Events go to kafka only after the commit.
type DefaultEngineUsecase struct {
	uow         domain.UnitOfWork
	config      domain.ConfigProvider
	resolver    *DefaultHierarchyResolver
	validator   *DefaultCPAValidatorUsecase
	distributor *DefaultDistributorUsecase
	progression *DefaultProgressionUsecase
	publisher   EventPublisher
	metrics     *metrics.EngineMetrics
	maxLevels   int
	now         func() time.Time
}

func NewDefaultEngineUsecase(
	uow domain.UnitOfWork,
	config domain.ConfigProvider,
	resolver *DefaultHierarchyResolver,
	validator *DefaultCPAValidatorUsecase,
	distributor *DefaultDistributorUsecase,
	progression *DefaultProgressionUsecase,
	pub EventPublisher,
	m *metrics.EngineMetrics,
	maxLevels int,
) *DefaultEngineUsecase {
	if maxLevels <= 0 || maxLevels > domain.MaxHierarchyLevels {
		maxLevels = domain.MaxHierarchyLevels
	}
	return &DefaultEngineUsecase{
		uow:         uow,
		config:      config,
		resolver:    resolver,
		validator:   validator,
		distributor: distributor,
		progression: progression,
		publisher:   pub,
		metrics:     m,
		maxLevels:   maxLevels,
		now:         time.Now,
	}
}

type engineOutcome struct {
	commissions []*domain.Commission
	promotions  []*domain.ProgressionEvent
}

func (uc *DefaultEngineUsecase) ProcessTransaction(input *enginedto.ProcessTransactionInput) error {
	cfg, err := uc.config.Snapshot()
	if err != nil {
		uc.metrics.RecordError("config")
		return fmt.Errorf("load config snapshot: %w", err)
	}

	now := uc.now()
	outcome := &engineOutcome{}

	err = uc.uow.Do(func(repos *domain.RepoSet) error {
		return uc.process(repos, cfg, input, now, outcome)
	})
	if err != nil {
		uc.metrics.RecordError("process")
		return err
	}

	uc.publishOutcome(input, outcome)
	return nil
}

func (uc *DefaultEngineUsecase) process(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	input *enginedto.ProcessTransactionInput,
	now time.Time,
	outcome *engineOutcome,
) error {
	transaction := &domain.Transaction{
		ID:          input.TransactionID,
		ExternalID:  input.ExternalID,
		CustomerID:  input.CustomerID,
		AffiliateID: input.AffiliateID,
		Type:        domain.TransactionType(input.Type),
		Amount:      input.Amount,
		Currency:    input.Currency,
		Status:      domain.TransactionStatus(input.Status),
		CreatedAt:   input.OccurredAt,
	}

	inserted, err := repos.Transactions.InsertTransaction(transaction)
	if err != nil {
		return err
	}
	if !inserted {
		stored, err := repos.Transactions.GetTransactionByID(transaction.ID)
		if err != nil {
			return err
		}
		if stored != nil {
			if stored.EngineDone {
				return nil
			}
			// a row first delivered as PENDING and redelivered with its
			// final status must be rewritten before the windowed queries
			// run, or the deposit stays invisible to them forever
			if stored.Status != transaction.Status || stored.Amount != transaction.Amount {
				err := repos.Transactions.UpdateTransactionStatus(
					transaction.ID, transaction.Status, transaction.Amount)
				if err != nil {
					return err
				}
			}
		}
	}

	// pending and failed rows are stored for later windows, nothing else
	if transaction.Status != domain.TransactionStatusProcessed {
		return nil
	}

	if transaction.AffiliateID == "" {
		return repos.Transactions.MarkEngineProcessed(transaction.ID, now)
	}

	if err := repos.Affiliates.RecordActivity(transaction.AffiliateID, now); err != nil {
		return err
	}

	if uc.triggersValidation(transaction.Type) {
		if err := uc.runCPAFlow(repos, cfg, transaction, now, outcome); err != nil {
			return err
		}
	}

	return repos.Transactions.MarkEngineProcessed(transaction.ID, now)
}

// triggersValidation limits CPA evaluation to transaction types that can
// change a customer's qualification.
func (uc *DefaultEngineUsecase) triggersValidation(t domain.TransactionType) bool {
	switch t {
	case domain.TransactionTypeDeposit, domain.TransactionTypeBet, domain.TransactionTypeSale:
		return true
	default:
		return false
	}
}

func (uc *DefaultEngineUsecase) runCPAFlow(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	transaction *domain.Transaction,
	now time.Time,
	outcome *engineOutcome,
) error {
	result, err := uc.validator.Validate(repos, cfg, transaction.CustomerID, transaction.AffiliateID, now)
	if err != nil {
		return err
	}
	if !result.NewlyValidated {
		return nil
	}

	chain, err := uc.resolver.ResolveChainWith(repos.Affiliates, transaction.AffiliateID, uc.maxLevels)
	if err != nil {
		return err
	}

	commissions, err := uc.distributor.DistributeCPA(repos, cfg, transaction, chain, now)
	if err != nil {
		return err
	}
	outcome.commissions = append(outcome.commissions, commissions...)

	counted, err := uc.distributor.RecordIndicationCascade(repos, transaction, chain, now)
	if err != nil {
		return err
	}
	if !counted {
		return nil
	}

	// the new indication may promote anyone in the chain, the triggering
	// affiliate included
	for _, id := range uc.affectedIDs(transaction.AffiliateID, chain) {
		event, err := uc.progression.Recompute(repos, cfg, id, now)
		if err != nil {
			return err
		}
		if event != nil {
			outcome.promotions = append(outcome.promotions, event)
		}
		if err := uc.maybeReactivate(repos, cfg, id, now); err != nil {
			return err
		}
	}
	return nil
}

func (uc *DefaultEngineUsecase) affectedIDs(triggeringID string, chain []*domain.ChainNode) []string {
	ids := make([]string, 0, len(chain)+1)
	ids = append(ids, triggeringID)
	for _, node := range chain {
		ids = append(ids, node.Affiliate.ID)
	}
	return ids
}

// maybeReactivate lifts an inactivity reduction once the affiliate has
// brought in enough new indications since going dormant.
func (uc *DefaultEngineUsecase) maybeReactivate(
	repos *domain.RepoSet,
	cfg *domain.ConfigSnapshot,
	affiliateID string,
	now time.Time,
) error {
	affiliate, err := repos.Affiliates.GetAffiliateByID(affiliateID)
	if errors.Is(err, domain.ErrAffiliateNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if affiliate.InactiveSince == nil {
		return nil
	}

	band, ok := cfg.CategoryConfigOf(affiliate.Progression.Category)
	if !ok {
		return domain.ErrConfigMissing
	}
	if band.ReactivationIndications <= 0 ||
		affiliate.IndicationsSinceInactive < band.ReactivationIndications {
		return nil
	}

	if err := repos.Affiliates.ClearReduction(affiliateID, now); err != nil {
		return err
	}
	uc.metrics.RecordReactivation()
	slog.Info("affiliate reactivated by new indications",
		"affiliate_id", affiliateID, "indications", affiliate.IndicationsSinceInactive)
	return nil
}

func (uc *DefaultEngineUsecase) publishOutcome(input *enginedto.ProcessTransactionInput, outcome *engineOutcome) {
	for _, c := range outcome.commissions {
		err := uc.publisher.PublishJSON(publisher.TopicCommissionEvents, c.RecipientID, publisher.CommissionEvent{
			CommissionID: c.ID,
			RecipientID:  c.RecipientID,
			SourceID:     c.SourceAffiliateID,
			SourceRef:    c.SourceRef,
			Type:         string(c.Type),
			Level:        c.Level,
			Amount:       c.FinalAmount,
		})
		if err != nil {
			slog.Error("failed to publish kafka CommissionEvent",
				"commission_id", c.ID, "error", err.Error())
		}
	}
	for _, p := range outcome.promotions {
		err := uc.publisher.PublishJSON(publisher.TopicCategoryEvents, p.AffiliateID, publisher.CategoryEvent{
			AffiliateID:  p.AffiliateID,
			OldCategory:  p.OldCategory.String(),
			NewCategory:  p.NewCategory.String(),
			Bonification: p.BonificationAmount,
		})
		if err != nil {
			slog.Error("failed to publish kafka CategoryEvent",
				"affiliate_id", p.AffiliateID, "error", err.Error())
		}
	}
	if len(outcome.commissions) > 0 || len(outcome.promotions) > 0 {
		slog.Info("transaction processed",
			"transaction_id", input.TransactionID,
			"commissions", len(outcome.commissions),
			"promotions", len(outcome.promotions))
	}
}
