package usecase

import (
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	commissiondto "github.com/apostamax/affiliate-service/internal/usecase/dto/commission"
)

type CommissionUsecase interface {
	GetCommissionByID(commissionID string) (*domain.Commission, error)
	ListCommissions(input *commissiondto.ListCommissionsInput) (*commissiondto.ListCommissionsOutput, error)
	ApproveCommission(commissionID string) error
	MarkCommissionPaid(commissionID string) error
	CancelCommission(commissionID string) error
}

// DefaultCommissionUsecase drives the commission lifecycle. Transitions are
// guarded at the storage layer: a row not in the expected status is left
// untouched and the call fails with ErrInvalidTransition.
type DefaultCommissionUsecase struct {
	commissionRepo domain.CommissionRepository
	affiliateRepo  domain.AffiliateRepository
}

func NewDefaultCommissionUsecase(
	commissionRepo domain.CommissionRepository,
	affiliateRepo domain.AffiliateRepository,
) *DefaultCommissionUsecase {
	return &DefaultCommissionUsecase{
		commissionRepo: commissionRepo,
		affiliateRepo:  affiliateRepo,
	}
}

func (uc *DefaultCommissionUsecase) GetCommissionByID(commissionID string) (*domain.Commission, error) {
	return uc.commissionRepo.GetCommissionByID(commissionID)
}

func (uc *DefaultCommissionUsecase) ListCommissions(input *commissiondto.ListCommissionsInput) (*commissiondto.ListCommissionsOutput, error) {
	commissions, total, err := uc.commissionRepo.ListCommissions(input.Filters, input.Page, input.Limit)
	if err != nil {
		return nil, err
	}
	return &commissiondto.ListCommissionsOutput{
		Commissions: commissions,
		Total:       total,
	}, nil
}

func (uc *DefaultCommissionUsecase) ApproveCommission(commissionID string) error {
	return uc.transition(commissionID, domain.CommissionStatusCalculated, domain.CommissionStatusApproved)
}

// MarkCommissionPaid moves an approved commission to PAID and credits the
// recipient's lifetime earnings.
func (uc *DefaultCommissionUsecase) MarkCommissionPaid(commissionID string) error {
	commission, err := uc.GetCommissionByID(commissionID)
	if err != nil {
		return err
	}
	if err := uc.transition(commissionID, domain.CommissionStatusApproved, domain.CommissionStatusPaid); err != nil {
		return err
	}
	return uc.affiliateRepo.AddCommissionEarnings(commission.RecipientID, commission.FinalAmount)
}

func (uc *DefaultCommissionUsecase) CancelCommission(commissionID string) error {
	return uc.transition(commissionID, domain.CommissionStatusCalculated, domain.CommissionStatusCancelled)
}

func (uc *DefaultCommissionUsecase) transition(commissionID string, from, to domain.CommissionStatus) error {
	moved, err := uc.commissionRepo.UpdateStatus(commissionID, from, to, time.Now())
	if err != nil {
		return err
	}
	if !moved {
		return domain.ErrInvalidTransition
	}
	return nil
}
