package usecase

import (
	"errors"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	affiliatedto "github.com/apostamax/affiliate-service/internal/usecase/dto/affiliate"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type AffiliateUsecase interface {
	RegisterAffiliate(input *affiliatedto.RegisterAffiliateInput) (*affiliatedto.RegisterAffiliateOutput, error)
	GetAffiliateByID(affiliateID string) (*domain.Affiliate, error)
	GetAffiliateByReferralCode(code string) (*domain.Affiliate, error)
	GetSponsorChain(affiliateID string) ([]*domain.ChainNode, error)
	ChangeStatus(affiliateID string, status domain.AffiliateStatus) error
}

type DefaultAffiliateUsecase struct {
	affiliateRepo domain.AffiliateRepository
	resolver      *DefaultHierarchyResolver
}

func NewDefaultAffiliateUsecase(
	repo domain.AffiliateRepository,
	resolver *DefaultHierarchyResolver,
) *DefaultAffiliateUsecase {
	return &DefaultAffiliateUsecase{
		affiliateRepo: repo,
		resolver:      resolver,
	}
}

func (uc *DefaultAffiliateUsecase) RegisterAffiliate(input *affiliatedto.RegisterAffiliateInput) (*affiliatedto.RegisterAffiliateOutput, error) {
	_, err := uc.affiliateRepo.GetAffiliateByUserID(input.UserID)
	if err == nil {
		return nil, domain.ErrAffiliateExists
	}
	if !errors.Is(err, domain.ErrAffiliateNotFound) {
		return nil, err
	}

	var sponsorID string
	var depth int32
	if input.SponsorReferral != "" {
		sponsor, err := uc.affiliateRepo.GetAffiliateByReferralCode(input.SponsorReferral)
		if errors.Is(err, domain.ErrAffiliateNotFound) {
			return nil, domain.ErrSponsorNotFound
		}
		if err != nil {
			return nil, err
		}
		sponsorID = sponsor.ID
		depth = sponsor.Depth + 1
	}

	codeGenerator, err := nanoid.Standard(10)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	affiliate := &domain.Affiliate{
		ID:           uuid.New().String(),
		UserID:       input.UserID,
		ReferralCode: codeGenerator(),
		SponsorID:    sponsorID,
		Depth:        depth,
		Progression: domain.AffiliateProgression{
			Category:      domain.CategoryJogador,
			CategoryLevel: 1,
		},
		Status:         domain.AffiliateStatusActive,
		LastActivityAt: now,
		CreatedAt:      now,
	}
	if err := uc.affiliateRepo.CreateAffiliate(affiliate); err != nil {
		return nil, err
	}

	return &affiliatedto.RegisterAffiliateOutput{
		AffiliateID:  affiliate.ID,
		ReferralCode: affiliate.ReferralCode,
		SponsorID:    sponsorID,
	}, nil
}

func (uc *DefaultAffiliateUsecase) GetAffiliateByID(affiliateID string) (*domain.Affiliate, error) {
	return uc.affiliateRepo.GetAffiliateByID(affiliateID)
}

func (uc *DefaultAffiliateUsecase) GetAffiliateByReferralCode(code string) (*domain.Affiliate, error) {
	return uc.affiliateRepo.GetAffiliateByReferralCode(code)
}

func (uc *DefaultAffiliateUsecase) GetSponsorChain(affiliateID string) ([]*domain.ChainNode, error) {
	return uc.resolver.ResolveChain(affiliateID, domain.MaxHierarchyLevels)
}

// ChangeStatus moves an affiliate between lifecycle states. Affiliates are
// never deleted: BANNED is the terminal state.
func (uc *DefaultAffiliateUsecase) ChangeStatus(affiliateID string, status domain.AffiliateStatus) error {
	switch status {
	case domain.AffiliateStatusActive, domain.AffiliateStatusInactive,
		domain.AffiliateStatusSuspended, domain.AffiliateStatusBanned:
	default:
		return domain.ErrInvalidTransition
	}

	affiliate, err := uc.affiliateRepo.GetAffiliateByID(affiliateID)
	if err != nil {
		return err
	}
	if affiliate.Status == domain.AffiliateStatusBanned && status != domain.AffiliateStatusBanned {
		return domain.ErrInvalidTransition
	}
	return uc.affiliateRepo.UpdateStatus(affiliateID, status)
}
