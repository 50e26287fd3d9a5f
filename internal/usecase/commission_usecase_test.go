package usecase_test

import (
	"testing"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/usecase"
	commissiondto "github.com/apostamax/affiliate-service/internal/usecase/dto/commission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCommission(t *testing.T, repos *domain.RepoSet, id, recipientID string, amount float64) {
	t.Helper()
	inserted, err := repos.Commissions.InsertCommission(&domain.Commission{
		ID:                id,
		RecipientID:       recipientID,
		SourceAffiliateID: "source-1",
		SourceRef:         "ref-" + id,
		Type:              domain.CommissionTypeCPA,
		Level:             1,
		BaseAmount:        amount,
		Amount:            amount,
		FinalAmount:       amount,
		Status:            domain.CommissionStatusCalculated,
		CreatedAt:         time.Now(),
	})
	require.NoError(t, err)
	require.True(t, inserted)
}

func TestCommissionLifecycle(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	uc := usecase.NewDefaultCommissionUsecase(repos.Commissions, repos.Affiliates)

	recipient := createAffiliate(t, repos, "earner", "")
	seedCommission(t, repos, "com-1", recipient.ID, 35)

	require.NoError(t, uc.ApproveCommission("com-1"))

	approved, err := uc.GetCommissionByID("com-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	require.NoError(t, uc.MarkCommissionPaid("com-1"))

	paid, err := uc.GetCommissionByID("com-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	earner, err := repos.Affiliates.GetAffiliateByID(recipient.ID)
	require.NoError(t, err)
	assert.InDelta(t, 35.0, earner.Financials.LifetimeCommissions, 1e-9)
	assert.InDelta(t, 35.0, earner.Financials.AvailableBalance, 1e-9)
}

func TestCommissionLifecycle_GuardedTransitions(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	uc := usecase.NewDefaultCommissionUsecase(repos.Commissions, repos.Affiliates)

	recipient := createAffiliate(t, repos, "earner", "")
	seedCommission(t, repos, "com-1", recipient.ID, 35)

	// paying before approval is rejected
	assert.ErrorIs(t, uc.MarkCommissionPaid("com-1"), domain.ErrInvalidTransition)

	require.NoError(t, uc.ApproveCommission("com-1"))
	assert.ErrorIs(t, uc.ApproveCommission("com-1"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, uc.CancelCommission("com-1"), domain.ErrInvalidTransition)
}

func TestListCommissions_FiltersByRecipient(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	uc := usecase.NewDefaultCommissionUsecase(repos.Commissions, repos.Affiliates)

	a := createAffiliate(t, repos, "a", "")
	b := createAffiliate(t, repos, "b", "")
	seedCommission(t, repos, "com-1", a.ID, 35)
	seedCommission(t, repos, "com-2", a.ID, 10)
	seedCommission(t, repos, "com-3", b.ID, 5)

	out, err := uc.ListCommissions(&commissiondto.ListCommissionsInput{
		Filters: domain.CommissionFilters{RecipientID: a.ID},
		Page:    1,
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)
	assert.Len(t, out.Commissions, 2)
}

func TestGetCommission_NotFound(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	uc := usecase.NewDefaultCommissionUsecase(repos.Commissions, repos.Affiliates)

	_, err := uc.GetCommissionByID("missing")
	assert.ErrorIs(t, err, domain.ErrCommissionNotFound)
}
