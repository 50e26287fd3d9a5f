package usecase_test

import (
	"testing"
	"time"

	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_FirstDepositModel(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	cfg := testSnapshot()
	validator := usecase.NewDefaultCPAValidatorUsecase(testMetrics)
	now := time.Now()

	seedTransaction(t, repos, "tx-1", "cust-1", "aff-1", domain.TransactionTypeDeposit, 60, now)

	result, err := validator.Validate(repos, cfg, "cust-1", "aff-1", now)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.True(t, result.NewlyValidated)
	assert.Equal(t, domain.CPAModelFirstDeposit, result.Model)
}

func TestValidate_FirstDepositBelowMinimum(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	cfg := testSnapshot()
	validator := usecase.NewDefaultCPAValidatorUsecase(testMetrics)
	now := time.Now()

	seedTransaction(t, repos, "tx-1", "cust-1", "aff-1", domain.TransactionTypeDeposit, 30, now)

	result, err := validator.Validate(repos, cfg, "cust-1", "aff-1", now)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.False(t, result.NewlyValidated)
}

func TestValidate_ActivityModelByDepositCount(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	cfg := testSnapshot()
	validator := usecase.NewDefaultCPAValidatorUsecase(testMetrics)
	now := time.Now()

	// three deposits inside the window, the largest above the threshold
	seedTransaction(t, repos, "tx-1", "cust-1", "aff-1", domain.TransactionTypeDeposit, 25, now.AddDate(0, 0, -10))
	seedTransaction(t, repos, "tx-2", "cust-1", "aff-1", domain.TransactionTypeDeposit, 15, now.AddDate(0, 0, -5))
	seedTransaction(t, repos, "tx-3", "cust-1", "aff-1", domain.TransactionTypeDeposit, 12, now.AddDate(0, 0, -1))

	result, err := validator.Validate(repos, cfg, "cust-1", "aff-1", now)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.True(t, result.NewlyValidated)
	assert.Equal(t, domain.CPAModelActivity, result.Model)
}

func TestValidate_ActivityModelByGGR(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	cfg := testSnapshot()
	validator := usecase.NewDefaultCPAValidatorUsecase(testMetrics)
	now := time.Now()

	seedTransaction(t, repos, "tx-1", "cust-1", "aff-1", domain.TransactionTypeDeposit, 25, now.AddDate(0, 0, -3))
	// stakes minus a paid-out win leave 110 of GGR
	seedTransaction(t, repos, "tx-2", "cust-1", "aff-1", domain.TransactionTypeBet, 90, now.AddDate(0, 0, -2))
	seedTransaction(t, repos, "tx-3", "cust-1", "aff-1", domain.TransactionTypeBet, 60, now.AddDate(0, 0, -2))
	seedTransaction(t, repos, "tx-4", "cust-1", "aff-1", domain.TransactionTypeBet, -40, now.AddDate(0, 0, -1))

	result, err := validator.Validate(repos, cfg, "cust-1", "aff-1", now)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, domain.CPAModelActivity, result.Model)
}

func TestValidate_ActivityOutsideWindowIgnored(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	cfg := testSnapshot()
	validator := usecase.NewDefaultCPAValidatorUsecase(testMetrics)
	now := time.Now()

	// old deposits fall out of the trailing window
	seedTransaction(t, repos, "tx-1", "cust-1", "aff-1", domain.TransactionTypeDeposit, 25, now.AddDate(0, 0, -60))
	seedTransaction(t, repos, "tx-2", "cust-1", "aff-1", domain.TransactionTypeDeposit, 25, now.AddDate(0, 0, -50))
	seedTransaction(t, repos, "tx-3", "cust-1", "aff-1", domain.TransactionTypeDeposit, 25, now.AddDate(0, 0, -45))

	result, err := validator.Validate(repos, cfg, "cust-1", "aff-1", now)
	require.NoError(t, err)
	assert.False(t, result.Passed)
}

func TestValidate_AlreadyValidatedIsTerminal(t *testing.T) {
	db := newTestDB(t)
	repos := newRepoSet(db)
	cfg := testSnapshot()
	validator := usecase.NewDefaultCPAValidatorUsecase(testMetrics)
	now := time.Now()

	seedTransaction(t, repos, "tx-1", "cust-1", "aff-1", domain.TransactionTypeDeposit, 60, now)

	first, err := validator.Validate(repos, cfg, "cust-1", "aff-1", now)
	require.NoError(t, err)
	require.True(t, first.NewlyValidated)

	second, err := validator.Validate(repos, cfg, "cust-1", "aff-1", now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, second.Passed)
	assert.False(t, second.NewlyValidated)
	assert.Equal(t, domain.CPAModelFirstDeposit, second.Model)
}
