package budget

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spendwell/spendwell/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	defer cleanup()
	code := m.Run()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, Repo, int) {
	ctx := context.Background()
	repository := NewRepo(db)

	var userId int
	err := db.QueryRow(ctx,
		`INSERT INTO users (uid, username, display_name, currency, timezone)
		 VALUES (gen_random_uuid()::text, 'budget_repo_test_' || nextval('users_id_seq'), 'Budget Repo Test', 'USD', 'UTC')
		 RETURNING id`).Scan(&userId)
	require.NoError(t, err)

	return ctx, repository, userId
}

func TestRepoImpl_GetSettings_NoRow(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)

	// when
	_, err := repo.GetSettings(ctx, userId)

	// then
	assert.ErrorIs(t, err, ErrNoSettings)
}

func TestRepoImpl_SaveSettings(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	settings := Settings{
		MonthlyLimit:          1500,
		NotificationThreshold: 75,
		CategoryLimits: map[string]float64{
			"Food & Dining": 500,
			"Travel":        300,
		},
	}

	// when
	saved, err := repo.SaveSettings(ctx, userId, settings)
	assert.NoError(t, err)

	// then
	stored, err := repo.GetSettings(ctx, userId)
	assert.NoError(t, err)
	assert.Equal(t, saved, stored)
	assert.Equal(t, 1500.0, stored.MonthlyLimit)
	assert.Equal(t, 75.0, stored.NotificationThreshold)
	assert.Equal(t, settings.CategoryLimits, stored.CategoryLimits)
}

func TestRepoImpl_SaveSettings_ReplacesCategoryLimits(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	_, err := repo.SaveSettings(ctx, userId, Settings{
		MonthlyLimit:          1000,
		NotificationThreshold: 80,
		CategoryLimits:        map[string]float64{"Shopping": 200, "Travel": 300},
	})
	assert.NoError(t, err)

	// when
	_, err = repo.SaveSettings(ctx, userId, Settings{
		MonthlyLimit:          2000,
		NotificationThreshold: 90,
		CategoryLimits:        map[string]float64{"Shopping": 250},
	})
	assert.NoError(t, err)

	// then
	stored, err := repo.GetSettings(ctx, userId)
	assert.NoError(t, err)
	assert.Equal(t, 2000.0, stored.MonthlyLimit)
	assert.Equal(t, map[string]float64{"Shopping": 250}, stored.CategoryLimits)
}
