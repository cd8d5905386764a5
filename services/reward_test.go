package services

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Aravind-733/NutriKart/config"
	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickTier(t *testing.T) {
	tiers := []config.RewardTier{
		{Coins: 5, Weight: 40},
		{Coins: 10, Weight: 30},
		{Coins: 20, Weight: 15},
		{Coins: 50, Weight: 10},
		{Coins: 100, Weight: 5},
	}

	assert.Equal(t, int64(5), PickTier(tiers, 0))
	assert.Equal(t, int64(5), PickTier(tiers, 39.99))
	assert.Equal(t, int64(10), PickTier(tiers, 40))
	assert.Equal(t, int64(10), PickTier(tiers, 69.99))
	assert.Equal(t, int64(20), PickTier(tiers, 70))
	assert.Equal(t, int64(50), PickTier(tiers, 85))
	assert.Equal(t, int64(100), PickTier(tiers, 95))
	assert.Equal(t, int64(100), PickTier(tiers, 99.999))

	// Out-of-range draws fall back to the first tier.
	assert.Equal(t, int64(5), PickTier(tiers, 100))
}

func TestRewardDistribution(t *testing.T) {
	tiers := config.DefaultRewardTiers
	total := TotalWeight(tiers)
	rng := rand.New(rand.NewSource(42))

	const draws = 10000
	counts := map[int64]int{}
	for i := 0; i < draws; i++ {
		counts[PickTier(tiers, rng.Float64()*total)]++
	}

	// Observed frequency should track the configured weight within 3
	// percentage points over 10k draws.
	for _, tier := range tiers {
		expected := tier.Weight / total
		observed := float64(counts[tier.Coins]) / draws
		assert.InDeltaf(t, expected, observed, 0.03,
			"tier %d coins: expected %.2f, observed %.2f", tier.Coins, expected, observed)
	}
}

func TestSpinWheelCreditsWalletAndLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRewardService(db, testConfig())
	user := createTestUser(t, db, 1)

	result, err := svc.SpinWheel(user.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Greater(t, result.Coins, int64(0))
	assert.Equal(t, int64(1), result.SpinsToday)
	assert.Equal(t, 2, result.SpinsLeft)

	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&wallet).Error)
	assert.Equal(t, result.Coins, wallet.Balance)
	assert.Equal(t, result.Coins, wallet.LifetimeEarned)

	var history []models.SpinHistory
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, result.Coins, history[0].RewardCoins)
	assert.Equal(t, models.SpinTypeDaily, history[0].SpinType)
	assert.Equal(t, "10.0.0.1", history[0].IPAddress)
}

func TestSpinWheelDailyLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRewardService(db, testConfig())
	user := createTestUser(t, db, 1)

	for i := 0; i < 3; i++ {
		_, err := svc.SpinWheel(user.ID, "10.0.0.1", "test-agent")
		require.NoError(t, err)
	}

	_, err := svc.SpinWheel(user.ID, "10.0.0.1", "test-agent")
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 429, appErr.Code)

	// The rejected spin must not touch the ledger or the wallet.
	var count int64
	require.NoError(t, db.Model(&models.SpinHistory{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestSpinWheelWalletAccumulates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRewardService(db, testConfig())
	user := createTestUser(t, db, 1)

	var expected int64
	for i := 0; i < 3; i++ {
		result, err := svc.SpinWheel(user.ID, "10.0.0.1", "test-agent")
		require.NoError(t, err)
		expected += result.Coins
	}

	wallet, err := GetOrCreateWallet(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, wallet.Balance)

	// Balance always matches the sum of the grant ledger.
	var granted int64
	require.NoError(t, db.Model(&models.SpinHistory{}).
		Where("user_id = ?", user.ID).
		Select("COALESCE(SUM(reward_coins), 0)").Scan(&granted).Error)
	assert.Equal(t, granted, wallet.Balance)
}

func TestSpinsRemaining(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRewardService(db, testConfig())
	user := createTestUser(t, db, 1)

	left, err := svc.SpinsRemaining(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, left)

	_, err = svc.SpinWheel(user.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)

	left, err = svc.SpinsRemaining(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, left)
}

func TestTotalWeight(t *testing.T) {
	assert.True(t, math.Abs(TotalWeight(config.DefaultRewardTiers)-100) < 1e-9)
}
