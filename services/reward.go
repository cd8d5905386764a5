package services

import (
	"math/rand"
	"time"

	"github.com/Aravind-733/NutriKart/config"
	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"gorm.io/gorm"
)

// RewardService runs the spin-the-wheel loyalty mechanism: weighted-random coin
// grants, daily-limit enforcement and the atomic grant-plus-ledger commit.
type RewardService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewRewardService creates a reward service backed by the given database handle.
func NewRewardService(db *gorm.DB, cfg *config.Config) *RewardService {
	return &RewardService{DB: db, Cfg: cfg}
}

// PickTier walks the tiers accumulating weight and returns the coin value of
// the first tier whose cumulative weight exceeds draw. Pure function; draw must
// be in [0, total weight). The first tier is the fallback if floating point
// accumulation skips every branch.
func PickTier(tiers []config.RewardTier, draw float64) int64 {
	var cumulative float64
	for _, tier := range tiers {
		cumulative += tier.Weight
		if draw < cumulative {
			return tier.Coins
		}
	}
	return tiers[0].Coins
}

// TotalWeight sums the weight of every tier.
func TotalWeight(tiers []config.RewardTier) float64 {
	var total float64
	for _, tier := range tiers {
		total += tier.Weight
	}
	return total
}

// CalculateReward draws a uniform random value across the configured wheel and
// returns the granted coin amount.
func (s *RewardService) CalculateReward() int64 {
	tiers := s.Cfg.RewardTiers
	return PickTier(tiers, rand.Float64()*TotalWeight(tiers))
}

// SpinResult is what a successful spin returns to the caller.
type SpinResult struct {
	Coins      int64 `json:"coins"`
	SpinsToday int64 `json:"spins_today"`
	SpinsLeft  int   `json:"spins_left"`
}

// SpinWheel checks eligibility, draws a reward and commits the grant: one
// SpinHistory row plus the wallet increment, in a single transaction.
func (s *RewardService) SpinWheel(userID uint, ipAddress, userAgent string) (*SpinResult, error) {
	startOfDay := startOfToday()
	limit := int64(s.Cfg.DailySpinLimit)

	var userSpins int64
	if err := s.DB.Model(&models.SpinHistory{}).
		Where("user_id = ? AND created_at >= ?", userID, startOfDay).
		Count(&userSpins).Error; err != nil {
		return nil, utils.WrapError(err, "failed to count spins")
	}
	if userSpins >= limit {
		return nil, utils.TooManyRequestsError("You have used all your spins for today. Come back tomorrow!", nil)
	}

	// Defensive cap by IP: many accounts spinning from one address is abuse,
	// not a household.
	var ipSpins int64
	if ipAddress != "" {
		if err := s.DB.Model(&models.SpinHistory{}).
			Where("ip_address = ? AND created_at >= ?", ipAddress, startOfDay).
			Count(&ipSpins).Error; err != nil {
			return nil, utils.WrapError(err, "failed to count spins by ip")
		}
		if ipSpins >= limit*3 {
			return nil, utils.TooManyRequestsError("Spin limit reached for your network. Come back tomorrow!", nil)
		}
	}

	coins := s.CalculateReward()
	riskScore := float64(ipSpins) / float64(limit*3)

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, utils.WrapError(tx.Error, "failed to start transaction")
	}

	history := models.SpinHistory{
		UserID:      userID,
		RewardCoins: coins,
		SpinType:    models.SpinTypeDaily,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		RiskScore:   riskScore,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapError(err, "failed to record spin")
	}

	if err := creditWallet(tx, userID, coins); err != nil {
		tx.Rollback()
		return nil, utils.WrapError(err, "failed to credit wallet")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.WrapError(err, "failed to commit spin")
	}

	utils.LogInfo("User %d won %d coins on the wheel (spins today: %d)", userID, coins, userSpins+1)
	return &SpinResult{
		Coins:      coins,
		SpinsToday: userSpins + 1,
		SpinsLeft:  s.Cfg.DailySpinLimit - int(userSpins) - 1,
	}, nil
}

// SpinsRemaining reports how many spins the user has left today.
func (s *RewardService) SpinsRemaining(userID uint) (int, error) {
	var count int64
	if err := s.DB.Model(&models.SpinHistory{}).
		Where("user_id = ? AND created_at >= ?", userID, startOfToday()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	left := s.Cfg.DailySpinLimit - int(count)
	if left < 0 {
		left = 0
	}
	return left, nil
}

// creditWallet upserts the wallet row and applies the grant atomically.
func creditWallet(tx *gorm.DB, userID uint, coins int64) error {
	var wallet models.Wallet
	if err := tx.Where(models.Wallet{UserID: userID}).FirstOrCreate(&wallet).Error; err != nil {
		return err
	}
	return tx.Model(&models.Wallet{}).Where("user_id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"balance":         gorm.Expr("balance + ?", coins),
			"lifetime_earned": gorm.Expr("lifetime_earned + ?", coins),
		}).Error
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// GetOrCreateWallet retrieves or creates a wallet for a user
func GetOrCreateWallet(db *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			wallet = models.Wallet{UserID: userID}
			if err := db.Create(&wallet).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return &wallet, nil
}
