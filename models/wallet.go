package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a user's loyalty coin balance. Balance never goes below zero;
// every mutation happens through an atomic increment/decrement inside a
// transaction, never through read-then-save.
type Wallet struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `json:"user_id" gorm:"uniqueIndex"`
	Balance          int64          `json:"balance" gorm:"default:0"`
	LifetimeEarned   int64          `json:"lifetime_earned" gorm:"default:0"`
	LifetimeRedeemed int64          `json:"lifetime_redeemed" gorm:"default:0"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// SpinHistory is the append-only grant log for the reward wheel. Rows are never
// updated; "spins today" is derived by counting rows since start of day.
type SpinHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `json:"user_id" gorm:"index"`
	RewardCoins int64     `json:"reward_coins"`
	SpinType    string    `json:"spin_type"`
	IPAddress   string    `json:"ip_address" gorm:"index"`
	UserAgent   string    `json:"user_agent"`
	RiskScore   float64   `json:"risk_score"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// SpinType constants
const (
	SpinTypeDaily = "daily"
)
