package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// RewardTier is one slot on the spin wheel: Coins is the grant amount and
// Weight its relative probability mass.
type RewardTier struct {
	Coins  int64
	Weight float64
}

// Config holds all configuration for the application. It is loaded once in
// main and handed to every component; nothing reads the environment after boot.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	SessionSecret string

	RazorpayKey           string
	RazorpaySecret        string
	RazorpayWebhookSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	KafkaBrokers []string
	KafkaTopic   string

	RewardTiers        []RewardTier
	DailySpinLimit     int
	MaxDiscountPercent float64
}

// DefaultRewardTiers is the wheel used when REWARD_TIERS is not configured.
var DefaultRewardTiers = []RewardTier{
	{Coins: 5, Weight: 40},
	{Coins: 10, Weight: 30},
	{Coins: 20, Weight: 15},
	{Coins: 50, Weight: 10},
	{Coins: 100, Weight: 5},
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Missing .env is fine in production; variables come from the environment.
	_ = godotenv.Load()

	config := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       os.Getenv("PORT"),
		Env:        os.Getenv("ENV"),

		SessionSecret: os.Getenv("SESSION_SECRET"),

		RazorpayKey:           os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:        os.Getenv("RAZORPAY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		KafkaTopic: os.Getenv("KAFKA_TOPIC"),

		DailySpinLimit:     3,
		MaxDiscountPercent: 20,
	}

	if config.Port == "" {
		config.Port = "8080"
	}
	if config.SessionSecret == "" {
		config.SessionSecret = config.JWTSecret
	}
	if config.KafkaTopic == "" {
		config.KafkaTopic = "order-events"
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		config.KafkaBrokers = strings.Split(brokers, ",")
	}

	config.SMTPPort = 587
	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %v", port, err)
		}
		config.SMTPPort = p
	}

	if limit := os.Getenv("DAILY_SPIN_LIMIT"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil || l < 1 {
			return nil, fmt.Errorf("invalid DAILY_SPIN_LIMIT %q", limit)
		}
		config.DailySpinLimit = l
	}

	if pct := os.Getenv("MAX_DISCOUNT_PERCENT"); pct != "" {
		p, err := strconv.ParseFloat(pct, 64)
		if err != nil || p <= 0 || p > 100 {
			return nil, fmt.Errorf("invalid MAX_DISCOUNT_PERCENT %q", pct)
		}
		config.MaxDiscountPercent = p
	}

	tiers, err := parseRewardTiers(os.Getenv("REWARD_TIERS"))
	if err != nil {
		return nil, err
	}
	config.RewardTiers = tiers

	return config, nil
}

// parseRewardTiers parses "coins:weight,coins:weight,..." pairs, e.g.
// "5:40,10:30,20:15,50:10,100:5". An empty value yields the default wheel.
func parseRewardTiers(raw string) ([]RewardTier, error) {
	if raw == "" {
		return DefaultRewardTiers, nil
	}

	var tiers []RewardTier
	for _, part := range strings.Split(raw, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid REWARD_TIERS entry %q", part)
		}
		coins, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil || coins <= 0 {
			return nil, fmt.Errorf("invalid coin value in REWARD_TIERS entry %q", part)
		}
		weight, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || weight <= 0 {
			return nil, fmt.Errorf("invalid weight in REWARD_TIERS entry %q", part)
		}
		tiers = append(tiers, RewardTier{Coins: coins, Weight: weight})
	}
	return tiers, nil
}
