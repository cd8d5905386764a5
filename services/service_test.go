package services

import (
	"fmt"
	"testing"

	"github.com/Aravind-733/NutriKart/config"
	"github.com/Aravind-733/NutriKart/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Each test gets its own schema; shared-cache memory DBs persist between
	// opens within a process, so drop leftovers first.
	require.NoError(t, db.Migrator().DropTable(
		&models.User{}, &models.Category{}, &models.Product{}, &models.Pack{},
		&models.Cart{}, &models.CartItem{}, &models.Wishlist{}, &models.Address{},
		&models.Order{}, &models.OrderItem{}, &models.Wallet{}, &models.SpinHistory{},
	))
	require.NoError(t, config.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		DailySpinLimit:     3,
		MaxDiscountPercent: 20,
		RewardTiers:        config.DefaultRewardTiers,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, n int) models.User {
	t.Helper()
	user := models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createFlatProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price, Stock: stock, IsActive: true}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func createPackedProduct(t *testing.T, db *gorm.DB, name string, packs []models.Pack) models.Product {
	t.Helper()
	product := models.Product{Name: name, IsActive: true, Packs: packs}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uint) models.Address {
	t.Helper()
	address := models.Address{
		UserID:     userID,
		Name:       "Test User",
		Phone:      "9999999999",
		Line1:      "1 Test Street",
		City:       "Kochi",
		State:      "Kerala",
		Country:    "India",
		PostalCode: "682001",
		IsDefault:  true,
	}
	require.NoError(t, db.Create(&address).Error)
	return address
}

func setWalletBalance(t *testing.T, db *gorm.DB, userID uint, balance int64) {
	t.Helper()
	wallet := models.Wallet{UserID: userID, Balance: balance, LifetimeEarned: balance}
	require.NoError(t, db.Create(&wallet).Error)
}
