package services

import (
	"testing"
	"time"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// one connection so every session sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Ledger{},
		&models.Purchase{},
		&models.WithdrawRequest{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	database.DB = db
	t.Cleanup(func() {
		sqlDB.Close()
		database.DB = nil
	})
}

func stubRate(t *testing.T, rate decimal.Decimal, rateErr error) {
	t.Helper()

	orig := fetchRate
	fetchRate = func() (decimal.Decimal, error) {
		if rateErr != nil {
			return decimal.Zero, rateErr
		}
		return rate, nil
	}
	resetRateCache()
	t.Cleanup(func() {
		fetchRate = orig
		resetRateCache()
	})
}

func resetRateCache() {
	rateCacheMu.Lock()
	rateCache = decimal.Zero
	lastRateFetch = time.Time{}
	rateCacheMu.Unlock()
}

func mustCreateUser(t *testing.T, walletAddress string) *models.User {
	t.Helper()
	user, err := GetOrCreateUser(walletAddress)
	if err != nil {
		t.Fatalf("create user %s: %v", walletAddress, err)
	}
	return user
}

func mustGetWallet(t *testing.T, user *models.User) *models.Wallet {
	t.Helper()
	wallet, err := GetWallet(user.ID)
	if err != nil {
		t.Fatalf("get wallet for %s: %v", user.WalletAddress, err)
	}
	return wallet
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func countLedger(t *testing.T, user *models.User, typ string) int64 {
	t.Helper()
	var count int64
	err := database.DB.Model(&models.Ledger{}).
		Where("user_id = ? AND type = ?", user.ID, typ).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count ledger %s: %v", typ, err)
	}
	return count
}
