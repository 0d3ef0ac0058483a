package jobs

import (
	"testing"
	"time"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
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

// seedPurchase inserts a user, a wallet already credited with the locked
// amounts, and the purchase row, the way a committed registration leaves
// them.
func seedPurchase(t *testing.T, address, invoice string, ecgValue, selfProfit decimal.Decimal, selfUnlockAt, principalUnlockAt time.Time) *models.Purchase {
	t.Helper()

	user := models.User{WalletAddress: address, ReferralCode: "code-" + address}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	wallet := models.Wallet{
		UserID:           user.ID,
		SelfProfitLocked: selfProfit,
		PrincipalLocked:  ecgValue,
	}
	if err := database.DB.Create(&wallet).Error; err != nil {
		t.Fatalf("seed wallet: %v", err)
	}

	purchase := models.Purchase{
		UserID:             user.ID,
		InvoiceNo:          invoice,
		TxHash:             "tx-" + invoice,
		TonAmount:          decimal.NewFromInt(1),
		TonUsdRate:         decimal.NewFromInt(5),
		UsdValue:           decimal.NewFromInt(5),
		EcgValue:           ecgValue,
		SelfProfit:         selfProfit,
		SelfProfitUnlockAt: selfUnlockAt,
		PrincipalUnlockAt:  principalUnlockAt,
	}
	if err := database.DB.Create(&purchase).Error; err != nil {
		t.Fatalf("seed purchase: %v", err)
	}
	return &purchase
}

func walletOf(t *testing.T, userID uuid.UUID) *models.Wallet {
	t.Helper()
	var wallet models.Wallet
	if err := database.DB.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	return &wallet
}

func ledgerCount(t *testing.T, userID uuid.UUID, typ string) int64 {
	t.Helper()
	var count int64
	err := database.DB.Model(&models.Ledger{}).
		Where("user_id = ? AND type = ?", userID, typ).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count ledger %s: %v", typ, err)
	}
	return count
}

func assertAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
