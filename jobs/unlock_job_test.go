package jobs

import (
	"testing"
	"time"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/shopspring/decimal"
)

func TestUnlockMaturedSelfProfit(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	p := seedPurchase(t, "UQjob1", "INV1",
		decimal.NewFromInt(10000), decimal.NewFromInt(500),
		now.Add(-time.Hour), now.Add(300*24*time.Hour))

	UnlockMaturedProfits(now)

	wallet := walletOf(t, p.UserID)
	assertAmount(t, "SelfProfitLocked", wallet.SelfProfitLocked, "0")
	assertAmount(t, "SelfProfitUnlocked", wallet.SelfProfitUnlocked, "500")
	// principal lock has not elapsed
	assertAmount(t, "PrincipalLocked", wallet.PrincipalLocked, "10000")
	assertAmount(t, "PrincipalUnlocked", wallet.PrincipalUnlocked, "0")

	if got := ledgerCount(t, p.UserID, models.LedgerSelfProfitUnlock); got != 1 {
		t.Errorf("SELF_PROFIT_UNLOCK entries = %d, want 1", got)
	}
}

func TestUnlockPassIsIdempotent(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	p := seedPurchase(t, "UQjob2", "INV2",
		decimal.NewFromInt(10000), decimal.NewFromInt(500),
		now.Add(-time.Hour), now.Add(-time.Minute))

	UnlockMaturedProfits(now)
	UnlockMaturedProfits(now)

	wallet := walletOf(t, p.UserID)
	assertAmount(t, "SelfProfitLocked", wallet.SelfProfitLocked, "0")
	assertAmount(t, "SelfProfitUnlocked", wallet.SelfProfitUnlocked, "500")
	assertAmount(t, "PrincipalLocked", wallet.PrincipalLocked, "0")
	assertAmount(t, "PrincipalUnlocked", wallet.PrincipalUnlocked, "10000")

	if got := ledgerCount(t, p.UserID, models.LedgerSelfProfitUnlock); got != 1 {
		t.Errorf("SELF_PROFIT_UNLOCK entries = %d, want 1", got)
	}
	if got := ledgerCount(t, p.UserID, models.LedgerPrincipalUnlock); got != 1 {
		t.Errorf("PRINCIPAL_UNLOCK entries = %d, want 1", got)
	}
}

func TestUnlockSkipsImmaturePurchases(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	p := seedPurchase(t, "UQjob3", "INV3",
		decimal.NewFromInt(10000), decimal.NewFromInt(500),
		now.Add(24*time.Hour), now.Add(300*24*time.Hour))

	UnlockMaturedProfits(now)

	wallet := walletOf(t, p.UserID)
	assertAmount(t, "SelfProfitLocked", wallet.SelfProfitLocked, "500")
	assertAmount(t, "SelfProfitUnlocked", wallet.SelfProfitUnlocked, "0")
	if got := ledgerCount(t, p.UserID, models.LedgerSelfProfitUnlock); got != 0 {
		t.Errorf("SELF_PROFIT_UNLOCK entries = %d, want 0", got)
	}
}

// One purchase whose wallet cannot satisfy the move must not stop the pass
// for the others.
func TestUnlockFailureDoesNotAbortPass(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	broken := seedPurchase(t, "UQjob4", "INV4",
		decimal.NewFromInt(10000), decimal.NewFromInt(500),
		now.Add(-time.Hour), now.Add(300*24*time.Hour))
	// drain the locked bucket so the transition cannot apply
	err := database.DB.Model(&models.Wallet{}).
		Where("user_id = ?", broken.UserID).
		Update("self_profit_locked", decimal.Zero).Error
	if err != nil {
		t.Fatalf("drain locked bucket: %v", err)
	}

	healthy := seedPurchase(t, "UQjob5", "INV5",
		decimal.NewFromInt(20000), decimal.NewFromInt(1000),
		now.Add(-time.Hour), now.Add(300*24*time.Hour))

	UnlockMaturedProfits(now)

	wallet := walletOf(t, healthy.UserID)
	assertAmount(t, "healthy SelfProfitUnlocked", wallet.SelfProfitUnlocked, "1000")
	if got := ledgerCount(t, broken.UserID, models.LedgerSelfProfitUnlock); got != 0 {
		t.Errorf("broken purchase got %d SELF_PROFIT_UNLOCK entries, want 0", got)
	}
}
