package services

import (
	"testing"
	"time"

	"github.com/ecgapp/ecg_backend/models"
)

func TestClaimDailyRewardGrantsAndArmsTimer(t *testing.T) {
	setupTestDB(t)

	user := mustCreateUser(t, "UQtimer1")
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	remaining, err := ClaimDailyReward(user, now)
	if err != nil {
		t.Fatalf("ClaimDailyReward: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("remaining = %d, want 0", remaining)
	}

	wallet := mustGetWallet(t, user)
	assertDecimal(t, "DailyRewardUnlocked", wallet.DailyRewardUnlocked, "1")
	if got := countLedger(t, user, models.LedgerDailyUnlock); got != 1 {
		t.Errorf("DAILY_UNLOCK entries = %d, want 1", got)
	}
	if user.NextClaimAt == nil || !user.NextClaimAt.Equal(now.Add(24*time.Hour)) {
		t.Errorf("NextClaimAt = %v, want now+24h", user.NextClaimAt)
	}
}

func TestClaimDailyRewardTooEarly(t *testing.T) {
	setupTestDB(t)

	user := mustCreateUser(t, "UQtimer2")
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	if _, err := ClaimDailyReward(user, now); err != nil {
		t.Fatalf("first ClaimDailyReward: %v", err)
	}

	remaining, err := ClaimDailyReward(user, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second ClaimDailyReward: %v", err)
	}
	if remaining != int64((23 * time.Hour).Seconds()) {
		t.Errorf("remaining = %d, want %d", remaining, int64((23*time.Hour).Seconds()))
	}

	wallet := mustGetWallet(t, user)
	assertDecimal(t, "DailyRewardUnlocked", wallet.DailyRewardUnlocked, "1")
	if got := countLedger(t, user, models.LedgerDailyUnlock); got != 1 {
		t.Errorf("DAILY_UNLOCK entries = %d, want 1", got)
	}
}

func TestClaimDailyRewardAfterCooldown(t *testing.T) {
	setupTestDB(t)

	user := mustCreateUser(t, "UQtimer3")
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	if _, err := ClaimDailyReward(user, now); err != nil {
		t.Fatalf("first ClaimDailyReward: %v", err)
	}
	if _, err := ClaimDailyReward(user, now.Add(25*time.Hour)); err != nil {
		t.Fatalf("second ClaimDailyReward: %v", err)
	}

	wallet := mustGetWallet(t, user)
	assertDecimal(t, "DailyRewardUnlocked", wallet.DailyRewardUnlocked, "2")

	status, err := GetRewardStatus(user, now.Add(25*time.Hour))
	if err != nil {
		t.Fatalf("GetRewardStatus: %v", err)
	}
	if status.RewardsCount != 2 {
		t.Errorf("RewardsCount = %d, want 2", status.RewardsCount)
	}
	assertDecimal(t, "BalanceEcg", status.BalanceEcg, "2")
}
