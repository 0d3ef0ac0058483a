package services

import (
	"encoding/json"
	"fmt"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// creditBucket atomically increments one bucket column on a user's wallet,
// creating the wallet row first if the user never had one.
func creditBucket(tx *gorm.DB, userID uuid.UUID, column string, amount decimal.Decimal) error {
	res := tx.Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Update(column, gorm.Expr(column+" + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := ensureWallet(tx, userID); err != nil {
			return err
		}
		res = tx.Model(&models.Wallet{}).
			Where("user_id = ?", userID).
			Update(column, gorm.Expr(column+" + ?", amount))
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}

// RebuildWalletFromLedger replays a user's ledger into a fresh bucket set.
// The stored wallet row is a materialized projection of the ledger; this is
// the authoritative reconstruction used for integrity checks.
//
// The month-end daily unlock is a single batch transition with no per-wallet
// ledger rows, so a rebuild reflects pre-transition daily buckets until the
// next accrual; reconciliation reports are read in that light.
func RebuildWalletFromLedger(userID uuid.UUID) (*models.Wallet, error) {
	var entries []models.Ledger
	err := database.DB.Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	w := &models.Wallet{UserID: userID}
	for _, e := range entries {
		switch e.Type {
		case models.LedgerReferralBonus:
			w.ReferralBonus = w.ReferralBonus.Add(e.Amount)
		case models.LedgerDailyLockedAdd:
			w.DailyRewardLocked = w.DailyRewardLocked.Add(e.Amount)
		case models.LedgerDailyUnlock:
			w.DailyRewardUnlocked = w.DailyRewardUnlocked.Add(e.Amount)
		case models.LedgerPrincipalLockedAdd:
			w.PrincipalLocked = w.PrincipalLocked.Add(e.Amount)
		case models.LedgerSelfProfitLockedAdd:
			w.SelfProfitLocked = w.SelfProfitLocked.Add(e.Amount)
		case models.LedgerSelfProfitUnlock:
			w.SelfProfitLocked = w.SelfProfitLocked.Sub(e.Amount)
			w.SelfProfitUnlocked = w.SelfProfitUnlocked.Add(e.Amount)
		case models.LedgerPrincipalUnlock:
			w.PrincipalLocked = w.PrincipalLocked.Sub(e.Amount)
			w.PrincipalUnlocked = w.PrincipalUnlocked.Add(e.Amount)
		case models.LedgerDownlineProfit:
			w.DownlineProfit = w.DownlineProfit.Add(e.Amount)
		case models.LedgerWithdraw:
			takes, err := withdrawTakes(e.Meta)
			if err != nil {
				return nil, fmt.Errorf("ledger %s: %w", e.ID, err)
			}
			for bucket, take := range takes {
				applyDebit(w, bucket, take)
			}
		}
	}
	return w, nil
}

// ReconcileWallet compares the stored wallet row against a ledger rebuild
// and returns the per-bucket differences (rebuilt minus stored). An empty
// map means the projection matches its ledger.
func ReconcileWallet(userID uuid.UUID) (map[string]decimal.Decimal, error) {
	stored, err := GetWallet(userID)
	if err != nil {
		return nil, err
	}
	rebuilt, err := RebuildWalletFromLedger(userID)
	if err != nil {
		return nil, err
	}

	diff := make(map[string]decimal.Decimal)
	compare := func(name string, rebuilt, stored decimal.Decimal) {
		if !rebuilt.Equal(stored) {
			diff[name] = rebuilt.Sub(stored)
		}
	}
	compare("referral_bonus", rebuilt.ReferralBonus, stored.ReferralBonus)
	compare("daily_reward_locked", rebuilt.DailyRewardLocked, stored.DailyRewardLocked)
	compare("daily_reward_unlocked", rebuilt.DailyRewardUnlocked, stored.DailyRewardUnlocked)
	compare("downline_profit", rebuilt.DownlineProfit, stored.DownlineProfit)
	compare("self_profit_locked", rebuilt.SelfProfitLocked, stored.SelfProfitLocked)
	compare("self_profit_unlocked", rebuilt.SelfProfitUnlocked, stored.SelfProfitUnlocked)
	compare("principal_locked", rebuilt.PrincipalLocked, stored.PrincipalLocked)
	compare("principal_unlocked", rebuilt.PrincipalUnlocked, stored.PrincipalUnlocked)
	return diff, nil
}

func withdrawTakes(meta string) (map[string]decimal.Decimal, error) {
	var parsed struct {
		Takes map[string]decimal.Decimal `json:"takes"`
	}
	if err := json.Unmarshal([]byte(meta), &parsed); err != nil {
		return nil, err
	}
	return parsed.Takes, nil
}

func applyDebit(w *models.Wallet, bucket string, amount decimal.Decimal) {
	switch bucket {
	case "downline_profit":
		w.DownlineProfit = w.DownlineProfit.Sub(amount)
	case "referral_bonus":
		w.ReferralBonus = w.ReferralBonus.Sub(amount)
	case "daily_reward_unlocked":
		w.DailyRewardUnlocked = w.DailyRewardUnlocked.Sub(amount)
	case "self_profit_unlocked":
		w.SelfProfitUnlocked = w.SelfProfitUnlocked.Sub(amount)
	case "principal_unlocked":
		w.PrincipalUnlocked = w.PrincipalUnlocked.Sub(amount)
	}
}
