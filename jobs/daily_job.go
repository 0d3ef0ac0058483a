package jobs

import (
	"encoding/json"
	"log"
	"time"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyRewardAmount accrues into every wallet's locked daily bucket once a
// day.
var DailyRewardAmount = decimal.NewFromInt(1)

// AccrueDailyReward adds the daily reward to every wallet's locked bucket
// and writes one DAILY_LOCKED_ADD ledger row per wallet, dated with the
// accrual day so the run is traceable.
func AccrueDailyReward(now time.Time) {
	log.Println("Running job: AccrueDailyReward...")

	var wallets []models.Wallet
	if err := database.DB.Find(&wallets).Error; err != nil {
		log.Printf("🔥 Daily accrual: wallet scan failed: %v", err)
		return
	}

	day := now.Format("2006-01-02")
	accrued := 0
	for i := range wallets {
		w := &wallets[i]
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Wallet{}).
				Where("id = ?", w.ID).
				Update("daily_reward_locked", gorm.Expr("daily_reward_locked + ?", DailyRewardAmount))
			if res.Error != nil {
				return res.Error
			}

			meta, _ := json.Marshal(map[string]string{"day": day})
			entry := models.Ledger{
				UserID: w.UserID,
				Type:   models.LedgerDailyLockedAdd,
				Amount: DailyRewardAmount,
				Meta:   string(meta),
			}
			return tx.Create(&entry).Error
		})
		if err != nil {
			log.Printf("🔥 Daily accrual failed for wallet %s: %v", w.ID, err)
			continue
		}
		accrued++
	}

	log.Printf("Daily accrual done: %d wallet(s).", accrued)
}

// UnlockDailyRewards is the month-boundary transition: every wallet's
// locked daily balance moves to unlocked in one batch UPDATE. Unlike the
// per-purchase unlock passes this transition carries no per-source
// idempotency guard — running it twice in the same period would
// double-transition whatever accrued in between, so it relies on the cron
// schedule firing it once per month.
func UnlockDailyRewards() {
	log.Println("Running job: UnlockDailyRewards...")

	res := database.DB.Model(&models.Wallet{}).
		Where("daily_reward_locked > 0").
		Updates(map[string]interface{}{
			"daily_reward_unlocked": gorm.Expr("daily_reward_unlocked + daily_reward_locked"),
			"daily_reward_locked":   decimal.Zero,
		})
	if res.Error != nil {
		log.Printf("🔥 Monthly daily-reward unlock failed: %v", res.Error)
		return
	}

	log.Printf("Monthly daily-reward unlock done: %d wallet(s).", res.RowsAffected)
}
