package services

import (
	"encoding/json"
	"time"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// DailyClaimReward is granted per claim of the 24h timer.
	DailyClaimReward = decimal.NewFromInt(1)
	// DailyClaimCooldown gates how often a user may claim.
	DailyClaimCooldown = 24 * time.Hour
)

// RewardStatus describes the claim timer and headline balances shown to the
// user.
type RewardStatus struct {
	SecondsRemaining int64           `json:"seconds_remaining"`
	BalanceEcg       decimal.Decimal `json:"balance_ecg"`
	ReferralPoints   decimal.Decimal `json:"referral_points"`
	RewardsCount     int64           `json:"rewards_count"`
}

// GetRewardStatus reports how long until the user may claim again.
func GetRewardStatus(user *models.User, now time.Time) (*RewardStatus, error) {
	wallet, err := GetWallet(user.ID)
	if err != nil {
		return nil, err
	}

	var secondsRemaining int64
	if user.NextClaimAt != nil && user.NextClaimAt.After(now) {
		secondsRemaining = int64(user.NextClaimAt.Sub(now).Seconds())
	}

	var rewardsCount int64
	err = database.DB.Model(&models.Ledger{}).
		Where("user_id = ? AND type = ?", user.ID, models.LedgerDailyUnlock).
		Count(&rewardsCount).Error
	if err != nil {
		return nil, err
	}

	return &RewardStatus{
		SecondsRemaining: secondsRemaining,
		BalanceEcg:       wallet.WithdrawableTotal(),
		ReferralPoints:   wallet.ReferralBonus,
		RewardsCount:     rewardsCount,
	}, nil
}

// ClaimDailyReward grants the timer reward if the cooldown has elapsed and
// arms the next claim. Returns the seconds remaining when claimed too early.
func ClaimDailyReward(user *models.User, now time.Time) (int64, error) {
	if user.NextClaimAt != nil && user.NextClaimAt.After(now) {
		return int64(user.NextClaimAt.Sub(now).Seconds()), nil
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := creditBucket(tx, user.ID, "daily_reward_unlocked", DailyClaimReward); err != nil {
			return err
		}

		meta, _ := json.Marshal(map[string]string{"source": "timer"})
		entry := models.Ledger{
			UserID: user.ID,
			Type:   models.LedgerDailyUnlock,
			Amount: DailyClaimReward,
			Meta:   string(meta),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		next := now.Add(DailyClaimCooldown)
		user.NextClaimAt = &next
		return tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("next_claim_at", next).Error
	})
	if err != nil {
		return 0, err
	}

	return 0, nil
}
