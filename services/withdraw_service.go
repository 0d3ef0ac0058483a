package services

import (
	"encoding/json"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MinWithdrawAmount is the floor below which withdrawal requests are
// rejected outright.
var MinWithdrawAmount = decimal.NewFromInt(60)

// withdrawOrder is the fund-sourcing contract for ALL_WITHDRAWABLE: each
// bucket is drained to zero before the next one is touched.
var withdrawOrder = []string{
	"downline_profit",
	"referral_bonus",
	"daily_reward_unlocked",
	"self_profit_unlocked",
	"principal_unlocked",
}

// drainBuckets plans how much to take from each bucket, in withdrawOrder,
// to source amount from the available snapshot. It returns the per-bucket
// takes and whatever could not be sourced. Pure; the caller applies the
// plan atomically.
func drainBuckets(available map[string]decimal.Decimal, amount decimal.Decimal) (map[string]decimal.Decimal, decimal.Decimal) {
	takes := make(map[string]decimal.Decimal)
	remaining := amount
	for _, bucket := range withdrawOrder {
		if !remaining.IsPositive() {
			break
		}
		val := available[bucket]
		if !val.IsPositive() {
			continue
		}
		take := decimal.Min(val, remaining)
		takes[bucket] = take
		remaining = remaining.Sub(take)
	}
	return takes, remaining
}

func bucketSnapshot(w *models.Wallet) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"downline_profit":       w.DownlineProfit,
		"referral_bonus":        w.ReferralBonus,
		"daily_reward_unlocked": w.DailyRewardUnlocked,
		"self_profit_unlocked":  w.SelfProfitUnlocked,
		"principal_unlocked":    w.PrincipalUnlocked,
	}
}

// RequestWithdraw validates and applies a withdrawal: the balance check,
// the bucket debits, the WITHDRAW ledger entry and the PENDING request row
// all commit in one transaction. The per-bucket >= guards on the debit
// UPDATE make overdraft impossible even when purchases, unlocks and other
// withdrawals race on the same wallet.
func RequestWithdraw(user *models.User, scope string, amount decimal.Decimal, destination string) (*models.WithdrawRequest, error) {
	if scope != models.WithdrawScopeDownlineOnly && scope != models.WithdrawScopeAllWithdrawable {
		return nil, ErrInvalidScope
	}
	if amount.LessThan(MinWithdrawAmount) {
		return nil, ErrBelowMinimum
	}

	var request models.WithdrawRequest

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.Where("user_id = ?", user.ID).First(&wallet).Error; err != nil {
			return err
		}

		var takes map[string]decimal.Decimal
		switch scope {
		case models.WithdrawScopeDownlineOnly:
			if amount.GreaterThan(wallet.DownlineProfit) {
				return ErrInsufficientFunds
			}
			takes = map[string]decimal.Decimal{"downline_profit": amount}
		case models.WithdrawScopeAllWithdrawable:
			if amount.GreaterThan(wallet.WithdrawableTotal()) {
				return ErrInsufficientFunds
			}
			var short decimal.Decimal
			takes, short = drainBuckets(bucketSnapshot(&wallet), amount)
			if short.IsPositive() {
				return ErrInsufficientFunds
			}
		}

		if err := debitBuckets(tx, &wallet, takes); err != nil {
			return err
		}

		request = models.WithdrawRequest{
			UserID:            user.ID,
			Scope:             scope,
			Amount:            amount,
			DestinationWallet: destination,
			Status:            models.WithdrawStatusPending,
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		meta, _ := json.Marshal(map[string]interface{}{
			"request_id":  request.ID,
			"scope":       scope,
			"destination": destination,
			"takes":       takes,
		})
		entry := models.Ledger{
			UserID: user.ID,
			Type:   models.LedgerWithdraw,
			Amount: amount.Neg(),
			Meta:   string(meta),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// debitBuckets applies a drain plan as one UPDATE. Every debited column
// carries a >= guard in the WHERE clause, so if any bucket changed since
// the snapshot was read the whole statement matches nothing and the
// withdrawal fails instead of overdrafting.
func debitBuckets(tx *gorm.DB, wallet *models.Wallet, takes map[string]decimal.Decimal) error {
	updates := make(map[string]interface{}, len(takes))
	q := tx.Model(&models.Wallet{}).Where("user_id = ?", wallet.UserID)
	for _, bucket := range withdrawOrder {
		take, ok := takes[bucket]
		if !ok {
			continue
		}
		updates[bucket] = gorm.Expr(bucket+" - ?", take)
		q = q.Where(bucket+" >= ?", take)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}
