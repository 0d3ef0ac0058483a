package services

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferralBonusAmount is credited to an inviter once per invitee, when the
// invitee first binds the inviter's code.
var ReferralBonusAmount = decimal.NewFromInt(3)

// ApplyReferral binds user to the owner of inviterCode and credits the
// inviter's referral_bonus bucket. The bind happens at most once: a user
// whose inviter is already set, an unknown code, or a self-referral all
// skip silently, so retrying a successful bind is a no-op.
func ApplyReferral(inviterCode string, user *models.User) error {
	if inviterCode == "" || user.InviterID != nil {
		return nil
	}

	var inviter models.User
	err := database.DB.Where("referral_code = ?", inviterCode).First(&inviter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if inviter.ID == user.ID {
		return nil
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		// re-check under the transaction so a concurrent bind cannot
		// credit the inviter twice
		res := tx.Model(&models.User{}).
			Where("id = ? AND inviter_id IS NULL", user.ID).
			Update("inviter_id", inviter.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		user.InviterID = &inviter.ID

		if err := creditBucket(tx, inviter.ID, "referral_bonus", ReferralBonusAmount); err != nil {
			return err
		}

		meta, _ := json.Marshal(map[string]string{"invitee": user.WalletAddress})
		entry := models.Ledger{
			UserID: inviter.ID,
			Type:   models.LedgerReferralBonus,
			Amount: ReferralBonusAmount,
			Meta:   string(meta),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		log.Printf("✅ Referral bound: %s invited %s", inviter.WalletAddress, user.WalletAddress)
		return nil
	})
}

// CountInvitees returns how many users have this user as their inviter.
func CountInvitees(user *models.User) (int64, error) {
	var count int64
	err := database.DB.Model(&models.User{}).
		Where("inviter_id = ?", user.ID).
		Count(&count).Error
	return count, err
}
