package services

import (
	"errors"
	"strings"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/ecgapp/ecg_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrCreateUser looks a user up by wallet address, creating the user and
// their wallet together on first contact. Users are never deleted.
func GetOrCreateUser(walletAddress string) (*models.User, error) {
	var user models.User

	err := database.DB.Where("wallet_address = ?", walletAddress).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		user = models.User{
			WalletAddress: walletAddress,
			ReferralCode:  utils.GenerateReferralCode(),
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Wallet{UserID: user.ID}).Error
	})
	if err != nil && isUniqueViolation(err) {
		// lost a concurrent first-contact race; the row exists now
		if ferr := database.DB.Where("wallet_address = ?", walletAddress).First(&user).Error; ferr == nil {
			return &user, nil
		}
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetWallet returns the bucketed balance row for a user.
func GetWallet(userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := database.DB.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// ensureWallet fetches a user's wallet inside tx, creating an empty one if
// the user predates wallet provisioning.
func ensureWallet(tx *gorm.DB, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{UserID: userID}
		err = tx.Create(&wallet).Error
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// isUniqueViolation reports whether err came from a unique index, for the
// dedup paths where the constraint itself is the enforcement mechanism.
// Covers postgres (SQLSTATE 23505) and the sqlite used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
