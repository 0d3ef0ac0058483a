package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/ecgapp/ecg_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// EcgPerUsd converts the USD value of a purchase into ECG.
	EcgPerUsd = decimal.NewFromInt(200)
	// SelfProfitRate is the share of EcgValue credited to the buyer's own
	// locked profit bucket.
	SelfProfitRate = decimal.NewFromFloat(0.05)
	// UplineProfitRate is the share of EcgValue credited instantly to the
	// buyer's inviter. Configured independently of SelfProfitRate even
	// though the defaults coincide.
	UplineProfitRate = decimal.NewFromFloat(0.05)

	// PrincipalLockPeriod and SelfProfitLockPeriod set the unlock
	// timestamps stamped on every purchase.
	PrincipalLockPeriod  = 365 * 24 * time.Hour
	SelfProfitLockPeriod = 30 * 24 * time.Hour
)

// RegisterPurchase records a confirmed on-chain payment and fans the value
// out: principal and self-profit into the buyer's locked buckets, upline
// profit into the inviter's instant bucket. Everything — the purchase row,
// both owner ledger entries, the wallet increments and the inviter credit —
// commits in one transaction or not at all.
//
// now is supplied by the caller so backfilled and simulated time can be
// tested; unlock timestamps derive from it.
func RegisterPurchase(user *models.User, tonAmount decimal.Decimal, txHash string, now time.Time) (*models.Purchase, error) {
	if tonAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if txHash == "" {
		return nil, ErrInvalidAmount
	}

	// reject known duplicates before touching the rate oracle: a duplicate
	// is terminal and must stay terminal during an oracle outage, and it
	// should not cost an oracle call
	var existing models.Purchase
	if err := database.DB.Where("tx_hash = ?", txHash).First(&existing).Error; err == nil {
		return nil, ErrDuplicateTx
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rate, err := FetchTonUsdRate()
	if err != nil {
		return nil, err
	}

	usdValue := tonAmount.Mul(rate)
	ecgValue := usdValue.Mul(EcgPerUsd)
	selfProfit := ecgValue.Mul(SelfProfitRate)
	uplineProfit := ecgValue.Mul(UplineProfitRate)

	purchase := models.Purchase{
		UserID:             user.ID,
		InvoiceNo:          utils.GenerateInvoiceNo(),
		TxHash:             txHash,
		TonAmount:          tonAmount,
		TonUsdRate:         rate,
		UsdValue:           usdValue,
		EcgValue:           ecgValue,
		SelfProfit:         selfProfit,
		PrincipalUnlockAt:  now.Add(PrincipalLockPeriod),
		SelfProfitUnlockAt: now.Add(SelfProfitLockPeriod),
		CreatedAt:          now,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Purchase
		if err := tx.Where("tx_hash = ?", txHash).First(&existing).Error; err == nil {
			return ErrDuplicateTx
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// the unique index on tx_hash is the real enforcement; the probe
		// above only gives the common case a clean error
		if err := tx.Create(&purchase).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateTx
			}
			return err
		}

		if err := creditBucket(tx, user.ID, "principal_locked", ecgValue); err != nil {
			return err
		}
		if err := creditBucket(tx, user.ID, "self_profit_locked", selfProfit); err != nil {
			return err
		}

		ownerMeta, _ := json.Marshal(map[string]string{
			"invoice": purchase.InvoiceNo,
			"tx_hash": txHash,
		})
		entries := []models.Ledger{
			{UserID: user.ID, Type: models.LedgerPrincipalLockedAdd, Amount: ecgValue, Meta: string(ownerMeta)},
			{UserID: user.ID, Type: models.LedgerSelfProfitLockedAdd, Amount: selfProfit, Meta: string(ownerMeta)},
		}
		if err := tx.Create(&entries).Error; err != nil {
			return err
		}

		if user.InviterID != nil {
			if err := creditDownlineProfit(tx, *user.InviterID, uplineProfit, user.WalletAddress, purchase.InvoiceNo, txHash); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

func creditDownlineProfit(tx *gorm.DB, inviterID uuid.UUID, amount decimal.Decimal, buyerAddress, invoiceNo, txHash string) error {
	if err := creditBucket(tx, inviterID, "downline_profit", amount); err != nil {
		return err
	}

	meta, _ := json.Marshal(map[string]string{
		"from":    buyerAddress,
		"invoice": invoiceNo,
		"tx_hash": txHash,
	})
	entry := models.Ledger{
		UserID: inviterID,
		Type:   models.LedgerDownlineProfit,
		Amount: amount,
		Meta:   string(meta),
	}
	return tx.Create(&entry).Error
}

// ListPurchases returns a user's purchases, most recent first.
func ListPurchases(userID uuid.UUID) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := database.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&purchases).Error
	return purchases, err
}
