package jobs

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnlockMaturedProfits runs the two per-purchase unlock passes: self profit
// after its 30 day lock and principal after its 365 day lock. Each purchase
// is handled in its own transaction behind a ledger idempotency key, so the
// job can run on any schedule, crash mid-scan and resume, or overlap a
// concurrent run without ever moving the same value twice. A purchase that
// fails its transition is logged and retried on the next run; it never
// aborts the pass for the others.
func UnlockMaturedProfits(now time.Time) {
	log.Println("Running job: UnlockMaturedProfits...")

	selfMoved := unlockPass(now, "self_profit_unlock_at",
		models.LedgerSelfProfitUnlock, "self_profit_locked", "self_profit_unlocked",
		func(p *models.Purchase) decimal.Decimal { return p.SelfProfit })

	principalMoved := unlockPass(now, "principal_unlock_at",
		models.LedgerPrincipalUnlock, "principal_locked", "principal_unlocked",
		func(p *models.Purchase) decimal.Decimal { return p.EcgValue })

	log.Printf("Unlock job done: %d self-profit, %d principal transitions.", selfMoved, principalMoved)
}

func unlockPass(now time.Time, dueColumn, ledgerType, fromBucket, toBucket string, amountOf func(*models.Purchase) decimal.Decimal) int {
	var purchases []models.Purchase
	err := database.DB.Where(dueColumn+" <= ?", now).Find(&purchases).Error
	if err != nil {
		log.Printf("🔥 Unlock pass %s: scan failed: %v", ledgerType, err)
		return 0
	}

	moved := 0
	for i := range purchases {
		p := &purchases[i]
		amount := amountOf(p)
		if !amount.IsPositive() {
			continue
		}
		applied, err := applyUnlock(p, ledgerType, fromBucket, toBucket, amount)
		if err != nil {
			log.Printf("🔥 Unlock %s failed for invoice %s: %v", ledgerType, p.InvoiceNo, err)
			continue
		}
		if applied {
			moved++
		}
	}
	return moved
}

// applyUnlock moves the amount recorded on the purchase — never a
// recomputed value — between the two buckets, exactly once per purchase.
// The ledger row's unique idempotency key (invoice + transition type) is
// the sole duplicate-application guard; there is no processed flag on the
// purchase itself.
func applyUnlock(p *models.Purchase, ledgerType, fromBucket, toBucket string, amount decimal.Decimal) (bool, error) {
	idemKey := p.InvoiceNo + ":" + ledgerType
	applied := false

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Ledger{}).Where("idem_key = ?", idemKey).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND "+fromBucket+" >= ?", p.UserID, amount).
			Updates(map[string]interface{}{
				fromBucket: gorm.Expr(fromBucket+" - ?", amount),
				toBucket:   gorm.Expr(toBucket+" + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("wallet %s: %s holds less than %s", p.UserID, fromBucket, amount)
		}

		meta, _ := json.Marshal(map[string]string{"invoice": p.InvoiceNo})
		entry := models.Ledger{
			UserID:  p.UserID,
			Type:    ledgerType,
			Amount:  amount,
			Meta:    string(meta),
			IdemKey: &idemKey,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}
