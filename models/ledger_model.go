package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	LedgerReferralBonus       = "REFERRAL_BONUS"
	LedgerDailyLockedAdd      = "DAILY_LOCKED_ADD"
	LedgerDailyUnlock         = "DAILY_UNLOCK"
	LedgerPrincipalLockedAdd  = "PRINCIPAL_LOCKED_ADD"
	LedgerSelfProfitLockedAdd = "SELF_PROFIT_LOCKED_ADD"
	LedgerSelfProfitUnlock    = "SELF_PROFIT_UNLOCK"
	LedgerPrincipalUnlock     = "PRINCIPAL_UNLOCK"
	LedgerDownlineProfit      = "DOWNLINE_PROFIT"
	LedgerWithdraw            = "WITHDRAW"
)

// Ledger is the append-only audit trail of every balance-affecting event.
// Rows are never updated or deleted. IdemKey carries a unique
// purchase+transition key for the scheduled unlock entries so the same
// transition can never be applied twice, even by concurrent scheduler runs.
type Ledger struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignkey:UserID" json:"-"`

	Type    string          `gorm:"size:32;not null;index" json:"type"`
	Amount  decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"amount"`
	Meta    string          `gorm:"type:jsonb" json:"meta"`
	IdemKey *string         `gorm:"size:64;uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (l *Ledger) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
