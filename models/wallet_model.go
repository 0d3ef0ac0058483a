package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds the bucketed ECG balances for one user. Locked buckets are
// excluded from the withdrawable total until a scheduled transition moves
// their value into the matching unlocked bucket.
type Wallet struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignkey:UserID" json:"-"`

	ReferralBonus decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0" json:"referral_bonus"`

	DailyRewardLocked   decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0" json:"daily_reward_locked"`
	DailyRewardUnlocked decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0" json:"daily_reward_unlocked"`

	DownlineProfit decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0" json:"downline_profit"`

	SelfProfitLocked   decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0" json:"self_profit_locked"`
	SelfProfitUnlocked decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0" json:"self_profit_unlocked"`

	PrincipalLocked   decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0" json:"principal_locked"`
	PrincipalUnlocked decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0" json:"principal_unlocked"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WithdrawableTotal sums the five buckets a withdrawal may draw from.
func (w *Wallet) WithdrawableTotal() decimal.Decimal {
	return w.ReferralBonus.
		Add(w.DailyRewardUnlocked).
		Add(w.DownlineProfit).
		Add(w.SelfProfitUnlocked).
		Add(w.PrincipalUnlocked)
}
