package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase is immutable once created. The recorded EcgValue and SelfProfit
// are the exact amounts the unlock scheduler later moves; unlock state lives
// in the ledger, never on this row.
type Purchase struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignkey:UserID" json:"-"`

	InvoiceNo string `gorm:"size:32;not null;uniqueIndex" json:"invoice_no"`
	TxHash    string `gorm:"size:256;not null;uniqueIndex" json:"tx_hash"`

	TonAmount  decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"ton_amount"`
	TonUsdRate decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"ton_usd_rate"`
	UsdValue   decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"usd_value"`
	EcgValue   decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"ecg_value"`
	SelfProfit decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"self_profit"`

	PrincipalUnlockAt  time.Time `gorm:"not null;index" json:"principal_unlock_at"`
	SelfProfitUnlockAt time.Time `gorm:"not null;index" json:"self_profit_unlock_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
