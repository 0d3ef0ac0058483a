package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	WithdrawScopeDownlineOnly    = "DOWNLINE_ONLY"
	WithdrawScopeAllWithdrawable = "ALL_WITHDRAWABLE"

	WithdrawStatusPending  = "PENDING"
	WithdrawStatusApproved = "APPROVED"
	WithdrawStatusRejected = "REJECTED"
)

type WithdrawRequest struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignkey:UserID" json:"-"`

	Scope             string          `gorm:"size:32;not null" json:"scope"`
	Amount            decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"amount"`
	DestinationWallet string          `gorm:"size:128;not null" json:"destination_wallet"`
	Status            string          `gorm:"size:16;not null;default:'PENDING'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *WithdrawRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
