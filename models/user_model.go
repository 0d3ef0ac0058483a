package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WalletAddress string    `gorm:"size:128;not null;uniqueIndex" json:"wallet_address"`

	ReferralCode string     `gorm:"size:32;uniqueIndex" json:"referral_code"`
	InviterID    *uuid.UUID `gorm:"type:uuid;index" json:"inviter_id"`
	Inviter      *User      `gorm:"foreignkey:InviterID" json:"-"`

	NextClaimAt *time.Time `json:"next_claim_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
