package handlers

import (
	"github.com/ecgapp/ecg_backend/models"
	"github.com/ecgapp/ecg_backend/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ConnectWalletRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,max=128"`
	InviterCode   string `json:"inviter_code,omitempty"`
}

// ConnectWallet creates the user and wallet on first contact and applies
// the optional inviter code. A failed referral bind is not an error; the
// user simply proceeds without one.
func ConnectWallet(c *fiber.Ctx) error {
	var req ConnectWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := services.GetOrCreateUser(req.WalletAddress)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to connect wallet"})
	}

	if req.InviterCode != "" {
		if err := services.ApplyReferral(req.InviterCode, user); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to apply referral"})
		}
	}

	wallet, err := services.GetWallet(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load wallet"})
	}

	return c.JSON(fiber.Map{
		"user":   user,
		"wallet": walletSnapshot(wallet),
	})
}

// GetWallet returns the bucketed balances for a wallet address.
func GetWallet(c *fiber.Ctx) error {
	address := c.Params("address")
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wallet address required"})
	}

	user, err := services.GetOrCreateUser(address)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	wallet, err := services.GetWallet(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load wallet"})
	}

	return c.JSON(walletSnapshot(wallet))
}

func walletSnapshot(w *models.Wallet) fiber.Map {
	return fiber.Map{
		"referral_bonus":        w.ReferralBonus,
		"daily_reward_locked":   w.DailyRewardLocked,
		"daily_reward_unlocked": w.DailyRewardUnlocked,
		"downline_profit":       w.DownlineProfit,
		"self_profit_locked":    w.SelfProfitLocked,
		"self_profit_unlocked":  w.SelfProfitUnlocked,
		"principal_locked":      w.PrincipalLocked,
		"principal_unlocked":    w.PrincipalUnlocked,
		"withdrawable_total":    w.WithdrawableTotal(),
		"updated_at":            w.UpdatedAt,
	}
}
