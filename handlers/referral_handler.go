package handlers

import (
	"github.com/ecgapp/ecg_backend/services"
	"github.com/gofiber/fiber/v2"
)

// GetReferralCount returns how many users a wallet has invited.
func GetReferralCount(c *fiber.Ctx) error {
	address := c.Query("wallet_address")
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wallet_address required"})
	}

	user, err := services.GetOrCreateUser(address)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	count, err := services.CountInvitees(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count invitees"})
	}

	return c.JSON(fiber.Map{
		"count":         count,
		"referral_code": user.ReferralCode,
	})
}
