package handlers

import (
	"time"

	"github.com/ecgapp/ecg_backend/services"
	"github.com/gofiber/fiber/v2"
)

// GetRewardStatus reports the daily claim countdown and headline balances.
func GetRewardStatus(c *fiber.Ctx) error {
	address := c.Query("wallet_address")
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wallet_address required"})
	}

	user, err := services.GetOrCreateUser(address)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	status, err := services.GetRewardStatus(user, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load reward status"})
	}

	return c.JSON(fiber.Map{
		"status":            "ok",
		"seconds_remaining": status.SecondsRemaining,
		"balance_ecg":       status.BalanceEcg,
		"referral_points":   status.ReferralPoints,
		"rewards_count":     status.RewardsCount,
	})
}

type ClaimRewardRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,max=128"`
}

// ClaimDailyReward grants the timer reward when the 24h cooldown has
// elapsed.
func ClaimDailyReward(c *fiber.Ctx) error {
	var req ClaimRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := services.GetOrCreateUser(req.WalletAddress)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	now := time.Now()
	secondsRemaining, err := services.ClaimDailyReward(user, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to claim reward"})
	}
	if secondsRemaining > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":            "too_early",
			"message":           "Please wait for the timer to finish.",
			"seconds_remaining": secondsRemaining,
		})
	}

	status, err := services.GetRewardStatus(user, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load reward status"})
	}

	return c.JSON(fiber.Map{
		"status":            "rewarded",
		"message":           "1 ECG added",
		"balance_ecg":       status.BalanceEcg,
		"referral_points":   status.ReferralPoints,
		"rewards_count":     status.RewardsCount,
		"seconds_remaining": int64(services.DailyClaimCooldown.Seconds()),
	})
}
