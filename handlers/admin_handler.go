package handlers

import (
	"github.com/ecgapp/ecg_backend/services"
	"github.com/gofiber/fiber/v2"
)

// ReconcileWallet rebuilds a wallet from its ledger and reports per-bucket
// drift against the stored projection. Operators use this to verify the
// wallet row is still a faithful materialization of the ledger.
func ReconcileWallet(c *fiber.Ctx) error {
	address := c.Params("address")
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wallet address required"})
	}

	user, err := services.GetOrCreateUser(address)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	diff, err := services.ReconcileWallet(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reconcile wallet"})
	}

	return c.JSON(fiber.Map{
		"wallet_address": address,
		"consistent":     len(diff) == 0,
		"differences":    diff,
	})
}
