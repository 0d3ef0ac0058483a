package handlers

import (
	"errors"
	"time"

	"github.com/ecgapp/ecg_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RegisterPurchaseRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,max=128"`
	TonAmount     string `json:"ton_amount" validate:"required"`
	TonTxHash     string `json:"ton_tx_hash" validate:"required,max=256"`
}

// RegisterPurchase records a confirmed TON payment and credits the locked
// buckets. Registration is all-or-nothing; a duplicate transaction hash or
// an unavailable rate leaves no trace.
func RegisterPurchase(c *fiber.Ctx) error {
	var req RegisterPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	amount, err := decimal.NewFromString(req.TonAmount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid ton_amount"})
	}

	user, err := services.GetOrCreateUser(req.WalletAddress)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	purchase, err := services.RegisterPurchase(user, amount, req.TonTxHash, time.Now())
	switch {
	case errors.Is(err, services.ErrDuplicateTx), errors.Is(err, services.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrRateUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register purchase"})
	}

	return c.Status(fiber.StatusCreated).JSON(purchase)
}

// ListPurchases returns a wallet's purchases, most recent first.
func ListPurchases(c *fiber.Ctx) error {
	address := c.Query("wallet")
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wallet param required"})
	}

	user, err := services.GetOrCreateUser(address)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	purchases, err := services.ListPurchases(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list purchases"})
	}

	return c.JSON(purchases)
}
