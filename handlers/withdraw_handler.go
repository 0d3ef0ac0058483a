package handlers

import (
	"errors"

	"github.com/ecgapp/ecg_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WithdrawRequestBody struct {
	WalletAddress     string `json:"wallet_address" validate:"required,max=128"`
	Scope             string `json:"scope" validate:"required"`
	Amount            string `json:"amount" validate:"required"`
	DestinationWallet string `json:"destination_wallet" validate:"required,max=128"`
}

// RequestWithdraw debits the wallet and queues a PENDING withdrawal for the
// external approval process.
func RequestWithdraw(c *fiber.Ctx) error {
	var req WithdrawRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid amount"})
	}

	user, err := services.GetOrCreateUser(req.WalletAddress)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	request, err := services.RequestWithdraw(user, req.Scope, amount, req.DestinationWallet)
	switch {
	case errors.Is(err, services.ErrInvalidScope),
		errors.Is(err, services.ErrBelowMinimum),
		errors.Is(err, services.ErrInsufficientFunds):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to request withdrawal"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     request.ID,
		"status": request.Status,
	})
}
