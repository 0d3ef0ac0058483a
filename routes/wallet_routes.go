package routes

import (
	"github.com/ecgapp/ecg_backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func WalletRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/wallet/connect", handlers.ConnectWallet)
	api.Get("/wallet/:address", handlers.GetWallet)
}
