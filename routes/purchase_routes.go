package routes

import (
	"github.com/ecgapp/ecg_backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func PurchaseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/purchase", handlers.RegisterPurchase)
	api.Get("/purchases", handlers.ListPurchases)
}
