package routes

import (
	"github.com/ecgapp/ecg_backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func RewardRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/reward/status", handlers.GetRewardStatus)
	api.Post("/reward/claim", handlers.ClaimDailyReward)
}
