package main

import (
	"log"
	"time"

	"github.com/ecgapp/ecg_backend/database"
	"github.com/ecgapp/ecg_backend/jobs"
	"github.com/ecgapp/ecg_backend/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()

	c := cron.New()
	c.AddFunc("@hourly", func() { jobs.UnlockMaturedProfits(time.Now()) })
	c.AddFunc("30 0 * * *", func() { jobs.AccrueDailyReward(time.Now()) })
	// month boundary: the daily pool accrued last month unlocks in one batch
	c.AddFunc("0 0 1 * *", jobs.UnlockDailyRewards)
	go c.Start()
	log.Println("✅ Unlock scheduler jobs registered successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "ECG Wallet",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to ECG Wallet API",
		})
	})

	routes.WalletRoutes(app)
	routes.PurchaseRoutes(app)
	routes.WithdrawRoutes(app)
	routes.ReferralRoutes(app)
	routes.RewardRoutes(app)
	routes.AdminRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
