package api

import (
	"masarif/docs"
	"masarif/internal/api/handlers"
	"masarif/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

func SetupRouter(
	cfg *config.ServerConfig,
	healthHandler *handlers.HealthHandler,
	expenseHandler *handlers.ExpenseHandler,
	receiptHandler *handlers.ReceiptHandler,
	analyticsHandler *handlers.AnalyticsHandler,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo // ensure docs package is imported and init() is called
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", healthHandler.Health)
	app.Get("/info", healthHandler.Info)

	api := app.Group("/api/v1")

	expenses := api.Group("/expenses")
	expenses.Get("/schema", expenseHandler.SchemaInfo)
	expenses.Post("/extract", expenseHandler.Extract)
	expenses.Post("/extract/multi", expenseHandler.ExtractMulti)
	expenses.Post("/extract/batch", expenseHandler.ExtractBatch)
	expenses.Post("/ocr/upload", expenseHandler.ExtractFromUpload)

	receipts := api.Group("/receipts")
	receipts.Post("/parse/text", receiptHandler.ParseText)
	receipts.Post("/parse/upload", receiptHandler.ParseUpload)

	api.Post("/pdf/info", receiptHandler.PDFInfo)

	api.Post("/analytics", analyticsHandler.GroupBy)
	analytics := api.Group("/analytics")
	analytics.Post("/summary", analyticsHandler.Summary)
	analytics.Post("/anomalies", analyticsHandler.Anomalies)

	export := api.Group("/export")
	export.Post("/csv", analyticsHandler.ExportCSV)
	export.Post("/excel", analyticsHandler.ExportExcel)

	return app
}
