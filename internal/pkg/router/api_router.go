package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/dinefront/dinefront/app/controllers"
	"github.com/dinefront/dinefront/internal/pkg/env"
	"github.com/dinefront/dinefront/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Initialize controllers with the global repositories
	controllers.InitializeDeliveryController()
	controllers.InitializeAdminBranchController()
	controllers.InitializeAdminDeliveryChargeController()
	controllers.InitializeAdminPostcodeController()
	controllers.InitializeAdminServiceChargeController()

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")

	delivery := controllers.GetDeliveryController()
	v1.Post("/delivery/charge", delivery.HandleCalculateCharge)
	v1.Post("/delivery/validate", delivery.HandleValidateDelivery)

	admin := v1.Group("/admin", middleware.AdminAPIKeyMiddleware())

	branches := controllers.GetAdminBranchController()
	admin.Get("/branches", branches.HandleList)
	admin.Get("/branches/:id", branches.HandleGet)
	admin.Post("/branches", branches.HandleCreate)
	admin.Put("/branches/:id", branches.HandleUpdate)
	admin.Delete("/branches/:id", branches.HandleDelete)

	charges := controllers.GetAdminDeliveryChargeController()
	admin.Get("/delivery-charges", charges.HandleList)
	admin.Post("/delivery-charges", charges.HandleCreate)
	admin.Put("/delivery-charges/:id", charges.HandleUpdate)
	admin.Delete("/delivery-charges/:id", charges.HandleDelete)

	postcodes := controllers.GetAdminPostcodeController()
	admin.Get("/postcode-overrides", postcodes.HandleListOverrides)
	admin.Post("/postcode-overrides", postcodes.HandleCreateOverride)
	admin.Put("/postcode-overrides/:id", postcodes.HandleUpdateOverride)
	admin.Delete("/postcode-overrides/:id", postcodes.HandleDeleteOverride)
	admin.Get("/postcode-exclusions", postcodes.HandleListExclusions)
	admin.Post("/postcode-exclusions", postcodes.HandleCreateExclusion)
	admin.Put("/postcode-exclusions/:id", postcodes.HandleUpdateExclusion)
	admin.Delete("/postcode-exclusions/:id", postcodes.HandleDeleteExclusion)

	serviceCharges := controllers.GetAdminServiceChargeController()
	admin.Get("/service-charges", serviceCharges.HandleList)
	admin.Post("/service-charges", serviceCharges.HandleCreate)
	admin.Put("/service-charges/:id", serviceCharges.HandleUpdate)
	admin.Delete("/service-charges/:id", serviceCharges.HandleDelete)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold across
// instances.
func newLimiterStorage() *redis.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redis.New(redis.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Database: 1,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
