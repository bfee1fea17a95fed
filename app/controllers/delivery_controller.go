package controllers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/dinefront/dinefront/app/repository"
	"github.com/dinefront/dinefront/internal/pkg/deliverycharge"
	"github.com/dinefront/dinefront/internal/pkg/geo"
	metrics "github.com/dinefront/dinefront/internal/pkg/metrics/counter"
)

// DeliveryController handles the public delivery charge endpoints.
type DeliveryController struct {
	resolver *deliverycharge.Resolver
}

var deliveryController *DeliveryController

// InitializeDeliveryController wires the resolver from the global
// repositories and the production distance provider.
func InitializeDeliveryController() {
	repos := repository.GetGlobalRepositories()
	deliveryController = NewDeliveryController(deliverycharge.NewResolver(
		repos.Branch,
		repos.DeliveryCharge,
		repos.PostcodeOverride,
		repos.PostcodeExclusion,
		deliverycharge.NewDistanceCache(repos.DistanceCache),
		geo.NewGoogleClientFromEnv(),
	))
}

// NewDeliveryController creates a delivery controller around a resolver.
func NewDeliveryController(resolver *deliverycharge.Resolver) *DeliveryController {
	return &DeliveryController{resolver: resolver}
}

// GetDeliveryController returns the initialized controller instance
func GetDeliveryController() *DeliveryController {
	if deliveryController == nil {
		panic("Delivery controller not initialized. Call InitializeDeliveryController first.")
	}
	return deliveryController
}

// chargeRequest is the body of POST /delivery/charge: a postcode with an
// admin-entered distance, or raw customer coordinates.
type chargeRequest struct {
	BranchID    uint     `json:"branchId" validate:"required"`
	OrderTotal  float64  `json:"orderTotal" validate:"required,gt=0"`
	Postcode    string   `json:"postcode"`
	Distance    *float64 `json:"distance" validate:"omitempty,gt=0"` // miles
	CustomerLat *float64 `json:"customerLat"`
	CustomerLng *float64 `json:"customerLng"`
}

// validateRequest is the body of POST /delivery/validate: the checkout
// variant resolving a searched or saved address.
type validateRequest struct {
	BranchID        uint                 `json:"branchId" validate:"required"`
	OrderTotal      float64              `json:"orderTotal" validate:"required,gt=0"`
	SearchedAddress *geo.SearchedAddress `json:"searchedAddress"`
	UserAddress     json.RawMessage      `json:"userAddress"`
}

// HandleCalculateCharge calculates the delivery charge for a postcode or a
// raw coordinate pair.
func (dc *DeliveryController) HandleCalculateCharge(c *fiber.Ctx) error {
	var req chargeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&req); err != nil {
		return badRequest(c, "branchId and a positive orderTotal are required")
	}
	if req.Postcode == "" && (req.CustomerLat == nil || req.CustomerLng == nil) {
		return badRequest(c, "Either a postcode or customer coordinates are required")
	}

	return dc.resolve(c, deliverycharge.Request{
		BranchID:      req.BranchID,
		OrderTotal:    req.OrderTotal,
		Postcode:      req.Postcode,
		CustomerLat:   req.CustomerLat,
		CustomerLng:   req.CustomerLng,
		DistanceMiles: req.Distance,
	})
}

// HandleValidateDelivery runs the full checkout validation: address
// normalization, exclusion/override checks and distance pricing.
func (dc *DeliveryController) HandleValidateDelivery(c *fiber.Ctx) error {
	var req validateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&req); err != nil {
		return badRequest(c, "branchId and a positive orderTotal are required")
	}
	if req.SearchedAddress == nil && len(req.UserAddress) == 0 {
		return badRequest(c, "A searched or saved address is required")
	}

	return dc.resolve(c, deliverycharge.Request{
		BranchID:    req.BranchID,
		OrderTotal:  req.OrderTotal,
		Searched:    req.SearchedAddress,
		UserAddress: req.UserAddress,
	})
}

func (dc *DeliveryController) resolve(c *fiber.Ctx, req deliverycharge.Request) error {
	result, err := dc.resolver.Resolve(c.Context(), req)
	if err != nil {
		return dc.renderError(c, err)
	}

	if err := metrics.AddDeliveryCalculation(req.BranchID); err != nil {
		log.Printf("delivery calc counter failed: %v", err)
	}

	// Deliverability rejections are normal responses, not errors.
	return c.JSON(result)
}

func (dc *DeliveryController) renderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, deliverycharge.ErrBranchNotFound):
		return notFound(c, "Branch not found")
	case errors.Is(err, geo.ErrNoValidAddress):
		return badRequest(c, "No valid address with a postcode was supplied")
	case deliverycharge.IsConfigError(err):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "configuration_error",
			"message": "Delivery is not configured for this branch. Please contact support.",
		})
	case deliverycharge.IsProviderError(err):
		log.Printf("distance provider failure: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "provider_unavailable",
			"message": "Unable to calculate delivery at the moment, please try again.",
		})
	default:
		log.Printf("delivery charge resolution failed: %v", err)
		return internalError(c, "Failed to calculate delivery charge")
	}
}
