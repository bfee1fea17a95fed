package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/app/repository"
)

// AdminDeliveryChargeController manages the distance-banded delivery charge
// table of a branch. Band regions are allowed to overlap; lookup order
// (ascending max distance, first match) decides the winner.
type AdminDeliveryChargeController struct {
	chargeRepo repository.DeliveryChargeRepository
}

var adminDeliveryChargeController *AdminDeliveryChargeController

// InitializeAdminDeliveryChargeController wires the controller with the global repositories
func InitializeAdminDeliveryChargeController() {
	adminDeliveryChargeController = NewAdminDeliveryChargeController(
		repository.GetGlobalFactory().GetDeliveryChargeRepository())
}

// NewAdminDeliveryChargeController creates a new controller with repository
func NewAdminDeliveryChargeController(chargeRepo repository.DeliveryChargeRepository) *AdminDeliveryChargeController {
	return &AdminDeliveryChargeController{chargeRepo: chargeRepo}
}

// GetAdminDeliveryChargeController returns the initialized controller instance
func GetAdminDeliveryChargeController() *AdminDeliveryChargeController {
	if adminDeliveryChargeController == nil {
		panic("Admin delivery charge controller not initialized. Call InitializeAdminDeliveryChargeController first.")
	}
	return adminDeliveryChargeController
}

type deliveryChargePayload struct {
	BranchID    uint    `json:"branchId" validate:"required"`
	MaxDistance float64 `json:"maxDistance" validate:"required,gt=0"` // miles
	MinSpend    float64 `json:"minSpend" validate:"gte=0"`
	MaxSpend    float64 `json:"maxSpend" validate:"gte=0"` // 0 = unbounded
	Charge      float64 `json:"charge" validate:"gte=0"`
	IsActive    *bool   `json:"isActive"`
}

// HandleList returns the bands of a branch ordered by max distance
func (dc *AdminDeliveryChargeController) HandleList(c *fiber.Ctx) error {
	branchID := uint(c.QueryInt("branchId", 0))
	if branchID == 0 {
		return badRequest(c, "branchId query parameter is required")
	}
	offset, limit := paginationParams(c)
	charges, err := dc.chargeRepo.GetByBranch(branchID, offset, limit)
	if err != nil {
		return internalError(c, "Failed to load delivery charges")
	}
	return c.JSON(fiber.Map{"delivery_charges": charges})
}

// HandleCreate creates a new delivery charge band
func (dc *AdminDeliveryChargeController) HandleCreate(c *fiber.Ctx) error {
	var payload deliveryChargePayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Delivery charge validation failed: "+err.Error())
	}
	if payload.MaxSpend > 0 && payload.MaxSpend < payload.MinSpend {
		return badRequest(c, "maxSpend must be 0 or greater than minSpend")
	}

	charge := &models.DeliveryCharge{
		BranchID:    payload.BranchID,
		MaxDistance: payload.MaxDistance,
		MinSpend:    payload.MinSpend,
		MaxSpend:    payload.MaxSpend,
		Charge:      payload.Charge,
		IsActive:    true,
	}
	if payload.IsActive != nil {
		charge.IsActive = *payload.IsActive
	}
	if err := dc.chargeRepo.Create(charge); err != nil {
		return internalError(c, "Failed to create delivery charge")
	}
	return c.Status(fiber.StatusCreated).JSON(charge)
}

// HandleUpdate updates an existing delivery charge band
func (dc *AdminDeliveryChargeController) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid delivery charge id")
	}
	charge, err := dc.chargeRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Delivery charge not found")
		}
		return internalError(c, "Failed to load delivery charge")
	}

	var payload deliveryChargePayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Delivery charge validation failed: "+err.Error())
	}
	if payload.MaxSpend > 0 && payload.MaxSpend < payload.MinSpend {
		return badRequest(c, "maxSpend must be 0 or greater than minSpend")
	}

	charge.BranchID = payload.BranchID
	charge.MaxDistance = payload.MaxDistance
	charge.MinSpend = payload.MinSpend
	charge.MaxSpend = payload.MaxSpend
	charge.Charge = payload.Charge
	if payload.IsActive != nil {
		charge.IsActive = *payload.IsActive
	}
	if err := dc.chargeRepo.Update(charge); err != nil {
		return internalError(c, "Failed to update delivery charge")
	}
	return c.JSON(charge)
}

// HandleDelete removes a delivery charge band
func (dc *AdminDeliveryChargeController) HandleDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid delivery charge id")
	}
	if err := dc.chargeRepo.Delete(id); err != nil {
		return internalError(c, "Failed to delete delivery charge")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
