package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/app/repository"
)

// AdminServiceChargeController manages the service charge ranges of a
// branch. Ranges are validated against overlap at write time.
type AdminServiceChargeController struct {
	chargeRepo repository.ServiceChargeRepository
}

var adminServiceChargeController *AdminServiceChargeController

// InitializeAdminServiceChargeController wires the controller with the global repositories
func InitializeAdminServiceChargeController() {
	adminServiceChargeController = NewAdminServiceChargeController(
		repository.GetGlobalFactory().GetServiceChargeRepository())
}

// NewAdminServiceChargeController creates a new controller with repository
func NewAdminServiceChargeController(chargeRepo repository.ServiceChargeRepository) *AdminServiceChargeController {
	return &AdminServiceChargeController{chargeRepo: chargeRepo}
}

// GetAdminServiceChargeController returns the initialized controller instance
func GetAdminServiceChargeController() *AdminServiceChargeController {
	if adminServiceChargeController == nil {
		panic("Admin service charge controller not initialized. Call InitializeAdminServiceChargeController first.")
	}
	return adminServiceChargeController
}

type serviceChargePayload struct {
	BranchID uint    `json:"branchId" validate:"required"`
	MinSpend float64 `json:"minSpend" validate:"gte=0"`
	MaxSpend float64 `json:"maxSpend" validate:"required,gtfield=MinSpend"`
	Charge   float64 `json:"charge" validate:"gte=0"`
	IsActive *bool   `json:"isActive"`
}

// HandleList returns the service charges of a branch
func (sc *AdminServiceChargeController) HandleList(c *fiber.Ctx) error {
	branchID := uint(c.QueryInt("branchId", 0))
	if branchID == 0 {
		return badRequest(c, "branchId query parameter is required")
	}
	offset, limit := paginationParams(c)
	charges, err := sc.chargeRepo.GetByBranch(branchID, offset, limit)
	if err != nil {
		return internalError(c, "Failed to load service charges")
	}
	return c.JSON(fiber.Map{"service_charges": charges})
}

// HandleCreate creates a new service charge after the overlap check
func (sc *AdminServiceChargeController) HandleCreate(c *fiber.Ctx) error {
	var payload serviceChargePayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Service charge validation failed: "+err.Error())
	}

	charge := &models.ServiceCharge{
		BranchID: payload.BranchID,
		MinSpend: payload.MinSpend,
		MaxSpend: payload.MaxSpend,
		Charge:   payload.Charge,
		IsActive: true,
	}
	if payload.IsActive != nil {
		charge.IsActive = *payload.IsActive
	}

	if err := sc.validateRange(charge); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": err.Error()})
	}
	if err := sc.chargeRepo.Create(charge); err != nil {
		return internalError(c, "Failed to create service charge")
	}
	return c.Status(fiber.StatusCreated).JSON(charge)
}

// HandleUpdate updates an existing service charge after the overlap check
func (sc *AdminServiceChargeController) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid service charge id")
	}
	charge, err := sc.chargeRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Service charge not found")
		}
		return internalError(c, "Failed to load service charge")
	}

	var payload serviceChargePayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Service charge validation failed: "+err.Error())
	}

	charge.BranchID = payload.BranchID
	charge.MinSpend = payload.MinSpend
	charge.MaxSpend = payload.MaxSpend
	charge.Charge = payload.Charge
	if payload.IsActive != nil {
		charge.IsActive = *payload.IsActive
	}

	if charge.IsActive {
		if err := sc.validateRange(charge); err != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": err.Error()})
		}
	}
	if err := sc.chargeRepo.Update(charge); err != nil {
		return internalError(c, "Failed to update service charge")
	}
	return c.JSON(charge)
}

// HandleDelete removes a service charge
func (sc *AdminServiceChargeController) HandleDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid service charge id")
	}
	if err := sc.chargeRepo.Delete(id); err != nil {
		return internalError(c, "Failed to delete service charge")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (sc *AdminServiceChargeController) validateRange(candidate *models.ServiceCharge) error {
	existing, err := sc.chargeRepo.GetActiveByBranch(candidate.BranchID)
	if err != nil {
		return err
	}
	return models.ValidateServiceChargeRange(existing, candidate)
}
