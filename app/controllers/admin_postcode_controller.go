package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/app/repository"
)

// AdminPostcodeController manages the postcode price overrides and the
// postcode exclusions of a branch.
type AdminPostcodeController struct {
	overrideRepo  repository.PostcodeOverrideRepository
	exclusionRepo repository.PostcodeExclusionRepository
}

var adminPostcodeController *AdminPostcodeController

// InitializeAdminPostcodeController wires the controller with the global repositories
func InitializeAdminPostcodeController() {
	factory := repository.GetGlobalFactory()
	adminPostcodeController = NewAdminPostcodeController(
		factory.GetPostcodeOverrideRepository(),
		factory.GetPostcodeExclusionRepository(),
	)
}

// NewAdminPostcodeController creates a new controller with repositories
func NewAdminPostcodeController(
	overrideRepo repository.PostcodeOverrideRepository,
	exclusionRepo repository.PostcodeExclusionRepository,
) *AdminPostcodeController {
	return &AdminPostcodeController{overrideRepo: overrideRepo, exclusionRepo: exclusionRepo}
}

// GetAdminPostcodeController returns the initialized controller instance
func GetAdminPostcodeController() *AdminPostcodeController {
	if adminPostcodeController == nil {
		panic("Admin postcode controller not initialized. Call InitializeAdminPostcodeController first.")
	}
	return adminPostcodeController
}

type overridePayload struct {
	BranchID uint    `json:"branchId" validate:"required"`
	Prefix   string  `json:"prefix" validate:"required,min=2,max=10"`
	Postfix  string  `json:"postfix" validate:"required,len=3"`
	MinSpend float64 `json:"minSpend" validate:"gte=0"`
	Charge   float64 `json:"charge" validate:"gte=0"`
	IsActive *bool   `json:"isActive"`
}

type exclusionPayload struct {
	BranchID uint   `json:"branchId" validate:"required"`
	Prefix   string `json:"prefix" validate:"required,min=2,max=10"`
	Postfix  string `json:"postfix" validate:"omitempty,len=3"`
	IsActive *bool  `json:"isActive"`
}

// HandleListOverrides returns the overrides of a branch
func (pc *AdminPostcodeController) HandleListOverrides(c *fiber.Ctx) error {
	branchID := uint(c.QueryInt("branchId", 0))
	if branchID == 0 {
		return badRequest(c, "branchId query parameter is required")
	}
	offset, limit := paginationParams(c)
	overrides, err := pc.overrideRepo.GetByBranch(branchID, offset, limit)
	if err != nil {
		return internalError(c, "Failed to load postcode overrides")
	}
	return c.JSON(fiber.Map{"postcode_overrides": overrides})
}

// HandleCreateOverride creates a new postcode override. Duplicates per
// (branch, postcode) are rejected.
func (pc *AdminPostcodeController) HandleCreateOverride(c *fiber.Ctx) error {
	var payload overridePayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Postcode override validation failed: "+err.Error())
	}

	if existing, err := pc.overrideRepo.FindByPattern(payload.BranchID, payload.Prefix, payload.Postfix); err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "An override for this postcode already exists",
		})
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, "Failed to check for existing override")
	}

	override := &models.PostcodeOverride{
		BranchID: payload.BranchID,
		Prefix:   payload.Prefix,
		Postfix:  payload.Postfix,
		MinSpend: payload.MinSpend,
		Charge:   payload.Charge,
		IsActive: true,
	}
	if payload.IsActive != nil {
		override.IsActive = *payload.IsActive
	}
	if err := pc.overrideRepo.Create(override); err != nil {
		return internalError(c, "Failed to create postcode override")
	}
	return c.Status(fiber.StatusCreated).JSON(override)
}

// HandleUpdateOverride updates an existing postcode override
func (pc *AdminPostcodeController) HandleUpdateOverride(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid override id")
	}
	override, err := pc.overrideRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Postcode override not found")
		}
		return internalError(c, "Failed to load postcode override")
	}

	var payload overridePayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Postcode override validation failed: "+err.Error())
	}

	override.BranchID = payload.BranchID
	override.Prefix = payload.Prefix
	override.Postfix = payload.Postfix
	override.MinSpend = payload.MinSpend
	override.Charge = payload.Charge
	if payload.IsActive != nil {
		override.IsActive = *payload.IsActive
	}
	if err := pc.overrideRepo.Update(override); err != nil {
		return internalError(c, "Failed to update postcode override")
	}
	return c.JSON(override)
}

// HandleDeleteOverride removes a postcode override
func (pc *AdminPostcodeController) HandleDeleteOverride(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid override id")
	}
	if err := pc.overrideRepo.Delete(id); err != nil {
		return internalError(c, "Failed to delete postcode override")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListExclusions returns the exclusions of a branch
func (pc *AdminPostcodeController) HandleListExclusions(c *fiber.Ctx) error {
	branchID := uint(c.QueryInt("branchId", 0))
	if branchID == 0 {
		return badRequest(c, "branchId query parameter is required")
	}
	offset, limit := paginationParams(c)
	exclusions, err := pc.exclusionRepo.GetByBranch(branchID, offset, limit)
	if err != nil {
		return internalError(c, "Failed to load postcode exclusions")
	}
	return c.JSON(fiber.Map{"postcode_exclusions": exclusions})
}

// HandleCreateExclusion creates a new postcode exclusion. Duplicates per
// (branch, pattern) are rejected.
func (pc *AdminPostcodeController) HandleCreateExclusion(c *fiber.Ctx) error {
	var payload exclusionPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Postcode exclusion validation failed: "+err.Error())
	}

	if existing, err := pc.exclusionRepo.FindByPattern(payload.BranchID, payload.Prefix, payload.Postfix); err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "An exclusion for this pattern already exists",
		})
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, "Failed to check for existing exclusion")
	}

	exclusion := &models.PostcodeExclusion{
		BranchID: payload.BranchID,
		Prefix:   payload.Prefix,
		Postfix:  payload.Postfix,
		IsActive: true,
	}
	if payload.IsActive != nil {
		exclusion.IsActive = *payload.IsActive
	}
	if err := pc.exclusionRepo.Create(exclusion); err != nil {
		return internalError(c, "Failed to create postcode exclusion")
	}
	return c.Status(fiber.StatusCreated).JSON(exclusion)
}

// HandleUpdateExclusion updates an existing postcode exclusion
func (pc *AdminPostcodeController) HandleUpdateExclusion(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid exclusion id")
	}
	exclusion, err := pc.exclusionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Postcode exclusion not found")
		}
		return internalError(c, "Failed to load postcode exclusion")
	}

	var payload exclusionPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Postcode exclusion validation failed: "+err.Error())
	}

	exclusion.BranchID = payload.BranchID
	exclusion.Prefix = payload.Prefix
	exclusion.Postfix = payload.Postfix
	if payload.IsActive != nil {
		exclusion.IsActive = *payload.IsActive
	}
	if err := pc.exclusionRepo.Update(exclusion); err != nil {
		return internalError(c, "Failed to update postcode exclusion")
	}
	return c.JSON(exclusion)
}

// HandleDeleteExclusion removes a postcode exclusion
func (pc *AdminPostcodeController) HandleDeleteExclusion(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid exclusion id")
	}
	if err := pc.exclusionRepo.Delete(id); err != nil {
		return internalError(c, "Failed to delete postcode exclusion")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
