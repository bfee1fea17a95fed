package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/app/repository"
	metrics "github.com/dinefront/dinefront/internal/pkg/metrics/counter"
)

// AdminBranchController handles admin branch management requests
type AdminBranchController struct {
	branchRepo repository.BranchRepository
}

var adminBranchController *AdminBranchController

// InitializeAdminBranchController wires the controller with the global repositories
func InitializeAdminBranchController() {
	adminBranchController = NewAdminBranchController(repository.GetGlobalFactory().GetBranchRepository())
}

// NewAdminBranchController creates a new admin branch controller with repository
func NewAdminBranchController(branchRepo repository.BranchRepository) *AdminBranchController {
	return &AdminBranchController{branchRepo: branchRepo}
}

// GetAdminBranchController returns the initialized controller instance
func GetAdminBranchController() *AdminBranchController {
	if adminBranchController == nil {
		panic("Admin branch controller not initialized. Call InitializeAdminBranchController first.")
	}
	return adminBranchController
}

type branchPayload struct {
	Name      string   `json:"name" validate:"required,min=2,max=255"`
	Email     string   `json:"email" validate:"omitempty,email"`
	Phone     string   `json:"phone"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	Postcode  string   `json:"postcode"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	IsActive  *bool    `json:"isActive"`
}

func (p *branchPayload) apply(branch *models.Branch) {
	branch.Name = p.Name
	branch.Email = p.Email
	branch.Phone = p.Phone
	branch.Street = p.Street
	branch.City = p.City
	branch.Postcode = p.Postcode
	if p.Country != "" {
		branch.Country = p.Country
	}
	branch.Latitude = p.Latitude
	branch.Longitude = p.Longitude
	if p.IsActive != nil {
		branch.IsActive = *p.IsActive
	}
}

// HandleList returns branches with pagination
func (bc *AdminBranchController) HandleList(c *fiber.Ctx) error {
	offset, limit := paginationParams(c)
	branches, err := bc.branchRepo.List(offset, limit)
	if err != nil {
		return internalError(c, "Failed to load branches")
	}
	count, err := bc.branchRepo.Count()
	if err != nil {
		return internalError(c, "Failed to count branches")
	}
	return c.JSON(fiber.Map{"branches": branches, "total": count})
}

// HandleGet returns one branch with its delivery cache statistics
func (bc *AdminBranchController) HandleGet(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid branch id")
	}
	branch, err := bc.branchRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Branch not found")
		}
		return internalError(c, "Failed to load branch")
	}

	hits, misses, _ := metrics.CacheStats(branch.ID)
	return c.JSON(fiber.Map{
		"branch": branch,
		"distance_cache": fiber.Map{
			"hits":   hits,
			"misses": misses,
		},
	})
}

// HandleCreate creates a new branch
func (bc *AdminBranchController) HandleCreate(c *fiber.Ctx) error {
	var payload branchPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Branch validation failed: "+err.Error())
	}

	branch := &models.Branch{IsActive: true}
	payload.apply(branch)
	if err := bc.branchRepo.Create(branch); err != nil {
		return internalError(c, "Failed to create branch")
	}
	return c.Status(fiber.StatusCreated).JSON(branch)
}

// HandleUpdate updates an existing branch
func (bc *AdminBranchController) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid branch id")
	}
	branch, err := bc.branchRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Branch not found")
		}
		return internalError(c, "Failed to load branch")
	}

	var payload branchPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := getValidator().Struct(&payload); err != nil {
		return badRequest(c, "Branch validation failed: "+err.Error())
	}

	payload.apply(branch)
	if err := bc.branchRepo.Update(branch); err != nil {
		return internalError(c, "Failed to update branch")
	}
	return c.JSON(branch)
}

// HandleDelete removes a branch
func (bc *AdminBranchController) HandleDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid branch id")
	}
	if err := bc.branchRepo.Delete(id); err != nil {
		return internalError(c, "Failed to delete branch")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
