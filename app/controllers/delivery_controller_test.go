package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/internal/pkg/deliverycharge"
	"github.com/dinefront/dinefront/internal/pkg/geo"
)

type stubBranchRepo struct{ branch *models.Branch }

func (s *stubBranchRepo) Create(*models.Branch) error { return nil }
func (s *stubBranchRepo) GetByID(id uint) (*models.Branch, error) {
	if s.branch == nil || s.branch.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.branch, nil
}
func (s *stubBranchRepo) GetByUUID(string) (*models.Branch, error) { return nil, gorm.ErrRecordNotFound }
func (s *stubBranchRepo) Update(*models.Branch) error              { return nil }
func (s *stubBranchRepo) Delete(uint) error                        { return nil }
func (s *stubBranchRepo) List(_, _ int) ([]models.Branch, error)   { return nil, nil }
func (s *stubBranchRepo) Count() (int64, error)                    { return 0, nil }

type stubBandRepo struct{ bands []models.DeliveryCharge }

func (s *stubBandRepo) Create(*models.DeliveryCharge) error { return nil }
func (s *stubBandRepo) GetByID(uint) (*models.DeliveryCharge, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubBandRepo) GetActiveByBranch(uint) ([]models.DeliveryCharge, error) {
	return s.bands, nil
}
func (s *stubBandRepo) GetByBranch(uint, int, int) ([]models.DeliveryCharge, error) {
	return s.bands, nil
}
func (s *stubBandRepo) Update(*models.DeliveryCharge) error { return nil }
func (s *stubBandRepo) Delete(uint) error                   { return nil }

type stubOverrideRepo struct{ overrides []models.PostcodeOverride }

func (s *stubOverrideRepo) Create(*models.PostcodeOverride) error { return nil }
func (s *stubOverrideRepo) GetByID(uint) (*models.PostcodeOverride, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubOverrideRepo) GetActiveByBranch(uint) ([]models.PostcodeOverride, error) {
	return s.overrides, nil
}
func (s *stubOverrideRepo) GetByBranch(uint, int, int) ([]models.PostcodeOverride, error) {
	return s.overrides, nil
}
func (s *stubOverrideRepo) FindByPattern(uint, string, string) (*models.PostcodeOverride, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubOverrideRepo) Update(*models.PostcodeOverride) error { return nil }
func (s *stubOverrideRepo) Delete(uint) error                     { return nil }

type stubExclusionRepo struct{ exclusions []models.PostcodeExclusion }

func (s *stubExclusionRepo) Create(*models.PostcodeExclusion) error { return nil }
func (s *stubExclusionRepo) GetByID(uint) (*models.PostcodeExclusion, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubExclusionRepo) GetActiveByBranch(uint) ([]models.PostcodeExclusion, error) {
	return s.exclusions, nil
}
func (s *stubExclusionRepo) GetByBranch(uint, int, int) ([]models.PostcodeExclusion, error) {
	return s.exclusions, nil
}
func (s *stubExclusionRepo) FindByPattern(uint, string, string) (*models.PostcodeExclusion, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubExclusionRepo) Update(*models.PostcodeExclusion) error { return nil }
func (s *stubExclusionRepo) Delete(uint) error                      { return nil }

type stubCacheRepo struct{}

func (s *stubCacheRepo) FindValid(string, string, time.Time) (*models.DistanceCacheEntry, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubCacheRepo) Upsert(*models.DistanceCacheEntry) error { return nil }

type stubProvider struct {
	distance geo.Distance
	err      error
}

func (s *stubProvider) Route(_ context.Context, _, _ geo.Coordinates) (geo.Route, error) {
	if s.err != nil {
		return geo.Route{}, s.err
	}
	return geo.Route{Distance: s.distance}, nil
}

func (s *stubProvider) Geocode(_ context.Context, _ string) (geo.Coordinates, error) {
	if s.err != nil {
		return geo.Coordinates{}, s.err
	}
	return geo.Coordinates{Lat: 53.81, Lng: -1.52}, nil
}

func newDeliveryTestApp(provider geo.DistanceProvider) *fiber.App {
	lat, lng := 53.79648, -1.54785
	resolver := deliverycharge.NewResolver(
		&stubBranchRepo{branch: &models.Branch{ID: 1, Name: "Leeds Central", Latitude: &lat, Longitude: &lng, IsActive: true}},
		&stubBandRepo{bands: []models.DeliveryCharge{
			{ID: 1, BranchID: 1, MaxDistance: 3, Charge: 2, IsActive: true},
			{ID: 2, BranchID: 1, MaxDistance: 5, MinSpend: 15, Charge: 3.5, IsActive: true},
		}},
		&stubOverrideRepo{},
		&stubExclusionRepo{exclusions: []models.PostcodeExclusion{
			{BranchID: 1, Prefix: "LS9", IsActive: true},
		}},
		deliverycharge.NewDistanceCache(&stubCacheRepo{}),
		provider,
	)
	controller := NewDeliveryController(resolver)

	app := fiber.New()
	app.Post("/api/v1/delivery/charge", controller.HandleCalculateCharge)
	app.Post("/api/v1/delivery/validate", controller.HandleValidateDelivery)
	return app
}

func TestHandleCalculateChargeDeliverable(t *testing.T) {
	app := newDeliveryTestApp(&stubProvider{distance: geo.Meters(4000)})

	req := httptest.NewRequest("POST", "/api/v1/delivery/charge",
		strings.NewReader(`{"branchId":1,"orderTotal":20,"postcode":"LS1 4AP"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, true, result["deliverable"])
	assert.Equal(t, 2.0, result["charge"])
	assert.Equal(t, "distance_based", result["type"])
}

// Rejections are business outcomes: HTTP 200 with deliverable=false.
func TestHandleCalculateChargeExcludedPostcodeIs200(t *testing.T) {
	app := newDeliveryTestApp(&stubProvider{distance: geo.Meters(4000)})

	req := httptest.NewRequest("POST", "/api/v1/delivery/charge",
		strings.NewReader(`{"branchId":1,"orderTotal":20,"postcode":"LS9 8AG"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, false, result["deliverable"])
	assert.NotEmpty(t, result["message"])
}

func TestHandleCalculateChargeValidation(t *testing.T) {
	app := newDeliveryTestApp(&stubProvider{distance: geo.Meters(4000)})

	tests := []struct {
		name string
		body string
	}{
		{"missing branch", `{"orderTotal":20,"postcode":"LS1 4AP"}`},
		{"zero total", `{"branchId":1,"orderTotal":0,"postcode":"LS1 4AP"}`},
		{"negative total", `{"branchId":1,"orderTotal":-5,"postcode":"LS1 4AP"}`},
		{"no postcode or coordinates", `{"branchId":1,"orderTotal":20}`},
		{"malformed json", `{"branchId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/delivery/charge", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleCalculateChargeUnknownBranch(t *testing.T) {
	app := newDeliveryTestApp(&stubProvider{distance: geo.Meters(4000)})

	req := httptest.NewRequest("POST", "/api/v1/delivery/charge",
		strings.NewReader(`{"branchId":99,"orderTotal":20,"postcode":"LS1 4AP"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleCalculateChargeProviderDown(t *testing.T) {
	app := newDeliveryTestApp(&stubProvider{err: assert.AnError})

	req := httptest.NewRequest("POST", "/api/v1/delivery/charge",
		strings.NewReader(`{"branchId":1,"orderTotal":20,"postcode":"LS1 4AP"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "provider_unavailable", result["error"])
}

func TestHandleValidateDeliverySearchedAddress(t *testing.T) {
	app := newDeliveryTestApp(&stubProvider{distance: geo.Meters(4000)})

	req := httptest.NewRequest("POST", "/api/v1/delivery/validate",
		strings.NewReader(`{"branchId":1,"orderTotal":20,"searchedAddress":{"postcode":"LS1 4AP","lat":53.81,"lng":-1.52}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, true, result["deliverable"])
	assert.Equal(t, "LS1 4AP", result["postcode"])
}

func TestHandleValidateDeliveryUserAddressString(t *testing.T) {
	app := newDeliveryTestApp(&stubProvider{distance: geo.Meters(4000)})

	req := httptest.NewRequest("POST", "/api/v1/delivery/validate",
		strings.NewReader(`{"branchId":1,"orderTotal":20,"userAddress":"5 High Street, Leeds LS1 4AP"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandleValidateDeliveryMissingAddress(t *testing.T) {
	app := newDeliveryTestApp(&stubProvider{distance: geo.Meters(4000)})

	req := httptest.NewRequest("POST", "/api/v1/delivery/validate",
		strings.NewReader(`{"branchId":1,"orderTotal":20}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleValidateDeliveryNoPostcodeInAddress(t *testing.T) {
	app := newDeliveryTestApp(&stubProvider{distance: geo.Meters(4000)})

	req := httptest.NewRequest("POST", "/api/v1/delivery/validate",
		strings.NewReader(`{"branchId":1,"orderTotal":20,"userAddress":"somewhere in Leeds"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleCalculateChargeBranchMisconfiguredIs422(t *testing.T) {
	resolver := deliverycharge.NewResolver(
		&stubBranchRepo{branch: &models.Branch{ID: 1, Name: "No Coords", IsActive: true}},
		&stubBandRepo{},
		&stubOverrideRepo{},
		&stubExclusionRepo{},
		deliverycharge.NewDistanceCache(&stubCacheRepo{}),
		&stubProvider{distance: geo.Meters(4000)},
	)
	app := fiber.New()
	app.Post("/api/v1/delivery/charge", NewDeliveryController(resolver).HandleCalculateCharge)

	req := httptest.NewRequest("POST", "/api/v1/delivery/charge",
		strings.NewReader(`{"branchId":1,"orderTotal":20,"postcode":"LS1 4AP"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "configuration_error", result["error"])
}
