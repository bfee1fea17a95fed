package deliverycharge

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/app/repository"
	"github.com/dinefront/dinefront/internal/pkg/geo"
	metrics "github.com/dinefront/dinefront/internal/pkg/metrics/counter"
)

// Charge types reported in responses.
const (
	ChargeTypeOverride = "postcode_override"
	ChargeTypeDistance = "distance_based"
)

// Rejection messages shown to the customer. Deliverability rejections are
// business outcomes, not errors.
const (
	msgExcludedPostcode = "Sorry, we do not deliver to this postcode."
	msgOutsideArea      = "Sorry, this address is outside our delivery area."
	msgSpendNotMet      = "The order total does not meet the spend requirements for delivery to this address."
)

// Request carries one delivery charge calculation. Exactly one address
// source is expected: a plain postcode (optionally with raw coordinates or
// an admin-entered distance), a searched address, or a saved user address.
type Request struct {
	BranchID   uint
	OrderTotal float64

	Postcode    string
	Searched    *geo.SearchedAddress
	UserAddress json.RawMessage

	// Raw customer coordinates, when the client already knows them.
	CustomerLat *float64
	CustomerLng *float64

	// Pre-computed distance in miles; skips geocoding and the provider
	// entirely (admin tools and the by-distance endpoint use this).
	DistanceMiles *float64
}

// Result is the outcome of a resolution. Deliverable=false with a Message is
// a normal business outcome; hard failures are returned as errors instead.
type Result struct {
	Deliverable bool    `json:"deliverable"`
	Charge      float64 `json:"charge,omitempty"`
	Type        string  `json:"type,omitempty"`
	Message     string  `json:"message,omitempty"`
	Postcode    string  `json:"postcode,omitempty"`

	Distance     *float64 `json:"distance,omitempty"` // miles
	DistanceText string   `json:"distanceText,omitempty"`

	// Echoed band bounds for UI transparency.
	MaxDistance      *float64 `json:"maxDistance,omitempty"`
	MinSpend         *float64 `json:"minSpend,omitempty"`
	MaxSpend         *float64 `json:"maxSpend,omitempty"`
	MinSpendRequired *float64 `json:"minSpendRequired,omitempty"`
}

// Resolver runs the delivery charge state machine: exclusion check, then
// postcode override, then distance-banded pricing with a write-through
// distance cache.
type Resolver struct {
	branches   repository.BranchRepository
	bands      repository.DeliveryChargeRepository
	overrides  repository.PostcodeOverrideRepository
	exclusions repository.PostcodeExclusionRepository
	cache      *DistanceCache
	provider   geo.DistanceProvider
}

// NewResolver wires the resolver from its stores and the provider seam.
func NewResolver(
	branches repository.BranchRepository,
	bands repository.DeliveryChargeRepository,
	overrides repository.PostcodeOverrideRepository,
	exclusions repository.PostcodeExclusionRepository,
	cache *DistanceCache,
	provider geo.DistanceProvider,
) *Resolver {
	return &Resolver{
		branches:   branches,
		bands:      bands,
		overrides:  overrides,
		exclusions: exclusions,
		cache:      cache,
		provider:   provider,
	}
}

// Resolve runs one calculation. The returned error is only non-nil for
// validation, configuration and provider failures; every deliverability
// outcome, positive or negative, arrives as a Result.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	branch, err := r.branches.GetByID(req.BranchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}

	// Step 1: normalize the address. A bare postcode from the by-distance
	// and by-coordinates endpoints is accepted as-is; the checkout variants
	// go through full source-priority resolution.
	postcode := req.Postcode
	var addrLat, addrLng *float64
	if postcode == "" && (req.Searched != nil || len(req.UserAddress) > 0) {
		addr, err := geo.ResolveAddress(req.Searched, req.UserAddress)
		if err != nil {
			return nil, err
		}
		postcode = addr.Postcode
		addrLat, addrLng = addr.Lat, addr.Lng
	}
	if postcode == "" && (req.CustomerLat == nil || req.CustomerLng == nil) {
		return nil, geo.ErrNoValidAddress
	}

	// Steps 2 and 3 need a postcode; the raw-coordinates variant without
	// one goes straight to distance pricing.
	if postcode != "" {
		excluded, err := r.isExcluded(branch.ID, postcode)
		if err != nil {
			return nil, err
		}
		if excluded {
			return &Result{
				Deliverable: false,
				Message:     msgExcludedPostcode,
				Postcode:    postcode,
			}, nil
		}

		override, err := r.findOverride(branch.ID, postcode)
		if err != nil {
			return nil, err
		}
		// An override below its minimum spend falls through to distance
		// pricing; it is an upgrade path, not a hard gate.
		if override != nil && req.OrderTotal >= override.MinSpend {
			return &Result{
				Deliverable: true,
				Charge:      override.Charge,
				Type:        ChargeTypeOverride,
				Postcode:    postcode,
			}, nil
		}
	}

	// Steps 4 and 5: resolve the travel distance.
	distance, err := r.resolveDistance(ctx, req, branch, postcode, addrLat, addrLng)
	if err != nil {
		return nil, err
	}

	// Step 6: band lookup.
	return r.findBand(branch.ID, distance, req.OrderTotal, postcode)
}

func (r *Resolver) isExcluded(branchID uint, postcode string) (bool, error) {
	exclusions, err := r.exclusions.GetActiveByBranch(branchID)
	if err != nil {
		return false, err
	}
	for i := range exclusions {
		if exclusions[i].Matches(postcode) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Resolver) findOverride(branchID uint, postcode string) (*models.PostcodeOverride, error) {
	overrides, err := r.overrides.GetActiveByBranch(branchID)
	if err != nil {
		return nil, err
	}
	for i := range overrides {
		if overrides[i].Matches(postcode) {
			return &overrides[i], nil
		}
	}
	return nil, nil
}

// resolveDistance produces the travel distance for the request: an
// admin-entered mile value wins, then the cache, then the provider. A
// provider result is always written through to the cache, even if the
// request later ends in a rejection.
func (r *Resolver) resolveDistance(ctx context.Context, req Request, branch *models.Branch, postcode string, addrLat, addrLng *float64) (geo.Distance, error) {
	if req.DistanceMiles != nil {
		return geo.FromMiles(*req.DistanceMiles), nil
	}

	if !branch.HasCoordinates() {
		return 0, ErrBranchLocationNotConfigured
	}
	from := geo.Coordinates{Lat: *branch.Latitude, Lng: *branch.Longitude}

	var to geo.Coordinates
	switch {
	case req.CustomerLat != nil && req.CustomerLng != nil:
		to = geo.Coordinates{Lat: *req.CustomerLat, Lng: *req.CustomerLng}
	case addrLat != nil && addrLng != nil:
		to = geo.Coordinates{Lat: *addrLat, Lng: *addrLng}
	default:
		coords, err := r.provider.Geocode(ctx, postcode)
		if err != nil {
			return 0, &ProviderError{Op: "geocode", Err: err}
		}
		to = coords
	}

	if distance, hit, err := r.cache.Lookup(from, to); err != nil {
		// A broken cache read falls back to the provider; the cache is an
		// accelerator, never the source of truth.
		log.Printf("distance cache lookup failed: %v", err)
	} else if hit {
		if err := metrics.AddCacheHit(branch.ID); err != nil {
			log.Printf("cache hit counter failed: %v", err)
		}
		return distance, nil
	}
	if err := metrics.AddCacheMiss(branch.ID); err != nil {
		log.Printf("cache miss counter failed: %v", err)
	}

	route, err := r.provider.Route(ctx, from, to)
	if err != nil {
		return 0, &ProviderError{Op: "route", Err: err}
	}
	if err := r.cache.Upsert(from, to, route.Distance, "google", DefaultCacheTTL); err != nil {
		log.Printf("distance cache upsert failed: %v", err)
	}
	return route.Distance, nil
}

// findBand selects the first active band, by ascending max distance, that
// covers both the distance and the order total. When none matches, the
// rejection distinguishes "outside the delivery area" from "spend
// requirements not met".
func (r *Resolver) findBand(branchID uint, distance geo.Distance, orderTotal float64, postcode string) (*Result, error) {
	bands, err := r.bands.GetActiveByBranch(branchID)
	if err != nil {
		return nil, err
	}
	if len(bands) == 0 {
		return nil, ErrNoActiveBands
	}

	miles := distance.Miles()
	withinDistance := false
	var minSpendRequired *float64

	for i := range bands {
		band := &bands[i]
		if distance > geo.FromMiles(band.MaxDistance) {
			continue
		}
		if band.CoversSpend(orderTotal) {
			return &Result{
				Deliverable:  true,
				Charge:       band.Charge,
				Type:         ChargeTypeDistance,
				Postcode:     postcode,
				Distance:     &miles,
				DistanceText: distance.Text(),
				MaxDistance:  &band.MaxDistance,
				MinSpend:     &band.MinSpend,
				MaxSpend:     &band.MaxSpend,
			}, nil
		}
		withinDistance = true
		if minSpendRequired == nil || band.MinSpend < *minSpendRequired {
			minSpendRequired = &band.MinSpend
		}
	}

	if withinDistance {
		return &Result{
			Deliverable:      false,
			Message:          msgSpendNotMet,
			Postcode:         postcode,
			Distance:         &miles,
			DistanceText:     distance.Text(),
			MinSpendRequired: minSpendRequired,
		}, nil
	}

	// Distance beats every configured band; echo the farthest reach so the
	// UI can say how far the branch delivers.
	maxReach := bands[len(bands)-1].MaxDistance
	return &Result{
		Deliverable:  false,
		Message:      msgOutsideArea,
		Postcode:     postcode,
		Distance:     &miles,
		DistanceText: distance.Text(),
		MaxDistance:  &maxReach,
	}, nil
}
