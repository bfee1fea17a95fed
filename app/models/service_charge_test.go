package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceChargeOverlaps(t *testing.T) {
	a := ServiceCharge{MinSpend: 0, MaxSpend: 20}

	assert.True(t, a.Overlaps(&ServiceCharge{MinSpend: 10, MaxSpend: 30}))
	assert.True(t, a.Overlaps(&ServiceCharge{MinSpend: 20, MaxSpend: 40}), "shared boundary counts as overlap")
	assert.True(t, a.Overlaps(&ServiceCharge{MinSpend: 5, MaxSpend: 15}), "fully contained range")
	assert.False(t, a.Overlaps(&ServiceCharge{MinSpend: 20.01, MaxSpend: 40}))
}

func TestServiceChargeCovers(t *testing.T) {
	s := ServiceCharge{MinSpend: 10, MaxSpend: 30}

	assert.True(t, s.Covers(10))
	assert.True(t, s.Covers(30))
	assert.False(t, s.Covers(9.99))
	assert.False(t, s.Covers(30.01))
}

func TestValidateServiceChargeRange(t *testing.T) {
	existing := []ServiceCharge{
		{ID: 1, MinSpend: 0, MaxSpend: 19.99, Charge: 2, IsActive: true},
		{ID: 2, MinSpend: 20, MaxSpend: 49.99, Charge: 1, IsActive: true},
		{ID: 3, MinSpend: 50, MaxSpend: 100, Charge: 0, IsActive: false},
	}

	t.Run("non overlapping candidate passes", func(t *testing.T) {
		candidate := &ServiceCharge{MinSpend: 50, MaxSpend: 100, Charge: 0}
		require.NoError(t, ValidateServiceChargeRange(existing, candidate))
	})

	t.Run("overlapping candidate is rejected", func(t *testing.T) {
		candidate := &ServiceCharge{MinSpend: 15, MaxSpend: 25, Charge: 1.5}
		err := ValidateServiceChargeRange(existing, candidate)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overlaps")
	})

	t.Run("update skips its own row", func(t *testing.T) {
		candidate := &ServiceCharge{ID: 2, MinSpend: 20, MaxSpend: 49.99, Charge: 1.25}
		require.NoError(t, ValidateServiceChargeRange(existing, candidate))
	})

	t.Run("inactive rows are ignored", func(t *testing.T) {
		candidate := &ServiceCharge{MinSpend: 60, MaxSpend: 80, Charge: 0}
		require.NoError(t, ValidateServiceChargeRange(existing, candidate))
	})
}
