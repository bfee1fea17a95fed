package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPostcode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"plain postcode", "SW1A 1AA", "SW1A 1AA", true},
		{"no space", "sw1a1aa", "SW1A 1AA", true},
		{"inside address", "10 Downing Street, London SW1A 2AA, UK", "SW1A 2AA", true},
		{"short outward", "M1 1AE", "M1 1AE", true},
		{"double letter district", "CR2 6XH", "CR2 6XH", true},
		{"lowercase in address", "flat 2, 5 high st, leeds ls1 4ap", "LS1 4AP", true},
		{"no postcode", "10 Downing Street, London", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPostcode(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePostcode(t *testing.T) {
	assert.Equal(t, "SW1A1AA", NormalizePostcode("sw1a 1aa"))
	assert.Equal(t, "SW1A1AA", NormalizePostcode("  SW1A  1AA  "))
	assert.Equal(t, "M11AE", NormalizePostcode("m1 1ae"))
	assert.Equal(t, "", NormalizePostcode(""))
}

func TestSplitPostcode(t *testing.T) {
	tests := []struct {
		input   string
		prefix  string
		postfix string
	}{
		{"SW1A 1AA", "SW1A", "1AA"},
		{"sw1a1aa", "SW1A", "1AA"},
		{"M1 1AE", "M1", "1AE"},
		{"SW1A", "SW1A", ""},
		{"M1", "M1", ""},
	}

	for _, tt := range tests {
		prefix, postfix := SplitPostcode(tt.input)
		assert.Equal(t, tt.prefix, prefix, tt.input)
		assert.Equal(t, tt.postfix, postfix, tt.input)
	}
}

func TestResolveAddressSearchedWins(t *testing.T) {
	lat, lng := 51.5014, -0.1419
	searched := &SearchedAddress{
		Postcode: "sw1a1aa",
		Street:   "Buckingham Palace",
		City:     "London",
		Lat:      &lat,
		Lng:      &lng,
	}
	user := json.RawMessage(`{"postcode":"LS1 4AP"}`)

	addr, err := ResolveAddress(searched, user)
	require.NoError(t, err)
	assert.Equal(t, "SW1A 1AA", addr.Postcode)
	assert.Equal(t, "GB", addr.Country)
	require.NotNil(t, addr.Lat)
	assert.Equal(t, lat, *addr.Lat)
}

func TestResolveAddressUserString(t *testing.T) {
	user := json.RawMessage(`"10 Downing Street, London SW1A 2AA"`)

	addr, err := ResolveAddress(nil, user)
	require.NoError(t, err)
	assert.Equal(t, "SW1A 2AA", addr.Postcode)
	assert.Equal(t, "GB", addr.Country)
}

func TestResolveAddressUserObject(t *testing.T) {
	user := json.RawMessage(`{"postcode":"ls1 4ap","street":"5 High St","city":"Leeds"}`)

	addr, err := ResolveAddress(nil, user)
	require.NoError(t, err)
	assert.Equal(t, "LS1 4AP", addr.Postcode)
	assert.Equal(t, "Leeds", addr.City)
}

func TestResolveAddressLegacyPostalCodeField(t *testing.T) {
	user := json.RawMessage(`{"postalCode":"CR2 6XH","country":"GB"}`)

	addr, err := ResolveAddress(nil, user)
	require.NoError(t, err)
	assert.Equal(t, "CR2 6XH", addr.Postcode)
}

func TestResolveAddressNoUsableSource(t *testing.T) {
	tests := []struct {
		name     string
		searched *SearchedAddress
		user     json.RawMessage
	}{
		{"nothing supplied", nil, nil},
		{"searched without postcode and no fallback", &SearchedAddress{City: "London"}, nil},
		{"string without postcode", nil, json.RawMessage(`"somewhere in London"`)},
		{"object without postcode", nil, json.RawMessage(`{"street":"5 High St"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveAddress(tt.searched, tt.user)
			assert.ErrorIs(t, err, ErrNoValidAddress)
		})
	}
}
