package geo

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoValidAddress is returned when no postcode can be resolved from any of
// the supplied address sources.
var ErrNoValidAddress = errors.New("no valid address with a postcode was supplied")

// ukPostcodeRegex matches a UK postcode anywhere inside a free-form address
// string: outward code (letters + digits), optional space, inward code
// (digit + two letters).
var ukPostcodeRegex = regexp.MustCompile(`(?i)([A-Z]{1,2}\d[A-Z\d]?)\s*(\d[A-Z]{2})`)

// Address is the canonical address produced by normalization.
type Address struct {
	Postcode string   `json:"postcode"`
	Street   string   `json:"street,omitempty"`
	City     string   `json:"city,omitempty"`
	Country  string   `json:"country"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

// SearchedAddress is an address the customer explicitly picked from an
// address search, optionally carrying coordinates from the search provider.
type SearchedAddress struct {
	Postcode string   `json:"postcode"`
	Street   string   `json:"street"`
	City     string   `json:"city"`
	Country  string   `json:"country"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
}

// storedAddress is the structured form a saved user address may arrive in.
// Older clients send "postalCode" instead of "postcode".
type storedAddress struct {
	Postcode   string `json:"postcode"`
	PostalCode string `json:"postalCode"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// ExtractPostcode pulls a UK postcode out of a free-form string. The second
// return value reports whether a postcode was found.
func ExtractPostcode(s string) (string, bool) {
	m := ukPostcodeRegex.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]) + " " + strings.ToUpper(m[2]), true
}

// NormalizePostcode folds a postcode into its canonical comparison form:
// upper case with all whitespace removed.
func NormalizePostcode(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// SplitPostcode splits a canonical postcode into its outward (prefix) and
// inward (postfix) parts. "SW1A 1AA" -> ("SW1A", "1AA").
func SplitPostcode(s string) (prefix, postfix string) {
	n := NormalizePostcode(s)
	if len(n) <= 3 {
		return n, ""
	}
	return n[:len(n)-3], n[len(n)-3:]
}

// ResolveAddress normalizes the supplied address sources into one canonical
// Address. An explicitly searched address wins over a saved user address; the
// saved address may be a plain string or a structured object. Country
// defaults to GB when absent.
func ResolveAddress(searched *SearchedAddress, userAddress json.RawMessage) (*Address, error) {
	if searched != nil && strings.TrimSpace(searched.Postcode) != "" {
		addr := &Address{
			Postcode: formatPostcode(searched.Postcode),
			Street:   searched.Street,
			City:     searched.City,
			Country:  defaultCountry(searched.Country),
			Lat:      searched.Lat,
			Lng:      searched.Lng,
		}
		return addr, nil
	}

	if len(userAddress) == 0 {
		return nil, ErrNoValidAddress
	}

	// A saved address arrives either as a JSON string or a structured object.
	var raw string
	if err := json.Unmarshal(userAddress, &raw); err == nil {
		postcode, ok := ExtractPostcode(raw)
		if !ok {
			return nil, ErrNoValidAddress
		}
		return &Address{Postcode: postcode, Street: raw, Country: "GB"}, nil
	}

	var stored storedAddress
	if err := json.Unmarshal(userAddress, &stored); err != nil {
		return nil, ErrNoValidAddress
	}
	postcode := stored.Postcode
	if postcode == "" {
		postcode = stored.PostalCode
	}
	if strings.TrimSpace(postcode) == "" {
		return nil, ErrNoValidAddress
	}
	return &Address{
		Postcode: formatPostcode(postcode),
		Street:   stored.Street,
		City:     stored.City,
		Country:  defaultCountry(stored.Country),
	}, nil
}

// formatPostcode renders a postcode in display form: canonical upper case
// with a single space before the inward code.
func formatPostcode(s string) string {
	prefix, postfix := SplitPostcode(s)
	if postfix == "" {
		return prefix
	}
	return prefix + " " + postfix
}

func defaultCountry(c string) string {
	if strings.TrimSpace(c) == "" {
		return "GB"
	}
	return c
}
