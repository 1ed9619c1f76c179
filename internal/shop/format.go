package shop

import (
	"fmt"
	"strings"
)

// Placeholders used when a display field is absent from the source record
const (
	placeholderBusinessName = "Name not available"
	placeholderAddress      = "Address not available"
)

// DisplayName returns the business name of a shop, degrading to a placeholder
// when the source record lacked one
func (shop *Shop) DisplayName() string {
	if shop.BusinessName == nil || strings.TrimSpace(*shop.BusinessName) == "" {
		return placeholderBusinessName
	}
	return strings.TrimSpace(*shop.BusinessName)
}

// DisplayAddress returns the address line of a shop, joining the street
// address and the postcode when both are present
func (shop *Shop) DisplayAddress() string {
	if shop.Address == nil || strings.TrimSpace(*shop.Address) == "" {
		return placeholderAddress
	}
	if shop.Postcode == nil || strings.TrimSpace(*shop.Postcode) == "" {
		return strings.TrimSpace(*shop.Address)
	}
	return strings.TrimSpace(*shop.Address) + ", " + strings.TrimSpace(*shop.Postcode)
}

// DisplayDistance returns the distance of a shop in miles with one decimal.
// Distances below a tenth of a mile collapse to "< 0.1 mi"; shops without a
// distance yield an empty string.
func (shop *Shop) DisplayDistance() string {
	if shop.DistanceMiles == nil || *shop.DistanceMiles <= 0 {
		return ""
	}
	if *shop.DistanceMiles < 0.1 {
		return "< 0.1 mi"
	}
	return fmt.Sprintf("%.1f mi", *shop.DistanceMiles)
}
