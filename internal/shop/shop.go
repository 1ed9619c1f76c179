package shop

// Shop represents a food-hygiene-rated establishment.
// The FHRS ID is the only field the source dataset guarantees; everything else
// is nullable and passes through the fetch layer untouched. DistanceMiles is
// only populated by the distance-ranked procedures.
type Shop struct {
	FHRSID        int64    `json:"fhrs_id"`
	BusinessName  *string  `json:"business_name"`
	Address       *string  `json:"address"`
	Postcode      *string  `json:"postcode"`
	RatingValue   *string  `json:"rating_value,omitempty"`
	RatingKey     *string  `json:"rating_key,omitempty"`
	BusinessType  *string  `json:"business_type,omitempty"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
	LastSeenAt    int64    `json:"-"`
}

// Location represents a geographic coordinate pair supplied by the caller
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
