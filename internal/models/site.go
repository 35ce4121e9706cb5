package models

// Site maps a custody site name to its map coordinates. Site names are the
// identity used throughout the ledger; coordinates exist so histories can
// be plotted.
type Site struct {
	Name      string  `json:"name" db:"name"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	CreatedAt *string `json:"createdAt,omitempty" db:"created_at"`
}
