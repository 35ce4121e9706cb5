package models

// Device represents an allocated device identifier in the custody ledger.
// IDs are assigned sequentially starting at 0; the highest assigned ID is
// what the NUMBER query reports.
type Device struct {
	ID          int64   `json:"id" db:"id"`
	AllocatedAt string  `json:"allocatedAt" db:"allocated_at"` // ledger timestamp format
	OriginSite  string  `json:"originSite" db:"origin_site"`
	PublicKey   *string `json:"publicKey,omitempty" db:"public_key"` // PEM, nil until registered
	Destroyed   bool    `json:"destroyed" db:"destroyed"`
}
