package models

import "time"

// Transfer records one change of custody: a device arriving at a site at a
// point in time, optionally flagged for destruction there. The signature is
// the hex-encoded ECDSA signature over the transfer digest as supplied by
// the submitting client.
type Transfer struct {
	ID         int64   `json:"id" db:"id"`
	DeviceID   int64   `json:"deviceId" db:"device_id"`
	Site       string  `json:"site" db:"site"`
	RecordedAt string  `json:"recordedAt" db:"recorded_at"` // ledger timestamp format
	Destruct   bool    `json:"destruct" db:"destruct"`
	Signature  string  `json:"signature" db:"signature"`
	CreatedAt  *string `json:"createdAt,omitempty" db:"created_at"`
}

// CustodyEntry is one step of a device's history: where it was and when.
type CustodyEntry struct {
	Site      string    `json:"site"`
	Timestamp time.Time `json:"timestamp"`
}
