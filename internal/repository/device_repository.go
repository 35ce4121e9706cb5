package repository

import (
	"database/sql"
	"fmt"

	"github.com/itemtrace/custody-backend-go/internal/models"
)

// DeviceRepository handles database operations for allocated devices
type DeviceRepository struct {
	db Queryer
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db Queryer) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction.
func (r *DeviceRepository) WithTx(tx *sql.Tx) *DeviceRepository {
	return &DeviceRepository{db: tx}
}

// Allocate reserves the next free device id (starting at 0) and returns it.
// The id is assigned inside a single INSERT so concurrent allocations
// cannot collide.
func (r *DeviceRepository) Allocate(allocatedAt, originSite string) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO devices (id, allocated_at, origin_site)
		 SELECT COALESCE(MAX(id) + 1, 0), ?, ? FROM devices`,
		allocatedAt, originSite,
	)
	if err != nil {
		return -1, fmt.Errorf("failed to allocate device: %w", err)
	}

	// devices.id is the INTEGER PRIMARY KEY, so the rowid is the id.
	id, err := res.LastInsertId()
	if err != nil {
		return -1, fmt.Errorf("failed to read allocated device id: %w", err)
	}

	return id, nil
}

// GetByID retrieves a device by id, nil when it does not exist.
func (r *DeviceRepository) GetByID(id int64) (*models.Device, error) {
	query := `SELECT id, allocated_at, origin_site, public_key, destroyed
		FROM devices WHERE id = ?`

	var d models.Device
	err := r.db.QueryRow(query, id).Scan(
		&d.ID, &d.AllocatedAt, &d.OriginSite, &d.PublicKey, &d.Destroyed,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return &d, nil
}

// HighestID returns the highest assigned device id, -1 when none exist.
func (r *DeviceRepository) HighestID() (int64, error) {
	var highest int64
	err := r.db.QueryRow("SELECT COALESCE(MAX(id), -1) FROM devices").Scan(&highest)
	if err != nil {
		return -1, fmt.Errorf("failed to count devices: %w", err)
	}
	return highest, nil
}

// SetPublicKey registers the PEM public key future transfer signatures are
// verified against.
func (r *DeviceRepository) SetPublicKey(id int64, publicKeyPEM string) error {
	res, err := r.db.Exec("UPDATE devices SET public_key = ? WHERE id = ?", publicKeyPEM, id)
	if err != nil {
		return fmt.Errorf("failed to set public key: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set public key: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("device %d not found", id)
	}

	return nil
}

// MarkDestroyed flags a device as destroyed; it accepts no further
// transfers afterwards.
func (r *DeviceRepository) MarkDestroyed(id int64) error {
	_, err := r.db.Exec("UPDATE devices SET destroyed = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark device destroyed: %w", err)
	}
	return nil
}
