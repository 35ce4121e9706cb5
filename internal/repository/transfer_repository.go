package repository

import (
	"database/sql"
	"fmt"

	"github.com/itemtrace/custody-backend-go/internal/models"
)

// TransferRepository handles database operations for custody transfers
type TransferRepository struct {
	db Queryer
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db Queryer) *TransferRepository {
	return &TransferRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction.
func (r *TransferRepository) WithTx(tx *sql.Tx) *TransferRepository {
	return &TransferRepository{db: tx}
}

// Insert stores a transfer and fills in its assigned id.
func (r *TransferRepository) Insert(t *models.Transfer) error {
	res, err := r.db.Exec(
		`INSERT INTO transfers (device_id, site, recorded_at, destruct, signature)
		 VALUES (?, ?, ?, ?, ?)`,
		t.DeviceID, t.Site, t.RecordedAt, t.Destruct, t.Signature,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transfer id: %w", err)
	}

	return nil
}

// HistoryByDevice returns all transfers of a device in chronological order.
// Ledger timestamps are fixed-width digit strings, so lexicographic order
// is chronological.
func (r *TransferRepository) HistoryByDevice(deviceID int64) ([]models.Transfer, error) {
	query := `SELECT id, device_id, site, recorded_at, destruct, signature, created_at
		FROM transfers WHERE device_id = ?
		ORDER BY recorded_at ASC, id ASC`

	rows, err := r.db.Query(query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		err := rows.Scan(
			&t.ID, &t.DeviceID, &t.Site, &t.RecordedAt, &t.Destruct, &t.Signature, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}

	return transfers, nil
}
