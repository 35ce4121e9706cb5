package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/itemtrace/custody-backend-go/internal/database"
	"github.com/itemtrace/custody-backend-go/internal/models"
	"github.com/itemtrace/custody-backend-go/internal/repository"
	"github.com/itemtrace/custody-backend-go/internal/signature"
	"github.com/itemtrace/custody-backend-go/internal/transaction"
)

var (
	// ErrDeviceNotFound reports an operation on a device id that was
	// never allocated.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrDeviceDestroyed reports a transfer for a device already marked
	// destroyed.
	ErrDeviceDestroyed = errors.New("device destroyed")
)

// LedgerService implements the custody ledger rules on top of the device
// and transfer repositories. The db handle scopes multi-statement writes
// to one transaction.
type LedgerService struct {
	db        *sql.DB
	devices   *repository.DeviceRepository
	transfers *repository.TransferRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(db *sql.DB, devices *repository.DeviceRepository, transfers *repository.TransferRepository) *LedgerService {
	return &LedgerService{db: db, devices: devices, transfers: transfers}
}

// Allocate reserves the next device id. The timestamp is stored with the
// device; pass "" to use the current time.
func (s *LedgerService) Allocate(site, timestamp string) (int64, error) {
	if err := validateSiteName(site); err != nil {
		return -1, err
	}
	if timestamp == "" {
		timestamp = models.FormatTimestamp(time.Now())
	} else if _, err := models.ParseTimestamp(timestamp); err != nil {
		return -1, err
	}

	id, err := s.devices.Allocate(timestamp, site)
	if err != nil {
		return -1, fmt.Errorf("failed to allocate device: %w", err)
	}
	return id, nil
}

// RecordTransfer validates and stores a BLOCK transaction. Devices with a
// registered public key must present a verifying signature; keyless
// devices store the signature as submitted. A destruct transfer marks the
// device destroyed, after which further transfers are rejected.
func (s *LedgerService) RecordTransfer(b transaction.Block) (*models.Transfer, error) {
	if err := validateSiteName(b.Site); err != nil {
		return nil, err
	}

	device, err := s.devices.GetByID(b.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	if device == nil {
		return nil, fmt.Errorf("device %d: %w", b.DeviceID, ErrDeviceNotFound)
	}
	if device.Destroyed {
		return nil, fmt.Errorf("device %d: %w", b.DeviceID, ErrDeviceDestroyed)
	}

	if device.PublicKey != nil {
		pub, err := signature.DecodePublicKey(*device.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", b.DeviceID, err)
		}
		digest := signature.TransferDigest(b.DeviceID, b.Site, b.Timestamp, b.Destruct)
		if err := signature.Verify(pub, digest, b.Signature); err != nil {
			return nil, fmt.Errorf("device %d: %w", b.DeviceID, err)
		}
	}

	transfer := models.Transfer{
		DeviceID:   b.DeviceID,
		Site:       b.Site,
		RecordedAt: b.Timestamp,
		Destruct:   b.Destruct,
		Signature:  b.Signature,
	}

	// Insert and the destroyed flag must land together, or a destruct
	// transfer could be recorded while the device stays transferable.
	err = database.Transaction(s.db, func(tx *sql.Tx) error {
		if err := s.transfers.WithTx(tx).Insert(&transfer); err != nil {
			return fmt.Errorf("failed to record transfer: %w", err)
		}
		if b.Destruct {
			if err := s.devices.WithTx(tx).MarkDestroyed(b.DeviceID); err != nil {
				return fmt.Errorf("failed to mark device destroyed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &transfer, nil
}

// RegisterKey stores the PEM public key transfer signatures for the device
// are verified against. The key must decode as an ECDSA public key.
func (s *LedgerService) RegisterKey(deviceID int64, publicKeyPEM string) error {
	if _, err := signature.DecodePublicKey(publicKeyPEM); err != nil {
		return err
	}

	device, err := s.devices.GetByID(deviceID)
	if err != nil {
		return fmt.Errorf("failed to load device: %w", err)
	}
	if device == nil {
		return fmt.Errorf("device %d: %w", deviceID, ErrDeviceNotFound)
	}

	return s.devices.SetPublicKey(deviceID, publicKeyPEM)
}

// History returns the custody trail of a device in chronological order.
func (s *LedgerService) History(deviceID int64) ([]models.CustodyEntry, error) {
	device, err := s.devices.GetByID(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	if device == nil {
		return nil, fmt.Errorf("device %d: %w", deviceID, ErrDeviceNotFound)
	}

	transfers, err := s.transfers.HistoryByDevice(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	entries := make([]models.CustodyEntry, 0, len(transfers))
	for _, t := range transfers {
		ts, err := models.ParseTimestamp(t.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("stored transfer %d: %w", t.ID, err)
		}
		entries = append(entries, models.CustodyEntry{Site: t.Site, Timestamp: ts})
	}

	return entries, nil
}

// Count returns the highest assigned device id, -1 when none are
// allocated. Device ids 0..Count() are assigned.
func (s *LedgerService) Count() (int64, error) {
	return s.devices.HighestID()
}
