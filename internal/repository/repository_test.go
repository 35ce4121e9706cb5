package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/itemtrace/custody-backend-go/internal/database"
	"github.com/itemtrace/custody-backend-go/internal/models"
)

// openTestDB opens an in-memory sqlite database with the embedded schema
// applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrationManager(db).RunMigrations())
	return db
}

func TestDeviceAllocateSequence(t *testing.T) {
	db := openTestDB(t)
	repo := NewDeviceRepository(db)

	for want := int64(0); want < 3; want++ {
		id, err := repo.Allocate("250817093041123456", "Lab 3")
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	highest, err := repo.HighestID()
	require.NoError(t, err)
	assert.Equal(t, int64(2), highest)
}

func TestDeviceHighestIDEmpty(t *testing.T) {
	db := openTestDB(t)
	repo := NewDeviceRepository(db)

	highest, err := repo.HighestID()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), highest)
}

func TestDeviceGetAndKeys(t *testing.T) {
	db := openTestDB(t)
	repo := NewDeviceRepository(db)

	id, err := repo.Allocate("250817093041123456", "Lab 3")
	require.NoError(t, err)

	d, err := repo.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Lab 3", d.OriginSite)
	assert.Nil(t, d.PublicKey)
	assert.False(t, d.Destroyed)

	missing, err := repo.GetByID(999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.SetPublicKey(id, "-----BEGIN PUBLIC KEY-----..."))
	d, err = repo.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, d.PublicKey)

	assert.Error(t, repo.SetPublicKey(999, "pem"))

	require.NoError(t, repo.MarkDestroyed(id))
	d, err = repo.GetByID(id)
	require.NoError(t, err)
	assert.True(t, d.Destroyed)
}

func TestTransferHistoryOrder(t *testing.T) {
	db := openTestDB(t)
	devices := NewDeviceRepository(db)
	transfers := NewTransferRepository(db)

	id, err := devices.Allocate("250817093041123456", "Lab 3")
	require.NoError(t, err)

	// Insert out of chronological order.
	for _, ts := range []string{"250819120000000000", "250817093041123456", "250818060000500000"} {
		tr := models.Transfer{DeviceID: id, Site: "S-" + ts, RecordedAt: ts, Signature: "aa"}
		require.NoError(t, transfers.Insert(&tr))
		assert.Positive(t, tr.ID)
	}

	history, err := transfers.HistoryByDevice(id)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "250817093041123456", history[0].RecordedAt)
	assert.Equal(t, "250818060000500000", history[1].RecordedAt)
	assert.Equal(t, "250819120000000000", history[2].RecordedAt)

	empty, err := transfers.HistoryByDevice(999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTransactionRollsBack(t *testing.T) {
	db := openTestDB(t)
	devices := NewDeviceRepository(db)
	transfers := NewTransferRepository(db)

	id, err := devices.Allocate("250817093041123456", "Lab 3")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = database.Transaction(db, func(tx *sql.Tx) error {
		tr := models.Transfer{DeviceID: id, Site: "Harbor", RecordedAt: "250818060000000000", Signature: "aa"}
		if err := transfers.WithTx(tx).Insert(&tr); err != nil {
			return err
		}
		if err := devices.WithTx(tx).MarkDestroyed(id); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Neither statement survived the rollback.
	history, err := transfers.HistoryByDevice(id)
	require.NoError(t, err)
	assert.Empty(t, history)

	d, err := devices.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.False(t, d.Destroyed)
}

func TestSiteUpsertAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewSiteRepository(db)

	require.NoError(t, repo.Upsert(models.Site{Name: "Lab 3", Latitude: 52.1, Longitude: 5.3}))
	require.NoError(t, repo.Upsert(models.Site{Name: "Harbor", Latitude: 51.9, Longitude: 4.4}))

	// Upsert overwrites coordinates.
	require.NoError(t, repo.Upsert(models.Site{Name: "Lab 3", Latitude: 52.2, Longitude: 5.4}))

	s, err := repo.GetByName("Lab 3")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 52.2, s.Latitude)
	assert.Equal(t, 5.4, s.Longitude)

	missing, err := repo.GetByName("Nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)

	sites, err := repo.List()
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "Harbor", sites[0].Name)
	assert.Equal(t, "Lab 3", sites[1].Name)
}
