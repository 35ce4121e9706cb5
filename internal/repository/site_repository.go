package repository

import (
	"database/sql"
	"fmt"

	"github.com/itemtrace/custody-backend-go/internal/models"
)

// SiteRepository handles database operations for the site registry
type SiteRepository struct {
	db *sql.DB
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(db *sql.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// Upsert registers a site or updates its coordinates.
func (r *SiteRepository) Upsert(site models.Site) error {
	_, err := r.db.Exec(
		`INSERT INTO sites (name, latitude, longitude) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET latitude = excluded.latitude, longitude = excluded.longitude`,
		site.Name, site.Latitude, site.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert site: %w", err)
	}
	return nil
}

// GetByName retrieves a site by name, nil when it is not registered.
func (r *SiteRepository) GetByName(name string) (*models.Site, error) {
	var s models.Site
	err := r.db.QueryRow(
		"SELECT name, latitude, longitude, created_at FROM sites WHERE name = ?", name,
	).Scan(&s.Name, &s.Latitude, &s.Longitude, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return &s, nil
}

// List returns all registered sites ordered by name.
func (r *SiteRepository) List() ([]models.Site, error) {
	rows, err := r.db.Query("SELECT name, latitude, longitude, created_at FROM sites ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		var s models.Site
		if err := rows.Scan(&s.Name, &s.Latitude, &s.Longitude, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}

	return sites, nil
}
