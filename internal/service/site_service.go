package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itemtrace/custody-backend-go/internal/models"
	"github.com/itemtrace/custody-backend-go/internal/repository"
)

// ErrInvalidSite reports a site name or registration that fails
// validation.
var ErrInvalidSite = errors.New("invalid site")

// validateSiteName enforces the naming rule shared by registration and
// the ledger: the wire format reserves '=' as a field separator, so site
// names must be non-empty and must not contain it.
func validateSiteName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSite)
	}
	if strings.Contains(name, "=") {
		return fmt.Errorf("%w: name must not contain '='", ErrInvalidSite)
	}
	return nil
}

// SiteService handles business logic for the site registry
type SiteService struct {
	sites *repository.SiteRepository
}

// NewSiteService creates a new site service
func NewSiteService(sites *repository.SiteRepository) *SiteService {
	return &SiteService{sites: sites}
}

// Register validates and stores a site.
func (s *SiteService) Register(site models.Site) error {
	site.Name = strings.TrimSpace(site.Name)
	if err := validateSiteName(site.Name); err != nil {
		return err
	}
	if site.Latitude < -90 || site.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidSite, site.Latitude)
	}
	if site.Longitude < -180 || site.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidSite, site.Longitude)
	}

	if err := s.sites.Upsert(site); err != nil {
		return fmt.Errorf("failed to register site: %w", err)
	}
	return nil
}

// List returns all registered sites.
func (s *SiteService) List() ([]models.Site, error) {
	sites, err := s.sites.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}
