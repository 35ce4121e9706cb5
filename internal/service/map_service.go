package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itemtrace/custody-backend-go/internal/models"
	"github.com/itemtrace/custody-backend-go/internal/repository"
	"github.com/itemtrace/custody-backend-go/internal/spatial"
)

const popupTimeLayout = "2006-01-02 15:04:05"

// MapService assembles the template payload for the device map page: the
// device's custody trail joined against the site registry, one marker per
// entry whose site has registered coordinates.
type MapService struct {
	ledger      *LedgerService
	sites       *repository.SiteRepository
	defaultLat  float64
	defaultLon  float64
	defaultZoom int
}

// NewMapService creates a new map service
func NewMapService(ledger *LedgerService, sites *repository.SiteRepository, defaultLat, defaultLon float64, defaultZoom int) *MapService {
	return &MapService{
		ledger:      ledger,
		sites:       sites,
		defaultLat:  defaultLat,
		defaultLon:  defaultLon,
		defaultZoom: defaultZoom,
	}
}

// EmptyPage is the payload for the map page before any device is queried.
func (s *MapService) EmptyPage() models.MapPage {
	return models.MapPage{
		CenterLat: s.defaultLat,
		CenterLon: s.defaultLon,
		Zoom:      s.defaultZoom,
	}
}

// BuildPage builds the map page for the raw form input. Invalid or unknown
// device ids render as the empty page with an error banner; the page
// itself never fails.
func (s *MapService) BuildPage(input string) models.MapPage {
	page := s.EmptyPage()
	page.DeviceID = strings.TrimSpace(input)
	if page.DeviceID == "" {
		return page
	}

	id, err := strconv.ParseInt(page.DeviceID, 10, 64)
	if err != nil || id < 0 {
		page.Error = fmt.Sprintf("invalid device id %q", page.DeviceID)
		return page
	}

	entries, err := s.ledger.History(id)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			page.Error = fmt.Sprintf("device %d is not allocated", id)
		} else {
			page.Error = "failed to load device history"
		}
		return page
	}

	for _, entry := range entries {
		site, err := s.sites.GetByName(entry.Site)
		if err != nil {
			page.Error = "failed to load site registry"
			return page
		}
		if site == nil {
			// No coordinates registered, nothing to pin.
			continue
		}
		page.Markers = append(page.Markers, models.Marker{
			Lat:   site.Latitude,
			Lon:   site.Longitude,
			Popup: fmt.Sprintf("%s · %s", entry.Site, entry.Timestamp.Format(popupTimeLayout)),
		})
	}

	if lat, lon, ok := spatial.Centroid(page.Markers); ok {
		page.CenterLat = lat
		page.CenterLon = lon
	}
	page.RouteMeters = spatial.PathLength(page.Markers)

	return page
}
