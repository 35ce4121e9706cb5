package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/itemtrace/custody-backend-go/internal/models"
	"github.com/itemtrace/custody-backend-go/internal/service"
	"github.com/itemtrace/custody-backend-go/pkg/response"
)

// SiteHandler handles HTTP requests for the site registry
type SiteHandler struct {
	sites *service.SiteService
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(sites *service.SiteService) *SiteHandler {
	return &SiteHandler{sites: sites}
}

// Coordinates are pointers so 0 degrees binds without tripping
// `required`.
type createSiteRequest struct {
	Name      string   `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// Create handles POST /api/v1/sites
func (h *SiteHandler) Create(c *gin.Context) {
	var req createSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	site := models.Site{Name: req.Name, Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := h.sites.Register(site); err != nil {
		if errors.Is(err, service.ErrInvalidSite) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Created(c, site)
}

// List handles GET /api/v1/sites
func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.sites.List()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"data": sites, "count": len(sites)})
}
