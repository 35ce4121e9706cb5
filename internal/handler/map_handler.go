package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/itemtrace/custody-backend-go/internal/service"
	"github.com/itemtrace/custody-backend-go/pkg/response"
)

// MapHandler serves the server-rendered Leaflet map page.
type MapHandler struct {
	maps    *service.MapService
	baseURL string
}

// NewMapHandler creates a new map handler
func NewMapHandler(maps *service.MapService, baseURL string) *MapHandler {
	return &MapHandler{maps: maps, baseURL: baseURL}
}

// Index handles GET / with an empty map.
func (h *MapHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "map.html", h.maps.EmptyPage())
}

// Plot handles the form POST /plot with the device id in `input_value`.
func (h *MapHandler) Plot(c *gin.Context) {
	c.HTML(http.StatusOK, "map.html", h.maps.BuildPage(c.PostForm("input_value")))
}

// PlotByID handles GET /plot/:id, the shareable link the QR code points
// at.
func (h *MapHandler) PlotByID(c *gin.Context) {
	c.HTML(http.StatusOK, "map.html", h.maps.BuildPage(c.Param("id")))
}

// QR handles GET /plot/:id/qr with a PNG QR code of the device map URL.
func (h *MapHandler) QR(c *gin.Context) {
	idStr := c.Param("id")
	if _, err := strconv.ParseInt(idStr, 10, 64); err != nil {
		response.BadRequest(c, "Invalid device ID")
		return
	}

	png, err := qrcode.Encode(h.baseURL+"/plot/"+idStr, qrcode.Medium, 256)
	if err != nil {
		response.InternalError(c, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
