package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itemtrace/custody-backend-go/internal/service"
	"github.com/itemtrace/custody-backend-go/internal/signature"
	"github.com/itemtrace/custody-backend-go/pkg/response"
)

// DeviceHandler handles HTTP requests for device allocation and queries
type DeviceHandler struct {
	ledger *service.LedgerService
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(ledger *service.LedgerService) *DeviceHandler {
	return &DeviceHandler{ledger: ledger}
}

type allocateRequest struct {
	Site      string `json:"site" binding:"required"`
	Timestamp string `json:"timestamp"`
}

type registerKeyRequest struct {
	PublicKey string `json:"publicKey" binding:"required"`
}

// Allocate handles POST /api/v1/devices
func (h *DeviceHandler) Allocate(c *gin.Context) {
	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	id, err := h.ledger.Allocate(req.Site, req.Timestamp)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Created(c, gin.H{"deviceId": id})
}

// Count handles GET /api/v1/devices/count. The value is the highest
// assigned device id; ids 0..value are allocated, -1 means none.
func (h *DeviceHandler) Count(c *gin.Context) {
	highest, err := h.ledger.Count()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"value": highest})
}

// History handles GET /api/v1/devices/:id/history
func (h *DeviceHandler) History(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid device ID")
		return
	}

	entries, err := h.ledger.History(id)
	if err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			response.NotFound(c, "Device not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deviceId": id, "history": entries})
}

// RegisterKey handles PUT /api/v1/devices/:id/key
func (h *DeviceHandler) RegisterKey(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid device ID")
		return
	}

	var req registerKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.ledger.RegisterKey(id, req.PublicKey); err != nil {
		switch {
		case errors.Is(err, service.ErrDeviceNotFound):
			response.NotFound(c, "Device not found")
		case errors.Is(err, signature.ErrInvalidKey):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err.Error())
		}
		return
	}

	response.Success(c, gin.H{"deviceId": id})
}
