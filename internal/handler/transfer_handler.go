package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/itemtrace/custody-backend-go/internal/models"
	"github.com/itemtrace/custody-backend-go/internal/service"
	"github.com/itemtrace/custody-backend-go/internal/signature"
	"github.com/itemtrace/custody-backend-go/internal/transaction"
	"github.com/itemtrace/custody-backend-go/pkg/response"
)

// TransferHandler handles HTTP requests that mutate and query the custody
// ledger: JSON transfers, raw wire-format transactions, and wire-format
// queries.
type TransferHandler struct {
	ledger *service.LedgerService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(ledger *service.LedgerService) *TransferHandler {
	return &TransferHandler{ledger: ledger}
}

type createTransferRequest struct {
	DeviceID  *int64 `json:"deviceId" binding:"required"`
	Site      string `json:"site" binding:"required"`
	Timestamp string `json:"timestamp" binding:"required"`
	Destruct  bool   `json:"destruct"`
	Signature string `json:"signature" binding:"required"`
}

type rawTxRequest struct {
	Tx string `json:"tx" binding:"required"`
}

// Create handles POST /api/v1/transfers
func (h *TransferHandler) Create(c *gin.Context) {
	var req createTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := models.ParseTimestamp(req.Timestamp); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.ledger.RecordTransfer(transaction.Block{
		DeviceID:  *req.DeviceID,
		Site:      req.Site,
		Timestamp: req.Timestamp,
		Destruct:  req.Destruct,
		Signature: req.Signature,
	})
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	response.Created(c, transfer)
}

// SubmitTx handles POST /api/v1/tx with a raw wire-format transaction.
func (h *TransferHandler) SubmitTx(c *gin.Context) {
	var req rawTxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	parsed, err := transaction.Parse(req.Tx)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	switch tx := parsed.(type) {
	case transaction.Block:
		transfer, err := h.ledger.RecordTransfer(tx)
		if err != nil {
			h.writeLedgerError(c, err)
			return
		}
		response.Created(c, gin.H{"transferId": transfer.ID})

	case transaction.Allocate:
		id, err := h.ledger.Allocate(tx.Site, tx.Timestamp)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		response.Created(c, gin.H{"deviceId": id})
	}
}

// Query handles GET /api/v1/query?q=HISTORY%3D5 or ?q=NUMBER. Responses
// mirror the ledger's wire encoding: HISTORY values are the
// site1=ts1=site2=ts2 form.
func (h *TransferHandler) Query(c *gin.Context) {
	q, err := transaction.ParseQuery(c.Query("q"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	switch q.Tag {
	case transaction.TagNumber:
		highest, err := h.ledger.Count()
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		response.Success(c, gin.H{"value": highest})

	case transaction.TagHistory:
		entries, err := h.ledger.History(q.DeviceID)
		if err != nil {
			if errors.Is(err, service.ErrDeviceNotFound) {
				response.NotFound(c, "Device not found")
				return
			}
			response.InternalError(c, err.Error())
			return
		}
		response.Success(c, gin.H{
			"key":   q.DeviceID,
			"value": transaction.EncodeHistory(entries),
		})
	}
}

func (h *TransferHandler) writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDeviceNotFound):
		response.NotFound(c, "Device not found")
	case errors.Is(err, service.ErrDeviceDestroyed):
		response.Conflict(c, err.Error())
	case errors.Is(err, signature.ErrInvalidSignature), errors.Is(err, signature.ErrInvalidKey),
		errors.Is(err, service.ErrInvalidSite):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
