package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/export"
	"github.com/orderdesk/orderdesk/internal/server/http/dto"
	"github.com/orderdesk/orderdesk/internal/usecase"
)

// InvoiceHandler manages invoice endpoints.
type InvoiceHandler struct {
	facade InvoiceFacade
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(facade InvoiceFacade) *InvoiceHandler {
	return &InvoiceHandler{facade: facade}
}

// Create handles POST /api/invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	session := CurrentSession(c)

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	cmd := usecase.CreateInvoiceCommand{
		OrderID:     req.OrderID,
		ProductIDs:  req.ProductIDs,
		PaymentLink: req.PaymentLink,
	}
	for _, line := range req.CustomLines {
		cmd.CustomLines = append(cmd.CustomLines, usecase.CustomLine{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	invoice, err := h.facade.CreateInvoice(c.Request.Context(), session, cmd)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrAlreadyInvoiced):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrEmptySelection), errors.Is(err, domainErrors.ErrInvalidAmount):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(*invoice))
}

// Get handles GET /api/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	session := CurrentSession(c)
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	invoice, items, err := h.facade.Invoice(c.Request.Context(), session, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceDetailResponse(*invoice, items))
}

// List handles GET /api/invoices. Admins pass ?client_id=N; clients always
// get their own.
func (h *InvoiceHandler) List(c *gin.Context) {
	session := CurrentSession(c)

	var clientID int64
	if raw := c.Query("client_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.Status(http.StatusBadRequest)
			return
		}
		clientID = parsed
	}

	invoices, err := h.facade.Invoices(c.Request.Context(), session, clientID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if len(invoices) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		response = append(response, dto.ToInvoiceResponse(inv))
	}
	c.JSON(http.StatusOK, response)
}

// Send handles POST /api/invoices/:id/send.
func (h *InvoiceHandler) Send(c *gin.Context) {
	session := CurrentSession(c)
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	messageID, recipient, err := h.facade.SendInvoice(c.Request.Context(), session, id)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrMailerNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			h.writeError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, dto.EmailResponse{MessageID: messageID, Recipient: recipient})
}

// Export handles GET /api/invoices/:id/export and streams an xlsx workbook.
func (h *InvoiceHandler) Export(c *gin.Context) {
	session := CurrentSession(c)
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	invoice, items, err := h.facade.Invoice(c.Request.Context(), session, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, "Invoice", export.InvoiceHeaders, export.InvoiceRows(invoice, items)); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", invoice.Number))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *InvoiceHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrForbidden):
		c.Status(http.StatusForbidden)
	default:
		c.Status(http.StatusInternalServerError)
	}
}
