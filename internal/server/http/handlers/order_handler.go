package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/domain/repository"
	"github.com/orderdesk/orderdesk/internal/server/http/dto"
	"github.com/orderdesk/orderdesk/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	session := CurrentSession(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	cmd := usecase.CreateOrderCommand{
		ClientID:       req.ClientID,
		ManufacturerID: req.ManufacturerID,
	}
	for _, p := range req.Products {
		np := repository.NewProduct{
			Name:              p.Name,
			SKU:               p.SKU,
			ManufacturerPrice: p.ManufacturerPrice,
			ClientPrice:       p.ClientPrice,
		}
		for _, item := range p.Items {
			np.Items = append(np.Items, model.OrderItem{Quantity: item.Quantity, Variant: item.Variant})
		}
		cmd.Products = append(cmd.Products, np)
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), session, cmd)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		case errors.Is(err, domainErrors.ErrEmptySelection), errors.Is(err, domainErrors.ErrInvalidAmount):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderResponse(*order, session.Role))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	session := CurrentSession(c)
	orders, err := h.facade.Orders(c.Request.Context(), session)
	if err != nil {
		if errors.Is(err, domainErrors.ErrForbidden) {
			c.Status(http.StatusForbidden)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.ToOrderResponse(o, session.Role))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	session := CurrentSession(c)
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.Order(c.Request.Context(), session, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(*order, session.Role))
}

// Products handles GET /api/orders/:id/products.
func (h *OrderHandler) Products(c *gin.Context) {
	session := CurrentSession(c)
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	products, err := h.facade.OrderProducts(c.Request.Context(), session, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, dto.ToProductResponse(p, session.Role))
	}
	c.JSON(http.StatusOK, response)
}

// Audit handles GET /api/orders/:id/audit.
func (h *OrderHandler) Audit(c *gin.Context) {
	session := CurrentSession(c)
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	entries, err := h.facade.AuditTrail(c.Request.Context(), session, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, dto.AuditEntryResponse{
			ActorID:   e.ActorID,
			ActorRole: string(e.ActorRole),
			Action:    e.Action,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Email handles POST /api/orders/:id/email.
func (h *OrderHandler) Email(c *gin.Context) {
	session := CurrentSession(c)
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.OrderEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	messageID, recipient, err := h.facade.SendOrderEmail(c.Request.Context(), session, id, usecase.OrderEmailOptions{
		Subject:       req.Subject,
		CustomMessage: req.CustomMessage,
		ShowPricing:   req.ShowPricing,
	})
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

func (h *OrderHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrForbidden):
		c.Status(http.StatusForbidden)
	default:
		c.Status(http.StatusInternalServerError)
	}
}
