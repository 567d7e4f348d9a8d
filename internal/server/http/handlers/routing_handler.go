package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/server/http/dto"
	"github.com/orderdesk/orderdesk/internal/usecase"
)

// RoutingHandler applies routing actions to order products and samples.
type RoutingHandler struct {
	facade RoutingFacade
}

// NewRoutingHandler constructs RoutingHandler.
func NewRoutingHandler(facade RoutingFacade) *RoutingHandler {
	return &RoutingHandler{facade: facade}
}

// BulkRoute handles POST /api/orders/:id/route.
func (h *RoutingHandler) BulkRoute(c *gin.Context) {
	session := CurrentSession(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.BulkRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	action, ok := model.ParseRouteAction(req.Action)
	if !ok {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	result, err := h.facade.BulkRoute(c.Request.Context(), session, usecase.BulkRouteCommand{
		OrderID:    orderID,
		ProductIDs: req.ProductIDs,
		Action:     action,
		Notes:      req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUnknownRouteAction):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrEmptySelection):
			// The selection may have been emptied by validation; report the
			// per-product reasons when we have them.
			if result != nil {
				c.JSON(http.StatusUnprocessableEntity, toBulkRouteResponse(result))
				return
			}
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toBulkRouteResponse(result))
}

// RouteSample handles POST /api/orders/:id/sample/route.
func (h *RoutingHandler) RouteSample(c *gin.Context) {
	session := CurrentSession(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.SampleRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	target, ok := model.ParseCustodian(req.Target)
	if !ok {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	err := h.facade.RouteSample(c.Request.Context(), session, orderID, target, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrForbiddenTransition):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}

func toBulkRouteResponse(result *usecase.BulkRouteResult) dto.BulkRouteResponse {
	resp := dto.BulkRouteResponse{Routed: result.Routed}
	if resp.Routed == nil {
		resp.Routed = []int64{}
	}
	for _, s := range result.Skipped {
		resp.Skipped = append(resp.Skipped, dto.SkippedProduct{ProductID: s.ProductID, Reason: s.Err.Error()})
	}
	return resp
}
