package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/orderdesk/internal/server/http/dto"
)

// NotificationHandler lists the session user's notifications.
type NotificationHandler struct {
	facade NotificationFacade
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(facade NotificationFacade) *NotificationHandler {
	return &NotificationHandler{facade: facade}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	session := CurrentSession(c)
	notifications, err := h.facade.Notifications(c.Request.Context(), session.UserID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(notifications) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		response = append(response, dto.NotificationResponse{
			ID:        n.ID,
			Kind:      n.Kind,
			Subject:   n.Subject,
			Status:    string(n.Status),
			CreatedAt: n.CreatedAt,
			SentAt:    n.SentAt,
		})
	}
	c.JSON(http.StatusOK, response)
}
