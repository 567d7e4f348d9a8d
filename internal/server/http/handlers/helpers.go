package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/server/http/middleware"
)

// CurrentSession extracts the authenticated session from context.
func CurrentSession(c *gin.Context) model.Session {
	val, ok := c.Get(middleware.SessionContextKey)
	if !ok {
		return model.Session{}
	}
	session, _ := val.(model.Session)
	return session
}

// pathID parses a numeric path parameter; ok is false on garbage.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
