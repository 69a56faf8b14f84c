package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	msgNotificationNotFound = "Notification not found"
	msgNotificationFailed   = "Failed to delete notification"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.notifications.ListNotifications(c.Request.Context(), caller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.notifications.DeleteNotification(ctx, caller(c), c.Param("id"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, services.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: msgNotificationNotFound})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusForbidden, errorResponse{Error: msgUnauthorized})
	default:
		h.logger.Error(ctx, "error deleting notification", "notification_id", c.Param("id"), "error", err)
		c.JSON(statusFor(err), errorResponse{Error: msgNotificationFailed})
	}
}
