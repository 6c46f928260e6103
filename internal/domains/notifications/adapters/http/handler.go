package http

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopsphere/commerce-api/internal/domains/notifications/application"
	apierrors "github.com/shopsphere/commerce-api/internal/shared/errors"
	"github.com/shopsphere/commerce-api/internal/shared/httpauth"
)

// RegisterTokenRequest is the POST /fcmToken payload.
type RegisterTokenRequest struct {
	UserID   string `json:"userId" binding:"required"`
	FCMToken string `json:"fcmToken" binding:"required"`
	Role     string `json:"role"`
}

// NotificationAPI wires the device-token routes.
type NotificationAPI struct {
	service *application.Service
}

func NewNotificationAPI(service *application.Service) NotificationAPI {
	return NotificationAPI{service: service}
}

// Post /fcmToken
// Register a device token for push delivery
func (api *NotificationAPI) RegisterToken(c *gin.Context) {
	var payload RegisterTokenRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	role := payload.Role
	if claimed := httpauth.RoleFromContext(c); claimed != "" {
		role = claimed
	}
	if err := api.service.RegisterToken(c.Request.Context(), payload.UserID, role, payload.FCMToken); err != nil {
		if errors.Is(err, application.ErrInvalidInput) {
			apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
			return
		}
		apierrors.Respond(c, apierrors.ErrInternal.WithDetail(err.Error()))
		return
	}
	c.Status(nethttp.StatusOK)
}
