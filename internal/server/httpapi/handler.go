// Package httpapi exposes the services over HTTP with gin. Handlers resolve
// the caller from the bearer token, call one service operation and render
// its outcome in the operation's result shape.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/dmitrijs2005/learnfeed/internal/server/auth"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"github.com/dmitrijs2005/learnfeed/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Posts interface {
	CreatePost(ctx context.Context, caller *auth.Principal, in services.CreatePostInput) (*models.Post, error)
	LikePostToggle(ctx context.Context, caller *auth.Principal, postID string) (services.ToggleResult, error)
	DeletePost(ctx context.Context, caller *auth.Principal, postID string) error
	ListFeed(ctx context.Context, caller *auth.Principal) ([]*models.Post, error)
}

type Notifications interface {
	DeleteNotification(ctx context.Context, caller *auth.Principal, id string) error
	ListNotifications(ctx context.Context, caller *auth.Principal) ([]*models.Notification, error)
}

type Users interface {
	SyncUser(ctx context.Context, caller *auth.Principal) (*models.User, error)
	GetUser(ctx context.Context, caller *auth.Principal, id string) (*models.User, error)
	WhoToFollow(ctx context.Context, caller *auth.Principal) ([]*models.User, error)
	FollowToggle(ctx context.Context, caller *auth.Principal, targetID string) (bool, error)
	SetAvatar(ctx context.Context, caller *auth.Principal, key string) error
}

type Media interface {
	AvatarUploadURL(ctx context.Context, caller *auth.Principal) (string, string, error)
	AvatarURL(ctx context.Context, userID, ref string) (string, error)
}

type Handler struct {
	posts         Posts
	notifications Notifications
	users         Users
	media         Media
	logger        logging.Logger
}

func NewHandler(p Posts, n Notifications, u Users, m Media, logger logging.Logger) *Handler {
	return &Handler{
		posts:         p,
		notifications: n,
		users:         u,
		media:         m,
		logger:        logger.With("module", "http_api"),
	}
}

func caller(c *gin.Context) *auth.Principal {
	return auth.PrincipalFromContext(c.Request.Context())
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes the plain {error} shape. Internal failures are
// reported without detail.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		msg = common.ErrorInternal.Error()
	}
	c.JSON(status, errorResponse{Error: msg})
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
