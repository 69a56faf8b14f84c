package httpapi

import (
	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the handler routes. An origins list of ["*"] allows any
// origin, an empty list disables CORS.
func NewRouter(h *Handler, secret []byte, origins []string, logger logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	if len(origins) > 0 {
		cfg := cors.DefaultConfig()
		if len(origins) == 1 && origins[0] == "*" {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}
		cfg.AddAllowHeaders(common.AuthorizationHeaderName)
		r.Use(cors.New(cfg))
	}

	r.GET("/ping", h.Ping)

	api := r.Group("/api", Authenticate(secret, logger))

	api.GET("/posts", h.ListFeed)
	api.POST("/posts", h.CreatePost)
	api.POST("/posts/:id/like", h.LikePost)
	api.DELETE("/posts/:id", h.DeletePost)

	api.GET("/notifications", h.ListNotifications)
	api.DELETE("/notifications/:id", h.DeleteNotification)

	api.POST("/me", h.SyncUser)
	api.POST("/me/avatar/upload-url", h.AvatarUploadURL)
	api.PUT("/me/avatar", h.SetAvatar)

	api.GET("/users/suggestions", h.WhoToFollow)
	api.GET("/users/:id", h.GetUser)
	api.GET("/users/:id/avatar", h.Avatar)
	api.POST("/users/:id/follow", h.FollowToggle)

	return r
}
