package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SyncUser(c *gin.Context) {
	user, err := h.users.SyncUser(c.Request.Context(), caller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) WhoToFollow(c *gin.Context) {
	list, err := h.users.WhoToFollow(c.Request.Context(), caller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// FollowToggle answers {error:false,following} or {error:true,message}.
func (h *Handler) FollowToggle(c *gin.Context) {
	ctx := c.Request.Context()

	following, err := h.users.FollowToggle(ctx, caller(c), c.Param("id"))
	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			h.logger.Error(ctx, "error toggling follow", "target", c.Param("id"), "error", err)
			msg = msgToggleFailed
		}
		c.JSON(status, followResponse{Error: true, Message: msg})
		return
	}

	c.JSON(http.StatusOK, followResponse{Following: following})
}

func (h *Handler) AvatarUploadURL(c *gin.Context) {
	key, url, err := h.media.AvatarUploadURL(c.Request.Context(), caller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, uploadURLResponse{Key: key, URL: url})
}

func (h *Handler) SetAvatar(c *gin.Context) {
	var req setAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: common.ErrorValidation.Error()})
		return
	}

	if err := h.users.SetAvatar(c.Request.Context(), caller(c), req.Key); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Avatar redirects to the user's avatar: a short-lived download URL for an
// uploaded image, or the identity provider's picture.
func (h *Handler) Avatar(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.users.GetUser(ctx, caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if user.Image == "" {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no avatar"})
		return
	}

	url, err := h.media.AvatarURL(ctx, user.ID, user.Image)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
