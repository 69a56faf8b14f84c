package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	msgCreateFailed      = "An error occurred while creating the post"
	msgUnauthorized      = "Unauthorized"
	msgPostNotFound      = "Post not found"
	msgPostOwnerNotFound = "Post owner not found"
	msgToggleFailed      = "An error occurred"

	deleteUnexisting   = "unexisting"
	deleteUnauthorized = "unauthorized"
	deleteFailed       = "failed"
)

// CreatePost answers {success:true,data} or {success:false,error}.
func (h *Handler) CreatePost(c *gin.Context) {
	ctx := c.Request.Context()

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, createPostResponse{Error: msgCreateFailed})
		return
	}

	post, err := h.posts.CreatePost(ctx, caller(c), services.CreatePostInput{
		Body:     req.Body,
		Category: req.Category,
		Image:    req.Image,
	})
	if err != nil {
		h.logger.Error(ctx, "error creating post", "error", err)
		c.JSON(statusFor(err), createPostResponse{Error: msgCreateFailed})
		return
	}

	c.JSON(http.StatusCreated, createPostResponse{Success: true, Data: post})
}

func (h *Handler) ListFeed(c *gin.Context) {
	posts, err := h.posts.ListFeed(c.Request.Context(), caller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// LikePost answers {error:false,message} or {error:true,message}.
func (h *Handler) LikePost(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := h.posts.LikePostToggle(ctx, caller(c), c.Param("id"))
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, common.ErrorUnauthenticated):
			msg = msgUnauthorized
		case errors.Is(err, services.ErrPostOwnerNotFound):
			msg = msgPostOwnerNotFound
		case errors.Is(err, services.ErrPostNotFound):
			msg = msgPostNotFound
		default:
			h.logger.Error(ctx, "error toggling like", "post_id", c.Param("id"), "error", err)
			msg = msgToggleFailed
		}
		c.JSON(statusFor(err), toggleResponse{Error: true, Message: msg})
		return
	}

	c.JSON(http.StatusOK, toggleResponse{Message: res.Message()})
}

// DeletePost answers 204 or {error:"unexisting"|"unauthorized"|"failed"}.
func (h *Handler) DeletePost(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.posts.DeletePost(ctx, caller(c), c.Param("id"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, services.ErrPostNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: deleteUnexisting})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusForbidden, errorResponse{Error: deleteUnauthorized})
	default:
		h.logger.Error(ctx, "error deleting post", "post_id", c.Param("id"), "error", err)
		c.JSON(statusFor(err), errorResponse{Error: deleteFailed})
	}
}
