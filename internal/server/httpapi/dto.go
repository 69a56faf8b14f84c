package httpapi

import "github.com/dmitrijs2005/learnfeed/internal/server/models"

type createPostRequest struct {
	Body     string          `json:"body"`
	Category models.Category `json:"category"`
	Image    *string         `json:"image"`
}

type createPostResponse struct {
	Success bool         `json:"success"`
	Data    *models.Post `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type toggleResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type followResponse struct {
	Error     bool   `json:"error"`
	Following bool   `json:"following"`
	Message   string `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type uploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type setAvatarRequest struct {
	Key string `json:"key" binding:"required"`
}
