// Package handlers implements the HTTP endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"podscribe/internal/api/errors"
	"podscribe/internal/api/middleware"
	"podscribe/internal/api/v1/dto"
	"podscribe/internal/api/v1/services"
)

// TranscriptionHandler serves the transcription endpoint.
type TranscriptionHandler struct {
	service *services.TranscriptionService
}

func NewTranscriptionHandler(service *services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{service: service}
}

// Create runs the pipeline for the posted episode URL. The request is
// synchronous; the connection stays open for the duration of the run and the
// client's disconnect cancels it.
func (h *TranscriptionHandler) Create(c *gin.Context) {
	var req dto.TranscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("request body must contain a url field"))
		return
	}

	resp, err := h.service.Transcribe(c.Request.Context(), req.URL)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
