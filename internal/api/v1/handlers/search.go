package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"podscribe/internal/api/errors"
	"podscribe/internal/api/middleware"
	"podscribe/internal/api/v1/services"
)

const defaultSearchLimit = 10

// SearchHandler serves the episode search endpoint.
type SearchHandler struct {
	service *services.SearchService
}

func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search answers GET /episodes/search?q=...&limit=...
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		middleware.HandleError(c, errors.NewBadRequestError("query parameter q is required"))
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			middleware.HandleError(c, errors.NewBadRequestError("limit must be an integer between 1 and 50"))
			return
		}
		limit = parsed
	}

	resp, err := h.service.Search(c.Request.Context(), query, limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
