package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/clinsearch/clinsearch/internal/errors"
	"github.com/clinsearch/clinsearch/services"
)

// defaultMaxResults applies when a search request omits max_results.
const defaultMaxResults = 10

// SearchRequest defines the JSON body for search queries.
type SearchRequest struct {
	Query      string   `json:"query"`
	RecordIDs  []string `json:"record_ids,omitempty"`
	Categories []string `json:"categories,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
}

// SearchHandler handles search requests.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}
	if req.MaxResults == 0 {
		req.MaxResults = defaultMaxResults
	}

	response, err := api.engine.Search(c.Request.Context(), services.SearchRequest{
		Query:          req.Query,
		RecordIDFilter: req.RecordIDs,
		CategoryFilter: req.Categories,
		MaxResults:     req.MaxResults,
	})
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidArgument) {
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
			return
		}
		SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed, "Search failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, response)
}
