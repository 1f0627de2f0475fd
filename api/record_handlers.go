package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/clinsearch/clinsearch/internal/errors"
)

// GetRecordHandler returns the indexed view of a single record.
func (api *API) GetRecordHandler(c *gin.Context) {
	recordID := c.Param("recordId")

	info, err := api.engine.GetRecordInfo(recordID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrRecordNotFound) {
			SendRecordNotFoundError(c, recordID)
			return
		}
		SendInternalError(c, "get record", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ListRecordsHandler returns record IDs in lexicographic order. The
// optional ?limit query parameter caps the listing; omitted or
// non-positive means all records.
func (api *API) ListRecordsHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Invalid limit: "+raw)
			return
		}
		limit = parsed
	}

	ids := api.engine.ListRecordIDs(limit)
	c.JSON(http.StatusOK, gin.H{
		"record_ids": ids,
		"count":      len(ids),
	})
}

// StatsHandler returns aggregate corpus statistics.
func (api *API) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.CorpusStats())
}

// AnalyticsHandler returns the query analytics summary.
func (api *API) AnalyticsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Analytics())
}
