package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/clinsearch/clinsearch/internal/errors"
	"github.com/clinsearch/clinsearch/model"
)

// ReindexHandler starts an asynchronous full corpus rebuild and returns
// the tracking job ID.
func (api *API) ReindexHandler(c *gin.Context) {
	jobID := api.jobs.CreateJob(model.JobTypeReindex, nil)

	err := api.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return api.engine.Reload(ctx)
	})
	if err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeReindexFailed, "Failed to start reindex: "+err.Error())
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"job_id": jobID,
	})
}

// GetJobHandler returns the status of a background job.
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "get job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}
