package routes

import (
	"encoding/json"
	"net/http"

	"github.com/causewaykb/causeway/internal/queue"
	"github.com/causewaykb/causeway/internal/server/middleware"
	"github.com/causewaykb/causeway/internal/util"
	"github.com/causewaykb/causeway/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PostReindexHandler queues a backlink index rebuild followed by a
// fresh coverage run. The work happens in the worker; the handler only
// publishes and returns the run ID the coverage report will be stored
// under.
func PostReindexHandler(c echo.Context) error {
	type reindexParams struct {
		Reason string `json:"reason"`
	}

	type reindexResponse struct {
		Message string `json:"message"`
		RunID   string `json:"run_id,omitempty"`
	}

	params := new(reindexParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, reindexResponse{Message: "Invalid request params"})
	}

	appCtx := c.(*middleware.AppContext)
	ch := appCtx.App.Queue
	if ch == nil {
		return c.JSON(http.StatusServiceUnavailable, reindexResponse{Message: "Queue unavailable"})
	}

	requestedBy := ""
	if appCtx.User != nil {
		requestedBy = appCtx.User.Role
	}

	reindexBody, _ := json.Marshal(queue.ReindexMsg{
		Reason:      params.Reason,
		RequestedBy: requestedBy,
	})
	if err := queue.PublishFIFO(ch, "reindex_queue", reindexBody); err != nil {
		logger.Error("Failed to publish to reindex_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, reindexResponse{Message: "Failed to queue reindex"})
	}

	runID := util.NewRunID()
	coverageBody, _ := json.Marshal(queue.CoverageMsg{RunID: runID})
	if err := queue.PublishFIFO(ch, "coverage_queue", coverageBody); err != nil {
		logger.Error("Failed to publish to coverage_queue", "err", err)
	}

	return c.JSON(http.StatusOK, reindexResponse{
		Message: "Reindex queued",
		RunID:   runID,
	})
}
