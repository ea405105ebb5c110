package routes

import (
	"net/http"

	"github.com/causewaykb/causeway/internal/server/middleware"
	"github.com/causewaykb/causeway/pkg/coverage"
	"github.com/causewaykb/causeway/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetCoverageHandler serves the corpus coverage report. When a report
// store is configured the latest stored run is preferred; otherwise
// (or when none has been stored yet) the report is computed live from
// the corpus source. The orphans and top_linked query params narrow
// the response to the matching ranked list.
func GetCoverageHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	var report *coverage.Report
	runID := ""

	if app.Reports != nil {
		stored, id, err := app.Reports.LatestReport(ctx)
		if err != nil {
			logger.Debug("[Server] No stored report, computing live", "err", err)
		} else {
			report = stored
			runID = id
		}
	}

	if report == nil {
		pages, err := app.Source.LoadPages(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load corpus"})
		}
		index, _, err := app.Source.BacklinkIndex(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load backlink index"})
		}
		report = coverage.AnalyzeWithIndex(pages, index, app.Thresholds)
	}

	if c.QueryParam("orphans") == "true" {
		return c.JSON(http.StatusOK, map[string]any{
			"run_id":  runID,
			"orphans": report.Orphans,
		})
	}
	if c.QueryParam("top_linked") == "true" {
		return c.JSON(http.StatusOK, map[string]any{
			"run_id":      runID,
			"most_linked": report.MostLinked,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"run_id": runID,
		"report": report,
	})
}

func GetEntityCoverageHandler(c echo.Context) error {
	type entityParams struct {
		Slug string `param:"slug" validate:"required"`
	}

	params := new(entityParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	pages, err := app.Source.LoadPages(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load corpus"})
	}

	return c.JSON(http.StatusOK, coverage.AnalyzeEntity(pages, params.Slug))
}
