package routes

import (
	"net/http"
	"sort"

	"github.com/causewaykb/causeway/internal/server/middleware"
	"github.com/causewaykb/causeway/pkg/graph"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetGraphHandler(c echo.Context) error {
	type getGraphParams struct {
		Slug string `param:"slug" validate:"required"`
	}

	params := new(getGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	g, err := app.Source.LoadGraph(ctx, params.Slug)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Graph not found"})
	}

	return c.JSON(http.StatusOK, g)
}

func TraverseGraphHandler(c echo.Context) error {
	type traverseParams struct {
		Slug  string `param:"slug" validate:"required"`
		Start string `json:"start" validate:"required"`
		Depth int    `json:"depth" validate:"gte=0"`
		Mode  string `json:"mode" validate:"omitempty,oneof=directed undirected"`
	}

	params := new(traverseParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	mode := graph.Mode(params.Mode)
	if mode == "" {
		mode = graph.ModeDirected
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	g, err := app.Source.LoadGraph(ctx, params.Slug)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Graph not found"})
	}
	if g.NodeByID(params.Start) == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Start node not found"})
	}

	res := graph.Traverse(params.Start, g.Edges, params.Depth, mode)

	nodeIDs := make([]string, 0, len(res.NodeIDs))
	for id := range res.NodeIDs {
		nodeIDs = append(nodeIDs, id)
	}
	edgeIDs := make([]string, 0, len(res.EdgeIDs))
	for id := range res.EdgeIDs {
		edgeIDs = append(edgeIDs, id)
	}
	sort.Strings(nodeIDs)
	sort.Strings(edgeIDs)

	return c.JSON(http.StatusOK, map[string][]string{
		"node_ids": nodeIDs,
		"edge_ids": edgeIDs,
	})
}
