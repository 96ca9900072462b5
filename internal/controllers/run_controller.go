package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/services"
)

const maxRunLimit = 200

// RunController exposes the log of prediction fetches.
type RunController struct {
	svc services.RunService
}

// NewRunController creates a new instance of RunController
func NewRunController(svc services.RunService) *RunController {
	return &RunController{svc: svc}
}

// Register registers the routes for the run controller
func (ctrl *RunController) Register(g *echo.Group) {
	g.GET("/runs", ctrl.GetRuns)
}

// GetRuns handles GET /runs?limit=N, newest first
func (ctrl *RunController) GetRuns(c echo.Context) error {
	limit := services.DefaultRunLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxRunLimit {
			return badRequest(c, "Invalid limit")
		}
		limit = n
	}

	runs, err := ctrl.svc.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to retrieve runs",
		})
	}
	return c.JSON(http.StatusOK, runs)
}
