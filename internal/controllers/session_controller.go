package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/services"
)

// SessionController exposes the per-browser dashboard state.
type SessionController struct {
	sessions services.SessionService
	zones    services.ZoneService
}

// NewSessionController creates a new instance of SessionController
func NewSessionController(sessions services.SessionService, zones services.ZoneService) *SessionController {
	return &SessionController{sessions: sessions, zones: zones}
}

// Register registers the routes for the session controller
func (ctrl *SessionController) Register(g *echo.Group) {
	g.POST("/sessions", ctrl.CreateSession)
	g.GET("/sessions/:id", ctrl.GetSession)
	g.DELETE("/sessions/:id", ctrl.DeleteSession)
	g.PATCH("/sessions/:id/filters", ctrl.UpdateFilters)
	g.PATCH("/sessions/:id/map-settings", ctrl.UpdateMapSettings)
	g.POST("/sessions/:id/refresh", ctrl.Refresh)
	g.POST("/sessions/:id/date-range/:direction", ctrl.ShiftDateRange)
	g.GET("/sessions/:id/stats", ctrl.GetStats)
	g.GET("/sessions/:id/map", ctrl.GetMap)
}

// CreateSession handles POST /sessions. The response carries the result of
// the first fetch for the default window.
func (ctrl *SessionController) CreateSession(c echo.Context) error {
	snap, err := ctrl.sessions.Create(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, snap)
}

func (ctrl *SessionController) GetSession(c echo.Context) error {
	snap, err := ctrl.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (ctrl *SessionController) DeleteSession(c echo.Context) error {
	if err := ctrl.sessions.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateFilters handles PATCH /sessions/:id/filters. Fields left out of the
// body keep their current value.
func (ctrl *SessionController) UpdateFilters(c echo.Context) error {
	var patch models.PredictionFiltersPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}
	snap, err := ctrl.sessions.SetFilters(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (ctrl *SessionController) UpdateMapSettings(c echo.Context) error {
	var patch models.MapSettingsPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}
	snap, err := ctrl.sessions.SetMapSettings(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Refresh handles POST /sessions/:id/refresh. A failed fetch still answers
// 200 with the error recorded on the session.
func (ctrl *SessionController) Refresh(c echo.Context) error {
	snap, err := ctrl.sessions.Refresh(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (ctrl *SessionController) ShiftDateRange(c echo.Context) error {
	snap, err := ctrl.sessions.ShiftDateRange(c.Request().Context(), c.Param("id"), c.Param("direction"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// GetStats computes the chart data over the session's filtered predictions.
func (ctrl *SessionController) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	snap, err := ctrl.sessions.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	zones, err := ctrl.zones.ListZones(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, services.BuildPredictionStats(snap.FilteredPredictions, zones))
}

// GetMap lays out the session's filtered predictions with its map settings.
func (ctrl *SessionController) GetMap(c echo.Context) error {
	ctx := c.Request().Context()
	snap, err := ctrl.sessions.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	zones, err := ctrl.zones.ListZones(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, services.BuildMapView(snap.FilteredPredictions, snap.MapSettings, zones))
}
