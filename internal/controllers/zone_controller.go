package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/services"
)

// ZoneController handles HTTP requests related to LAPD divisions
type ZoneController struct {
	zones services.ZoneService
	preds services.PredictionService
}

// NewZoneController creates a new instance of ZoneController
func NewZoneController(zones services.ZoneService, preds services.PredictionService) *ZoneController {
	return &ZoneController{zones: zones, preds: preds}
}

// Register registers the routes for the zone controller
func (ctrl *ZoneController) Register(g *echo.Group) {
	g.GET("/zones", ctrl.GetAllZones)
	g.GET("/zones/:id", ctrl.GetZoneByID)
	g.GET("/zones/:id/data", ctrl.GetZoneData)
}

// GetAllZones handles retrieving the whole catalog
func (ctrl *ZoneController) GetAllZones(c echo.Context) error {
	zones, err := ctrl.zones.ListZones(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to retrieve zones",
		})
	}
	return c.JSON(http.StatusOK, zones)
}

// GetZoneByID accepts either the zone id or its name
func (ctrl *ZoneController) GetZoneByID(c echo.Context) error {
	zone, err := ctrl.zones.GetZone(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, zone)
}

// GetZoneData handles retrieving the summary statistics of one zone
func (ctrl *ZoneController) GetZoneData(c echo.Context) error {
	data, err := ctrl.preds.FetchZoneData(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}
