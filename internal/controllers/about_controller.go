package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/services"
)

const (
	projectName        = "NeuralCrime"
	projectCity        = "Los Angeles"
	projectDescription = "Crime forecasts for the LAPD patrol divisions of Los Angeles, " +
		"produced by a neural network trained on historical LAPD incident data. " +
		"Each prediction estimates the number and type of crimes expected in a " +
		"division for a given day together with a risk level."
)

// AboutController serves the informational page.
type AboutController struct {
	zones        services.ZoneService
	dataSource   string
	modelVersion string
}

// NewAboutController creates a new instance of AboutController
func NewAboutController(zones services.ZoneService, dataSource, modelVersion string) *AboutController {
	return &AboutController{zones: zones, dataSource: dataSource, modelVersion: modelVersion}
}

// Register registers the routes for the about controller
func (ctrl *AboutController) Register(g *echo.Group) {
	g.GET("/about", ctrl.GetAbout)
}

func (ctrl *AboutController) GetAbout(c echo.Context) error {
	zones, err := ctrl.zones.ListZones(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	names := make([]string, len(zones))
	for i, z := range zones {
		names[i] = z.Name
	}
	return c.JSON(http.StatusOK, models.AboutInfo{
		Name:         projectName,
		Description:  projectDescription,
		City:         projectCity,
		ModelVersion: ctrl.modelVersion,
		DataSource:   ctrl.dataSource,
		WindowDays:   models.WindowDays,
		CrimeTypes:   models.CrimeTypes,
		RiskLevels:   models.RiskLevels,
		Zones:        names,
	})
}
