package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/database"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedZones(context.Background(), db, models.LAPDDivisions))
	return db
}

type failingSource struct{}

func (failingSource) Name() string { return "remote" }

func (failingSource) Predict(ctx context.Context, r models.DateRange) (*models.InferenceResponse, error) {
	return nil, context.DeadlineExceeded
}

// newTestServer wires every controller the way cmd/server does, with a
// seeded mock source and no simulated delays.
func newTestServer(t *testing.T, source services.PredictionSource) *echo.Echo {
	t.Helper()
	db := setupTestDB(t)
	if source == nil {
		source = services.NewMockSource(services.NewGenerator(7, nil), 0, "mock-v1")
	}

	zones := services.NewZoneService(db)
	runs := services.NewRunService(db)
	preds := services.NewPredictionService(services.PredictionServiceConfig{
		Source:    source,
		Zones:     zones,
		Runs:      runs,
		Logger:    zerolog.Nop(),
		Generator: services.NewGenerator(7, nil),
	})
	cache := services.NewPredictionCache(preds, time.Minute, nil)
	sessions := services.NewSessionService(cache, time.Hour, nil, zerolog.Nop())

	e := echo.New()
	api := e.Group("/api/v1")
	NewPredictionController(cache, zones).Register(api)
	NewSessionController(sessions, zones).Register(api)
	NewZoneController(zones, preds).Register(api)
	NewRunController(runs).Register(api)
	NewAboutController(zones, preds.SourceName(), "mock-v1").Register(api)
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
