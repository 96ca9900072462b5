package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/database"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// setupTestDB abre um SQLite em memoria, migra e carrega as divisões
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "não foi possivel abrir DB de teste")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedZones(context.Background(), db, models.LAPDDivisions))
	return db
}

// stubFetcher returns canned predictions and counts calls. Calls block on
// gate when it is set, or on the gate registered for their range.
type stubFetcher struct {
	mu    sync.Mutex
	preds map[string][]models.Prediction
	gates map[string]chan struct{}
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		preds: make(map[string][]models.Prediction),
		gates: make(map[string]chan struct{}),
	}
}

// holdRange makes fetches of r block until the returned channel is closed.
func (f *stubFetcher) holdRange(r models.DateRange) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[r.Key()] = ch
	return ch
}

func (f *stubFetcher) set(r models.DateRange, preds []models.Prediction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.preds[r.Key()] = preds
}

func (f *stubFetcher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *stubFetcher) FetchPredictions(ctx context.Context, r models.DateRange) ([]models.Prediction, error) {
	f.calls.Add(1)
	f.mu.Lock()
	gate := f.gate
	if ch, ok := f.gates[r.Key()]; ok {
		gate = ch
	}
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.preds[r.Key()], nil
}

// Reload lets stubFetcher stand in for a SessionSource directly.
func (f *stubFetcher) Reload(ctx context.Context, r models.DateRange) ([]models.Prediction, error) {
	return f.FetchPredictions(ctx, r)
}

// stubSource is a PredictionSource with a fixed answer.
type stubSource struct {
	resp *models.InferenceResponse
	err  error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Predict(ctx context.Context, r models.DateRange) (*models.InferenceResponse, error) {
	return s.resp, s.err
}

var errUpstream = errors.New("upstream unavailable")
