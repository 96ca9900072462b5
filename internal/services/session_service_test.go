package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

func newTestSessions(t *testing.T, f *stubFetcher) (*sessionService, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	svc := NewSessionService(f, 30*time.Minute, nil, zerolog.Nop()).(*sessionService)
	svc.now = clock.Now
	return svc, clock
}

func TestSessionCreateLoadsDefaultWindow(t *testing.T) {
	f := newStubFetcher()
	f.set(testRange, samplePredictions())
	svc, _ := newTestSessions(t, f)

	snap, err := svc.Create(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Error)
	assert.Equal(t, testRange, snap.Filters.DateRange)
	assert.Empty(t, snap.Filters.CrimeTypes)
	assert.Equal(t, models.DefaultMapSettings(), snap.MapSettings)
	assert.Len(t, snap.Predictions, 4)
	assert.Len(t, snap.FilteredPredictions, 4)
	assert.Equal(t, 1, svc.size())
}

func TestSessionCreateWithFailingSource(t *testing.T) {
	f := newStubFetcher()
	f.setErr(errUpstream)
	svc, _ := newTestSessions(t, f)

	snap, err := svc.Create(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap.Error)
	assert.Equal(t, FetchErrorMessage, *snap.Error)
	assert.NotNil(t, snap.Predictions)
	assert.Empty(t, snap.Predictions)
	assert.False(t, snap.Loading)
}

func TestSessionSetFiltersWithoutRangeChange(t *testing.T) {
	f := newStubFetcher()
	f.set(testRange, samplePredictions())
	svc, _ := newTestSessions(t, f)
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	types := []models.CrimeType{models.CrimeAssault}
	snap, err = svc.SetFilters(ctx, snap.ID, models.PredictionFiltersPatch{CrimeTypes: &types})
	require.NoError(t, err)

	assert.Equal(t, []string{"pred-1", "pred-2"}, ids(snap.FilteredPredictions))
	assert.Len(t, snap.Predictions, 4)
	assert.Equal(t, int32(1), f.calls.Load())

	// unrelated fields are kept when a later patch touches something else
	zones := []string{"Central"}
	snap, err = svc.SetFilters(ctx, snap.ID, models.PredictionFiltersPatch{Zones: &zones})
	require.NoError(t, err)
	assert.Equal(t, []string{"pred-2"}, ids(snap.FilteredPredictions))
	assert.Equal(t, types, snap.Filters.CrimeTypes)
}

func TestSessionSetFiltersRangeChangeRefetches(t *testing.T) {
	f := newStubFetcher()
	f.set(testRange, samplePredictions())
	next := models.DateRange{StartDate: "2026-10-20", EndDate: "2026-10-22"}
	f.set(next, samplePredictions()[:2])
	svc, _ := newTestSessions(t, f)
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	snap, err = svc.SetFilters(ctx, snap.ID, models.PredictionFiltersPatch{DateRange: &next})
	require.NoError(t, err)
	assert.Equal(t, next, snap.Filters.DateRange)
	assert.Len(t, snap.Predictions, 2)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestSessionSetFiltersRejectsInvalidRange(t *testing.T) {
	f := newStubFetcher()
	svc, _ := newTestSessions(t, f)
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	bad := models.DateRange{StartDate: "2026-10-26", EndDate: "2026-10-19"}
	_, err = svc.SetFilters(ctx, snap.ID, models.PredictionFiltersPatch{DateRange: &bad})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	got, err := svc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, testRange, got.Filters.DateRange)
}

func TestSessionSetMapSettings(t *testing.T) {
	svc, _ := newTestSessions(t, newStubFetcher())
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	off := false
	snap, err = svc.SetMapSettings(ctx, snap.ID, models.MapSettingsPatch{ShowHeatmap: &off})
	require.NoError(t, err)
	assert.False(t, snap.MapSettings.ShowHeatmap)
	assert.True(t, snap.MapSettings.ShowZoneBoundaries)
	assert.True(t, snap.MapSettings.ShowPredictionMarkers)
}

func TestSessionRefreshFailureKeepsPredictions(t *testing.T) {
	f := newStubFetcher()
	f.set(testRange, samplePredictions())
	svc, _ := newTestSessions(t, f)
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	f.setErr(errUpstream)
	snap, err = svc.Refresh(ctx, snap.ID)
	require.NoError(t, err)
	require.NotNil(t, snap.Error)
	assert.Equal(t, FetchErrorMessage, *snap.Error)
	assert.Len(t, snap.Predictions, 4)

	f.setErr(nil)
	snap, err = svc.Refresh(ctx, snap.ID)
	require.NoError(t, err)
	assert.Nil(t, snap.Error)
}

func TestSessionShiftDateRange(t *testing.T) {
	f := newStubFetcher()
	svc, _ := newTestSessions(t, f)
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	// today+15 is past the forecast horizon
	_, err = svc.ShiftDateRange(ctx, snap.ID, ShiftNext)
	assert.ErrorIs(t, err, ErrDateRangeOutOfBounds)

	snap, err = svc.ShiftDateRange(ctx, snap.ID, ShiftPrevious)
	require.NoError(t, err)
	assert.Equal(t, models.DateRange{StartDate: "2026-10-11", EndDate: "2026-10-18"}, snap.Filters.DateRange)

	snap, err = svc.ShiftDateRange(ctx, snap.ID, ShiftNext)
	require.NoError(t, err)
	assert.Equal(t, testRange, snap.Filters.DateRange)
	assert.Equal(t, int32(3), f.calls.Load())

	_, err = svc.ShiftDateRange(ctx, snap.ID, "sideways")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestSessionShiftNextHorizonBoundary(t *testing.T) {
	svc, _ := newTestSessions(t, newStubFetcher())
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	// clock reads 2026-10-19, so the last allowed end date is 2026-10-27
	atHorizon := models.DateRange{StartDate: "2026-10-12", EndDate: "2026-10-19"}
	_, err = svc.SetFilters(ctx, snap.ID, models.PredictionFiltersPatch{DateRange: &atHorizon})
	require.NoError(t, err)
	shifted, err := svc.ShiftDateRange(ctx, snap.ID, ShiftNext)
	require.NoError(t, err)
	assert.Equal(t, models.DateRange{StartDate: "2026-10-20", EndDate: "2026-10-27"}, shifted.Filters.DateRange)

	pastHorizon := models.DateRange{StartDate: "2026-10-13", EndDate: "2026-10-20"}
	_, err = svc.SetFilters(ctx, snap.ID, models.PredictionFiltersPatch{DateRange: &pastHorizon})
	require.NoError(t, err)
	_, err = svc.ShiftDateRange(ctx, snap.ID, ShiftNext)
	assert.ErrorIs(t, err, ErrDateRangeOutOfBounds)

	got, err := svc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, pastHorizon, got.Filters.DateRange, "refused shift leaves the window untouched")
}

func TestSessionConcurrentShiftsCompose(t *testing.T) {
	svc, _ := newTestSessions(t, newStubFetcher())
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	const shifts = 6
	var wg sync.WaitGroup
	for i := 0; i < shifts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ShiftDateRange(ctx, snap.ID, ShiftPrevious)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	want, err := testRange.Shift(-shifts * models.WindowDays)
	require.NoError(t, err)
	got, err := svc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got.Filters.DateRange)
}

func TestSessionSlowOlderFetchDoesNotOverwriteNewer(t *testing.T) {
	f := newStubFetcher()
	svc, _ := newTestSessions(t, f)
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	older := models.DateRange{StartDate: "2026-10-01", EndDate: "2026-10-08"}
	newer := models.DateRange{StartDate: "2026-10-09", EndDate: "2026-10-16"}
	all := samplePredictions()
	f.set(older, all)
	f.set(newer, all[:1])
	release := f.holdRange(older)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.SetFilters(ctx, snap.ID, models.PredictionFiltersPatch{DateRange: &older})
		assert.NoError(t, err)
	}()
	require.Eventually(t, func() bool { return f.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	got, err := svc.SetFilters(ctx, snap.ID, models.PredictionFiltersPatch{DateRange: &newer})
	require.NoError(t, err)
	require.Len(t, got.Predictions, 1)

	close(release)
	<-done

	got, err = svc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, newer, got.Filters.DateRange)
	assert.Len(t, got.Predictions, 1, "older fetch finished last but must be discarded")
	assert.False(t, got.Loading)
}

func TestSessionDelete(t *testing.T) {
	svc, _ := newTestSessions(t, newStubFetcher())
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, snap.ID))
	_, err = svc.Get(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, snap.ID), ErrSessionNotFound)
	assert.Zero(t, svc.size())
}

func TestSessionExpiresWhenIdle(t *testing.T) {
	svc, clock := newTestSessions(t, newStubFetcher())
	ctx := context.Background()
	kept, err := svc.Create(ctx)
	require.NoError(t, err)
	idle, err := svc.Create(ctx)
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = svc.Get(ctx, kept.ID)
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, svc.evictIdle())
	assert.Equal(t, 1, svc.size())

	_, err = svc.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	clock.Advance(31 * time.Minute)
	_, err = svc.Get(ctx, kept.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, svc.size())
}

func TestSessionRunStopsWithContext(t *testing.T) {
	svc, _ := newTestSessions(t, newStubFetcher())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
