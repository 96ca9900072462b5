package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/metrics"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// Shift directions accepted by ShiftDateRange.
const (
	ShiftPrevious = "previous"
	ShiftNext     = "next"
)

// SessionSource is what sessions read predictions from. Reload must skip
// any cached copy.
type SessionSource interface {
	PredictionFetcher
	Reload(ctx context.Context, r models.DateRange) ([]models.Prediction, error)
}

// SessionService holds the dashboard state of each browser session in
// memory: the fetched predictions, the filters, the map settings and the
// status of the last fetch.
type SessionService interface {
	Create(ctx context.Context) (*models.SessionSnapshot, error)
	Get(ctx context.Context, id string) (*models.SessionSnapshot, error)
	// SetFilters merges patch into the session filters and refetches when
	// the date range changed.
	SetFilters(ctx context.Context, id string, patch models.PredictionFiltersPatch) (*models.SessionSnapshot, error)
	SetMapSettings(ctx context.Context, id string, patch models.MapSettingsPatch) (*models.SessionSnapshot, error)
	// Refresh refetches the current window. A failed fetch is reported in
	// the snapshot's Error and keeps the previous predictions.
	Refresh(ctx context.Context, id string) (*models.SessionSnapshot, error)
	// ShiftDateRange moves the window by WindowDays in the given direction.
	ShiftDateRange(ctx context.Context, id, direction string) (*models.SessionSnapshot, error)
	Delete(ctx context.Context, id string) error
	// Run evicts idle sessions until ctx is done.
	Run(ctx context.Context)
}

type session struct {
	mu          sync.Mutex
	id          string
	predictions []models.Prediction
	loading     bool
	err         *string
	filters     models.PredictionFilters
	mapSettings models.MapSettings
	lastSeen    time.Time
	updatedAt   time.Time
	// fetchSeq orders fetches so that a slow, older response never
	// overwrites a newer one.
	fetchSeq uint64
}

type sessionService struct {
	source  SessionSource
	ttl     time.Duration
	metrics *metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewSessionService(source SessionSource, ttl time.Duration, rec *metrics.Recorder, log zerolog.Logger) SessionService {
	return &sessionService{
		source:   source,
		ttl:      ttl,
		metrics:  rec,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *sessionService) Create(ctx context.Context) (*models.SessionSnapshot, error) {
	now := s.now()
	sess := &session{
		id:          uuid.New().String(),
		predictions: []models.Prediction{},
		loading:     true,
		filters:     models.DefaultFilters(now),
		mapSettings: models.DefaultMapSettings(),
		lastSeen:    now,
		updatedAt:   now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(n)
	s.log.Info().Str("session_id", sess.id).Msg("session created")

	s.load(ctx, sess, false)
	return sess.snapshot(), nil
}

func (s *sessionService) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.mu.Lock()
	expired := s.now().Sub(sess.lastSeen) > s.ttl
	if !expired {
		sess.lastSeen = s.now()
	}
	sess.mu.Unlock()
	if expired {
		s.remove(id)
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(), nil
}

func (s *sessionService) SetFilters(ctx context.Context, id string, patch models.PredictionFiltersPatch) (*models.SessionSnapshot, error) {
	if patch.DateRange != nil {
		if err := patch.DateRange.Validate(); err != nil {
			return nil, err
		}
	}
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	prev := sess.filters.DateRange
	sess.filters = patch.Apply(sess.filters)
	sess.updatedAt = s.now()
	rangeChanged := sess.filters.DateRange != prev
	sess.mu.Unlock()

	if rangeChanged {
		s.load(ctx, sess, false)
	}
	return sess.snapshot(), nil
}

func (s *sessionService) SetMapSettings(ctx context.Context, id string, patch models.MapSettingsPatch) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	sess.mapSettings = patch.Apply(sess.mapSettings)
	sess.updatedAt = s.now()
	sess.mu.Unlock()
	return sess.snapshot(), nil
}

func (s *sessionService) Refresh(ctx context.Context, id string) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	s.load(ctx, sess, true)
	return sess.snapshot(), nil
}

func (s *sessionService) ShiftDateRange(ctx context.Context, id, direction string) (*models.SessionSnapshot, error) {
	var days int
	switch direction {
	case ShiftPrevious:
		days = -models.WindowDays
	case ShiftNext:
		days = models.WindowDays
	default:
		return nil, fmt.Errorf("%w: direction %q", ErrInvalidFilter, direction)
	}

	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	// read, shift and apply under one lock so concurrent shifts compose
	sess.mu.Lock()
	next, err := sess.filters.DateRange.Shift(days)
	if err == nil && direction == ShiftNext {
		_, end, _ := next.Parse()
		horizon := truncateDay(s.now()).AddDate(0, 0, models.WindowDays)
		if end.After(horizon) {
			err = fmt.Errorf("%w: %s is after %s", ErrDateRangeOutOfBounds, next.EndDate, horizon.Format(models.DateLayout))
		}
	}
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.filters.DateRange = next
	sess.updatedAt = s.now()
	sess.mu.Unlock()

	s.load(ctx, sess, false)
	return sess.snapshot(), nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	if !s.remove(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

func (s *sessionService) remove(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	if ok {
		s.metrics.SetActiveSessions(n)
	}
	return ok
}

func (s *sessionService) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionService) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evictIdle(); n > 0 {
				s.log.Debug().Int("evicted", n).Msg("idle sessions evicted")
			}
		}
	}
}

func (s *sessionService) evictIdle() int {
	now := s.now()
	s.mu.Lock()
	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen) > s.ttl
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(n)
	return evicted
}

// load fetches the session's current window without holding its lock.
func (s *sessionService) load(ctx context.Context, sess *session, reload bool) {
	sess.mu.Lock()
	sess.loading = true
	sess.err = nil
	sess.fetchSeq++
	seq := sess.fetchSeq
	r := sess.filters.DateRange
	sess.mu.Unlock()

	var preds []models.Prediction
	var err error
	if reload {
		preds, err = s.source.Reload(ctx, r)
	} else {
		preds, err = s.source.FetchPredictions(ctx, r)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if seq != sess.fetchSeq {
		return
	}
	sess.loading = false
	sess.updatedAt = s.now()
	if err != nil {
		msg := FetchErrorMessage
		sess.err = &msg
		s.log.Error().Err(err).Str("session_id", sess.id).Str("range", r.Key()).Msg("error fetching predictions")
		return
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	sess.predictions = preds
}

func (sess *session) snapshot() *models.SessionSnapshot {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	var errMsg *string
	if sess.err != nil {
		msg := *sess.err
		errMsg = &msg
	}
	preds := slices.Clone(sess.predictions)
	return &models.SessionSnapshot{
		ID:                  sess.id,
		Predictions:         preds,
		FilteredPredictions: FilterPredictions(preds, sess.filters),
		Loading:             sess.loading,
		Error:               errMsg,
		Filters:             sess.filters.Clone(),
		MapSettings:         sess.mapSettings,
		UpdatedAt:           sess.updatedAt,
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
