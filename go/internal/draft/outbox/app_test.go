package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/draftleague/go/internal/draft/events"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*models.OutboxEvent
	order  []uuid.UUID
}

func newFakeRepo(evts ...models.OutboxEvent) *fakeRepo {
	r := &fakeRepo{events: map[uuid.UUID]*models.OutboxEvent{}}
	for i := range evts {
		e := evts[i]
		r.events[e.ID] = &e
		r.order = append(r.order, e.ID)
	}
	return r
}

func (r *fakeRepo) InsertOutboxEvent(ctx context.Context, e *models.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.events[e.ID] = &cp
	r.order = append(r.order, e.ID)
	return nil
}

func (r *fakeRepo) FetchUnsentOutbox(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.OutboxEvent
	for _, id := range r.order {
		if e := r.events[id]; e.SentAt == nil && len(out) < limit {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeRepo) FetchOutboxByID(ctx context.Context, id uuid.UUID) (*models.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.SentAt != nil {
		return nil, errors.New("not found")
	}
	cp := *e
	return &cp, nil
}

func (r *fakeRepo) MarkOutboxSent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.events[id].SentAt = &now
	return nil
}

func (r *fakeRepo) CountUnsentOutbox(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.SentAt == nil {
			n++
		}
	}
	return n, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	failFirst int
	published []models.OutboxEvent
}

func (p *fakePublisher) Publish(ctx context.Context, event models.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failFirst > 0 {
		p.failFirst--
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type fakeNotifier struct {
	ch chan *pq.Notification
}

func (n *fakeNotifier) NotificationChannel() <-chan *pq.Notification { return n.ch }
func (n *fakeNotifier) Ping() error                                 { return nil }
func (n *fakeNotifier) Close() error                                { return nil }

func event(eventType string) models.OutboxEvent {
	return models.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: uuid.New(),
		SeasonID:    uuid.New(),
		EventType:   eventType,
		Payload:     json.RawMessage(`{}`),
		CreatedAt:   time.Now(),
	}
}

func TestInsertEvent(t *testing.T) {
	repo := newFakeRepo()
	aggregate, season := uuid.New(), uuid.New()

	err := InsertEvent(context.Background(), repo, events.TypePickMade, aggregate, season,
		events.PickMadePayload{PickID: "p1", PickNumber: 3}, time.Now(), "Team-ID", "t1")
	require.NoError(t, err)

	require.Len(t, repo.order, 1)
	got := repo.events[repo.order[0]]
	assert.Equal(t, events.TypePickMade, got.EventType)
	assert.Equal(t, aggregate, got.AggregateID)
	assert.Equal(t, season, got.SeasonID)
	assert.Equal(t, "t1", got.Headers["Team-ID"])
	assert.JSONEq(t, `{"pick_id":"p1","session_id":"","team_id":"","candidate_id":"","candidate_name":"","round":0,"pick_number":3,"points_charged":0,"budget_remaining":0,"made_at":"0001-01-01T00:00:00Z"}`, string(got.Payload))
}

func TestInsertEventRejectsOddHeaders(t *testing.T) {
	err := InsertEvent(context.Background(), newFakeRepo(), events.TypePickMade, uuid.New(), uuid.New(), struct{}{}, time.Now(), "lonely")
	assert.Error(t, err)
}

func TestProcessUnsentEvents(t *testing.T) {
	a, b := event(events.TypePickMade), event(events.TypeDraftCompleted)
	repo := newFakeRepo(a, b)
	app := NewApp(repo)

	var seen []string
	n, err := app.ProcessUnsentEvents(context.Background(), 10, func(e models.OutboxEvent) error {
		if e.ID == b.ID {
			return errors.New("boom")
		}
		seen = append(seen, e.EventType)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{events.TypePickMade}, seen)

	pending, err := app.CountPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	_, err = app.FetchUnsentEvents(context.Background(), 0)
	assert.Error(t, err)
}

func TestListenerRelaysNotificationsAndBacklog(t *testing.T) {
	backlog := event(events.TypeSessionCreated)
	repo := newFakeRepo(backlog)
	app := NewApp(repo)
	pub := &fakePublisher{failFirst: 1}
	n := &fakeNotifier{ch: make(chan *pq.Notification, 1)}

	cfg := DefaultListenerConfig()
	cfg.RetryDelay = time.Millisecond
	l := newListener(app, n, pub, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Start(ctx) }()

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)

	fresh := event(events.TypePickMade)
	require.NoError(t, repo.InsertOutboxEvent(ctx, &fresh))
	n.ch <- &pq.Notification{Channel: cfg.NotifyChannel, Extra: fresh.ID.String()}

	require.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, l.Running())

	processed, last := l.Stats()
	assert.Equal(t, uint64(2), processed)
	assert.False(t, last.IsZero())

	cancel()
	require.NoError(t, <-done)

	pending, err := app.CountPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}
