package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	analytics "booking-analytics-service/internal/analytics/core/domain"
	bookings "booking-analytics-service/internal/bookings/core/domain"
	"booking-analytics-service/internal/realtime/core/domain"
	"booking-analytics-service/internal/realtime/core/ports"
	"booking-analytics-service/internal/realtime/core/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ------------------------------------------------------------
// fakes
// ------------------------------------------------------------

type chanStream[T any] struct {
	ch  chan T
	cur T

	mu  sync.Mutex
	err error
}

func newChanStream[T any]() *chanStream[T] {
	return &chanStream[T]{ch: make(chan T, 16)}
}

func (s *chanStream[T]) Next(ctx context.Context) bool {
	select {
	case v, ok := <-s.ch:
		if !ok {
			return false
		}
		s.cur = v
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *chanStream[T]) Current() T { return s.cur }

func (s *chanStream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *chanStream[T]) Close(ctx context.Context) error { return nil }

// fail ends the stream with err.
func (s *chanStream[T]) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.ch)
}

type fakeWatcher struct {
	BookingsFn func(ctx context.Context) (ports.ChangeStream[bookings.Booking], error)
	CountersFn func(ctx context.Context) (ports.ChangeStream[bookings.DashboardCounters], error)
}

func (f *fakeWatcher) WatchBookingInserts(ctx context.Context) (ports.ChangeStream[bookings.Booking], error) {
	return f.BookingsFn(ctx)
}

func (f *fakeWatcher) WatchDashboardCounters(ctx context.Context) (ports.ChangeStream[bookings.DashboardCounters], error) {
	return f.CountersFn(ctx)
}

func unsupported[T any](ctx context.Context) (ports.ChangeStream[T], error) {
	return nil, ports.ErrWatchUnsupported
}

type fakeViews struct {
	mu     sync.Mutex
	count  int64
	users  int64
	recent []bookings.Booking // newest first
	limits []int
}

func (f *fakeViews) set(count, users int64, recent ...bookings.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count, f.users, f.recent = count, users, recent
}

func (f *fakeViews) RecentBookings(ctx context.Context, limit int) ([]bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	if limit > len(f.recent) {
		limit = len(f.recent)
	}
	return append([]bookings.Booking(nil), f.recent[:limit]...), nil
}

func (f *fakeViews) BookingCount(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count, nil
}

func (f *fakeViews) TotalUsers(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users, nil
}

func (f *fakeViews) OverallStats(ctx context.Context) (*analytics.OverallStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &analytics.OverallStats{TotalUsers: f.users, TotalAppointmentsBooked: f.count}, nil
}

func (f *fakeViews) CityLeaderboard(ctx context.Context) ([]analytics.CityCount, error) {
	return nil, nil
}

type sent struct {
	event   string
	payload any
}

type recorder struct {
	mu  sync.Mutex
	out []sent
}

func (r *recorder) Broadcast(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, sent{event: event, payload: payload})
}

func (r *recorder) events() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.out...)
}

func (r *recorder) count(event string) int {
	n := 0
	for _, s := range r.events() {
		if s.event == event {
			n++
		}
	}
	return n
}

func start(t *testing.T, w ports.WatcherPort, v ports.ViewSource, r ports.Broadcaster) *usecase.Dispatcher {
	t.Helper()
	d := usecase.NewDispatcher(w, v, r, zaptest.NewLogger(t), usecase.Config{
		PollInterval: 10 * time.Millisecond,
		RetryBackoff: 20 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return d
}

const waitFor, tick = 2 * time.Second, 5 * time.Millisecond

// ------------------------------------------------------------
// push path
// ------------------------------------------------------------

func TestDispatcher_InsertBroadcastsBookingThenStats(t *testing.T) {
	inserts := newChanStream[bookings.Booking]()
	w := &fakeWatcher{
		BookingsFn: func(ctx context.Context) (ports.ChangeStream[bookings.Booking], error) { return inserts, nil },
		CountersFn: func(ctx context.Context) (ports.ChangeStream[bookings.DashboardCounters], error) {
			return newChanStream[bookings.DashboardCounters](), nil
		},
	}
	views := &fakeViews{}
	views.set(5, 3)
	rec := &recorder{}
	d := start(t, w, views, rec)

	require.Eventually(t, func() bool { return d.State(usecase.WatchBookings) == usecase.StateSubscribed }, waitFor, tick)
	assert.False(t, d.Polling())

	views.set(6, 3)
	inserts.ch <- bookings.Booking{ID: "b1", Location: "Toronto", CreatedAt: "2024-03-01T24:15:00.000Z"}

	require.Eventually(t, func() bool { return len(rec.events()) == 2 }, waitFor, tick)
	got := rec.events()
	assert.Equal(t, domain.EventNewBooking, got[0].event)
	// verbatim, no normalization on the push path
	assert.Equal(t, "2024-03-01T24:15:00.000Z", got[0].payload.(bookings.Booking).CreatedAt)
	assert.Equal(t, domain.EventStats, got[1].event)
	assert.Equal(t, int64(6), got[1].payload.(*analytics.OverallStats).TotalAppointmentsBooked)
}

func TestDispatcher_CountersOnlyBroadcastOnUserChange(t *testing.T) {
	counters := newChanStream[bookings.DashboardCounters]()
	w := &fakeWatcher{
		BookingsFn: func(ctx context.Context) (ports.ChangeStream[bookings.Booking], error) {
			return newChanStream[bookings.Booking](), nil
		},
		CountersFn: func(ctx context.Context) (ports.ChangeStream[bookings.DashboardCounters], error) { return counters, nil },
	}
	views := &fakeViews{}
	views.set(0, 120)
	rec := &recorder{}
	d := start(t, w, views, rec)

	require.Eventually(t, func() bool { return d.State(usecase.WatchCounters) == usecase.StateSubscribed }, waitFor, tick)

	// same user count, other field changed
	counters.ch <- bookings.DashboardCounters{Key: bookings.DashboardKey, TotalUsers: "120", DownloadsToday: "9"}
	// wrong document
	counters.ch <- bookings.DashboardCounters{Key: "other", TotalUsers: "999"}
	counters.ch <- bookings.DashboardCounters{Key: bookings.DashboardKey, TotalUsers: "121"}

	require.Eventually(t, func() bool { return rec.count(domain.EventStats) == 1 }, waitFor, tick)
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, rec.events(), 1)
}

func TestDispatcher_StreamErrorReconnects(t *testing.T) {
	var opens atomic.Int32
	first := newChanStream[bookings.Booking]()
	second := newChanStream[bookings.Booking]()
	w := &fakeWatcher{
		BookingsFn: func(ctx context.Context) (ports.ChangeStream[bookings.Booking], error) {
			if opens.Add(1) == 1 {
				return first, nil
			}
			return second, nil
		},
		CountersFn: func(ctx context.Context) (ports.ChangeStream[bookings.DashboardCounters], error) {
			return newChanStream[bookings.DashboardCounters](), nil
		},
	}
	views := &fakeViews{}
	rec := &recorder{}
	d := start(t, w, views, rec)

	require.Eventually(t, func() bool { return d.State(usecase.WatchBookings) == usecase.StateSubscribed }, waitFor, tick)
	first.fail(errors.New("connection reset"))

	require.Eventually(t, func() bool { return opens.Load() == 2 }, waitFor, tick)
	require.Eventually(t, func() bool { return d.State(usecase.WatchBookings) == usecase.StateSubscribed }, waitFor, tick)
	assert.False(t, d.Polling(), "a broken stream reconnects without polling")

	second.ch <- bookings.Booking{ID: "after-reconnect"}
	require.Eventually(t, func() bool { return rec.count(domain.EventNewBooking) == 1 }, waitFor, tick)
}

// ------------------------------------------------------------
// polling fallback
// ------------------------------------------------------------

func TestDispatcher_PollingBroadcastsNewestOldestFirst(t *testing.T) {
	w := &fakeWatcher{
		BookingsFn: unsupported[bookings.Booking],
		CountersFn: unsupported[bookings.DashboardCounters],
	}
	views := &fakeViews{}
	views.set(2, 10)
	rec := &recorder{}
	d := start(t, w, views, rec)

	require.Eventually(t, d.Polling, waitFor, tick)
	assert.Equal(t, usecase.StateUnavailable, d.State(usecase.WatchBookings))
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, rec.events(), "no change, no broadcast")

	views.set(4, 10,
		bookings.Booking{ID: "newest"},
		bookings.Booking{ID: "older"},
		bookings.Booking{ID: "old"},
	)

	require.Eventually(t, func() bool { return len(rec.events()) == 3 }, waitFor, tick)
	got := rec.events()
	assert.Equal(t, "older", got[0].payload.(bookings.Booking).ID)
	assert.Equal(t, "newest", got[1].payload.(bookings.Booking).ID)
	assert.Equal(t, domain.EventStats, got[2].event)
}

func TestDispatcher_PollingCapsBurstAtTen(t *testing.T) {
	w := &fakeWatcher{
		BookingsFn: unsupported[bookings.Booking],
		CountersFn: unsupported[bookings.DashboardCounters],
	}
	views := &fakeViews{}
	views.set(0, 0)
	rec := &recorder{}
	d := start(t, w, views, rec)
	require.Eventually(t, d.Polling, waitFor, tick)

	recent := make([]bookings.Booking, 40)
	views.set(40, 0, recent...)

	require.Eventually(t, func() bool { return rec.count(domain.EventStats) == 1 }, waitFor, tick)
	assert.Equal(t, 10, rec.count(domain.EventNewBooking))

	views.mu.Lock()
	defer views.mu.Unlock()
	assert.Contains(t, views.limits, 10)
}

func TestDispatcher_PollingUserChangeBroadcastsStatsOnly(t *testing.T) {
	w := &fakeWatcher{
		BookingsFn: unsupported[bookings.Booking],
		CountersFn: unsupported[bookings.DashboardCounters],
	}
	views := &fakeViews{}
	views.set(7, 10)
	rec := &recorder{}
	d := start(t, w, views, rec)
	require.Eventually(t, d.Polling, waitFor, tick)

	views.set(7, 11)

	require.Eventually(t, func() bool { return rec.count(domain.EventStats) == 1 }, waitFor, tick)
	assert.Zero(t, rec.count(domain.EventNewBooking))
}

func TestDispatcher_PollingStopsWhenSubscriptionRecovers(t *testing.T) {
	var available atomic.Bool
	w := &fakeWatcher{
		BookingsFn: func(ctx context.Context) (ports.ChangeStream[bookings.Booking], error) {
			if !available.Load() {
				return nil, ports.ErrWatchUnsupported
			}
			return newChanStream[bookings.Booking](), nil
		},
		CountersFn: func(ctx context.Context) (ports.ChangeStream[bookings.DashboardCounters], error) {
			return newChanStream[bookings.DashboardCounters](), nil
		},
	}
	views := &fakeViews{}
	d := start(t, w, views, &recorder{})

	require.Eventually(t, d.Polling, waitFor, tick)

	available.Store(true)
	require.Eventually(t, func() bool { return !d.Polling() }, waitFor, tick)
	assert.Equal(t, usecase.StateSubscribed, d.State(usecase.WatchBookings))
}

type fakeObserver struct {
	mu      sync.Mutex
	states  map[string]int
	polling bool
}

func (f *fakeObserver) WatchStateChanged(watch string, state int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[watch] = state
}

func (f *fakeObserver) PollingActive(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polling = active
}

func TestDispatcher_ReportsToObserver(t *testing.T) {
	w := &fakeWatcher{
		BookingsFn: unsupported[bookings.Booking],
		CountersFn: func(ctx context.Context) (ports.ChangeStream[bookings.DashboardCounters], error) {
			return newChanStream[bookings.DashboardCounters](), nil
		},
	}
	obs := &fakeObserver{states: map[string]int{}}
	d := usecase.NewDispatcher(w, &fakeViews{}, &recorder{}, zaptest.NewLogger(t), usecase.Config{
		PollInterval: 10 * time.Millisecond,
		RetryBackoff: 20 * time.Millisecond,
	})
	d.SetObserver(obs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	require.Eventually(t, func() bool {
		obs.mu.Lock()
		defer obs.mu.Unlock()
		return obs.polling &&
			obs.states[usecase.WatchBookings] == int(usecase.StateUnavailable) &&
			obs.states[usecase.WatchCounters] == int(usecase.StateSubscribed)
	}, waitFor, tick)
}
