package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	bookings "booking-analytics-service/internal/bookings/core/domain"
	"booking-analytics-service/internal/realtime/core/domain"
	"booking-analytics-service/internal/realtime/core/ports"

	"go.uber.org/zap"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultRetryBackoff = 5 * time.Second

	// maxPolledBroadcast caps per-record notifications for one poll tick; the live feed
	// never shows more than this.
	maxPolledBroadcast = 10

	WatchBookings = "bookings"
	WatchCounters = "dashboard"
)

type WatchState int

const (
	StateInitializing WatchState = iota
	StateSubscribed
	StateReconnecting
	StateUnavailable
)

func (s WatchState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateSubscribed:
		return "subscribed"
	case StateReconnecting:
		return "reconnecting"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Observer receives state transitions, typically for metrics.
type Observer interface {
	WatchStateChanged(watch string, state int)
	PollingActive(active bool)
}

type Config struct {
	PollInterval time.Duration
	RetryBackoff time.Duration
}

// Dispatcher turns store change notifications into broadcasts. Each logical watch
// (booking inserts, dashboard counters) runs its own subscription loop. While any watch
// cannot subscribe, a polling loop covers it by diffing counts against the baseline.
type Dispatcher struct {
	watcher  ports.WatcherPort
	views    ports.ViewSource
	out      ports.Broadcaster
	logger   *zap.Logger
	cfg      Config
	observer Observer

	mu            sync.Mutex
	baselineReady bool
	lastBookings  int64
	lastUsers     int64
	states        map[string]WatchState
	pollCancel    context.CancelFunc

	wg sync.WaitGroup
}

func NewDispatcher(watcher ports.WatcherPort, views ports.ViewSource, out ports.Broadcaster, logger *zap.Logger, cfg Config) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	return &Dispatcher{
		watcher: watcher,
		views:   views,
		out:     out,
		logger:  logger.Named("dispatcher"),
		cfg:     cfg,
		states: map[string]WatchState{
			WatchBookings: StateInitializing,
			WatchCounters: StateInitializing,
		},
	}
}

func (d *Dispatcher) SetObserver(o Observer) {
	d.observer = o
}

// Run blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.snapshotBaseline(ctx)

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		runWatch(ctx, d, WatchBookings, d.watcher.WatchBookingInserts, d.handleInsert)
	}()
	go func() {
		defer d.wg.Done()
		runWatch(ctx, d, WatchCounters, d.watcher.WatchDashboardCounters, d.handleCounters)
	}()

	<-ctx.Done()

	d.mu.Lock()
	if d.pollCancel != nil {
		d.pollCancel()
		d.pollCancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("dispatcher stopped")
}

// State reports the current state of a watch.
func (d *Dispatcher) State(watch string) WatchState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.states[watch]
}

// Polling reports whether the polling fallback is active.
func (d *Dispatcher) Polling() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pollCancel != nil
}

func (d *Dispatcher) snapshotBaseline(ctx context.Context) {
	count, err := d.views.BookingCount(ctx)
	if err != nil {
		d.logger.Error("baseline booking count", zap.Error(err))
		return
	}
	users, err := d.views.TotalUsers(ctx)
	if err != nil {
		d.logger.Error("baseline user count", zap.Error(err))
		return
	}

	d.mu.Lock()
	d.lastBookings, d.lastUsers, d.baselineReady = count, users, true
	d.mu.Unlock()

	d.logger.Info("baseline counts", zap.Int64("bookings", count), zap.Int64("users", users))
}

func runWatch[T any](
	ctx context.Context,
	d *Dispatcher,
	name string,
	open func(context.Context) (ports.ChangeStream[T], error),
	handle func(context.Context, T),
) {
	for ctx.Err() == nil {
		stream, err := open(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			d.setState(ctx, name, StateUnavailable, err)
			if !sleep(ctx, d.cfg.RetryBackoff) {
				return
			}
			continue
		}

		d.setState(ctx, name, StateSubscribed, nil)
		for stream.Next(ctx) {
			handle(ctx, stream.Current())
		}
		err = stream.Err()
		_ = stream.Close(context.Background())
		if ctx.Err() != nil {
			return
		}

		d.setState(ctx, name, StateReconnecting, err)
		if !sleep(ctx, d.cfg.RetryBackoff) {
			return
		}
	}
}

func (d *Dispatcher) setState(ctx context.Context, name string, s WatchState, cause error) {
	d.mu.Lock()
	prev := d.states[name]
	d.states[name] = s
	d.updatePollingLocked(ctx)
	d.mu.Unlock()

	if d.observer != nil {
		d.observer.WatchStateChanged(name, int(s))
	}
	if prev == s {
		return
	}

	fields := []zap.Field{zap.String("watch", name), zap.Stringer("from", prev), zap.Stringer("to", s)}
	switch s {
	case StateSubscribed:
		d.logger.Info("change stream active", fields...)
	case StateReconnecting:
		d.logger.Error("change stream error, reconnecting", append(fields, zap.Error(cause), zap.Duration("backoff", d.cfg.RetryBackoff))...)
	case StateUnavailable:
		d.logger.Warn("change stream unavailable, using polling", append(fields, zap.Error(cause))...)
	}
}

// updatePollingLocked starts polling when a watch is unavailable and stops it once every
// watch is back. d.mu must be held.
func (d *Dispatcher) updatePollingLocked(ctx context.Context) {
	need := false
	for _, s := range d.states {
		if s == StateUnavailable {
			need = true
			break
		}
	}

	switch {
	case need && d.pollCancel == nil && ctx.Err() == nil:
		pctx, cancel := context.WithCancel(ctx)
		d.pollCancel = cancel
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.poll(pctx)
		}()
		d.logger.Warn("polling fallback started", zap.Duration("interval", d.cfg.PollInterval))
		if d.observer != nil {
			d.observer.PollingActive(true)
		}
	case !need && d.pollCancel != nil:
		d.pollCancel()
		d.pollCancel = nil
		d.logger.Info("polling fallback stopped")
		if d.observer != nil {
			d.observer.PollingActive(false)
		}
	}
}

func (d *Dispatcher) poll(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	d.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.pollOnce(ctx)
		}
	}
}

// pollOnce diffs the counts of every unavailable watch against the baseline.
func (d *Dispatcher) pollOnce(ctx context.Context) {
	d.mu.Lock()
	checkBookings := d.states[WatchBookings] == StateUnavailable
	checkUsers := d.states[WatchCounters] == StateUnavailable
	d.mu.Unlock()

	count, err := d.views.BookingCount(ctx)
	if err != nil {
		d.logger.Error("poll booking count", zap.Error(err))
		return
	}
	users, err := d.views.TotalUsers(ctx)
	if err != nil {
		d.logger.Error("poll user count", zap.Error(err))
		return
	}

	d.mu.Lock()
	if !d.baselineReady {
		d.lastBookings, d.lastUsers, d.baselineReady = count, users, true
		d.mu.Unlock()
		return
	}
	// a watch may have resubscribed during the reads and advanced the baseline itself
	checkBookings = checkBookings && d.states[WatchBookings] == StateUnavailable
	checkUsers = checkUsers && d.states[WatchCounters] == StateUnavailable
	added := count - d.lastBookings
	bookingsChanged := checkBookings && count != d.lastBookings
	usersChanged := checkUsers && users != d.lastUsers
	if checkBookings {
		d.lastBookings = count
	}
	if checkUsers {
		d.lastUsers = users
	}
	d.mu.Unlock()

	if !bookingsChanged && !usersChanged {
		return
	}

	if bookingsChanged && added > 0 {
		d.logger.Info("detected new bookings", zap.Int64("added", added))
		d.broadcastRecent(ctx, added)
	}
	if usersChanged {
		d.logger.Info("detected user count change", zap.Int64("users", users))
	}

	d.broadcastStats(ctx)
}

// broadcastRecent sends the newest n bookings oldest first, so a feed that prepends
// ends up newest on top.
func (d *Dispatcher) broadcastRecent(ctx context.Context, n int64) {
	limit := int(min(n, maxPolledBroadcast))
	recent, err := d.views.RecentBookings(ctx, limit)
	if err != nil {
		d.logger.Error("fetch new bookings", zap.Error(err))
		return
	}
	for i := len(recent) - 1; i >= 0; i-- {
		d.out.Broadcast(domain.EventNewBooking, recent[i])
	}
}

func (d *Dispatcher) handleInsert(ctx context.Context, b bookings.Booking) {
	d.logger.Info("new booking",
		zap.String("city", b.Location),
		zap.String("appointment_date", b.AppointmentDate))

	d.out.Broadcast(domain.EventNewBooking, b)

	d.mu.Lock()
	d.lastBookings++
	d.mu.Unlock()

	d.broadcastStats(ctx)
}

func (d *Dispatcher) handleCounters(ctx context.Context, c bookings.DashboardCounters) {
	if c.Key != bookings.DashboardKey || strings.TrimSpace(c.TotalUsers) == "" {
		return
	}
	users := c.Users()

	d.mu.Lock()
	prev := d.lastUsers
	changed := users != prev
	d.lastUsers = users
	d.mu.Unlock()

	if !changed {
		return
	}
	d.logger.Info("total users updated", zap.Int64("from", prev), zap.Int64("to", users))
	d.broadcastStats(ctx)
}

// broadcastStats recomputes the statistics object from the store. Concurrent calls may
// race; the last one to finish wins.
func (d *Dispatcher) broadcastStats(ctx context.Context) {
	stats, err := d.views.OverallStats(ctx)
	if err != nil {
		d.logger.Error("recompute stats", zap.Error(err))
		return
	}
	d.out.Broadcast(domain.EventStats, stats)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
