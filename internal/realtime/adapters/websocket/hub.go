// Package websocket delivers dashboard events to connected viewers. Each viewer gets a
// bounded send queue drained by its own writer goroutine, so a slow viewer loses frames
// instead of stalling everyone else.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"booking-analytics-service/internal/analytics/adapters/dto"
	"booking-analytics-service/internal/realtime/core/domain"
	"booking-analytics-service/internal/realtime/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultQueueSize = 64
	initialRecent    = 10
	requestTimeout   = 10 * time.Second
)

// Conn is the part of a websocket connection the hub uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	Close() error
}

// Observer receives delivery counters, typically for metrics.
type Observer interface {
	ViewerConnected()
	ViewerDisconnected()
	Broadcasted(event string)
	FrameDropped()
}

// Frame is one message on the wire.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type viewer struct {
	id   string
	conn Conn
	send chan Frame
	done chan struct{}
	once sync.Once

	// closed when writeLoop has returned; conn must not be touched after Serve returns
	writerDone chan struct{}
}

func (v *viewer) close() {
	v.once.Do(func() {
		close(v.done)
		_ = v.conn.Close()
	})
}

type HubOption func(*Hub)

func WithQueueSize(n int) HubOption {
	return func(h *Hub) { h.queueSize = n }
}

func WithObserver(o Observer) HubOption {
	return func(h *Hub) { h.observer = o }
}

type Hub struct {
	views     ports.ViewSource
	logger    *zap.Logger
	observer  Observer
	queueSize int

	mu      sync.RWMutex
	viewers map[string]*viewer
}

func NewHub(views ports.ViewSource, logger *zap.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		views:     views,
		logger:    logger.Named("hub"),
		queueSize: defaultQueueSize,
		viewers:   make(map[string]*viewer),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Count returns the number of connected viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Broadcast queues one frame for every connected viewer without blocking.
func (h *Hub) Broadcast(event string, payload any) {
	f := Frame{Event: event, Data: dto.Present(payload)}

	h.mu.RLock()
	targets := make([]*viewer, 0, len(h.viewers))
	for _, v := range h.viewers {
		targets = append(targets, v)
	}
	h.mu.RUnlock()

	for _, v := range targets {
		h.enqueue(v, f)
	}
	if h.observer != nil {
		h.observer.Broadcasted(event)
	}
}

func (h *Hub) enqueue(v *viewer, f Frame) {
	select {
	case <-v.done:
		return
	default:
	}

	select {
	case v.send <- f:
	default:
		h.logger.Warn("viewer queue full, dropping frame",
			zap.String("viewer", v.id),
			zap.String("event", f.Event))
		if h.observer != nil {
			h.observer.FrameDropped()
		}
	}
}

// Serve registers conn as a viewer and blocks until it disconnects and its writer has
// stopped. Requests are answered asynchronously; replies go to this viewer only.
func (h *Hub) Serve(ctx context.Context, conn Conn) {
	v := h.register(conn)
	go h.writeLoop(v)
	defer func() {
		h.unregister(v)
		<-v.writerDone
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req Frame
		if err := json.Unmarshal(msg, &req); err != nil {
			h.enqueue(v, errorFrame("Malformed request"))
			continue
		}
		go h.handle(ctx, v, req.Event)
	}
}

func (h *Hub) register(conn Conn) *viewer {
	v := &viewer{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Frame, h.queueSize),
		done: make(chan struct{}),

		writerDone: make(chan struct{}),
	}

	h.mu.Lock()
	h.viewers[v.id] = v
	n := len(h.viewers)
	h.mu.Unlock()

	h.logger.Info("viewer connected", zap.String("viewer", v.id), zap.Int("viewers", n))
	if h.observer != nil {
		h.observer.ViewerConnected()
	}
	return v
}

func (h *Hub) unregister(v *viewer) {
	h.mu.Lock()
	_, ok := h.viewers[v.id]
	delete(h.viewers, v.id)
	n := len(h.viewers)
	h.mu.Unlock()

	v.close()
	if !ok {
		return
	}

	h.logger.Info("viewer disconnected", zap.String("viewer", v.id), zap.Int("viewers", n))
	if h.observer != nil {
		h.observer.ViewerDisconnected()
	}
}

func (h *Hub) writeLoop(v *viewer) {
	defer close(v.writerDone)
	for {
		select {
		case <-v.done:
			return
		case f := <-v.send:
			// select picks randomly when both are ready
			select {
			case <-v.done:
				return
			default:
			}
			if err := v.conn.WriteJSON(f); err != nil {
				h.logger.Debug("write failed", zap.String("viewer", v.id), zap.Error(err))
				// unblocks the read loop in Serve
				v.close()
				return
			}
		}
	}
}

func (h *Hub) handle(ctx context.Context, v *viewer, event string) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	switch event {
	case domain.RequestInitialData:
		snap, err := h.snapshot(ctx)
		if err != nil {
			h.logger.Error("initial data", zap.String("viewer", v.id), zap.Error(err))
			h.enqueue(v, errorFrame("Failed to fetch initial data"))
			return
		}
		h.enqueue(v, Frame{Event: domain.EventInitialData, Data: dto.Present(snap)})

	case domain.RequestStats:
		stats, err := h.views.OverallStats(ctx)
		if err != nil {
			h.logger.Error("stats request", zap.String("viewer", v.id), zap.Error(err))
			h.enqueue(v, errorFrame("Failed to fetch statistics"))
			return
		}
		h.enqueue(v, Frame{Event: domain.EventStats, Data: dto.Present(stats)})

	case domain.RequestCityStats:
		cities, err := h.views.CityLeaderboard(ctx)
		if err != nil {
			h.logger.Error("city stats request", zap.String("viewer", v.id), zap.Error(err))
			h.enqueue(v, errorFrame("Failed to fetch city statistics"))
			return
		}
		h.enqueue(v, Frame{Event: domain.EventCityStats, Data: dto.Present(cities)})

	default:
		h.enqueue(v, errorFrame("Unknown event: "+event))
	}
}

// snapshot computes the three initial views concurrently.
func (h *Hub) snapshot(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recent, err := h.views.RecentBookings(gctx, initialRecent)
		snap.RecentBookings = recent
		return err
	})
	g.Go(func() error {
		stats, err := h.views.OverallStats(gctx)
		snap.Stats = stats
		return err
	})
	g.Go(func() error {
		cities, err := h.views.CityLeaderboard(gctx)
		snap.CityStats = cities
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.RLock()
	targets := make([]*viewer, 0, len(h.viewers))
	for _, v := range h.viewers {
		targets = append(targets, v)
	}
	h.mu.RUnlock()

	for _, v := range targets {
		v.close()
	}
}

func errorFrame(msg string) Frame {
	return Frame{Event: domain.EventError, Data: dto.Present(domain.Failure{Message: msg})}
}
