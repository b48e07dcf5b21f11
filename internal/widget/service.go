// Package widget hosts the home-screen widget family: an independent reader
// of the shared store that re-renders whenever the main app saves.
package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/theirongolddev/blockstime/internal/layout"
	"github.com/theirongolddev/blockstime/internal/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr is where the host listens and where Client signals by default.
const DefaultAddr = "127.0.0.1:8788"

// DefaultRefreshSpec is the fallback cron schedule.
const DefaultRefreshSpec = "@every 15m"

// Trigger names what caused a refresh.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerSignal   Trigger = "signal"
	TriggerWatch    Trigger = "watch"
	TriggerSchedule Trigger = "schedule"
)

// Source is the read side of the persistence gateway.
type Source interface {
	Load() []model.Category
	LastError() error
}

// Config controls the widget host runtime.
type Config struct {
	Addr         string
	StorePath    string        // shared database file to watch; empty disables watching
	RefreshSpec  string        // cron spec, "off" disables the schedule
	Debounce     time.Duration // quiet period before a watched change reloads
	EventsBuffer int
	Glyph        string
}

// Snapshot is what every widget size renders from.
type Snapshot struct {
	At             time.Time                `json:"at"`
	Categories     []model.Category         `json:"categories"`
	UsedHours      float64                  `json:"used_hours"`
	RemainingHours float64                  `json:"remaining_hours"`
	TotalBlocks    int                      `json:"total_blocks"`
	Layouts        map[string]layout.Result `json:"layouts"`
}

// Delta captures what changed between two refreshes.
type Delta struct {
	Added      []string `json:"added,omitempty"`
	Removed    []string `json:"removed,omitempty"`
	Changed    []string `json:"changed,omitempty"`
	HoursDelta float64  `json:"hours_delta"`
}

func (d Delta) isZero() bool {
	return len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Changed) == 0 &&
		d.HoursDelta == 0
}

// Event is emitted whenever the rendered state changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Trigger   Trigger   `json:"trigger"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time         `json:"started_at"`
	LastRefreshAt   time.Time         `json:"last_refresh_at"`
	RefreshCount    int64             `json:"refresh_count"`
	Triggers        map[Trigger]int64 `json:"triggers"`
	RefreshSpec     string            `json:"refresh_spec"`
	StorePath       string            `json:"store_path,omitempty"`
	Categories      int               `json:"categories"`
	UsedHours       float64           `json:"used_hours"`
	LastError       string            `json:"last_error,omitempty"`
	EventCount      int               `json:"event_count"`
	SubscriberCount int               `json:"subscriber_count"`
}

// Service provides the widget host runtime and HTTP API.
type Service struct {
	cfg Config
	src Source
	log *zap.Logger

	mu            sync.RWMutex
	startedAt     time.Time
	lastRefreshAt time.Time
	refreshCount  int64
	triggers      map[Trigger]int64
	lastError     string
	hasSnapshot   bool
	snapshot      Snapshot
	nextEventID   int64
	events        []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a widget host reading from src.
func New(cfg Config, src Source, log *zap.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RefreshSpec == "" {
		cfg.RefreshSpec = DefaultRefreshSpec
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		log:       log,
		startedAt: time.Now(),
		triggers:  make(map[Trigger]int64),
		subs:      make(map[int]chan Event),
	}
}

// Run listens on cfg.Addr and serves until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("widget listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the HTTP API on ln together with the store watcher and the
// fallback schedule. All of them stop when ctx is canceled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	var sched *cron.Cron
	if s.cfg.RefreshSpec != "off" {
		sched = cron.New()
		if _, err := sched.AddFunc(s.cfg.RefreshSpec, func() { s.Refresh(TriggerSchedule) }); err != nil {
			_ = ln.Close()
			return fmt.Errorf("widget refresh schedule %q: %w", s.cfg.RefreshSpec, err)
		}
	}

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// Seed initial snapshot so status is useful immediately.
	s.Refresh(TriggerStartup)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("widget http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if s.cfg.StorePath != "" {
		w, err := newStoreWatcher(s.cfg.StorePath, s.cfg.Debounce, s.log)
		if err != nil {
			// The schedule still guarantees eventual refresh.
			s.log.Warn("store watcher unavailable", zap.String("path", s.cfg.StorePath), zap.Error(err))
		} else {
			g.Go(func() error {
				return w.run(gctx, func() { s.Refresh(TriggerWatch) })
			})
		}
	}

	if sched != nil {
		sched.Start()
		g.Go(func() error {
			<-gctx.Done()
			<-sched.Stop().Done()
			return nil
		})
	}

	s.log.Info("widget host serving",
		zap.String("addr", ln.Addr().String()),
		zap.String("store", s.cfg.StorePath),
		zap.String("schedule", s.cfg.RefreshSpec))

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Refresh reloads from the source and publishes an event when the
// rendered state changed.
func (s *Service) Refresh(trigger Trigger) {
	cats := s.src.Load()
	loadErr := s.src.LastError()
	now := time.Now()
	snap := SnapshotOf(cats, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastRefreshAt = now
	s.refreshCount++
	s.triggers[trigger]++
	if loadErr != nil {
		s.lastError = loadErr.Error()
	} else {
		s.lastError = ""
	}

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Trigger:   trigger,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "changed",
				Trigger:   trigger,
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if loadErr != nil {
		s.log.Warn("widget reload fell back to defaults", zap.String("trigger", string(trigger)), zap.Error(loadErr))
	} else {
		s.log.Debug("widget reloaded", zap.String("trigger", string(trigger)), zap.Bool("changed", publish))
	}

	if publish {
		s.publishEvent(ev)
	}
}

// Snapshot returns the current render state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Subscribe registers for change events. The returned func unsubscribes.
func (s *Service) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan Event, buffer)
	id := s.addSubscriber(ch)
	return ch, func() { s.removeSubscriber(id) }
}

// SnapshotOf summarizes cats and lays them out for every widget size.
func SnapshotOf(cats []model.Category, at time.Time) Snapshot {
	visible := model.Visible(cats)
	total := model.TotalBlocks(visible)
	used := model.SumHours(cats)

	layouts := make(map[string]layout.Result, len(layout.WidgetSizes))
	for _, size := range layout.WidgetSizes {
		layouts[size.Name] = size.Compute(total)
	}

	return Snapshot{
		At:             at,
		Categories:     visible,
		UsedHours:      model.RoundHours(used),
		RemainingHours: model.RoundHours(model.TotalHours - used),
		TotalBlocks:    total,
		Layouts:        layouts,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	var d Delta

	before := make(map[string]model.Category, len(prev.Categories))
	for _, c := range prev.Categories {
		before[c.ID] = c
	}
	after := make(map[string]bool, len(curr.Categories))
	for _, c := range curr.Categories {
		after[c.ID] = true
		old, ok := before[c.ID]
		switch {
		case !ok:
			d.Added = append(d.Added, c.ID)
		case old != c:
			d.Changed = append(d.Changed, c.ID)
		}
	}
	for _, c := range prev.Categories {
		if !after[c.ID] {
			d.Removed = append(d.Removed, c.ID)
		}
	}

	// Same members in a new order still changes the grid.
	if d.isZero() && !slices.Equal(prev.Categories, curr.Categories) {
		for _, c := range curr.Categories {
			d.Changed = append(d.Changed, c.ID)
		}
	}

	d.HoursDelta = model.RoundHours(curr.UsedHours - prev.UsedHours)
	return d
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	triggers := make(map[Trigger]int64, len(s.triggers))
	for k, v := range s.triggers {
		triggers[k] = v
	}

	return Status{
		StartedAt:       s.startedAt,
		LastRefreshAt:   s.lastRefreshAt,
		RefreshCount:    s.refreshCount,
		Triggers:        triggers,
		RefreshSpec:     s.cfg.RefreshSpec,
		StorePath:       s.cfg.StorePath,
		Categories:      len(s.snapshot.Categories),
		UsedHours:       s.snapshot.UsedHours,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /v1/render/{size}", s.handleRender)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("POST /v1/reload", s.handleReload)
	return mux
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.Snapshot())
}

func (s *Service) handleRender(w http.ResponseWriter, r *http.Request) {
	size, err := layout.WidgetSizeByName(r.PathValue("size"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(Render(s.Snapshot(), size, s.cfg.Glyph)))
}

func (s *Service) handleReload(w http.ResponseWriter, _ *http.Request) {
	s.Refresh(TriggerSignal)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.Snapshot(),
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
