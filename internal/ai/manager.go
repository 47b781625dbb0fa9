package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrControllerNotFound is returned by GetController for unknown objects.
var ErrControllerNotFound = errors.New("controller not found")

// Clock is the logic frame counter the manager advances.
type Clock interface {
	Frame() uint32
	Advance() uint32
}

// Observer receives per-step statistics, e.g. a metrics collector.
type Observer interface {
	ObserveTick(d time.Duration, controllers, blocked, braking, arrivals int)
}

// ManagerOptions configures a TickManager.
type ManagerOptions struct {
	FrameRate int    // ticks per second, defaults to 30
	MaxFrames uint32 // Start returns after this many steps, 0 runs until stopped
	Observer  Observer
}

// StepStats summarizes one step.
type StepStats struct {
	Frame       uint32
	Controllers int
	Blocked     int
	Braking     int
	Arrivals    int // controllers that arrived during this step
}

type entry struct {
	controller Controller
	arrived    bool
}

// TickManager ticks every registered controller once per logic frame, in
// registration order.
type TickManager struct {
	mu      sync.Mutex
	entries []*entry
	index   map[uint32]int // objectID → position in entries

	clock    Clock
	opts     ManagerOptions
	interval time.Duration

	stopCh          chan struct{}
	stopOnce        sync.Once
	controllerCount atomic.Int32 // cached count of controllers (O(1) access)
	steps           atomic.Uint32
}

// NewTickManager creates a tick manager advancing clock.
func NewTickManager(clock Clock, opts ManagerOptions) *TickManager {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}
	return &TickManager{
		index:    make(map[uint32]int),
		clock:    clock,
		opts:     opts,
		interval: time.Second / time.Duration(opts.FrameRate),
		stopCh:   make(chan struct{}),
	}
}

// Register adds a controller at the end of the tick order and starts it.
// Registering an ID twice replaces the old controller in place.
func (m *TickManager) Register(controller Controller) {
	m.mu.Lock()
	id := controller.ObjectID()
	if i, ok := m.index[id]; ok {
		m.entries[i].controller.Stop()
		m.entries[i] = &entry{controller: controller}
	} else {
		m.index[id] = len(m.entries)
		m.entries = append(m.entries, &entry{controller: controller})
		m.controllerCount.Add(1)
	}
	m.mu.Unlock()

	controller.Start()

	slog.Debug("controller registered",
		"objectID", id,
		"intention", controller.CurrentIntention())
}

// Unregister stops and removes a controller.
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	i, ok := m.index[objectID]
	if !ok {
		m.mu.Unlock()
		return
	}
	e := m.entries[i]
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, objectID)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].controller.ObjectID()] = j
	}
	m.controllerCount.Add(-1)
	m.mu.Unlock()

	e.controller.Stop()

	slog.Debug("controller unregistered", "objectID", objectID)
}

// Count returns number of registered controllers (O(1) cached count).
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// Steps returns how many steps have run.
func (m *TickManager) Steps() uint32 {
	return m.steps.Load()
}

// GetController returns the controller of an object.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[objectID]
	if !ok {
		return nil, fmt.Errorf("objectID %d: %w", objectID, ErrControllerNotFound)
	}
	return m.entries[i].controller, nil
}

// Controllers returns the registered controllers in tick order.
func (m *TickManager) Controllers() []Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Controller, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.controller
	}
	return out
}

// Step advances the clock by one frame and ticks every controller.
func (m *TickManager) Step() StepStats {
	start := time.Now()

	m.mu.Lock()
	stats := StepStats{Frame: m.clock.Advance()}
	for _, e := range m.entries {
		e.controller.Tick()

		st := e.controller.State()
		if !st.Active {
			continue
		}
		stats.Controllers++
		if st.Blocked {
			stats.Blocked++
		}
		if st.Braking {
			stats.Braking++
		}
		if st.Arrived && !e.arrived {
			stats.Arrivals++
		}
		e.arrived = st.Arrived
	}
	m.mu.Unlock()

	m.steps.Add(1)
	if m.opts.Observer != nil {
		m.opts.Observer.ObserveTick(time.Since(start), stats.Controllers, stats.Blocked, stats.Braking, stats.Arrivals)
	}

	if stats.Controllers > 0 && IsDebugEnabled() {
		slog.Debug("tick completed",
			"frame", stats.Frame,
			"controllers", stats.Controllers,
			"blocked", stats.Blocked,
			"braking", stats.Braking)
	}
	return stats
}

// Start runs the tick loop at the frame rate. Blocks until ctx is canceled,
// Stop is called or MaxFrames steps have run.
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("tick manager started", "interval", m.interval, "max_frames", m.opts.MaxFrames)

	for {
		select {
		case <-ctx.Done():
			slog.Info("tick manager stopping", "steps", m.Steps())
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("tick manager stopped", "steps", m.Steps())
			return nil

		case <-ticker.C:
			m.Step()
			if m.opts.MaxFrames > 0 && m.Steps() >= m.opts.MaxFrames {
				slog.Info("tick manager reached max frames", "frame", m.clock.Frame())
				return nil
			}
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}
