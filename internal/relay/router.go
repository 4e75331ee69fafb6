package relay

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Router.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Notifier acknowledges a successful state change, typically by pulsing a
// status LED. It runs inside the Router's critical section and must stay
// short and local.
type Notifier interface {
	Pulse() error
}

// Observer is notified of each accepted state change after it has been
// applied and persisted. Observers run inside the critical section and
// must not block; hand off to a goroutine or channel for slow work.
type Observer func(view View, source string)

// Router is the single serialisation point for relay commands. Every
// transport - HTTP handlers, the MQTT bridge, boot restore - funnels
// through it, so registry state, the debounce ledger, and the persisted
// snapshot always agree.
type Router struct {
	mu        sync.Mutex
	registry  *Registry
	ledger    *Ledger
	store     Store
	history   History
	notifier  Notifier
	logger    Logger
	observers []Observer
}

// NewRouter creates a router over the registry with the given toggle
// debounce window. Persistence, history, the indicator, and observers are
// attached separately and are all optional.
func NewRouter(registry *Registry, debounce time.Duration) *Router {
	return &Router{
		registry: registry,
		ledger:   NewLedger(registry.Count(), debounce),
		logger:   noopLogger{},
	}
}

// SetStore attaches snapshot persistence.
func (r *Router) SetStore(store Store) {
	r.store = store
}

// SetHistory attaches state-change history recording.
func (r *Router) SetHistory(history History) {
	r.history = history
}

// SetNotifier attaches the status indicator.
func (r *Router) SetNotifier(notifier Notifier) {
	r.notifier = notifier
}

// SetLogger sets the logger for the router.
func (r *Router) SetLogger(logger Logger) {
	r.logger = logger
}

// AddObserver registers a state-change observer.
func (r *Router) AddObserver(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, obs)
}

// Count returns the number of relays.
func (r *Router) Count() int {
	return r.registry.Count()
}

// Get returns the current view of one relay.
func (r *Router) Get(index int) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Get(index)
}

// All returns every relay in ascending index order, read atomically.
func (r *Router) All() []View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Views()
}

// Toggle flips one relay, subject to the debounce window.
//
// A debounced toggle is not an error: the relay's current state comes
// back with changed=false, the ledger stays put, and nothing is
// persisted, pulsed, or recorded. Callers that surface results to users
// should present it exactly like a successful command.
func (r *Router) Toggle(ctx context.Context, index int, source string) (View, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.registry.Get(index)
	if err != nil {
		return View{}, false, err
	}

	if !r.ledger.Allow(index) {
		r.logger.Debug("toggle debounced", "relay", index, "state", current.State.String())
		return current, false, nil
	}

	view, err := r.registry.Set(index, current.State.Toggled())
	if err != nil {
		return View{}, false, err
	}

	r.logger.Info("relay toggled", "relay", index, "state", view.State.String(), "source", source)
	r.afterChange(ctx, []View{view}, source)
	return view, true, nil
}

// Set drives one relay to an explicit state. Never debounced, and always
// treated as a change even when the relay was already in that state: the
// snapshot is rewritten and observers fire, matching the idempotent
// semantics of an explicit command.
func (r *Router) Set(ctx context.Context, index int, state State, source string) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	view, err := r.registry.Set(index, state)
	if err != nil {
		return View{}, err
	}

	r.logger.Info("relay set", "relay", index, "state", state.String(), "source", source)
	r.afterChange(ctx, []View{view}, source)
	return view, nil
}

// SetAll drives every relay to the same state with exactly one snapshot
// write for the whole sweep.
func (r *Router) SetAll(ctx context.Context, state State, source string) ([]View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	views := make([]View, 0, r.registry.Count())
	for i := 0; i < r.registry.Count(); i++ {
		view, err := r.registry.Set(i, state)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	r.logger.Info("all relays set", "state", state.String(), "count", len(views), "source", source)
	r.afterChange(ctx, views, source)
	return views, nil
}

// Restore loads the persisted snapshot and drives the relays to match.
// Called once at boot, before any transport starts.
//
// An absent snapshot is normal (first boot, or persistence switched on
// later): defaults stand and nothing is written until the first mutation.
// A load failure is logged and defaults stand; refusing to start over a
// bad snapshot row would turn a storage blip into an outage.
func (r *Router) Restore(ctx context.Context) error {
	if r.store == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.store.Load(ctx)
	if errors.Is(err, ErrSnapshotAbsent) {
		r.logger.Info("no relay snapshot, using defaults")
		return nil
	}
	if err != nil {
		r.logger.Warn("loading relay snapshot failed, using defaults", "error", err)
		return nil
	}

	if err := r.registry.Restore(snap); err != nil {
		return err
	}

	r.logger.Info("relay states restored", "snapshot", uint64(snap))
	return nil
}

// afterChange runs the post-mutation chain inside the critical section:
// one snapshot write for the batch, one indicator pulse, then history and
// observers per relay.
func (r *Router) afterChange(ctx context.Context, views []View, source string) {
	if r.store != nil {
		if err := r.store.Save(ctx, r.registry.Snapshot()); err != nil {
			// Swallowed: the relays have already moved. State and disk
			// reconcile on the next successful save.
			r.logger.Error("saving relay snapshot", "error", err)
		}
	}

	if r.notifier != nil {
		if err := r.notifier.Pulse(); err != nil {
			r.logger.Warn("indicator pulse failed", "error", err)
		}
	}

	for _, view := range views {
		if r.history != nil {
			if err := r.history.Record(ctx, view, source); err != nil {
				r.logger.Warn("recording relay history", "relay", view.ID, "error", err)
			}
		}
		for _, obs := range r.observers {
			obs(view, source)
		}
	}
}
