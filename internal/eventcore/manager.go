package eventcore

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/dshills/eventcore/internal/corelog"
	"github.com/rs/zerolog"
)

// queuedEvent is one pending (event, channel, target) tuple waiting for a
// flush, in the order it was pushed.
type queuedEvent struct {
	event   *Event
	channel string
	target  string
}

// metricsRecorder is the narrow surface Manager needs from a metrics
// backend. It is satisfied by *Metrics (prometheus-backed); a nil
// metricsRecorder is valid and every call on it is a no-op.
type metricsRecorder interface {
	ObserveDispatch(channel string, handlerCount int, failed bool)
	ObserveQueueDepth(depth int)
}

// Manager owns a pending-event queue, a handler index and the set of
// components attached to it. A Manager that has not been attached to
// another Manager is its own root; Push, Flush and Send always operate on
// the resolved root so the whole tree behaves as one bus.
type Manager struct {
	name string

	mu     sync.Mutex
	self   *Manager // back-reference target; == this Manager when it is root
	queue  []queuedEvent
	ticked []Ticker

	components map[*Component]struct{}
	index      *handlerIndex

	raiseErrors bool
	logErrors   bool

	log     zerolog.Logger
	metrics metricsRecorder
}

// ManagerOption configures a Manager at construction.
type ManagerOption func(*Manager)

// WithRaiseErrors controls whether Send re-raises a contained handler
// failure to its caller. Default false.
func WithRaiseErrors(raise bool) ManagerOption {
	return func(m *Manager) { m.raiseErrors = raise }
}

// WithLogErrors controls whether a handler failure is converted into an
// Error event on the reserved "error" channel. Default true.
func WithLogErrors(log bool) ManagerOption {
	return func(m *Manager) { m.logErrors = log }
}

// WithMetrics attaches a metrics recorder; nil is valid and disables
// metrics collection.
func WithMetrics(rec metricsRecorder) ManagerOption {
	return func(m *Manager) { m.metrics = rec }
}

// WithManagerName sets the name used in this manager's scoped logger.
func WithManagerName(name string) ManagerOption {
	return func(m *Manager) { m.name = name }
}

// NewManager constructs a standalone root Manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		components: make(map[*Component]struct{}),
		index:      newHandlerIndex(),
		logErrors:  true,
	}
	m.self = m
	for _, opt := range opts {
		opt(m)
	}
	if m.name == "" {
		m.name = "manager"
	}
	m.log = corelog.ForManager("eventcore.manager", m.name)
	return m
}

// Root returns the ultimate root this manager currently delegates to,
// resolving any chain of attachments.
func (m *Manager) Root() *Manager {
	r := m
	for r.self != r {
		r = r.self
	}
	return r
}

// IsRoot reports whether this manager is currently its own root.
func (m *Manager) IsRoot() bool {
	return m.Root() == m
}

// Add registers h under the given bucket key, delegating to the root's
// index per the framework's single-index-per-tree model.
func (m *Manager) Add(h *Handler, channel string) error {
	if channel == "" {
		channel = GlobalChannel
	}
	root := m.Root()
	if err := root.index.add(h, channel); err != nil {
		return fmt.Errorf("eventcore: register handler on %q: %w", channel, err)
	}
	return nil
}

// Remove deregisters h. An empty channel removes h from every bucket.
func (m *Manager) Remove(h *Handler, channel string) {
	m.Root().index.remove(h, channel)
}

// Handlers resolves address using the §4.3 addressing algebra against the
// root's index.
func (m *Manager) Handlers(address string) []*Handler {
	return m.Root().index.resolve(address)
}

// Attach registers c's handlers with m (really with m's root), adds c to
// the root's component set and sets c's back-reference to m's root. A component may only be attached to one parent at
// a time; re-attaching an already-attached component fails.
func (m *Manager) Attach(c *Component) error {
	if c.Root() != c.Manager {
		return ErrAlreadyAttached
	}
	root := m.Root()
	for _, b := range c.bindings {
		for _, ch := range b.handler.channelsOrGlobal() {
			key := ch
			if c.channel != "" {
				target := b.handler.Target
				if target == "" {
					target = c.channel
				}
				key = target + ":" + ch
			}
			if err := root.Add(b.handler, key); err != nil {
				return err
			}
			b.key = key
		}
	}
	root.mu.Lock()
	root.components[c] = struct{}{}
	root.mu.Unlock()
	c.self = root
	if hook, ok := any(c.impl).(registeredHook); ok {
		hook.Registered()
	}
	root.log.Debug().Str("component", c.name).Str("channel", c.channel).Msg("component attached")
	return nil
}

// Detach reverses Attach: every handler c registered is removed from the
// root's index, c is removed from the component set, and c's
// back-reference returns to itself.
func (m *Manager) Detach(c *Component) error {
	if c.self != m.Root() && c.self != m {
		return ErrNotRegistered
	}
	root := c.self
	root.mu.Lock()
	if _, ok := root.components[c]; !ok {
		root.mu.Unlock()
		return ErrNotRegistered
	}
	delete(root.components, c)
	root.mu.Unlock()

	for _, b := range c.bindings {
		root.Remove(b.handler, "")
		b.key = ""
	}
	c.self = c.Manager
	if hook, ok := any(c.impl).(unregisteredHook); ok {
		hook.Unregistered()
	}
	root.log.Debug().Str("component", c.name).Msg("component detached")
	return nil
}

// AddTicker registers a sub-manager whose Tick method the Driver should
// invoke once per run-loop iteration. This replaces the original
// framework's reflection over instance attributes (see design notes): Go
// has no vars(), so tickables are registered explicitly.
func (m *Manager) AddTicker(t Ticker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticked = append(m.ticked, t)
}

// Tickers returns the sub-managers registered via AddTicker, in
// registration order.
func (m *Manager) Tickers() []Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Ticker, len(m.ticked))
	copy(out, m.ticked)
	return out
}

// Push appends (event, channel, target) to the root's pending queue. Flush
// drains that queue newest-first.
func (m *Manager) Push(event *Event, channel, target string) {
	root := m.Root()
	root.mu.Lock()
	root.queue = append(root.queue, queuedEvent{event: event, channel: channel, target: target})
	depth := len(root.queue)
	root.mu.Unlock()
	if root.metrics != nil {
		root.metrics.ObserveQueueDepth(depth)
	}
}

// Flush atomically swaps the root's queue for a fresh one and dispatches
// every swapped-out entry via Send. Events pushed during the flush land in
// the new queue and are not processed until the next Flush. Extraction
// order within the swapped-out batch is LIFO (newest pushed first),
// matching the original framework's deque.pop() semantics.
func (m *Manager) Flush(ctx context.Context) error {
	root := m.Root()
	root.mu.Lock()
	batch := root.queue
	root.queue = nil
	root.mu.Unlock()

	var firstErr error
	for i := len(batch) - 1; i >= 0; i-- {
		qe := batch[i]
		if _, err := root.Send(ctx, qe.event, qe.channel, qe.target); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendOption overrides a Manager's default RaiseErrors/LogErrors policy
// for a single Send call.
type SendOption func(*sendConfig)

type sendConfig struct {
	raiseErrors *bool
	logErrors   *bool
}

// RaiseErrors overrides whether this call re-raises a handler failure.
func RaiseErrors(raise bool) SendOption {
	return func(c *sendConfig) { c.raiseErrors = &raise }
}

// LogErrors overrides whether this call converts a handler failure into an
// Error event.
func LogErrors(log bool) SendOption {
	return func(c *sendConfig) { c.logErrors = &log }
}

// Send dispatches event on channel (optionally scoped to target) through
// every handler yielded by address resolution, honoring filter
// short-circuit semantics and containing handler failures per the
// manager's RaiseErrors/LogErrors policy.
func (m *Manager) Send(ctx context.Context, event *Event, channel, target string, opts ...SendOption) (any, error) {
	root := m.Root()

	cfg := sendConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	raiseErrors := root.raiseErrors
	if cfg.raiseErrors != nil {
		raiseErrors = *cfg.raiseErrors
	}
	logErrors := root.logErrors
	if cfg.logErrors != nil {
		logErrors = *cfg.logErrors
	}

	event.Channel = channel
	event.Target = target

	key := channel
	if target != "" {
		key = target + ":" + channel
	}

	handlers := root.index.resolve(key)
	var result any
	failed := false

	for _, h := range handlers {
		r, err := invoke(ctx, h, event)
		if err != nil {
			failed = true
			name := h.Name
			if name == "" {
				name = h.Kind.String()
			}
			failure := &HandlerFailure{Handler: name, Event: event, Err: unwrapHandlerError(err), Panic: panicValue(err), Stack: stackValue(err)}
			if logErrors {
				root.Push(NewError(event, name, failure.Err), "error", "")
			}
			root.log.Error().Err(failure.Err).Str("handler", name).Str("channel", channel).Msg("handler failed")
			if raiseErrors {
				if root.metrics != nil {
					root.metrics.ObserveDispatch(channel, len(handlers), true)
				}
				return result, failure
			}
			continue
		}
		result = r
		if h.Kind == KindFilter && truthy(r) {
			if root.metrics != nil {
				root.metrics.ObserveDispatch(channel, len(handlers), failed)
			}
			return result, nil
		}
	}

	if root.metrics != nil {
		root.metrics.ObserveDispatch(channel, len(handlers), failed)
	}
	return result, nil
}

// registeredHook and unregisteredHook are the optional lifecycle hooks a
// concrete component implementation may satisfy.
type registeredHook interface{ Registered() }
type unregisteredHook interface{ Unregistered() }

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		rv := reflect.ValueOf(x)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
			reflect.Float32, reflect.Float64:
			return !rv.IsZero()
		}
		return true
	}
}
