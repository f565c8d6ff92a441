package statusled

import (
	"log/slog"
	"sync"

	"github.com/smazurov/lichtwerk/internal/events"
)

// Manager subscribes to render loop events and sets the board LED.
type Manager struct {
	controller  Controller
	eventBus    *events.Bus
	unsubscribe []func()
	logger      *slog.Logger

	mu        sync.Mutex
	rendering bool
	faulted   bool
	pattern   Pattern
}

// NewManager creates a manager for controller. The LED is not touched until
// Start.
func NewManager(controller Controller, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller: controller,
		eventBus:   eventBus,
		logger:     logger,
		pattern:    PatternOff,
	}
}

// Start switches the LED off and begins listening for render events.
func (m *Manager) Start() {
	m.unsubscribe = []func(){
		m.eventBus.Subscribe(func(e events.RenderModeChangedEvent) {
			m.update(func() { m.rendering = e.IsRendering() })
		}),
		m.eventBus.Subscribe(func(e events.HardwareErrorEvent) {
			m.update(func() { m.faulted = true })
		}),
		m.eventBus.Subscribe(func(e events.HardwareRecoveredEvent) {
			m.update(func() { m.faulted = false })
		}),
	}
	m.apply(PatternOff)
	m.logger.Info("Status LED manager started", "led", m.controller.Name())
}

// Stop unsubscribes and switches the LED off.
func (m *Manager) Stop() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
	m.apply(PatternOff)
	m.logger.Info("Status LED manager stopped")
}

// Pattern returns the pattern last applied to the LED.
func (m *Manager) Pattern() Pattern {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pattern
}

// LED returns the controlled LED name, empty without hardware.
func (m *Manager) LED() string {
	return m.controller.Name()
}

func (m *Manager) update(change func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	change()
	m.set(m.desired())
}

// desired must be called with mu held.
func (m *Manager) desired() Pattern {
	switch {
	case m.faulted:
		return PatternHeartbeat
	case m.rendering:
		return PatternSolid
	default:
		return PatternOff
	}
}

func (m *Manager) apply(p Pattern) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(p)
}

// set must be called with mu held.
func (m *Manager) set(p Pattern) {
	if err := m.controller.Set(p); err != nil {
		m.logger.Warn("Failed to set status LED", "pattern", p, "error", err)
		return
	}
	if p != m.pattern {
		m.logger.Debug("Status LED changed", "from", m.pattern, "to", p)
	}
	m.pattern = p
}
