package monitoring

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
)

// Probe reports a gauge such as the number of hosted matches
type Probe func() int

// Monitor samples goroutines and registered probes on an interval and
// counts the events published on a match bus. It warns once the goroutine
// count passes a threshold, at most once per cooldown.
type Monitor struct {
	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	probes         map[string]Probe
	gauges         map[string]int
	eventCounts    map[string]int

	logger   zerolog.Logger
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewMonitor creates a monitor with a 30s interval
func NewMonitor(logger zerolog.Logger) *Monitor {
	baseline := runtime.NumGoroutine()
	return &Monitor{
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  30 * time.Second,
		alertThreshold: 1000,
		alertCooldown:  5 * time.Minute,
		probes:         make(map[string]Probe),
		gauges:         make(map[string]int),
		eventCounts:    make(map[string]int),
		logger:         logger.With().Str("component", "monitor").Logger(),
		stopChan:       make(chan struct{}),
	}
}

// AddProbe registers a gauge sampled on every check
func (m *Monitor) AddProbe(name string, p Probe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes[name] = p
}

// Start begins sampling
func (m *Monitor) Start() {
	go m.run()
	m.logger.Info().Int("baseline", m.baseline).Msg("Started monitoring")
}

// Stop ends sampling. It is safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check()
		case <-m.stopChan:
			return
		}
	}
}

// Check takes one sample now
func (m *Monitor) Check() {
	current := runtime.NumGoroutine()

	m.mu.Lock()
	probes := make(map[string]Probe, len(m.probes))
	for name, p := range m.probes {
		probes[name] = p
	}
	m.mu.Unlock()

	// probes may take their own locks
	gauges := make(map[string]int, len(probes))
	for name, p := range probes {
		gauges[name] = p()
	}

	m.mu.Lock()
	m.current = current
	if current > m.peak {
		m.peak = current
	}
	m.gauges = gauges
	growth := current - m.baseline
	shouldAlert := current > m.alertThreshold && time.Since(m.lastAlert) > m.alertCooldown
	if shouldAlert {
		m.lastAlert = time.Now()
	}
	peak := m.peak
	m.mu.Unlock()

	ev := m.logger.Debug().
		Int("goroutines", current).
		Int("peak", peak).
		Int("growth", growth)
	for name, v := range gauges {
		ev = ev.Int(name, v)
	}
	ev.Msg("Server metrics")

	if shouldAlert {
		m.logger.Warn().
			Int("goroutines", current).
			Int("threshold", m.alertThreshold).
			Msg("High goroutine count detected - possible leak")
	}
}

// ID implements events.Subscriber
func (m *Monitor) ID() string { return "monitor" }

// InterestedIn implements events.Subscriber; every event is counted
func (m *Monitor) InterestedIn(string) bool { return true }

// HandleEvent implements events.Subscriber
func (m *Monitor) HandleEvent(e events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCounts[e.Type()]++
}

// Metrics is a point-in-time copy of what the monitor knows
type Metrics struct {
	Goroutines  int            `json:"goroutines"`
	Baseline    int            `json:"baseline"`
	Peak        int            `json:"peak"`
	Growth      int            `json:"growth"`
	Gauges      map[string]int `json:"gauges"`
	EventCounts map[string]int `json:"eventCounts"`
}

// Metrics returns the latest sample
func (m *Monitor) Metrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Metrics{
		Goroutines:  m.current,
		Baseline:    m.baseline,
		Peak:        m.peak,
		Growth:      m.current - m.baseline,
		Gauges:      copyMap(m.gauges),
		EventCounts: copyMap(m.eventCounts),
	}
}

// Handler serves the latest sample as JSON
func (m *Monitor) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(m.Metrics()); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to encode metrics")
		}
	})
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
