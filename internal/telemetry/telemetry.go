package telemetry

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Collector keeps in-process counters and timers for command executions and
// collector outcomes. It is a write-only side channel: nothing in the
// diagnostic data path reads it back.
type Collector struct {
	mu       sync.Mutex
	enabled  bool
	counters map[string]float64
	timers   map[string]time.Duration
	calls    map[string]int64
}

func NewCollector(enabled bool) *Collector {
	return &Collector{
		enabled:  enabled,
		counters: map[string]float64{},
		timers:   map[string]time.Duration{},
		calls:    map[string]int64{},
	}
}

func metricKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteByte('{')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
		b.WriteByte('}')
	}
	return b.String()
}

// Counter adds value to a counter metric.
func (c *Collector) Counter(name string, value float64, labels map[string]string) {
	if c == nil || !c.enabled {
		return
	}
	c.mu.Lock()
	c.counters[metricKey(name, labels)] += value
	c.mu.Unlock()
}

// Timer accumulates a duration metric and its call count.
func (c *Collector) Timer(name string, d time.Duration, labels map[string]string) {
	if c == nil || !c.enabled {
		return
	}
	key := metricKey(name, labels)
	c.mu.Lock()
	c.timers[key] += d
	c.calls[key]++
	c.mu.Unlock()
}

// Snapshot is a point-in-time metric dump for the metrics endpoint.
type Snapshot struct {
	Counters map[string]float64 `json:"counters"`
	TimersMS map[string]int64   `json:"timers_ms"`
	Calls    map[string]int64   `json:"calls"`
}

func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{Counters: map[string]float64{}, TimersMS: map[string]int64{}, Calls: map[string]int64{}}
	if c == nil {
		return s
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.counters {
		s.Counters[k] = v
	}
	for k, v := range c.timers {
		s.TimersMS[k] = v.Milliseconds()
	}
	for k, v := range c.calls {
		s.Calls[k] = v
	}
	return s
}

// LogSummary emits the current metric totals at debug level.
func (c *Collector) LogSummary() {
	s := c.Snapshot()
	log.Debug().
		Int("counters", len(s.Counters)).
		Int("timers", len(s.TimersMS)).
		Msg("telemetry summary")
}
