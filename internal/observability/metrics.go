package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	errorCount     map[string]int64
	notifyAttempts map[string]int64
	notifyFailures map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:   make(map[string]int64),
		errorCount:     make(map[string]int64),
		notifyAttempts: make(map[string]int64),
		notifyFailures: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordNotifyAttempt counts one notification dispatch per channel.
func (m *Metrics) RecordNotifyAttempt(channel string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyAttempts[channel]++
}

// RecordNotifyFailure counts a failed delivery per channel.
func (m *Metrics) RecordNotifyFailure(channel string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyFailures[channel]++
}

// NotifySnapshot returns per-channel attempt and failure counts.
func (m *Metrics) NotifySnapshot() (attempts, failures map[string]int64) {
	attempts = make(map[string]int64)
	failures = make(map[string]int64)
	if m == nil {
		return attempts, failures
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.notifyAttempts {
		attempts[k] = v
	}
	for k, v := range m.notifyFailures {
		failures[k] = v
	}
	return attempts, failures
}
