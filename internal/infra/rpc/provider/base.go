package provider

import (
	"sync"
	"time"
)

// unavailableAfter is the run of transport failures that marks an endpoint down.
const unavailableAfter = 3

// BaseProvider keeps the health counters and throttle monitor of one chain
// endpoint. Transports embed it and report each call outcome.
type BaseProvider struct {
	Name    string
	Monitor *ProviderMonitor

	mu               sync.RWMutex
	health           HealthStatus
	calls            int
	failures         int
	consecutiveFails int
	latencySum       time.Duration
}

func NewBaseProvider(name string) *BaseProvider {
	return &BaseProvider{
		Name:    name,
		Monitor: NewProviderMonitor(),
		health:  HealthStatus{Available: true},
	}
}

func (p *BaseProvider) GetName() string {
	return p.Name
}

// GetHealth snapshots the counters together with the monitor statistics.
func (p *BaseProvider) GetHealth() HealthStatus {
	stats := p.Monitor.GetStats()

	p.mu.RLock()
	defer p.mu.RUnlock()
	h := p.health
	h.MonitorStats = &stats
	return h
}

// IsAvailable reports whether the endpoint answers and is not being throttled.
func (p *BaseProvider) IsAvailable() bool {
	p.mu.RLock()
	up := p.health.Available
	p.mu.RUnlock()

	status := p.Monitor.CheckProviderStatus()
	return up && (status == StatusHealthy || status == StatusDegraded)
}

// RecordSuccess counts a call the node answered, including contract reverts.
func (p *BaseProvider) RecordSuccess(latency time.Duration) {
	p.mu.Lock()
	p.calls++
	p.consecutiveFails = 0
	p.latencySum += latency
	p.health.Available = true
	p.health.LastSuccessAt = time.Now()
	p.health.Latency = p.latencySum / time.Duration(p.calls-p.failures)
	p.health.ErrorRate = float64(p.failures) / float64(p.calls)
	p.mu.Unlock()

	p.Monitor.RecordRequest(latency)
}

// RecordFailure counts a transport failure.
func (p *BaseProvider) RecordFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.failures++
	p.consecutiveFails++
	p.health.LastFailureAt = time.Now()
	p.health.ErrorRate = float64(p.failures) / float64(p.calls)
	if p.consecutiveFails >= unavailableAfter {
		p.health.Available = false
	}
}
