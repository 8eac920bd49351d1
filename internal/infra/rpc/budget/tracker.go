// Package budget handles RPC quota tracking.
//
// A Tracker counts calls per endpoint against a daily quota that resets at
// local midnight. A quota of zero means unlimited.
package budget

import (
	"sync"
	"time"
)

// UsageStats holds quota usage statistics.
type UsageStats struct {
	TotalCalls      int            `json:"total_calls"`
	CallsPerHour    int            `json:"calls_per_hour"`
	DailyLimit      int            `json:"daily_limit"`
	RemainingCalls  int            `json:"remaining_calls"`
	UsagePercentage float64        `json:"usage_percentage"`
	NextResetAt     time.Time      `json:"next_reset_at"`
	MethodCalls     map[string]int `json:"method_calls,omitempty"`
}

// BudgetTracker manages RPC quota.
type BudgetTracker interface {
	RecordCall(endpoint, method string)
	GetUsage(endpoint string) UsageStats
	CanMakeCall(endpoint string) bool
	Reset()
}

type endpointBudget struct {
	totalCalls    int
	callsThisHour int
	hourStartTime time.Time
	methodCalls   map[string]int
}

// DefaultBudgetTracker implements BudgetTracker with per-endpoint tracking.
type DefaultBudgetTracker struct {
	mu         sync.RWMutex
	usage      map[string]*endpointBudget
	dailyLimit int
	resetTime  time.Time
	now        func() time.Time
}

// NewBudgetTracker creates a tracker allowing dailyLimit calls per endpoint.
func NewBudgetTracker(dailyLimit int) *DefaultBudgetTracker {
	bt := &DefaultBudgetTracker{
		usage:      make(map[string]*endpointBudget),
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
	bt.resetTime = nextMidnight(bt.now())
	return bt
}

// RecordCall records a call for quota tracking.
func (bt *DefaultBudgetTracker) RecordCall(endpoint, method string) {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	now := bt.now()
	if now.After(bt.resetTime) {
		bt.resetUnsafe()
	}

	b, ok := bt.usage[endpoint]
	if !ok {
		b = &endpointBudget{hourStartTime: now, methodCalls: make(map[string]int)}
		bt.usage[endpoint] = b
	}

	if now.Sub(b.hourStartTime) >= time.Hour {
		b.callsThisHour = 0
		b.hourStartTime = now
	}

	b.totalCalls++
	b.callsThisHour++
	b.methodCalls[method]++
}

// GetUsage returns usage statistics for an endpoint.
func (bt *DefaultBudgetTracker) GetUsage(endpoint string) UsageStats {
	bt.mu.RLock()
	defer bt.mu.RUnlock()

	stats := UsageStats{
		DailyLimit:     bt.dailyLimit,
		RemainingCalls: bt.dailyLimit,
		NextResetAt:    bt.resetTime,
	}

	b, ok := bt.usage[endpoint]
	if !ok {
		return stats
	}

	stats.TotalCalls = b.totalCalls
	stats.CallsPerHour = b.callsThisHour
	stats.MethodCalls = make(map[string]int, len(b.methodCalls))
	for m, n := range b.methodCalls {
		stats.MethodCalls[m] = n
	}

	if bt.dailyLimit > 0 {
		stats.RemainingCalls = max(bt.dailyLimit-b.totalCalls, 0)
		stats.UsagePercentage = float64(b.totalCalls) / float64(bt.dailyLimit) * 100
	}
	return stats
}

// CanMakeCall checks if a call can be made within budget.
func (bt *DefaultBudgetTracker) CanMakeCall(endpoint string) bool {
	if bt.dailyLimit <= 0 {
		return true
	}

	bt.mu.Lock()
	defer bt.mu.Unlock()

	if bt.now().After(bt.resetTime) {
		bt.resetUnsafe()
	}

	b, ok := bt.usage[endpoint]
	if !ok {
		return true
	}
	return b.totalCalls < bt.dailyLimit
}

// Reset resets all usage counters.
func (bt *DefaultBudgetTracker) Reset() {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	bt.resetUnsafe()
}

func (bt *DefaultBudgetTracker) resetUnsafe() {
	now := bt.now()
	for _, b := range bt.usage {
		b.totalCalls = 0
		b.callsThisHour = 0
		b.hourStartTime = now
		b.methodCalls = make(map[string]int)
	}
	bt.resetTime = nextMidnight(now)
}

func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
