package provider

import (
	"testing"
	"time"
)

func TestMonitorRequestCount(t *testing.T) {
	m := NewProviderMonitor()

	m.RecordRequest(100 * time.Millisecond)

	stats := m.GetStats()
	if stats.RequestsLast1Hour != 1 {
		t.Errorf("Expected 1 request, got %d", stats.RequestsLast1Hour)
	}

	for i := 0; i < 100; i++ {
		m.RecordRequest(50 * time.Millisecond)
	}

	stats = m.GetStats()
	if stats.RequestsLast1Hour != 101 {
		t.Errorf("Expected 101 requests, got %d", stats.RequestsLast1Hour)
	}
	if count := m.GetRequestCount(time.Minute); count != 101 {
		t.Errorf("Expected 101 requests in last minute, got %d", count)
	}
}

func TestMonitorThrottleStatus(t *testing.T) {
	m := NewProviderMonitor()

	for i := 0; i < 6; i++ {
		m.RecordThrottle(429, "30")
	}
	if status := m.CheckProviderStatus(); status != StatusThrottled {
		t.Errorf("Expected throttled, got %s", status)
	}
	if m.GetRetryAfter() <= 0 {
		t.Error("Expected positive retry-after")
	}

	m = NewProviderMonitor()
	m.RecordThrottle(403, "")
	if status := m.CheckProviderStatus(); status != StatusBlocked {
		t.Errorf("Expected blocked, got %s", status)
	}
}

func TestMonitorDegraded(t *testing.T) {
	m := NewProviderMonitor()
	for i := 0; i < 11; i++ {
		m.RecordRequest(5 * time.Second)
	}
	if status := m.CheckProviderStatus(); status != StatusDegraded {
		t.Errorf("Expected degraded, got %s", status)
	}
}

func TestDetectThrottlePattern(t *testing.T) {
	m := NewProviderMonitor()

	tests := []struct {
		msg  string
		want bool
	}{
		{"Rate limit exceeded", true},
		{"daily request count exceeded, request rate limited", true},
		{"execution reverted", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := m.DetectThrottlePattern(tt.msg); got != tt.want {
			t.Errorf("DetectThrottlePattern(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}
