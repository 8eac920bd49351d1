package rpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/vietddude/cryptoshield/internal/infra/rpc/budget"
	"github.com/vietddude/cryptoshield/internal/infra/rpc/provider"
)

// MockProvider implements provider.Provider for client tests
type MockProvider struct {
	name       string
	shouldFail bool
	callCount  int
}

func (m *MockProvider) GetName() string {
	return m.name
}

func (m *MockProvider) Call(ctx context.Context, method string, params []any) (any, error) {
	m.callCount++
	if m.shouldFail {
		return nil, fmt.Errorf("mock provider %s failed", m.name)
	}
	return "success_result", nil
}

func (m *MockProvider) GetHealth() provider.HealthStatus {
	return provider.HealthStatus{
		Available: !m.shouldFail,
	}
}

func (m *MockProvider) IsAvailable() bool {
	return !m.shouldFail
}

func (m *MockProvider) Close() error {
	return nil
}

func TestClient_Call(t *testing.T) {
	p := &MockProvider{name: "public"}
	c := NewClient(p, nil, nil)

	result, err := c.Call(context.Background(), "eth_call", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != "success_result" {
		t.Errorf("Expected success_result, got %v", result)
	}
	if p.callCount != 1 {
		t.Errorf("Expected 1 call, got %d", p.callCount)
	}
}

func TestClient_NoRetryOnFailure(t *testing.T) {
	p := &MockProvider{name: "public", shouldFail: true}
	c := NewClient(p, nil, nil)

	if _, err := c.Call(context.Background(), "eth_call", nil); err == nil {
		t.Fatal("Expected error from failing provider")
	}
	if p.callCount != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", p.callCount)
	}
}

func TestClient_BudgetExhausted(t *testing.T) {
	p := &MockProvider{name: "public"}
	c := NewClient(p, budget.NewBudgetTracker(2), nil)

	for i := 0; i < 2; i++ {
		if _, err := c.Call(context.Background(), "eth_call", nil); err != nil {
			t.Fatalf("Call %d: unexpected error: %v", i, err)
		}
	}

	_, err := c.Call(context.Background(), "eth_call", nil)
	if !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("Expected ErrBudgetExhausted, got %v", err)
	}
	if p.callCount != 2 {
		t.Errorf("Provider should not be called once budget is spent, got %d calls", p.callCount)
	}

	stats := c.Stats()
	if stats.Usage.TotalCalls != 2 {
		t.Errorf("Expected 2 recorded calls, got %d", stats.Usage.TotalCalls)
	}
	if stats.Provider != "public" {
		t.Errorf("Expected provider public, got %s", stats.Provider)
	}
}
