package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProvider_Call(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		var req rpcRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.JSONRPC != "2.0" || req.Method != "eth_chainId" {
			t.Errorf("Unexpected request: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x38"}`))
	}))
	defer server.Close()

	p := NewHTTPProvider("test", server.URL, 5*time.Second)
	defer p.Close()

	result, err := p.Call(context.Background(), "eth_chainId", nil)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if result != "0x38" {
		t.Errorf("Expected 0x38, got %v", result)
	}

	health := p.GetHealth()
	if !health.Available {
		t.Error("Provider should be available after success")
	}
	if health.MonitorStats == nil || health.MonitorStats.RequestsLast1Hour != 1 {
		t.Errorf("Expected monitor to record 1 request, got %+v", health.MonitorStats)
	}
}

func TestHTTPProvider_RPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":3,"message":"execution reverted","data":"0x"}}`))
	}))
	defer server.Close()

	p := NewHTTPProvider("test", server.URL, 5*time.Second)

	_, err := p.Call(context.Background(), "eth_call", []any{})
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("Expected *RPCError, got %T: %v", err, err)
	}
	if rpcErr.Code != 3 || rpcErr.Message != "execution reverted" {
		t.Errorf("Unexpected rpc error: %+v", rpcErr)
	}

	// A node-level error still counts as an answered request
	if p.GetHealth().ErrorRate != 0 {
		t.Errorf("Expected zero error rate, got %f", p.GetHealth().ErrorRate)
	}
}

func TestHTTPProvider_TransportErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusBadGateway, "bad gateway"},
		{"rate limited", http.StatusTooManyRequests, ""},
		{"blocked", http.StatusForbidden, ""},
		{"garbage body", http.StatusOK, "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewHTTPProvider("test", server.URL, 5*time.Second)
			_, err := p.Call(context.Background(), "eth_call", nil)

			var transportErr *TransportError
			if !errors.As(err, &transportErr) {
				t.Fatalf("Expected *TransportError, got %T: %v", err, err)
			}
			if p.GetHealth().LastFailureAt.IsZero() {
				t.Error("Expected failure to be recorded")
			}
		})
	}
}

func TestHTTPProvider_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := NewHTTPProvider("test", url, time.Second)
	_, err := p.Call(context.Background(), "eth_call", nil)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %T: %v", err, err)
	}
}
