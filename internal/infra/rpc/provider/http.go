package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/vietddude/cryptoshield/internal/metrics"
)

// HTTPProvider implements Provider for JSON-RPC 2.0 over HTTP.
type HTTPProvider struct {
	*BaseProvider

	endpoint   string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// NewHTTPProvider creates a new HTTP-based RPC provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		BaseProvider: NewBaseProvider(name),
		endpoint:     endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Call makes a single JSON-RPC call. Node-side errors are returned as *RPCError,
// failures to reach or read the node as *TransportError.
func (p *HTTPProvider) Call(ctx context.Context, method string, params []any) (any, error) {
	start := time.Now()
	metrics.RPCCallsTotal.WithLabelValues(p.Name, method).Inc()
	defer func() {
		metrics.RPCLatency.WithLabelValues(p.Name, method).Observe(time.Since(start).Seconds())
	}()

	// Pre-call checks
	if status := p.Monitor.CheckProviderStatus(); status == StatusThrottled || status == StatusBlocked {
		return nil, p.fail("throttled", &TransportError{
			Op:  "rpc call",
			Err: fmt.Errorf("provider throttled, retry after: %v", p.Monitor.GetRetryAfter()),
		})
	}

	if params == nil {
		params = []any{}
	}
	jsonData, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      p.nextID.Add(1),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, p.fail("transport", &TransportError{Op: "rpc call", Err: err})
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	// Rate limit detection
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		p.Monitor.RecordThrottle(http.StatusTooManyRequests, retryAfter)
		return nil, p.fail("throttled", &TransportError{
			Op:  "rpc call",
			Err: fmt.Errorf("rate limited (429), retry after: %s", retryAfter),
		})
	}

	// IP blocked detection
	if resp.StatusCode == http.StatusForbidden {
		p.Monitor.RecordThrottle(http.StatusForbidden, "")
		return nil, p.fail("blocked", &TransportError{Op: "rpc call", Err: fmt.Errorf("ip blocked (403)")})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, p.fail("transport", &TransportError{Op: "read response", Err: err})
	}

	if resp.StatusCode != http.StatusOK {
		if p.Monitor.DetectThrottlePattern(string(body)) {
			return nil, p.fail("throttled", &TransportError{
				Op:  "rpc call",
				Err: fmt.Errorf("throttle detected in response: %s", string(body)),
			})
		}
		return nil, p.fail("http", &TransportError{
			Op:  "rpc call",
			Err: fmt.Errorf("http %d: %s", resp.StatusCode, string(body)),
		})
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, p.fail("decode", &TransportError{Op: "parse response", Err: err})
	}

	if rpcResp.Error != nil {
		if p.Monitor.DetectThrottlePattern(rpcResp.Error.Message) {
			return nil, p.fail("throttled", &TransportError{Op: "rpc call", Err: rpcResp.Error})
		}
		// The node answered; a contract-level error says nothing about endpoint health.
		p.RecordSuccess(latency)
		metrics.RPCErrorsTotal.WithLabelValues(p.Name, "rpc").Inc()
		return nil, rpcResp.Error
	}

	p.RecordSuccess(latency)

	var result any
	if len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
	}
	return result, nil
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *HTTPProvider) fail(errorType string, err error) error {
	p.RecordFailure()
	metrics.RPCErrorsTotal.WithLabelValues(p.Name, errorType).Inc()
	return err
}
