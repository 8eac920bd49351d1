package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/cryptoshield/internal/core/domain"
)

func TestExplain_WithoutKey(t *testing.T) {
	s := New(Config{}, nil)
	assert.False(t, s.Enabled())
	assert.Equal(t, "analysis skipped: no API key configured", s.Explain(context.Background(), Input{Score: 5}))
}

func TestExplain_Completion(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		prompt = req.Messages[0].Content

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "  Looks safe to trade.  "},
				"finish_reason": "stop",
			}},
		})
	}))
	defer server.Close()

	s := New(Config{APIKey: "sk-test", BaseURL: server.URL}, nil)
	got := s.Explain(context.Background(), Input{
		Score: 10, HoneypotPassed: true, RugpullPassed: true, LiquidityStatus: LiquiditySufficient,
	})

	assert.Equal(t, "Looks safe to trade.", got)
	assert.Contains(t, prompt, "Score: 10/10")
	assert.Contains(t, prompt, "Liquidity: Sufficient")
}

func TestExplain_ErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided: ` + strings.Repeat("x", 200) + `","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	s := New(Config{APIKey: "sk-bad", BaseURL: server.URL}, nil)
	got := s.Explain(context.Background(), Input{})

	require.True(t, strings.HasPrefix(got, "analysis skipped: "))
	assert.LessOrEqual(t, len(got), len("analysis skipped: ")+100)
}

func TestFallbackTruncates(t *testing.T) {
	got := Fallback(strings.Repeat("a", 250))
	assert.Equal(t, "analysis skipped: "+strings.Repeat("a", 100), got)
}

func TestFallbackKeepsRunesWhole(t *testing.T) {
	got := Fallback(strings.Repeat("é", 150))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "analysis skipped: "+strings.Repeat("é", 100), got)
}

func TestInputFrom(t *testing.T) {
	safe := domain.AssessmentResult{
		Score:    10,
		Honeypot: domain.Succeed(domain.HoneypotData{}, true, nil),
		Rugpull: domain.Succeed(domain.RugpullData{
			HasTransferFunction: true, OwnershipStatus: domain.OwnershipRenounced,
		}, true, nil),
		Liquidity: domain.Succeed(domain.LiquidityData{}, true, nil),
	}
	assert.Equal(t, Input{
		Score: 10, HoneypotPassed: true, RugpullPassed: true, LiquidityStatus: LiquiditySufficient,
	}, InputFrom(safe))

	low := safe
	low.Liquidity = domain.Succeed(domain.LiquidityData{LowTokenReserve: true}, false, nil)
	low.Rugpull = domain.Succeed(domain.RugpullData{
		HasTransferFunction: true, OwnershipStatus: domain.OwnershipOwned,
	}, false, nil)
	in := InputFrom(low)
	assert.Equal(t, LiquidityLow, in.LiquidityStatus)
	assert.False(t, in.RugpullPassed)

	failed := domain.AssessmentResult{
		Honeypot:  domain.Fail[domain.HoneypotData](domain.ErrGatewayUnavailable),
		Rugpull:   domain.Fail[domain.RugpullData](domain.ErrGatewayUnavailable),
		Liquidity: domain.Fail[domain.LiquidityData](domain.ErrNoPoolFound),
	}
	assert.Equal(t, Input{LiquidityStatus: LiquidityUnavailable}, InputFrom(failed))
}
