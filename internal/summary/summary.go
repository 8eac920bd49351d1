// Package summary produces the one-line natural language verdict for a scan.
// It is cosmetic: every failure degrades to a fallback string.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/vietddude/cryptoshield/internal/core/domain"
)

// maxReasonLen caps the error text carried in the fallback, in characters.
const maxReasonLen = 100

// LiquidityStatus is the coarse pool depth label given to the model.
type LiquidityStatus string

const (
	LiquiditySufficient  LiquidityStatus = "Sufficient"
	LiquidityLow         LiquidityStatus = "Low"
	LiquidityUnavailable LiquidityStatus = "Unavailable"
)

// Input is what the summary is allowed to know about a scan.
type Input struct {
	Score           int
	HoneypotPassed  bool
	RugpullPassed   bool
	LiquidityStatus LiquidityStatus
}

// InputFrom derives the summary input from structured result fields.
func InputFrom(r domain.AssessmentResult) Input {
	in := Input{
		Score:           r.Score,
		HoneypotPassed:  r.Honeypot.OK() && r.Honeypot.Passed,
		LiquidityStatus: LiquidityUnavailable,
	}
	if r.Rugpull.OK() {
		in.RugpullPassed = r.Rugpull.Data.HasTransferFunction &&
			r.Rugpull.Data.OwnershipStatus == domain.OwnershipRenounced
	}
	if r.Liquidity.OK() {
		in.LiquidityStatus = LiquidityLow
		if !r.Liquidity.Data.LowBaseReserve && !r.Liquidity.Data.LowTokenReserve {
			in.LiquidityStatus = LiquiditySufficient
		}
	}
	return in
}

// Explainer turns a scan into prose. Implementations never fail.
type Explainer interface {
	Explain(ctx context.Context, in Input) string
}

// Config holds the chat completion settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Summarizer calls an OpenAI-compatible chat completion endpoint.
type Summarizer struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

// New creates a summarizer. Without an API key every call returns the fallback.
func New(cfg Config, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Summarizer{model: cfg.Model, log: logger.With("component", "summary")}
	if s.model == "" {
		s.model = openai.GPT4oMini
	}
	if cfg.APIKey == "" {
		return s
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}
	s.client = openai.NewClientWithConfig(oc)
	return s
}

// Enabled reports whether a credential is configured.
func (s *Summarizer) Enabled() bool {
	return s.client != nil
}

func (s *Summarizer) Explain(ctx context.Context, in Input) string {
	if s.client == nil {
		return Fallback("no API key configured")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(in)},
		},
		Temperature: 0.7,
		MaxTokens:   100,
	})
	if err != nil {
		s.log.Warn("summary request failed", "error", err)
		return Fallback(err.Error())
	}
	if len(resp.Choices) == 0 {
		return Fallback("empty completion")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return Fallback("empty completion")
	}
	return text
}

// Prompt renders the request sent to the model.
func Prompt(in Input) string {
	mark := func(ok bool) string {
		if ok {
			return "passed"
		}
		return "failed"
	}
	return fmt.Sprintf(
		"Summarize this token security scan in one line for a trader.\n"+
			"Honeypot: %s\nRugpull: %s\nLiquidity: %s\nScore: %d/10",
		mark(in.HoneypotPassed), mark(in.RugpullPassed), in.LiquidityStatus, in.Score,
	)
}

// Fallback is the text returned when no summary could be produced.
func Fallback(reason string) string {
	if r := []rune(reason); len(r) > maxReasonLen {
		reason = string(r[:maxReasonLen])
	}
	return "analysis skipped: " + reason
}
