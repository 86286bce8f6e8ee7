package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/smileops/dentaldesk/internal/domain/providers"
	"github.com/smileops/dentaldesk/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultBaseURL  = "https://api.anthropic.com/v1"
	apiVersion      = "2023-06-01"
	defaultModel    = "claude-sonnet-4-5"
	defaultMaxToken = 8192
)

// Client implements the briefing provider against the Anthropic Messages API.
type Client struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Anthropic client.
func NewClient(cfg *config.AnthropicConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxToken
	}

	return &Client{
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			// Briefings for a full schedule take a while to generate.
			Timeout: 120 * time.Second,
		},
	}, nil
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
	Usage   usage          `json:"usage"`
	Model   string         `json:"model"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateBriefing sends the formatted schedule block to the model and
// returns the complete briefing text.
func (c *Client) GenerateBriefing(ctx context.Context, scheduleBlock string) (*providers.BriefingResult, error) {
	payload := messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    briefingSystemPrompt,
		Messages: []message{
			{Role: "user", Content: scheduleBlock},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordBriefingMetric(ctx, c.model, 0, time.Since(start), err)
		return nil, fmt.Errorf("could not reach Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordBriefingMetric(ctx, c.model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))

		var apiErr errorResponse
		detail := ""
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil {
			detail = apiErr.Error.Message
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: check ANTHROPIC_API_KEY", providers.ErrBriefingUnauthorized)
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("anthropic rate limit reached, try again shortly")
		default:
			return nil, fmt.Errorf("anthropic api error (%d): %s", resp.StatusCode, detail)
		}
	}

	var envelope messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordBriefingMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	var text string
	for _, block := range envelope.Content {
		if block.Type == "text" && block.Text != "" {
			text += block.Text
		}
	}

	if text == "" {
		recordBriefingMetric(ctx, c.model, resp.StatusCode, time.Since(start), errors.New("missing output text"))
		return nil, errors.New("anthropic response missing output text")
	}

	recordBriefingMetric(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	return &providers.BriefingResult{
		Text:         text,
		Model:        envelope.Model,
		InputTokens:  envelope.Usage.InputTokens,
		OutputTokens: envelope.Usage.OutputTokens,
	}, nil
}

type briefingMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
}

var (
	briefingMetricsOnce sync.Once
	briefingMetricsOK   bool
	briefingMetricsSet  briefingMetrics
)

func ensureBriefingMetrics() {
	briefingMetricsOnce.Do(func() {
		meter := otel.Meter("github.com/smileops/dentaldesk/anthropic")

		requestCount, err := meter.Int64Counter(
			"ai.anthropic.request.count",
			metric.WithDescription("Number of Anthropic requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"ai.anthropic.request.duration",
			metric.WithDescription("Anthropic request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		requestErrors, err := meter.Int64Counter(
			"ai.anthropic.request.errors",
			metric.WithDescription("Number of Anthropic request errors"),
		)
		if err != nil {
			return
		}

		briefingMetricsSet = briefingMetrics{
			requestCount:    requestCount,
			requestDuration: requestDuration,
			requestErrors:   requestErrors,
		}
		briefingMetricsOK = true
	})
}

func recordBriefingMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	ensureBriefingMetrics()
	if !briefingMetricsOK {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "anthropic"),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	briefingMetricsSet.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	briefingMetricsSet.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		briefingMetricsSet.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
