package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	JSON         bool     // ask the model for a JSON-only response
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the Ollama server is reachable.
	Available(ctx context.Context) bool
}

// ollamaClient implements LLMClient using the Ollama HTTP API.
type ollamaClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates an LLMClient that talks to an Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Format  string        `json:"format,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	body := c.buildRequest(req)
	event := LLMCallEvent{
		Task:        req.Task,
		Model:       c.cfg.Model,
		PromptBytes: len(body.System) + len(body.Prompt),
	}
	report := func(err error) {
		event.LatencyMs = time.Since(start).Milliseconds()
		event.Success = err == nil
		event.ErrorCode = errorCode(err)
		c.observer.OnCallComplete(ctx, event)
	}

	// Every attempt gets the full task timeout, so a slow first attempt can
	// still be followed by a successful retry.
	timeout := c.cfg.TaskTimeout(req.Task)
	var lastErr error
	for event.Attempts < 1+c.cfg.MaxRetries {
		event.Attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := c.doRequest(attemptCtx, body)
		timedOut := errors.Is(attemptCtx.Err(), context.DeadlineExceeded)
		cancel()
		if err == nil {
			event.ResponseBytes = len(resp.Response)
			report(nil)
			return &GenerateResponse{
				Text:      resp.Response,
				Model:     resp.Model,
				LatencyMs: event.LatencyMs,
			}, nil
		}
		lastErr = err
		if timedOut {
			lastErr = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	var err error
	switch {
	case ctx.Err() != nil:
		err = fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	case errors.Is(lastErr, ErrTimeout):
		err = ErrTimeout
	case isConnectionError(lastErr):
		err = ErrOllamaUnavailable
	default:
		err = fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
	}
	report(err)
	return nil, err
}

// buildRequest resolves per-task sampling defaults against req's overrides.
func (c *ollamaClient) buildRequest(req GenerateRequest) ollamaRequest {
	taskCfg := c.cfg.Tasks[req.Task]
	body := ollamaRequest{
		Model:  c.cfg.Model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Options: ollamaOptions{
			Temperature: valueOr(req.Temperature, taskCfg.Temperature),
			NumPredict:  valueOr(req.MaxTokens, taskCfg.MaxTokens),
		},
	}
	if req.JSON {
		body.Format = "json"
	}
	return body
}

// valueOr dereferences p, or returns def when p is nil.
func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func (c *ollamaClient) doRequest(ctx context.Context, body ollamaRequest) (*ollamaResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.Endpoint + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: httpResp.StatusCode, Body: string(respBody)}
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &resp, nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := c.cfg.Endpoint + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// disabledClient fails every call. It stands in when llm.enabled is false.
type disabledClient struct{}

// NewDisabledClient returns an LLMClient whose calls fail with ErrDisabled.
func NewDisabledClient() LLMClient { return disabledClient{} }

func (disabledClient) Generate(context.Context, GenerateRequest) (*GenerateResponse, error) {
	return nil, ErrDisabled
}

func (disabledClient) Available(context.Context) bool { return false }
