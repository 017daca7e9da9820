package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

// reply is one scripted server response.
type reply struct {
	status int
	body   string
	delay  time.Duration
}

func okReply(text string) reply {
	b, _ := json.Marshal(ollamaResponse{Model: "llama3.2", Response: text})
	return reply{status: http.StatusOK, body: string(b)}
}

// stubOllama serves replies in order and repeats the last one once the
// script runs out.
type stubOllama struct {
	*httptest.Server
	hits atomic.Int32

	mu   sync.Mutex
	last ollamaRequest
}

func newStubOllama(t *testing.T, replies ...reply) *stubOllama {
	t.Helper()
	s := &stubOllama{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(s.hits.Add(1))
		if r.URL.Path == "/api/generate" {
			var req ollamaRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			s.mu.Lock()
			s.last = req
			s.mu.Unlock()
		}
		rep := replies[min(n, len(replies))-1]
		if rep.delay > 0 {
			select {
			case <-time.After(rep.delay):
			case <-r.Context().Done():
				return
			}
		}
		w.WriteHeader(rep.status)
		_, _ = w.Write([]byte(rep.body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *stubOllama) lastRequest() ollamaRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func TestOllamaClient_Generate_RequestShape(t *testing.T) {
	srv := newStubOllama(t, okReply(`{"subtasks":[]}`))
	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskOrganize,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
		JSON:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"subtasks":[]}`, resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)

	req := srv.lastRequest()
	assert.Equal(t, "llama3.2", req.Model)
	assert.Equal(t, "system prompt", req.System)
	assert.Equal(t, "user prompt", req.Prompt)
	assert.Equal(t, "json", req.Format)
	assert.False(t, req.Stream)
	assert.Equal(t, 0.1, req.Options.Temperature, "task default")
	assert.Equal(t, 4096, req.Options.NumPredict)
}

func TestOllamaClient_Generate_RequestOverrides(t *testing.T) {
	srv := newStubOllama(t, okReply("plain"))
	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	temp, maxTok := 0.9, 64

	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:        TaskSummary,
		UserPrompt:  "p",
		Temperature: &temp,
		MaxTokens:   &maxTok,
	})
	require.NoError(t, err)

	req := srv.lastRequest()
	assert.Empty(t, req.Format)
	assert.Equal(t, 0.9, req.Options.Temperature)
	assert.Equal(t, 64, req.Options.NumPredict)
}

func TestOllamaClient_Generate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		replies   []reply
		retries   int
		timeoutMs int
		wantErr   error
		wantHits  int32
	}{
		{
			name:      "attempt exceeds task timeout",
			replies:   []reply{{status: http.StatusOK, delay: 500 * time.Millisecond}},
			timeoutMs: 50,
			wantErr:   ErrTimeout,
			wantHits:  1,
		},
		{
			name:     "server errors until retries run out",
			replies:  []reply{{status: http.StatusBadGateway, body: "upstream"}},
			retries:  2,
			wantErr:  ErrRetryExhausted,
			wantHits: 3,
		},
		{
			name:     "client error is not retried",
			replies:  []reply{{status: http.StatusNotFound, body: `{"error":"model not found"}`}},
			retries:  3,
			wantErr:  ErrRetryExhausted,
			wantHits: 1,
		},
		{
			name:     "undecodable body",
			replies:  []reply{{status: http.StatusOK, body: "<html>"}},
			wantErr:  ErrRetryExhausted,
			wantHits: 1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newStubOllama(t, tc.replies...)
			cfg := testConfig(srv.URL)
			cfg.MaxRetries = tc.retries
			cfg.SetTaskTimeout(TaskSuggest, tc.timeoutMs)

			_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskSuggest, UserPrompt: "p"})

			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantHits, srv.hits.Load())
		})
	}
}

func TestOllamaClient_Generate_StatusErrorCarriesBody(t *testing.T) {
	srv := newStubOllama(t, reply{status: http.StatusNotFound, body: `{"error":"model not found"}`})

	_, err := NewOllamaClient(testConfig(srv.URL), NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskSummary, UserPrompt: "p"})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, se.Body, "model not found")
}

func TestOllamaClient_Generate_Retries(t *testing.T) {
	t.Run("after server error", func(t *testing.T) {
		srv := newStubOllama(t, reply{status: http.StatusInternalServerError}, okReply("ok"))
		cfg := testConfig(srv.URL)
		cfg.MaxRetries = 1

		resp, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskSuggest, UserPrompt: "p"})

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Text)
		assert.Equal(t, int32(2), srv.hits.Load())
	})

	t.Run("after attempt timeout", func(t *testing.T) {
		srv := newStubOllama(t, reply{status: http.StatusOK, delay: 500 * time.Millisecond}, okReply("second"))
		cfg := testConfig(srv.URL)
		cfg.MaxRetries = 1
		cfg.SetTaskTimeout(TaskSuggest, 100)

		resp, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskSuggest, UserPrompt: "p"})

		require.NoError(t, err)
		assert.Equal(t, "second", resp.Text)
		assert.Equal(t, int32(2), srv.hits.Load())
	})
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskSuggest, UserPrompt: "p"})

	assert.ErrorIs(t, err, ErrOllamaUnavailable)
}

func TestOllamaClient_Generate_CallerCancellation(t *testing.T) {
	srv := newStubOllama(t, reply{status: http.StatusOK, delay: 5 * time.Second})
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(ctx, GenerateRequest{Task: TaskSummary, UserPrompt: "p"})

	require.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), srv.hits.Load(), "no retry once the caller gave up")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDisabledClient(t *testing.T) {
	c := NewDisabledClient()
	_, err := c.Generate(context.Background(), GenerateRequest{Task: TaskSuggest})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.False(t, c.Available(context.Background()))
}

func TestOllamaClient_Available(t *testing.T) {
	up := newStubOllama(t, reply{status: http.StatusOK, body: `{"models":[]}`})
	assert.True(t, NewOllamaClient(testConfig(up.URL), nil).Available(context.Background()))

	broken := newStubOllama(t, reply{status: http.StatusServiceUnavailable})
	assert.False(t, NewOllamaClient(testConfig(broken.URL), nil).Available(context.Background()))

	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), nil).Available(context.Background()))
}

type captureObserver struct {
	mu     sync.Mutex
	events []LLMCallEvent
}

func (o *captureObserver) OnCallComplete(_ context.Context, e LLMCallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func TestOllamaClient_ObserverEvents(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := newStubOllama(t, okReply("ok"))
		obs := &captureObserver{}

		_, err := NewOllamaClient(testConfig(srv.URL), obs).Generate(context.Background(), GenerateRequest{
			Task:         TaskSuggest,
			SystemPrompt: "sys",
			UserPrompt:   "test",
		})
		require.NoError(t, err)

		require.Len(t, obs.events, 1)
		e := obs.events[0]
		assert.Equal(t, TaskSuggest, e.Task)
		assert.Equal(t, "llama3.2", e.Model)
		assert.True(t, e.Success)
		assert.Equal(t, 1, e.Attempts)
		assert.Equal(t, 7, e.PromptBytes)
		assert.Equal(t, 2, e.ResponseBytes)
		assert.Empty(t, e.ErrorCode)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := newStubOllama(t, reply{status: http.StatusOK, delay: 300 * time.Millisecond})
		cfg := testConfig(srv.URL)
		cfg.MaxRetries = 0
		cfg.SetTaskTimeout(TaskSuggest, 50)
		obs := &captureObserver{}

		_, err := NewOllamaClient(cfg, obs).Generate(context.Background(), GenerateRequest{Task: TaskSuggest, UserPrompt: "test"})
		require.ErrorIs(t, err, ErrTimeout)

		require.Len(t, obs.events, 1)
		assert.False(t, obs.events[0].Success)
		assert.Equal(t, "TIMEOUT", obs.events[0].ErrorCode)
	})
}
