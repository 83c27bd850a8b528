package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaServer(t *testing.T, handler func(req ollamaRequest) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status, body := handler(req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllama_CategorizeExpense(t *testing.T) {
	var got ollamaRequest
	srv := newOllamaServer(t, func(req ollamaRequest) (int, string) {
		got = req
		return http.StatusOK, `{"message":{"role":"assistant","content":"  Meals\n"}}`
	})

	o := NewOllama(OllamaOptions{
		BaseURL: srv.URL,
		Model:   "gemma3:12b",
		Prompt:  Prompt{Categories: []string{"Meals", "Other"}, Location: "New York"},
	})
	label, err := o.CategorizeExpense(context.Background(), "CAFE LUNA", decimal.RequireFromString("-42.5"))
	require.NoError(t, err)
	assert.Equal(t, "Meals", label)

	assert.Equal(t, "gemma3:12b", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "Meals, Other")
	assert.Contains(t, got.Messages[0].Content, "New York")
	assert.Equal(t, "Description: 'CAFE LUNA', amount: -42.50", got.Messages[1].Content)
	assert.Equal(t, "ollama:gemma3:12b", o.Name())
}

func TestOllama_ColumnName(t *testing.T) {
	srv := newOllamaServer(t, func(req ollamaRequest) (int, string) {
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "'transaction amount'") {
			return http.StatusBadRequest, `{"error":"unexpected prompt"}`
		}
		return http.StatusOK, `{"message":{"role":"assistant","content":"Debit"}}`
	})

	o := NewOllama(OllamaOptions{BaseURL: srv.URL, Model: "m"})
	col, err := o.ColumnName(context.Background(), []string{"Date", "Memo", "Debit"}, FieldAmount)
	require.NoError(t, err)
	assert.Equal(t, "Debit", col)
}

func TestOllama_ColumnNameRejectsInvention(t *testing.T) {
	srv := newOllamaServer(t, func(ollamaRequest) (int, string) {
		return http.StatusOK, `{"message":{"content":"Transaction Amount"}}`
	})
	o := NewOllama(OllamaOptions{BaseURL: srv.URL, Model: "m"})
	_, err := o.ColumnName(context.Background(), []string{"Date", "Memo", "Debit"}, FieldAmount)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestOllama_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ``, ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, ``, ErrRateLimited},
		{"empty", http.StatusOK, `{"message":{"content":"   "}}`, ErrEmptyLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOllamaServer(t, func(ollamaRequest) (int, string) { return tt.status, tt.body })
			o := NewOllama(OllamaOptions{BaseURL: srv.URL, Model: "m"})
			_, err := o.CategorizeExpense(context.Background(), "x", decimal.Zero)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	srv := newOllamaServer(t, func(ollamaRequest) (int, string) {
		return http.StatusNotFound, `{"error":"model 'm' not found"}`
	})
	o := NewOllama(OllamaOptions{BaseURL: srv.URL, Model: "m"})
	_, err := o.CategorizeExpense(context.Background(), "x", decimal.Zero)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestOllama_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	o := NewOllama(OllamaOptions{BaseURL: srv.URL, Model: "m", Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := o.CategorizeExpense(context.Background(), "x", decimal.Zero)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewOllama_DefaultsURL(t *testing.T) {
	o := NewOllama(OllamaOptions{Model: "m"})
	assert.Equal(t, defaultOllamaURL, o.chat.(*ollamaChat).baseURL)

	o = NewOllama(OllamaOptions{BaseURL: "gpu-box:11434/", Model: "m"})
	assert.Equal(t, "http://gpu-box:11434", o.chat.(*ollamaChat).baseURL)
}
