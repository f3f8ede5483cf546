package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"masarif/internal/errs"
	"masarif/pkg/config"
)

func newTestLLMService(t *testing.T, handler http.Handler) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &LLMService{
		config:      &config.GigaChatConfig{Scope: "GIGACHAT_API_PERS"},
		logger:      zap.NewNop(),
		httpClient:  srv.Client(),
		baseURL:     srv.URL,
		oauthURL:    srv.URL + "/oauth",
		accessToken: "stale-token",
	}
}

func TestUploadFileRefreshesTokenOn401(t *testing.T) {
	var uploads int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"fresh-token","expires_in":1800}`))
	})
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&uploads, 1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"file-1"}`))
	})
	svc := newTestLLMService(t, mux)

	// First attempt carries the stale token: it fails retryable, but the
	// refresh makes the next attempt succeed.
	_, err := svc.UploadFile(context.Background(), strings.NewReader("data"), "receipt.jpg")
	require.Error(t, err)
	assert.True(t, errs.IsRetryable(err))
	assert.Equal(t, "fresh-token", svc.token())

	id, err := svc.UploadFile(context.Background(), strings.NewReader("data"), "receipt.jpg")
	require.NoError(t, err)
	assert.Equal(t, "file-1", id)
	assert.Equal(t, int32(2), atomic.LoadInt32(&uploads))
}

func TestUploadFileConcurrentTokenRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"fresh-token","expires_in":1800}`))
	})
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"file-1"}`))
	})
	svc := newTestLLMService(t, mux)

	// Several goroutines hit the 401 refresh path at once; the race detector
	// verifies the token cache stays consistent.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.UploadFile(context.Background(), strings.NewReader("data"), "receipt.jpg")
		}()
	}
	wg.Wait()

	assert.Equal(t, "fresh-token", svc.token())
}

func TestUploadFileRejectsOversizedFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	})
	svc := newTestLLMService(t, mux)

	_, err := svc.UploadFile(context.Background(), strings.NewReader("data"), "huge.pdf")
	require.Error(t, err)
	assert.Equal(t, errs.CodeUnsupportedFile, errs.CodeOf(err))
}
