package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{entries: map[string]string{}}
}

func (s *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.entries[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *fakeIdempotencyStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = fmt.Sprint(value)
	return nil
}

func (s *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = fmt.Sprint(value)
	return true, nil
}

func (s *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "fp:idempotency:" + scope + ":" + id
}

func (s *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func completeRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/sale/complete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	t.Parallel()

	calls := 0
	handler := Idempotency(newFakeIdempotencyStore(), time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"sale_id":"abc"}}`))
	}))

	first := httptest.NewRecorder()
	req := completeRequest(`{"ok":true}`)
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	replay := completeRequest(`{"ok":true}`)
	replay.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(second, replay)

	if calls != 1 {
		t.Fatalf("expected handler invoked once, got %d", calls)
	}
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed status 201, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed body %q, got %q", first.Body.String(), second.Body.String())
	}
	if ct := second.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected replayed content type, got %q", ct)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	t.Parallel()

	handler := Idempotency(newFakeIdempotencyStore(), time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRecorder()
	req := completeRequest(`{"amount":100}`)
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	reuse := completeRequest(`{"amount":999}`)
	reuse.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(second, reuse)

	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", second.Code)
	}
	if code := errorCode(t, second.Body.Bytes()); code != "IDEMPOTENCY_KEY_REUSED" {
		t.Fatalf("expected IDEMPOTENCY_KEY_REUSED, got %q", code)
	}
}

func TestIdempotencyRequiresKeyHeader(t *testing.T) {
	t.Parallel()

	handler := Idempotency(newFakeIdempotencyStore(), time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, completeRequest(`{}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d", rec.Code)
	}
	if code := errorCode(t, rec.Body.Bytes()); code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %q", code)
	}
}

func TestIdempotencySkipsUnguardedRoutes(t *testing.T) {
	t.Parallel()

	calls := 0
	handler := Idempotency(newFakeIdempotencyStore(), time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/cart/lines", strings.NewReader(`{}`))
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected passthrough, got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected handler invoked twice, got %d", calls)
	}
}
