package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitReady(t *testing.T) {
	t.Run("already healthy", func(t *testing.T) {
		var hits atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				t.Errorf("polled %s, want /health", r.URL.Path)
			}
			hits.Add(1)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		if err := client.WaitReady(context.Background(), 5*time.Second); err != nil {
			t.Fatalf("WaitReady() error = %v", err)
		}
		if hits.Load() != 1 {
			t.Errorf("health polled %d times, want 1", hits.Load())
		}
	})

	t.Run("becomes healthy after a failure", func(t *testing.T) {
		var hits atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		if err := client.WaitReady(context.Background(), 10*time.Second); err != nil {
			t.Fatalf("WaitReady() error = %v", err)
		}
		if hits.Load() < 2 {
			t.Errorf("health polled %d times, want at least 2", hits.Load())
		}
	})

	t.Run("never healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		if err := client.WaitReady(context.Background(), 1*time.Second); err == nil {
			t.Fatal("expected error when server never becomes healthy")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")
		if err := client.WaitReady(context.Background(), 1*time.Second); err == nil {
			t.Fatal("expected error for unreachable server")
		}
	})
}
