package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLivenessRoot(t *testing.T) {
	srv := httptest.NewServer(NewLivenessRouter(NewMetrics()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "JARVIS is alive ✅" {
		t.Fatalf("body = %q", body)
	}
}

func TestLivenessHead(t *testing.T) {
	rec := httptest.NewRecorder()
	NewLivenessRouter(NewMetrics()).ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("HEAD / status = %d", rec.Code)
	}
}

func TestLivenessRejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	NewLivenessRouter(NewMetrics()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST / status = %d", rec.Code)
	}
}

func TestLivenessMetrics(t *testing.T) {
	m := NewMetrics()
	m.EnabledChannels.Set(3)
	m.ReplyFallbacks.Inc()

	rec := httptest.NewRecorder()
	NewLivenessRouter(m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"jarvis_enabled_channels 3", "jarvis_reply_fallbacks_total 1"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServeLivenessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- ServeLiveness(ctx, "127.0.0.1:0", http.NotFoundHandler())
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("ServeLiveness returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("ServeLiveness did not return after cancel")
	}
}
