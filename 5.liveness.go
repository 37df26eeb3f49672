package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const livenessShutdownTimeout = 5 * time.Second

// NewLivenessRouter serves the uptime probe and the metrics scrape. It
// touches no bot state.
func NewLivenessRouter(m *Metrics) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", handleAlive).Methods(http.MethodGet, http.MethodHead)
	router.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return router
}

func handleAlive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(MsgChatAlive))
}

// ServeLiveness blocks until ctx is cancelled or the listener fails.
func ServeLiveness(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		LogLiveness(MsgLivenessListening, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		LogLiveness(MsgLivenessShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), livenessShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
