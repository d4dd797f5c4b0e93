// Command function runs the on-demand handlers behind a plain HTTP listener
// for local emulation. Hosted deploys invoke fn.Handlers through the
// platform's own event bridge.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"browser-dialer/internal/config"
	"browser-dialer/internal/fn"
	"browser-dialer/pkg/logger"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	handlers := fn.NewHandlers(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/token", bridge(handlers.Token))
	mux.HandleFunc("/voice", bridge(handlers.Voice))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info("function emulator listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// bridge adapts a net/http request into the function event model.
func bridge(handler func(fn.Event) fn.Result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}

		headers := make(map[string]string, len(r.Header))
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}

		query := make(map[string]string)
		for k, vs := range r.URL.Query() {
			if len(vs) > 0 {
				query[k] = vs[0]
			}
		}

		res := handler(fn.Event{
			HTTPMethod:            r.Method,
			Headers:               headers,
			QueryStringParameters: query,
			Body:                  string(body),
		})

		for k, v := range res.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(res.StatusCode)
		if res.Body != "" {
			_, _ = w.Write([]byte(res.Body))
		}
	}
}
