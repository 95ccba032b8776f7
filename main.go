package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/nrednav/cuid2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/notice-composer/internal/composer"
	"github.com/debemdeboas/notice-composer/internal/config"
	"github.com/debemdeboas/notice-composer/internal/handlers"
	"github.com/debemdeboas/notice-composer/internal/logger"
	"github.com/debemdeboas/notice-composer/internal/metrics"
	"github.com/debemdeboas/notice-composer/internal/model"
	"github.com/debemdeboas/notice-composer/internal/poster"
	"github.com/debemdeboas/notice-composer/internal/repository/drafts"
	"github.com/debemdeboas/notice-composer/internal/routes"
	"github.com/debemdeboas/notice-composer/internal/sse"
	"github.com/debemdeboas/notice-composer/internal/util"
)

//go:embed static/* templates/*
var content embed.FS

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		boot := logger.New("info", logger.FormatConsole)
		boot.Fatal().Err(err).Msg("Error loading configuration")
	}
	cfg := config.AppConfig

	l := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	setLoggers(l)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := newServer(cfg, content, reg)
	if err != nil {
		l.Fatal().Err(err).Msg("Error building server")
	}

	go func() {
		l.Info().Str("addr", srv.Addr).Str("endpoint", cfg.Poster.Endpoint).Msg("Notice composer listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("Error shutting down")
	}
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l.With().Str("component", "config").Logger())
	poster.SetLogger(l.With().Str("component", "poster").Logger())
	composer.SetLogger(l.With().Str("component", "composer").Logger())
	drafts.SetLogger(l.With().Str("component", "drafts").Logger())
	handlers.SetLogger(l.With().Str("component", "handlers").Logger())
	httpLogger = l.With().Str("component", "http").Logger()
}

// newServer wires the draft store, the poster and the HTTP surface.
func newServer(cfg *config.Config, assets fs.FS, reg *prometheus.Registry) (*http.Server, error) {
	m := metrics.MustNewMetrics(reg)
	clients := sse.NewSSEClients()
	client := poster.New(cfg.Poster.Endpoint, cfg.Poster.Timeout)

	onSettled := func(id model.NoticeID, phase composer.Phase, elapsed time.Duration) {
		m.ObserveSubmission(phase.String(), elapsed)
		clients.Broadcast(id, sse.EventSettled)
	}

	repo := drafts.NewMemoryRepository(
		cfg.Drafts.MaxDrafts,
		cfg.Drafts.TTL,
		func(id model.NoticeID) *composer.Composer {
			c := composer.New(id, client)
			c.SetSettledNotifier(onSettled)
			return c
		},
		drafts.WithEvictNotifier(func(model.NoticeID) { m.DraftReleased() }),
	)
	m.TrackActiveDrafts(repo.Len)

	h, err := handlers.NewHandler(repo, clients, m, assets, cfg.Upload.MaxImageBytes)
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(assets, config.StaticLocalDir)
	if err != nil {
		return nil, err
	}
	staticHashes, err := util.HashFS(static, config.StaticUrlPath)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc(routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, config.CTypePlain)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow: /"))
	})
	mux.Handle("GET "+config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))
	mux.Handle(routes.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	h.Register(mux)

	handler := withRequestLogging(compress(cacheIt(staticHashes, secureHeaders(mux.ServeHTTP))))

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

var httpLogger zerolog.Logger

func cacheIt(hashes map[string]string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")

		// Add etag header to response if it's a static file
		if hash, ok := hashes[r.URL.Path]; ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
			if r.Header.Get("If-None-Match") == hash {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}

		h(w, r)
	}
}

// compress gzips responses except the event stream, which must reach the
// client unbuffered.
func compress(h http.HandlerFunc) http.HandlerFunc {
	gz := gzhttp.GzipHandler(h)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == routes.SSEURLPath {
			h(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")

		h(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps the SSE stream working through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func withRequestLogging(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(config.HRequestID)
		if requestID == "" {
			requestID = cuid2.Generate()
		}
		w.Header().Set(config.HRequestID, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		l := httpLogger.With().Str("request_id", requestID).Logger()
		h(rec, r.WithContext(l.WithContext(r.Context())))

		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("Request")
	}
}
