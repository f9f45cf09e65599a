package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amptrack/amptrack/internal/config"
	"github.com/amptrack/amptrack/internal/device"
	"github.com/amptrack/amptrack/internal/geo"
	"github.com/amptrack/amptrack/internal/logger"
	"github.com/amptrack/amptrack/internal/middleware"
	"github.com/amptrack/amptrack/internal/routes"
	"github.com/amptrack/amptrack/internal/session"
)

func main() {
	cfgPath := flag.String("config", "configs/amptrack.yaml", "Path to YAML config")
	flag.Parse()

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		// Logger is not up yet; stderr is all we have.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	cfg := loader.Config()
	log := logger.Init(cfg.Log)
	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(1)
	}

	// ── Collaborators ─────────────────────────────────────────────────────────
	var geoProvider geo.Provider
	if cfg.GeoIPDB != "" {
		db, err := geo.OpenMaxmindDB(cfg.GeoIPDB)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.GeoIPDB).Msg("failed to open GeoIP database")
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		geoProvider = db
	} else {
		log.Info().Msg("no GeoIP database configured, events carry no location data")
	}

	sessions := session.NewCookieStore([]byte(cfg.Session.Secret), cfg.Session.Cookie, cfg.Session.MaxAge)

	// ── Routes ────────────────────────────────────────────────────────────────
	router := mux.NewRouter()
	router.HandleFunc("/", pageHandler("home")).Name("home")
	router.HandleFunc("/test/", pageHandler("test")).Name("test")
	router.HandleFunc("/test/{test}", pageHandler("test_variable")).Name("test_variable")
	router.HandleFunc("/healthz", pageHandler("ok")).Name("healthz")
	router.Handle("/metrics", promhttp.Handler()).Name("metrics")

	// ── Middleware ────────────────────────────────────────────────────────────
	mw, err := middleware.New(cfg, middleware.Options{
		Sessions: sessions,
		Resolver: routes.NewMuxResolver(router),
		Geo:      geoProvider,
		Devices:  device.NewUAParser(),
		Log:      log,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to build tracking middleware")
		os.Exit(1)
	}

	// ── Ignore-list hot reload ────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Config) {
		if err := config.Validate(newCfg); err != nil {
			log.Warn().Err(err).Msg("hot-reload skipped: config invalid")
			return
		}
		if newCfg.APIKey != cfg.APIKey ||
			newCfg.IncludeUserData != cfg.IncludeUserData ||
			newCfg.IncludeGroupData != cfg.IncludeGroupData {
			log.Warn().Msg("only the ignore list is hot-reloadable, restart to apply other changes")
		}
		mw.SetIgnoreList(newCfg.Ignore)
		log.Info().Strs("ignore", newCfg.Ignore).Msg("ignore list reloaded")
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable (hot-reload disabled)")
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mw.Wrap(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	log.Info().Msg("goodbye")
}

func pageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"page": name})
	}
}
