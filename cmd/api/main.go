package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_finder/internal/adapters/http_server"
	"hotel_finder/internal/adapters/listings"
	"hotel_finder/internal/adapters/observability"
	redisad "hotel_finder/internal/adapters/redis"
	"hotel_finder/internal/app"
	"hotel_finder/internal/auth"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/shared"
	mysqlrepo "hotel_finder/internal/storage/mysql"
	"hotel_finder/internal/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	importer := app.NewReferenceImporter(repo, cfg.ReferenceCSV)
	if cfg.ImportOnStart {
		if _, err := importer.Import(ctx); err != nil {
			log.Error().Err(err).Msg("startup reference import failed")
		}
	}

	client, err := listings.New(listings.Options{
		URLTemplate:   cfg.ListingURL,
		Timeout:       cfg.ListingTimeout,
		RPS:           cfg.ListingRPS,
		PreDelay:      listings.Delay{Min: cfg.PreDelayMin, Max: cfg.PreDelayMax},
		ItemDelay:     listings.Delay{Min: cfg.ItemDelayMin, Max: cfg.ItemDelayMax},
		MaxCandidates: cfg.MaxCandidates,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize listing client")
	}
	var source domain.ListingSource = client
	if cache := openCache(ctx, cfg); cache != nil {
		defer cache.Close()
		source = app.NewCachedListings(client, cache, cfg.ListingCacheTTL)
	}

	tokens, err := auth.NewTokenService(cfg.SessionKey, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid session key")
	}
	v := validation.New()

	// http
	srv := server.New(server.Options{RequestTimeout: cfg.RequestTimeout, CORSOrigins: cfg.CORSOrigins})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Hotels:   app.NewResolver(repo, source, importer, cfg.LocalThreshold),
		Accounts: app.NewAccounts(repo, tokens, v),
		Content:  app.NewContent(repo, repo, v),
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	log.Info().Msg("API stopped")
}

// openCache returns nil when Redis is not configured, unreachable, or the TTL disables caching.
func openCache(ctx context.Context, cfg shared.Config) *redisad.Cache {
	if cfg.RedisAddr == "" || cfg.ListingCacheTTL <= 0 {
		return nil
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, listing cache disabled")
		_ = c.Close()
		return nil
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("listing cache enabled")
	return c
}
