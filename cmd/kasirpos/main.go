package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"kasirpos/internal/bus"
	"kasirpos/internal/config"
	"kasirpos/internal/httpapi"
	"kasirpos/internal/mirror"
	"kasirpos/internal/service"
	"kasirpos/internal/state"
	"kasirpos/internal/store"
	"kasirpos/internal/store/memory"
	"kasirpos/internal/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var durable store.Store
	if err := mirror.EnsureDir(cfg.DBPath()); err != nil {
		log.Warn().Err(err).Msg("data directory unavailable, falling back to in-memory store")
		durable = memory.New()
	} else if db, err := sqlite.Open(cfg.DBPath()); err != nil {
		log.Warn().Err(err).Str("path", cfg.DBPath()).Msg("sqlite unavailable, falling back to in-memory store")
		durable = memory.New()
	} else {
		durable = db
		log.Info().Str("path", cfg.DBPath()).Msg("durable store: sqlite")
	}

	mirrors := mirror.Multi{mirror.NewFile(cfg.BackupPath(), log)}
	closers := []func() error{durable.Close}

	if cfg.RemoteMirror && cfg.DatabaseURL != "" {
		if remote, err := mirror.NewPostgres(ctx, cfg.DatabaseURL, log); err != nil {
			log.Warn().Err(err).Msg("remote mirror unavailable, continuing without it")
		} else {
			mirrors = append(mirrors, remote)
			closers = append(closers, func() error { remote.Close(); return nil })
			log.Info().Msg("remote mirror: postgres")
		}
	}

	var replication store.Bus = store.NopBus{}
	if cfg.RedisAddr != "" {
		redisBus := bus.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SyncChannel, log)
		if err := redisBus.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, replication disabled")
			_ = redisBus.Close()
		} else {
			replication = redisBus
			closers = append(closers, redisBus.Close)
			log.Info().Str("channel", cfg.SyncChannel).Msg("replication bus: redis")
		}
	} else {
		log.Info().Msg("replication bus: none (single session)")
	}

	container := state.New(durable, mirrors, replication, log)
	if err := container.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load state")
	}

	svc := service.New(container, log)
	api := httpapi.New(svc, cfg.OutletName, log)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Address()).Msg("kasirpos listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("close error")
		}
	}

	log.Info().Msg("server stopped")
}
