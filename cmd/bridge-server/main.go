package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"diamond-bridge/internal/analysis"
	"diamond-bridge/internal/bridge"
	"diamond-bridge/internal/config"
	"diamond-bridge/internal/logging"
	httptransport "diamond-bridge/internal/transport/http"
)

func main() {
	appCfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(appCfg.Log)
	cfg := appCfg.Server

	b, err := bridge.New(bridge.Config{
		QualityInterval: cfg.QualityInterval(),
		Seed:            cfg.GameSeed,
	}, nil, analysis.NewCannedGenerator())
	if err != nil {
		log.Fatal().Err(err).Msg("bridge init failed")
	}

	// Renderer absence is not fatal; the bridge keeps serving viewers and an
	// operator can connect one later through the admin route.
	if cfg.RendererAddr != "" {
		if err := b.Link().Connect(cfg.RendererAddr, cfg.RendererDialTimeout()); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RendererAddr).Msg("renderer unavailable at startup")
		} else {
			log.Info().Str("addr", cfg.RendererAddr).Msg("renderer connected")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bridgeDone := make(chan struct{})
	go func() {
		defer close(bridgeDone)
		b.Run(ctx)
	}()

	r := httptransport.NewRouter(b, cfg)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	<-bridgeDone
	b.Link().Close()
	log.Info().Msg("bridge stopped")
}
