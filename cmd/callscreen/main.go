package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/adapters/audio"
	"github.com/dkeye/callscreen/internal/adapters/callsim"
	router "github.com/dkeye/callscreen/internal/adapters/http"
	"github.com/dkeye/callscreen/internal/adapters/prefs"
	"github.com/dkeye/callscreen/internal/adapters/render"
	"github.com/dkeye/callscreen/internal/adapters/wm"
	"github.com/dkeye/callscreen/internal/app"
	"github.com/dkeye/callscreen/internal/config"
	"github.com/dkeye/callscreen/internal/core"
)

// hostPlatform reports what the demo host is capable of. The real
// client swaps this for an OS probe.
type hostPlatform struct{}

func (hostPlatform) SupportsCallIntegration() bool { return true }

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	loop := core.NewRunLoop()
	go loop.Run(ctx)

	audioSvc := audio.NewSimService(loop)
	prefStore := prefs.NewStore(cfg.PrefsPath)
	windowMgr := wm.NewManager()
	renderCtl := render.NewController(loop)
	feed := callsim.NewFeed(loop, callsim.DirectionFor(cfg.Scenario))

	screen := app.NewCallScreenController(app.Deps{
		Feed:          feed,
		Audio:         audioSvc,
		WM:            windowMgr,
		Prefs:         prefStore,
		Platform:      hostPlatform{},
		Sched:         loop,
		Publisher:     renderCtl,
		LocalSurface:  render.NewLogSurface("local"),
		RemoteSurface: render.NewLogSurface("remote"),
	})
	renderCtl.SetScreen(screen)
	loop.Post(screen.Start)

	r := router.SetupRouter(cfg, renderCtl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("callscreen demo started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	go callsim.Run(ctx, cfg.Scenario, feed, screen, loop, audioSvc, cfg.CallLength)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case <-windowMgr.Done():
		log.Info().Msg("Call screen dismissed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
