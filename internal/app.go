package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gtmd/internal/controllers"
	"gtmd/internal/providers"
	"gtmd/internal/statistic/interfaces"
	"gtmd/internal/structures"
)

type App struct {
	WebServer *http.Server
}

// NewHandler mounts the API routes behind the metrics middleware next to
// the health and metrics endpoints.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, router, apiMux))
	return mux
}

// waitForShutdown blocks until SIGINT or SIGTERM. SIGHUP triggers an
// immediate refresh of the projects registry and repositories.
func waitForShutdown(signals <-chan os.Signal, serverErr <-chan error, scheduler interfaces.SchedulerInterface, logger providers.Logger) error {
	for {
		select {
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				logger.Infof(providers.TypeApp, "Reload signal received, refreshing projects")
				scheduler.Refresh()
				continue
			}
			logger.Infof(providers.TypeApp, "Shutdown signal received")
			return nil
		case err := <-serverErr:
			return fmt.Errorf("server error: %w", err)
		}
	}
}

// stop halts the scheduler, shuts the server down and writes the final
// snapshot. The snapshot is written even when cause reports a failed server.
func stop(server *http.Server, scheduler interfaces.SchedulerInterface, cause error) error {
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errs := []error{cause}
	if err := server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := scheduler.Persist(); err != nil {
		errs = append(errs, fmt.Errorf("persist: %w", err))
	}
	return errors.Join(errs...)
}

// NewApp restores the last snapshot, starts the scheduler and serves HTTP
// until SIGINT or SIGTERM, then drains the buffer and persists.
func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	err := scheduler.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      NewHandler(healthController, conf, router, metrics),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	if err := stop(app.WebServer, scheduler, waitForShutdown(signals, serverErr, scheduler, logger)); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
