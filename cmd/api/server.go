package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultIdleTimeout = time.Minute
	defaultReadTimeout = 10 * time.Second
	shutdownPeriod     = 30 * time.Second
)

// Run serves HTTP until SIGINT or SIGTERM, then drains in-flight
// requests. Write timeout is left unset because the room and queue
// streams hold their connections open indefinitely.
func (app *Application) Run() error {
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", app.cfg.HttpPort),
		Handler:     app.routes(),
		ErrorLog:    slog.NewLogLogger(app.logger.Handler(), slog.LevelWarn),
		IdleTimeout: defaultIdleTimeout,
		ReadTimeout: defaultReadTimeout,
	}

	shutdownErrorChan := make(chan error)

	go func() {
		quitChan := make(chan os.Signal, 1)
		signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
		<-quitChan

		ctx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
		defer cancel()

		shutdownErrorChan <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownErrorChan
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	app.wg.Wait()
	return nil
}
