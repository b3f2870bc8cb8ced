package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"interview-prep-service/internal/app"
	"interview-prep-service/internal/content"
	"interview-prep-service/internal/domain"
	"interview-prep-service/internal/metrics"
	transport "interview-prep-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the study server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defaultLocale, err := domain.ParseLocale(cfg.Content.DefaultLocale)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	c, err := buildComponents(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	m := metrics.New()
	var storage app.Storage
	if c.storage != nil {
		storage = m.InstrumentStorage(c.storage)
	}
	registry := app.NewRegistry(storage, app.WithLogger(log.WithField("component", "state")))
	study := app.NewStudy(registry, c.questions)

	api := transport.NewAPI(study, content.NewValidator(), defaultLocale, log)
	wsHandler := transport.NewWSHandler(registry, log)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(api, wsHandler, m, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	return serve(ctx, server, log.WithField("port", finalPort))
}

// serve runs server until a signal arrives, ctx is canceled or listening fails.
func serve(ctx context.Context, server *http.Server, log logrus.FieldLogger) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting study server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		log.WithError(err).Error("failed to start server")
		return fmt.Errorf("serve %s: %w", server.Addr, err)
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
