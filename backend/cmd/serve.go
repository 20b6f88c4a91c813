package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"learnhub/backend/config"
	"learnhub/backend/routes"
	"learnhub/backend/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(cfg *config.Config) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "create missing tables before serving")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	if err := cfg.ValidateAuth(); err != nil {
		return err
	}

	logger := utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		Level:        cfg.LogLevel,
		EnableColors: cfg.Env == config.EnvDevelopment,
	})
	defer func() { _ = logger.Sync() }()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if migrate {
		if err := st.Migrator.Migrate(ctx); err != nil {
			return err
		}
	}

	uploader, err := newUploader(ctx, cfg, logger)
	if err != nil {
		return err
	}
	provider, err := newPaymentProvider(cfg, logger)
	if err != nil {
		return err
	}

	app := routes.NewApp(routes.Dependencies{
		Cfg:      cfg,
		Log:      logger,
		Store:    st,
		Payments: provider,
		Uploader: uploader,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.ServerPort), zap.String("store", cfg.Store))
		errCh <- app.Listen(":" + cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
