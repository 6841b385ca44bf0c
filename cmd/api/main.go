package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rentalAPI/cmd/app"
	"rentalAPI/internal/config"
	"rentalAPI/internal/database"
	"rentalAPI/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rental-api",
		Short:         "REST API сервиса краткосрочной аренды жилья",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd.Context(), serve)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции базы данных и выйти",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd.Context(), migrate)
		},
	})

	return root
}

// withConfig loads configuration and the logger, then runs fn until SIGINT/SIGTERM.
func withConfig(parent context.Context, fn func(ctx context.Context, cfg *config.Config) error) error {
	if parent == nil {
		parent = context.Background()
	}

	// setting up config
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		return err
	}

	if err := logger.Initialize(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации логгера: %v\n", err)
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fn(ctx, cfg); err != nil {
		logger.Log.Error("завершение с ошибкой", zap.Error(err))
		return err
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run(ctx)
}

func migrate(ctx context.Context, cfg *config.Config) error {
	db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if err := db.RunMigrations(ctx); err != nil {
		return err
	}

	logger.Log.Info("миграции применены", zap.String("database", cfg.DB.DbNAME))
	return nil
}
