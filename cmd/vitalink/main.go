package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/vitalink/internal/api"
	"github.com/terraincognita07/vitalink/internal/cli"
	"github.com/terraincognita07/vitalink/internal/config"
	"github.com/terraincognita07/vitalink/internal/db"
	"github.com/terraincognita07/vitalink/internal/jobs"
	"github.com/terraincognita07/vitalink/internal/logging"
	"github.com/terraincognita07/vitalink/internal/storage"
)

const (
	shutdownTimeout   = 10 * time.Second
	limiterPruneEvery = 30 * time.Minute
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vitalink",
		Short:         "Anticoagulation therapy API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(serveCommand())
	root.AddCommand(createAdminCommand())
	root.AddCommand(resetPasswordCommand())
	root.AddCommand(assignPatientCommand())
	return root
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func createAdminCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "create-admin <login-id>",
		Short: "Create an administrator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			return cli.RunCreateAdminCommand(commandEnv(cmd, cfg, logger), args[0], password)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password for the new admin (prompted when empty)")
	return cmd
}

func resetPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <login-id>",
		Short: "Replace a user's password with a temporary one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			return cli.RunResetPasswordCommand(commandEnv(cmd, cfg, logger), args[0])
		},
	}
}

func assignPatientCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-patient <op-num> <doctor-login-id>",
		Short: "Move a patient to another doctor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			return cli.RunAssignPatientCommand(commandEnv(cmd, cfg, logger), args[0], args[1], cfg.Location())
		},
	}
}

func commandEnv(cmd *cobra.Command, cfg *config.Config, logger zerolog.Logger) cli.Env {
	return cli.Env{
		DBPath: cfg.DBPath,
		Logger: logger,
		In:     os.Stdin,
		Out:    cmd.OutOrStdout(),
	}
}

func loadRuntime() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, nil
}

type server struct {
	app       *fiber.App
	scheduler *jobs.Scheduler
	closeDB   func()
}

func buildServer(cfg *config.Config, logger zerolog.Logger) (*server, error) {
	location := cfg.Location()

	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	files, err := storage.NewLocalStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("file store init failed: %w", err)
	}

	handler, err := api.NewHandler(database, api.Options{
		SecretKey:  cfg.SecretKey,
		TokenTTL:   cfg.TokenTTL,
		Location:   location,
		Logger:     logger,
		Files:      files,
		LoginRate:  cfg.LoginRate,
		LoginBurst: cfg.LoginBurst,
	})
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("handler init failed: %w", err)
	}

	app := api.NewApp(handler, api.AppOptions{
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
	})

	scheduler := jobs.NewScheduler(location, logger)
	if err := scheduler.ScheduleEvery("login-limiter-prune", limiterPruneEvery, handler.PruneRateLimiters); err != nil {
		closeDB()
		return nil, err
	}
	if cfg.DigestEnabled {
		digest := jobs.NewAdherenceDigestJob(handler.DoseService(), logger, location)
		if err := scheduler.ScheduleDigest(digest, cfg.DigestAt); err != nil {
			closeDB()
			return nil, err
		}
	}

	return &server{app: app, scheduler: scheduler, closeDB: closeDB}, nil
}

func runServer() error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	time.Local = cfg.Location()

	srv, err := buildServer(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("startup failed")
		return err
	}
	defer srv.closeDB()

	srv.scheduler.Start()
	defer srv.scheduler.Stop()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("db", cfg.DBPath).
		Str("tz", cfg.TimeZone).
		Bool("digest", cfg.DigestEnabled).
		Msg("vitalink listening")
	if err := srv.app.Listen(":" + cfg.Port); err != nil {
		logger.Error().Err(err).Msg("server exited")
		return err
	}
	return nil
}
