package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sg-suraj/roadmap-tracker/internal/config"
	"github.com/Sg-suraj/roadmap-tracker/internal/db"
	"github.com/Sg-suraj/roadmap-tracker/internal/handler"
	"github.com/Sg-suraj/roadmap-tracker/internal/logger"
	"github.com/Sg-suraj/roadmap-tracker/internal/metrics"
	"github.com/Sg-suraj/roadmap-tracker/internal/router"
	"github.com/Sg-suraj/roadmap-tracker/internal/seed"
	"github.com/Sg-suraj/roadmap-tracker/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func loadDotenv() error {
	return config.LoadDotenv(".env")
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "roadmap",
		Usage: "Weekly roadmap and kanban board server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (yaml, json or toml)",
				Sources: cli.EnvVars("ROADMAP_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newSeedCommand(),
			newProgressCommand(),
		},
		DefaultCommand: "serve",
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}

			gdb, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			gin.SetMode(cfg.GinMode)

			opts := router.Options{
				SessionSecret:    cfg.SessionSecret,
				TemplateGlob:     cfg.TemplateGlob,
				StaticDir:        cfg.StaticDir,
				StoreTimeout:     cfg.StoreTimeout,
				CORSAllowOrigins: cfg.CORSAllowOrigins,
			}
			if cfg.MetricsEnabled {
				opts.Metrics = metrics.New()
			}

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           router.SetupRouter(handler.NewAPI(gdb, log), opts),
				ReadHeaderTimeout: 10 * time.Second,
			}

			return runServer(ctx, srv, log)
		},
	}
}

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create demo weeks and tasks",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}

			gdb, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			ordering := service.NewOrderingService(gdb)
			result, err := seed.Run(ctx, service.NewWeekService(gdb), service.NewTaskService(gdb, ordering), log)
			if err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}

			fmt.Fprintf(cmd.Root().Writer, "weeks created: %d, skipped: %d, tasks created: %d\n",
				result.WeeksCreated, result.WeeksSkipped, result.TasksCreated)
			return nil
		},
	}
}

func newProgressCommand() *cli.Command {
	return &cli.Command{
		Name:  "progress",
		Usage: "Print the progress of one week",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "week",
				Aliases:  []string{"w"},
				Usage:    "Week number",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, _, err := bootstrap(cmd)
			if err != nil {
				return err
			}

			gdb, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			weekNumber := int(cmd.Int("week"))
			progress, err := service.NewProgressService(gdb).WeekProgress(ctx, weekNumber)
			if err != nil {
				return fmt.Errorf("week %d progress: %w", weekNumber, err)
			}

			printProgress(cmd.Root().Writer, weekNumber, progress)
			return nil
		},
	}
}

func printProgress(w io.Writer, weekNumber int, p service.Progress) {
	fmt.Fprintf(w, "Week %d: %d%% done\n", weekNumber, p.Percentage)
	fmt.Fprintf(w, "  total: %d  todo: %d  in_progress: %d  done: %d\n", p.Total, p.Todo, p.InProgress, p.Done)
}

func bootstrap(cmd *cli.Command) (config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	return cfg, logger.Setup(cfg.LogLevel, cfg.LogFormat), nil
}

func openStore(cfg config.AppConfig) (*gorm.DB, error) {
	return db.Open(db.Options{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DSN(),
		LogLevel: logger.GormLevel(cfg.LogLevel),
	})
}

// runServer 阻塞直到 ctx 取消，然后在 shutdownTimeout 内优雅退出
func runServer(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
