package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/logstackhq/logstack/internal/api"
	"github.com/logstackhq/logstack/internal/notifier"
	"github.com/logstackhq/logstack/internal/storage"
	"github.com/logstackhq/logstack/pkg/config"
)

var (
	configFile string
	httpAddr   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "logstack-server",
	Short: "LogStack Server - log ingestion and alerting service",
	Long: `LogStack Server receives application logs over HTTP, matches them
against user-defined triggers, raises alerts, and provides filtered
search and CSV export over the stored entries.`,
	RunE: runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("logstack-server %s\n", config.Version)
		fmt.Printf("  commit: %s\n", config.Commit)
		fmt.Printf("  built:  %s\n", config.BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVarP(&httpAddr, "address", "a", "", "HTTP listen address")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	var cfg *Config

	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}

	// Override with CLI flags
	if httpAddr != "" {
		cfg.Server.Address = httpAddr
	}
	cfg.Verbose = verbose

	jwtSecret := os.Getenv("LOGSTACK_JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("LOGSTACK_JWT_SECRET environment variable is required")
	}

	// Auto-create data directory
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	store := storage.NewSQLiteStorage(cfg.Database.Path)
	if err := store.Open(); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	log.Printf("database initialized at %s", cfg.Database.Path)

	dispatcher := notifier.NewDispatcherWithRateLimit(notifier.RateLimitConfig{
		MaxPerWindow: cfg.Notifications.MaxPerMinute,
		Window:       time.Minute,
		Enabled:      true,
	})
	defer dispatcher.Close()

	if cfg.SMTP.Enabled {
		email, err := notifier.NewEmailNotifier(notifier.EmailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: os.Getenv("LOGSTACK_SMTP_PASSWORD"),
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return fmt.Errorf("configure email notifier: %w", err)
		}
		dispatcher.Register(email)
		log.Printf("email notifications enabled via %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}

	srv, err := api.NewServer(&api.Config{
		Address:        cfg.Server.Address,
		JWTSecret:      []byte(jwtSecret),
		AccessTokenTTL: time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
		RateLimitPerIP: cfg.Server.RateLimitPerIP,
		MaxPageSize:    cfg.Server.MaxPageSize,
		Verbose:        cfg.Verbose,
	}, store, dispatcher)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	log.Printf("starting logstack-server %s", config.Version)

	select {
	case sig := <-sigChan:
		log.Printf("received signal %v, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errChan
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	log.Printf("server stopped")
	return nil
}
