package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"tortas-web/internal/api"
	"tortas-web/internal/config"
	"tortas-web/internal/handlers"
	"tortas-web/internal/logger"
	"tortas-web/internal/metrics"
	"tortas-web/internal/notify"
	"tortas-web/internal/store"
	"tortas-web/internal/views"
	"tortas-web/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var port, remoteURL string

	root := &cobra.Command{
		Use:          "tortas-web",
		Short:        "Dish registration web app backed by the tortas API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.App.Port = port
			}
			if remoteURL != "" {
				cfg.Remote.BaseURL = strings.TrimRight(remoteURL, "/")
			}
			return serve(cmd.Context(), cfg)
		},
	}
	root.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	root.Flags().StringVar(&remoteURL, "remote", "", "remote API base URL (overrides REMOTE_API_URL)")

	root.AddCommand(&cobra.Command{
		Use:   "vapid",
		Short: "Generate a VAPID key pair for push notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
			if err != nil {
				return fmt.Errorf("generate vapid keys: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "VAPID_PRIVATE_KEY=%s\nVAPID_PUBLIC_KEY=%s\n", privateKey, publicKey)
			return nil
		},
	})

	return root
}

func serve(ctx context.Context, cfg *config.Config) error {
	zl := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer zl.Sync()

	m := metrics.New()
	client := api.NewClient(cfg.Remote.BaseURL, &http.Client{}, m)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisOpts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	var pending store.PendingStore
	var rdb *redis.Client
	switch cfg.Fallback.Backend {
	case "postgres":
		if cfg.Fallback.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres fallback backend")
		}
		pg, err := store.NewPostgresStore(cfg.Fallback.DatabaseURL)
		if err != nil {
			return err
		}
		if err := pg.RunMigrations(ctx); err != nil {
			pg.Close()
			return err
		}
		zl.Info("main", "fallback store ready", map[string]interface{}{"backend": "postgres"})
		pending = pg
	default:
		rs, err := store.OpenRedisStore(ctx, redisOpts)
		if err != nil {
			return err
		}
		zl.Info("main", "fallback store ready", map[string]interface{}{"backend": "redis", "addr": cfg.Redis.Addr})
		pending = rs
		rdb = rs.Client()
	}
	defer pending.Close()

	var syncer store.SyncRegistrar
	if cfg.Fallback.SyncEnabled {
		if rdb == nil {
			rdb = redis.NewClient(redisOpts)
			defer rdb.Close()
		}
		syncer = store.NewRedisSyncRegistrar(rdb)
	}

	keys, err := notify.ResolveKeys(cfg.Push.ApplicationServerKey, cfg.Push.PrivateKey, cfg.Push.Generate, config.DefaultApplicationServerKey)
	if err != nil {
		return err
	}
	if cfg.Push.Generate && cfg.Push.ApplicationServerKey == "" {
		warnGeneratedKeys(zl, keys)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return err
	}

	h := &handlers.Handler{
		Client:     client,
		Pending:    pending,
		Sync:       syncer,
		Subscriber: notify.NewSubscriber(client, keys.Public, zl, m),
		Sessions:   handlers.NewSessionManager(cfg.App.SessionSecret, cfg.IsProduction()),
		Tables:     views.NewTableStates(cfg.App.ViewStateTTL),
		Tmpl:       tmpl,
		Log:        zl,
		Metrics:    m,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handlers.NewRouter(h, web.Static(), m.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("main", "listening", map[string]interface{}{"port": cfg.App.Port, "remote": cfg.Remote.BaseURL})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("main", "shutdown failed", map[string]interface{}{"error": err})
		return err
	}
	zl.Info("main", "stopped", nil)
	return nil
}

// warnGeneratedKeys logs a freshly generated pair so it can be copied into
// .env; without the private key the subscriptions made now can't be used.
func warnGeneratedKeys(log logger.ILogger, keys notify.Keys) {
	log.Warn("main", "generated VAPID keys, add them to your .env file to persist them", map[string]interface{}{
		"VAPID_PUBLIC_KEY":  keys.Public,
		"VAPID_PRIVATE_KEY": keys.Private,
	})
}
