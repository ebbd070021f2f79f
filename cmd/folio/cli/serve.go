package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/folioapi/folio/internal/mail"
	"github.com/folioapi/folio/internal/ratelimit"
	"github.com/folioapi/folio/internal/server"
	"github.com/folioapi/folio/internal/service"
)

const devJWTSecret = "folio-dev-secret-change-me"

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Folio API server",
		Long:  "Start the HTTP server that exposes the public contact endpoint and the admin dashboard API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging, static JWT secret)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(dev bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(dev); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format, dev)

	// 1. Database
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	logger.Info("database ready", "driver", cfg.Database.Driver)

	// 2. Auth service
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = devJWTSecret
		logger.Warn("using development JWT secret, do not run this in production")
	}
	ttl, _ := cfg.TokenTTL() // validated above
	authSvc := service.NewAuthService(st, jwtSecret, ttl)

	// 3. Contact-form rate limiter
	window, _ := cfg.RateLimitWindow()
	var limiter ratelimit.Limiter
	if cfg.RateLimit.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			st.Close()
			return fmt.Errorf("connect redis %s: %w", cfg.RateLimit.RedisAddr, err)
		}
		limiter = ratelimit.NewRedis(rdb, cfg.RateLimit.Max, window)
		logger.Info("rate limiter ready", "backend", "redis", "max", cfg.RateLimit.Max, "window", window)
	} else {
		limiter = ratelimit.NewFixedWindow(cfg.RateLimit.Max, window)
		logger.Info("rate limiter ready", "backend", "memory", "max", cfg.RateLimit.Max, "window", window)
	}

	// 4. Mail notifier (disabled when no API key is configured)
	var mailClient *mail.Client
	if cfg.Mail.APIKey != "" {
		mailClient = mail.NewClient(cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.To)
		logger.Info("mail notifications enabled", "to", cfg.Mail.To)
	} else {
		logger.Info("mail notifications disabled")
	}
	notifier := mail.NewNotifier(mailClient, logger)
	notifier.Start()

	// 5. First-run check
	hasAdmin, err := st.HasAnyAdmin(context.Background())
	if err != nil {
		logger.Warn("failed to check for admin accounts", "error", err)
	}
	if !hasAdmin {
		logger.Warn("no admin account found, run: folio admin create")
	}

	// 6. HTTP server
	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Server.Host
	srvCfg.Port = cfg.Server.Port
	if len(cfg.Server.CORSOrigins) > 0 {
		srvCfg.CORSOrigins = cfg.Server.CORSOrigins
	}

	srv := server.New(srvCfg, st, authSvc, limiter, notifier, logger)

	fmt.Printf("→ Folio API\n")
	fmt.Printf("→ Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Contact:  POST http://%s:%d/api/contact\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Health:   http://%s:%d/healthz\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()

	return srv.ListenAndServe()
}

// newLogger builds the process logger from the log config. Dev mode forces
// debug level.
func newLogger(level, format string, dev bool) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if dev {
		lvl = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
