// Command natours-server runs the Natours auth service: MongoDB-backed
// user store, optional Redis attempt throttling, and the REST surface on
// a single HTTP listener.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LiquidN2/natours/auth"
	"github.com/LiquidN2/natours/httpapi"
	"github.com/LiquidN2/natours/mail"
	"github.com/LiquidN2/natours/store/mongo"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if err := run(logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	users := mongo.New(client.Database(cfg.MongoDB))
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	logger.Info("connected to mongodb", slog.String("database", cfg.MongoDB))

	builder := auth.New().
		WithConfig(cfg.Auth).
		WithStore(users)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		defer rdb.Close()
		builder.WithRedis(rdb)
		logger.Info("attempt throttling enabled", slog.String("redis", cfg.RedisAddr))
	} else {
		logger.Warn("no REDIS_ADDR set, attempt throttling disabled")
	}

	if cfg.SMTP.Host != "" {
		mailer, err := mail.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			return err
		}
		builder.WithMailer(mailer)
	} else {
		logger.Warn("no SMTP_HOST set, outbound mail disabled")
		builder.WithMailer(mail.NoOp{})
	}

	engine, err := builder.Build()
	if err != nil {
		return err
	}

	api := httpapi.New(engine,
		httpapi.WithLogger(logger),
		httpapi.WithCookieConfig(httpapi.CookieConfig{
			Production:  cfg.Production,
			RememberTTL: cfg.Auth.Token.Lifetime,
		}),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type serverConfig struct {
	Addr          string
	Production    bool
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string
	SMTP          mail.SMTPConfig
	Auth          auth.Config
}

// loadConfig reads everything from the environment. Only JWT_SECRET is
// mandatory; the rest has sensible local-development defaults.
func loadConfig() (serverConfig, error) {
	cfg := serverConfig{
		Addr:       envOr("ADDR", ":8080"),
		Production: os.Getenv("NODE_ENV") == "production" || os.Getenv("ENV") == "production",
		MongoURI:   envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    envOr("MONGO_DB", "natours"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}

	lifetime := 90 * 24 * time.Hour
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, errors.New("JWT_EXPIRES_IN must be a duration like 2160h")
		}
		lifetime = d
	}

	cfg.Auth = auth.Config{
		Token: auth.TokenConfig{
			Secret:   []byte(secret),
			Lifetime: lifetime,
			Issuer:   "natours",
			Leeway:   30 * time.Second,
		},
		Password: auth.PasswordConfig{
			Cost:      12,
			MinLength: 8,
		},
		TOTP: auth.TOTPConfig{
			Issuer:    "Natours",
			Digits:    6,
			Period:    30,
			Skew:      1,
			Algorithm: "SHA1",
		},
		Reset: auth.ResetConfig{
			TokenTTL: 10 * time.Minute,
		},
		Security: auth.SecurityConfig{
			EnableIPThrottle: true,
			MaxLoginAttempts: envIntOr("MAX_LOGIN_ATTEMPTS", 10),
			LoginCooldown:    15 * time.Minute,
			MaxResetRequests: 3,
			ResetCooldown:    time.Hour,
		},
		PublicURL: envOr("PUBLIC_URL", "http://localhost:8080"),
	}

	cfg.SMTP = mail.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     envIntOr("SMTP_PORT", 587),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envOr("SMTP_FROM", "Natours <hello@natours.io>"),
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
