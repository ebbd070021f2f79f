package cli

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/folioapi/folio/internal/config"
	"github.com/folioapi/folio/internal/store"
)

// loadConfig reads the typed YAML configuration and layers any FOLIO_*
// environment variables or flag bindings viper picked up on top of it.
func loadConfig() (config.Config, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = cfgFile
	}
	if path == "" {
		path = "folio.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if viper.IsSet("server.host") {
		cfg.Server.Host = viper.GetString("server.host")
	}
	if viper.IsSet("server.port") {
		cfg.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("server.cors_origins") {
		cfg.Server.CORSOrigins = viper.GetStringSlice("server.cors_origins")
	}
	if viper.IsSet("database.driver") {
		cfg.Database.Driver = viper.GetString("database.driver")
	}
	if viper.IsSet("database.dsn") {
		cfg.Database.DSN = viper.GetString("database.dsn")
	}
	if viper.IsSet("auth.jwt_secret") {
		cfg.Auth.JWTSecret = viper.GetString("auth.jwt_secret")
	}
	if viper.IsSet("auth.token_ttl") {
		cfg.Auth.TokenTTL = viper.GetString("auth.token_ttl")
	}
	if viper.IsSet("mail.api_key") {
		cfg.Mail.APIKey = viper.GetString("mail.api_key")
	}
	if viper.IsSet("mail.from") {
		cfg.Mail.From = viper.GetString("mail.from")
	}
	if viper.IsSet("mail.to") {
		cfg.Mail.To = viper.GetString("mail.to")
	}
	if viper.IsSet("rate_limit.max") {
		cfg.RateLimit.Max = viper.GetInt("rate_limit.max")
	}
	if viper.IsSet("rate_limit.window") {
		cfg.RateLimit.Window = viper.GetString("rate_limit.window")
	}
	if viper.IsSet("rate_limit.redis_addr") {
		cfg.RateLimit.RedisAddr = viper.GetString("rate_limit.redis_addr")
	}
	if viper.IsSet("log.level") {
		cfg.Log.Level = viper.GetString("log.level")
	}
	if viper.IsSet("log.format") {
		cfg.Log.Format = viper.GetString("log.format")
	}

	return cfg, nil
}

// openStore connects to the configured database. Used by the admin
// subcommands, which operate on the same database the server does.
func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(store.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
