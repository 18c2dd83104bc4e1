// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configDir      = pflag.String("config-dir", ".", "Directory containing config.toml")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

// ErrNoJWTSecret is returned when no secret was configured. GenSecret can
// produce one.
var ErrNoJWTSecret = errors.New("no JWT secret configured")

func GenSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	return Load(*configDir)
}

// Load reads config.toml from dir, applies env overrides and defaults and
// validates the result
func Load(dir string) error {
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.origin", "host_origin")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.ssl.certificate_path", "host_ssl_certificate_path")
	v.BindEnv("host.ssl.certificate_key_path", "host_ssl_certificate_key_path")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("media.bucket", "media_bucket")
	v.BindEnv("media.region", "media_region")
	v.BindEnv("media.endpoint", "media_endpoint")
	v.BindEnv("media.access_key_id", "media_access_key_id")
	v.BindEnv("media.secret_access_key", "media_secret_access_key")
	v.BindEnv("media.public_url", "media_public_url")
	v.BindEnv("media.base_folder", "media_base_folder")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("security.rate_limit", "security_rate_limit")

	v.BindEnv("cache.redis_addr", "cache_redis_addr")
	v.BindEnv("cache.redis_password", "cache_redis_password")
	v.BindEnv("cache.redis_db", "cache_redis_db")

	v.BindEnv("cloudflare.turnstile.enabled", "cloudflare_turnstile_enabled")
	v.BindEnv("cloudflare.turnstile.secret_token", "cloudflare_turnstile_secret_token")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")

	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "docvault.db")

	v.SetDefault("upload.max_size", 10)

	v.SetDefault("media.region", "auto")
	v.SetDefault("media.base_folder", "secure-documents")

	v.SetDefault("mail.port", 587)

	v.SetDefault("security.rate_limit", 10)

	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("cloudflare.turnstile.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("host.origin") == "" {
		scheme := "http"
		if v.GetBool("host.ssl.enabled") {
			scheme = "https"
		}

		v.Set("host.origin", fmt.Sprintf("%s://%s", scheme, v.GetString("host.domain")))
	}
	v.Set("host.origin", strings.TrimSuffix(v.GetString("host.origin"), "/"))

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if v.GetString("jwt.secret") == "" {
		return ErrNoJWTSecret
	}

	if !slices.Contains(validDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetString("media.bucket") == "" {
		return errors.New("media bucket can't be empty")
	}
	if v.GetString("media.access_key_id") == "" {
		return errors.New("media access key id can't be empty")
	}
	if v.GetString("media.secret_access_key") == "" {
		return errors.New("media secret access key can't be empty")
	}
	if v.GetString("media.public_url") == "" {
		return errors.New("media public url can't be empty")
	}

	if v.GetString("mail.host") == "" || v.GetString("mail.sender") == "" {
		zap.L().Warn("Mail isn't configured, verification emails will fail to send")
	}

	if v.GetInt("security.rate_limit") < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	if !v.GetBool("cloudflare.turnstile.enabled") {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Some public endpoints won't be guarded against bots")
	} else {
		if v.GetString("cloudflare.turnstile.secret_token") == "" {
			return errors.New("turnstile secret token is missing")
		}
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
