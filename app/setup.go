package app

import (
	"bitwise74/docvault-api/aws"
	"bitwise74/docvault-api/db"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/auth"
	"bitwise74/docvault-api/internal/cache"
	"bitwise74/docvault-api/internal/media"
	"bitwise74/docvault-api/internal/service"
	"bitwise74/docvault-api/pkg/middleware"
	"context"
	"fmt"
	"time"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-gonic/gin"
	v "github.com/spf13/viper"
)

// New builds the dependencies from the loaded config and starts the
// background jobs. They stop when ctx is cancelled.
func New(ctx context.Context) (*gin.Engine, error) {
	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	s3, err := aws.NewS3(ctx, aws.OptionsFromConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}

	host := media.NewS3Host(s3, v.GetString("media.public_url"), v.GetString("media.base_folder"))

	d := internal.NewDeps(conn, host, internal.Options{
		JWTSecret:     []byte(v.GetString("jwt.secret")),
		Origin:        v.GetString("host.origin"),
		Mailer:        auth.MailerFromConfig(),
		MaxUploadSize: v.GetInt64("upload.max_size"),
		SecureCookies: v.GetBool("host.ssl.enabled"),
	})

	rateLimit := v.GetInt("security.rate_limit")
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
		CleanupInterval:   time.Minute,
	})

	var store persist.CacheStore
	if addr := v.GetString("cache.redis_addr"); addr != "" {
		rs, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:     addr,
			Password: v.GetString("cache.redis_password"),
			DB:       v.GetInt("cache.redis_db"),
		})
		if err != nil {
			return nil, err
		}

		go func() {
			<-ctx.Done()
			rs.Close()
		}()

		store = rs
	}

	router := NewRouter(d, RouterOptions{
		CORSOrigins: v.GetStringSlice("host.cors_origins"),
		Turnstile: middleware.TurnstileConfig{
			Enabled: v.GetBool("cloudflare.turnstile.enabled"),
			Secret:  v.GetString("cloudflare.turnstile.secret_token"),
		},
		Limiter:    limiter,
		CacheStore: store,
	})

	go limiter.Cleanup(ctx)

	// Tokens live 30 minutes but are kept for 60 days, a daily sweep is plenty
	go service.TokenCleanup(ctx, time.Hour*24, d.Store)

	return router, nil
}
