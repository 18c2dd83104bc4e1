package main

import (
	"bitwise74/docvault-api/app"
	"bitwise74/docvault-api/config"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		if errors.Is(err, config.ErrNoJWTSecret) {
			fmt.Printf("No JWT secret configured. Set jwt.secret in config.toml, for example:\n\n%s\n", config.GenSecret())
			os.Exit(1)
		}

		panic(err)
	}

	if err := config.SetupLogger(v.GetString("app.log_level")); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, err := app.New(ctx)
	if err != nil {
		zap.L().Fatal("Failed to start", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", v.GetInt("host.port"))

	zap.L().Info("Server starting", zap.String("addr", addr))

	if v.GetBool("host.ssl.enabled") {
		err = router.RunTLS(addr, v.GetString("host.ssl.certificate_path"), v.GetString("host.ssl.certificate_key_path"))
	} else {
		err = router.Run(addr)
	}
	if err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}
