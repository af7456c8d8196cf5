package main

import (
	stdLog "log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/gunnhildr/library-api/books/app"
	"github.com/gunnhildr/library-api/books/config"
)

// @title       Books API
// @version     1.0
// @description Library books service.
// @host        localhost:8081
// @BasePath    /api/v1
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.InfoLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal(err)
	}
}
