package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codearena/judgelet/internal/config"
	"github.com/codearena/judgelet/internal/files"
	"github.com/codearena/judgelet/internal/language"
	"github.com/codearena/judgelet/internal/rabbitmq"
	"github.com/codearena/judgelet/internal/runner/local"
	"github.com/codearena/judgelet/internal/workspace"
)

func panicErr(err error) {
	if err != nil {
		panic(err)
	}
}

func setLogLevel(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func main() {
	cfg, err := config.NewConfig()
	panicErr(err)
	setLogLevel(cfg.LogLevel)

	languages, err := language.Load(cfg.LanguagesPath)
	panicErr(err)
	workspaces, err := workspace.NewManager(cfg.WorkspaceRoot, time.Duration(cfg.WorkspaceTTLMin)*time.Minute)
	panicErr(err)
	judge := local.NewJudge(local.Config{
		Workspaces:     workspaces,
		Languages:      languages,
		CompileTimeout: time.Duration(cfg.CompileTimeoutMs) * time.Millisecond,
		MaxOutputSize:  cfg.MaxOutputSize,
	})
	fileStorage, err := files.NewFileStorage(files.Config{
		Url:      cfg.MinIOHost,
		Login:    cfg.MinIOLogin,
		Password: cfg.MinIOPassword,
		Bucket:   cfg.MinIOBucket,
	})
	panicErr(err)
	listener, err := rabbitmq.NewRabbitMQHandler(rabbitmq.RabbitMqHandlerConfig{
		Login:            cfg.RabbitMQUser,
		Password:         cfg.RabbitMQPassword,
		Host:             cfg.RabbitMQHost,
		Port:             cfg.RabbitMQPort,
		WorkersCount:     cfg.WorkersCount,
		DefaultTimeLimit: time.Duration(cfg.DefaultTimeLimitMs) * time.Millisecond,
		MaxTestCases:     cfg.MaxTestCases,
	}, judge, fileStorage, languages)
	panicErr(err)

	slog.Info("app started", "languages", languages.IDs())
	if err := listener.Start(); err != nil {
		panicErr(err)
	}
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	listener.Close()
}
