package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samandr77/microservices/invoice/internal/api"
	"github.com/samandr77/microservices/invoice/internal/clients/zoho"
	"github.com/samandr77/microservices/invoice/internal/repository"
	"github.com/samandr77/microservices/invoice/internal/service"
	"github.com/samandr77/microservices/invoice/pkg/broker"
	"github.com/samandr77/microservices/invoice/pkg/config"
	"github.com/samandr77/microservices/invoice/pkg/job"
	"github.com/samandr77/microservices/invoice/pkg/logger"
	"github.com/samandr77/microservices/invoice/pkg/postgres"
)

const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 30 * time.Second // covers up to four sequential Zoho calls
	ShutdownTimeout = 10 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	panicOnErr("create logger", err)

	err = postgres.UpMigrations(ctx, cfg.Postgres.DSN)
	panicOnErr("up migrations", err)

	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConn)
	panicOnErr("connect to postgres", err)
	defer pool.Close()

	repo := repository.New(pool)
	zohoClient := zoho.NewClient(cfg.Zoho)

	tokens := service.NewTokens(repo, zohoClient)

	err = tokens.Bootstrap(ctx, cfg.Zoho.RefreshToken)
	panicOnErr("bootstrap token store", err)

	var producer service.Producer

	if len(cfg.Kafka.Brokers) > 0 {
		p := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.InvoiceCreatedTopic)
		defer p.Close()

		producer = p
	}

	s := service.New(tokens, zohoClient, producer)

	jobs := job.NewService().
		TryRegisterJob(cfg.Jobs.TokenWarmupInterval > 0, "warm up access token", cfg.Jobs.TokenWarmupInterval,
			func(ctx context.Context) error {
				_, err := tokens.AccessToken(ctx)
				return err
			}).
		Start(ctx)

	handler := api.NewHandler(s)
	mw := api.NewMiddleware(cfg.HTTP.AllowedOrigins, cfg.HTTP.APIKeyEnabled, cfg.HTTP.APIKey)

	router := api.NewRouter(handler, mw, cfg.HTTP.APIPrefix)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "service started", "port", cfg.HTTP.Port, "api_prefix", cfg.HTTP.APIPrefix)

	wg.Add(1)

	go func() {
		defer wg.Done()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-ch

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer shutdownCancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "server shutdown", "error", err)
		}

		cancel()
	}()

	wg.Wait()
	jobs.Stop()
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
