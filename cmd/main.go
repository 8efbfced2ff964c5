package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-redis/redis_rate/v10"
	"github.com/rakhmadg/sky-travel-service/internal/app/config"
	"github.com/rakhmadg/sky-travel-service/internal/app/dto"
	"github.com/rakhmadg/sky-travel-service/internal/app/endpoints"
	"github.com/rakhmadg/sky-travel-service/internal/app/service"
	"github.com/rakhmadg/sky-travel-service/internal/app/transport"
	"github.com/rakhmadg/sky-travel-service/internal/pkg/logger"
	"github.com/rakhmadg/sky-travel-service/internal/pkg/searchstore"
	"github.com/rakhmadg/sky-travel-service/internal/pkg/skyscanner"
	"github.com/redis/go-redis/v9"
)

// @title           Sky Travel Service API
// @version         0.0.1
// @description     sky-travel-service
// @host      localhost:8080
// @BasePath  /
func main() {

	cfg := config.MustInitConfig(".env")
	logger.InitStructuredLogger(cfg.LogLevel)

	slog.Debug("config loaded successfully", slog.Any("config", cfg))
	runApp(cfg)
}

func runApp(cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "starting...", slog.String("log_level", string(cfg.LogLevel)))

	var waitGroup sync.WaitGroup
	// Starts the server in a go routine
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		startHTTPServer(ctx, cfg)
	}()

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigChannel:
		cancel()
		slog.InfoContext(ctx, "received OS signal. Exiting...", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.ErrorContext(ctx, "failed to start HTTP server")
	}

	waitGroup.Wait()
	slog.InfoContext(ctx, "All service closed...")
}

func startHTTPServer(ctx context.Context, cfg config.Config) {
	endpts := makeEndpoints(ctx, &cfg)
	router := transport.MakeHTTPRouter(&cfg, endpts)
	server := &http.Server{
		Handler:      router,
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		WriteTimeout: cfg.HTTP.Timeout,
		ReadTimeout:  cfg.HTTP.Timeout,
	}

	slog.Info("running HTTP server...", slog.Int("port", cfg.HTTP.Port))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start HTTP server", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown HTTP server", slog.String("error", err.Error()))
	}

	slog.InfoContext(ctx, "HTTP server shutdown gracefully")
}

func makeEndpoints(ctx context.Context, cfg *config.Config) endpoints.Endpoints {
	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// init validator
	if err := dto.InitValidator(); err != nil {
		slog.ErrorContext(ctx, "failed to init validator", slog.String("error", err.Error()))
		panic(err)
	}

	// init upstream client
	travelClient, err := skyscanner.NewClient(ctx, skyscanner.Config{
		Locale:             cfg.Skyscanner.Locale,
		Currency:           cfg.Skyscanner.Currency,
		Market:             cfg.Skyscanner.Market,
		RetryDelay:         cfg.Skyscanner.RetryDelay,
		MaxRetries:         cfg.Skyscanner.MaxRetries,
		Proxy:              cfg.Skyscanner.Proxy,
		Authorization:      cfg.Skyscanner.PXAuthorization,
		InsecureSkipVerify: cfg.Skyscanner.InsecureSkipVerify,
	}, nil, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to init skyscanner client", slog.String("error", err.Error()))
		panic(err)
	}

	// init service endpoint
	return endpoints.Endpoints{
		Travel: makeTravelEndpoint(travelClient, redisClient, cfg),
	}
}

func makeTravelEndpoint(travelClient *skyscanner.Client,
	redisClient *redis.Client, cfg *config.Config) endpoints.TravelEndpoint {

	limiter := redis_rate.NewLimiter(redisClient)
	store := searchstore.New(redisClient)

	// services
	flightService := service.NewFlightService(travelClient, store, limiter,
		cfg.Skyscanner.RateLimitRPS, cfg.Skyscanner.ResultExpiration, cfg.Skyscanner.LockTimeout)
	carRentalService := service.NewCarRentalService(travelClient, limiter,
		cfg.Skyscanner.RateLimitRPS)

	// endpoint
	return endpoints.MakeTravelEndpoint(flightService, carRentalService)
}
