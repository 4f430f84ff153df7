package main

import (
	"context"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/doorkeep/doorkeep/adapters/events"
	"github.com/doorkeep/doorkeep/adapters/hasher"
	"github.com/doorkeep/doorkeep/adapters/store"
	"github.com/doorkeep/doorkeep/adapters/tokenizer"
	"github.com/doorkeep/doorkeep/config"
	"github.com/doorkeep/doorkeep/service"
	"github.com/doorkeep/doorkeep/transport/http"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse Redis URL")
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create event publisher")
	}

	sessionStore := store.NewRedisStore(redisClient)

	authService := service.NewAuthService(
		sessionStore,
		sessionStore,
		hasher.NewBcryptHasher(cfg.BcryptCost),
		tokenizer.NewAccessTokenizer([]byte(cfg.AccessSecret), cfg.AccessTokenTTL),
		tokenizer.NewRefreshTokenizer([]byte(cfg.RefreshSecret)),
		events.NewWatermillPublisher(publisher),
		logger,
	)

	router := http.SetupRouter(authService, cfg.RefreshTokenTTL, !cfg.IsDev())

	logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting server")
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
