package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := LoadConfig()
	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("mongo", cfg.MongoURI).
		Str("rabbit", cfg.RabbitURL).
		Msg("starting cart service")

	db, closeDB, err := openMongo(cfg.MongoURI, cfg.MongoDB)
	must(err)
	defer closeDB()

	store := NewCartStore(db)
	must(store.EnsureIndexes(context.Background()))

	pub, err := NewEventPublisher(cfg.RabbitURL)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ not available, continuing without events")
		pub = &EventPublisher{}
	}
	defer pub.Close()

	svc := NewCartService(store, pub)
	handler := cors.AllowAll().Handler(NewServer(svc).Routes(cfg.JWTSecret))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: handler}

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Warn().Msg("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("cart HTTP listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server")
	}
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("startup")
	}
}
