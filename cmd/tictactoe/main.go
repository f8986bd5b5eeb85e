package main

import (
    "context"
    "errors"
    "fmt"
    "net"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/rs/zerolog"
    "golang.org/x/sync/errgroup"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/config"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
    "github.com/jaminalder/tictactoe-ai/internal/events"
    "github.com/jaminalder/tictactoe-ai/internal/web"
)

func main() {
    cfg, err := config.Load(os.Args[1:], os.Getenv)
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(2)
    }
    log := cfg.Logger(os.Stderr)

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    err = run(ctx, cfg, log)
    stop()
    if err != nil {
        log.Error().Err(err).Msg("server stopped")
        os.Exit(1)
    }
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
    eng := engine.New()

    var publisher events.Publisher = events.Nop{}
    producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log.With().Str("component", "events").Logger())
    if producer != nil {
        publisher = producer
        defer func() {
            if err := producer.Close(); err != nil {
                log.Error().Err(err).Msg("closing event producer")
            }
        }()
        log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing game events")
    }

    svc := app.NewService(
        app.WithEngine(eng),
        app.WithPublisher(publisher),
        app.WithThinkDelay(cfg.ThinkDelay),
        app.WithLogger(log.With().Str("component", "app").Logger()),
    )
    handler := web.NewServer(svc,
        web.WithEngine(eng),
        web.WithDefaultDifficulty(cfg.Difficulty),
        web.WithLogger(log.With().Str("component", "http").Logger()),
    )
    srv := &http.Server{
        Addr:              cfg.Addr,
        Handler:           handler,
        ReadHeaderTimeout: 5 * time.Second,
        // Streams (SSE, WebSocket) end when ctx is cancelled.
        BaseContext: func(net.Listener) context.Context { return ctx },
    }

    g, gctx := errgroup.WithContext(ctx)
    g.Go(func() error {
        log.Info().Str("addr", cfg.Addr).Stringer("difficulty", cfg.Difficulty).Msg("server listening")
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            return fmt.Errorf("listen: %w", err)
        }
        return nil
    })
    g.Go(func() error {
        <-gctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
        defer cancel()
        log.Info().Msg("shutting down")
        return srv.Shutdown(shutdownCtx)
    })
    return g.Wait()
}
