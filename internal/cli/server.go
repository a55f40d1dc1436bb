package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/infra/postgres"
	redisinfra "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/infra/wordfile"
	"vocab-quiz-service/internal/metrics"
	transport "vocab-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)

	var (
		pool *pgxpool.Pool
		db   *bun.DB
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		db = postgres.OpenDB(cfg.Postgres.URL)
		defer db.Close()
	}

	var loader memory.WordLoader = memory.NewStaticWordLoader(sampleWords())
	switch {
	case pool != nil:
		loader = postgres.NewWordLoader(pool)
	case cfg.Quiz.WordsFile != "":
		loader = wordfile.NewLoader(cfg.Quiz.WordsFile)
	}

	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	var words app.WordRepository
	if redisClient != nil {
		words = redisinfra.NewWordRepository(redisClient, loader, cacheTTL)
	} else {
		words = memory.NewWordRepository(loader, cacheTTL)
	}

	// An empty bank is a startup failure, not a per-request one.
	loaded, err := words.ListWords(ctx)
	if err != nil {
		return fmt.Errorf("load word bank: %w", err)
	}
	if len(loaded) == 0 {
		return domain.ErrEmptyBank
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	lockTimeout := config.TTLDuration(cfg.Quiz.StoreLockTimeout, memory.DefaultLockTimeout)
	var attempts app.AttemptStore
	switch {
	case db != nil:
		attempts = postgres.NewAttemptStore(db, lockTimeout)
	case redisClient != nil:
		attempts = redisinfra.NewAttemptStore(redisClient, lockTimeout)
	default:
		attempts = memory.NewAttemptStore(lockTimeout)
	}

	bank := app.NewQuestionBank(words, cfg.Quiz.Distractors, nil)
	service := app.NewQuizService(bank, words, sessions, attempts, app.Options{
		MaxAttemptsPerWord: cfg.Quiz.MaxAttemptsPerWord,
		DailyLimit:         cfg.Quiz.DailyLimit,
		Location:           loc,
	}, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	transport.NewAPIHandler(service, m, logger, cfg.DashboardDays()).Register(mux)
	mux.HandleFunc("/ws", transport.NewWSHandler(service, m, logger).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quiz service", zap.String("port", finalPort), zap.Int("words", len(loaded)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleWords is the fallback bank when neither Postgres nor a words file is configured.
func sampleWords() []domain.Word {
	return []domain.Word{
		{Word: "ephemeral", CorrectAnswer: "short-lived", Options: []string{"short-lived", "eternal", "loud", "wet"}},
		{Word: "abate", CorrectAnswer: "to become less intense", Options: []string{"to become less intense", "to increase sharply", "to praise", "to hide"}},
		{Word: "abhor", CorrectAnswer: "to regard with disgust", Options: []string{"to regard with disgust", "to admire", "to forget", "to borrow"}},
		{Word: "acumen", CorrectAnswer: "keen insight", Options: []string{"keen insight", "dull routine", "loud anger", "great height"}},
	}
}
