package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/postgres"
	infraredis "vocab-quiz-service/internal/infra/redis"
)

func TestSubmitAnswerEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := postgres.OpenDB(pgURL)
	defer db.Close()
	if _, err := postgres.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := postgres.SeedWords(ctx, db, sampleWords()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	words := infraredis.NewWordRepository(redisClient, postgres.NewWordLoader(pool), 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)

	stores := map[string]app.AttemptStore{
		"postgres": postgres.NewAttemptStore(db, 2*time.Second),
		"redis":    infraredis.NewAttemptStore(redisClient, 2*time.Second),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			user := "alice-" + name
			service := app.NewQuizService(app.NewQuestionBank(words, 3, nil), words, sessions, store, app.Options{Location: time.UTC}, zap.NewNop())

			q, err := service.NextQuestion(ctx, user)
			if err != nil {
				t.Fatalf("next question: %v", err)
			}
			if len(q.Options) < 2 {
				t.Fatalf("expected options, got %+v", q)
			}

			verdict, err := service.SubmitAnswer(ctx, user, domain.AnswerSubmission{
				Word:          "ephemeral",
				Answer:        "  Short-Lived ",
				CorrectAnswer: "anything",
			})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if !verdict.IsCorrect || verdict.CorrectAnswer != "short-lived" {
				t.Fatalf("unexpected verdict %+v", verdict)
			}

			if _, err := service.SubmitAnswer(ctx, user, domain.AnswerSubmission{Word: "abhor", Answer: "to admire"}); err != nil {
				t.Fatalf("submit: %v", err)
			}

			summary, err := service.Summary(ctx, user)
			if err != nil {
				t.Fatalf("summary: %v", err)
			}
			if summary.TotalAnswers != 2 || summary.CorrectAnswers != 1 || summary.IncorrectAnswers != 1 {
				t.Fatalf("unexpected summary %+v", summary)
			}
			if len(summary.IncorrectAnswerDetails) != 1 || summary.IncorrectAnswerDetails[0].Word != "abhor" {
				t.Fatalf("unexpected details %+v", summary.IncorrectAnswerDetails)
			}

			from, to := service.RecentWindow(1)
			points, err := service.Dashboard(ctx, from, to)
			if err != nil {
				t.Fatalf("dashboard: %v", err)
			}
			var found bool
			for _, p := range points {
				if p.User == user {
					found = true
					if p.TotalCorrectCount != 1 || p.TotalIncorrectCount != 1 {
						t.Fatalf("unexpected point %+v", p)
					}
				}
			}
			if !found {
				t.Fatalf("no dashboard point for %s in %+v", user, points)
			}
		})
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func sampleWords() []domain.Word {
	return []domain.Word{
		{Word: "ephemeral", CorrectAnswer: "short-lived", Options: []string{"short-lived", "eternal", "loud", "wet"}},
		{Word: "abhor", CorrectAnswer: "to regard with disgust", Options: []string{"to regard with disgust", "to admire", "to forget", "to borrow"}},
		{Word: "acumen", CorrectAnswer: "keen insight", Options: []string{"keen insight", "dull routine", "loud anger", "great height"}},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
