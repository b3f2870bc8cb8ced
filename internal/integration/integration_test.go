package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"interview-prep-service/internal/app"
	"interview-prep-service/internal/domain"
	pginfra "interview-prep-service/internal/infra/postgres"
	pgmigrations "interview-prep-service/internal/infra/postgres/migrations"
	infraredis "interview-prep-service/internal/infra/redis"
)

func TestStudyStateEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedContent(t, ctx, pgURL)

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

	questions := infraredis.NewQuestionRepository(redisClient, pginfra.NewQuestionLoader(pool), 5*time.Minute)
	storage := pginfra.NewStorage(pool, "e2e")

	study := app.NewStudy(app.NewRegistry(storage), questions)
	study.Progress.MarkAsSeen("10")
	study.Progress.MarkAsMastered("2")
	study.Favorites.Add("10")
	study.Reveals.MarkRevealed("2", 3*time.Second)

	loaded, err := study.Questions(ctx, domain.LocaleFR)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != "2" || loaded[1].ID != "10" {
		t.Fatalf("expected numeric order, got %+v", loaded)
	}
	if n, err := redisClient.Exists(ctx, "questions:fr").Result(); err != nil || n != 1 {
		t.Fatalf("expected questions cached in redis, n=%d err=%v", n, err)
	}

	home, err := study.Home(ctx, domain.LocaleFR)
	if err != nil || home.Title != "Questions d'entretien" {
		t.Fatalf("unexpected home %+v err=%v", home, err)
	}

	// A fresh registry over the same rows behaves like a reload.
	reloaded := app.NewStudy(app.NewRegistry(pginfra.NewStorage(pool, "e2e")), questions)
	overview, err := reloaded.Overview(ctx, domain.LocaleFR)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.ProgressPercentage != 100 || overview.MasteryPercentage != 50 || overview.Favorites != 1 {
		t.Fatalf("unexpected overview %+v", overview)
	}
	if overview.Reveals.AvgTimeToReveal != 3 {
		t.Fatalf("unexpected reveal stats %+v", overview.Reveals)
	}

	other := app.NewFavorites(app.NewRegistry(pginfra.NewStorage(pool, "someone-else")))
	if other.Count() != 0 {
		t.Fatalf("namespaces must not share state")
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "prep", "POSTGRES_PASSWORD": "preppass", "POSTGRES_DB": "prepdb"},
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
	dsn := fmt.Sprintf("postgres://prep:preppass@%s:%s/prepdb?sslmode=disable", host, port.Port())
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

func seedContent(t *testing.T, ctx context.Context, dsn string) {
	// The postgres container may accept connections before it is ready for queries.
	var db *bun.DB
	for attempt := 0; ; attempt++ {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
		if err := db.PingContext(ctx); err == nil {
			break
		} else if attempt == 10 {
			t.Fatalf("ping postgres: %v", err)
		}
		db.Close()
		time.Sleep(time.Second)
	}
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seeder := pginfra.NewSeeder(db)
	questions := []domain.Question{
		{ID: "10", Meta: domain.QuestionMeta{Title: "Qu'est-ce que le hoisting ?", Slug: "hoisting", Category: domain.CategoryJavaScript}},
		{ID: "2", Meta: domain.QuestionMeta{Title: "Le modèle de boîte", Slug: "box-model", Category: domain.CategoryCSS, Tags: []string{"layout"}}},
	}
	if _, err := seeder.SeedQuestions(ctx, domain.LocaleFR, questions); err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	if err := seeder.SeedHome(ctx, domain.HomeContent{Locale: domain.LocaleFR, Title: "Questions d'entretien"}); err != nil {
		t.Fatalf("seed home: %v", err)
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
