// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "page:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Valkey     *redis.Client
	Users      *store.UserStore
	Categories *store.CategoryStore
	Posts      *store.PostStore
	Comments   *store.CommentStore
	PageCache  *cache.PageCache
	Admin      *Admin
	Public     *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)
	comments := store.NewCommentStore(db)
	pageCache := cache.NewPageCache(vk, 1*time.Minute)

	env := &testEnv{
		DB:         db,
		Valkey:     vk,
		Users:      users,
		Categories: categories,
		Posts:      posts,
		Comments:   comments,
		PageCache:  pageCache,
		Admin:      NewAdmin(categories, posts, comments, users, pageCache),
		Public:     NewPublic(posts, comments, pageCache),
	}

	// Start every test from a cold cache.
	pageCache.InvalidateAll(context.Background())

	return env
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testAuthor creates a throwaway author and registers cascade cleanup.
func testAuthor(t *testing.T, env *testEnv) *models.User {
	t.Helper()

	email := "test-" + uuid.NewString()[:8] + "@example.com"
	u, err := env.Users.Create(email, "secret", "Test Author")
	if err != nil {
		t.Fatalf("create test author: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testPost creates a post for the given author and registers cleanup.
func testPost(t *testing.T, env *testEnv, authorID uuid.UUID, status models.PostStatus, publishDate time.Time) *models.Post {
	t.Helper()

	p, err := env.Posts.Create(&models.Post{
		Title:       "My Test Post",
		Slug:        "test-post-" + uuid.NewString()[:8],
		AuthorID:    authorID,
		Body:        "body",
		PublishDate: publishDate,
		Status:      status,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM posts WHERE id = $1", p.ID) })
	return p
}
