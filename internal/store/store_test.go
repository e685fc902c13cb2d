// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state so other packages can set their own FS.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testAuthor creates a throwaway author for the test and registers cleanup.
// The cascade removes the author's posts and their comments with them.
func testAuthor(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	email := "test-" + uuid.NewString()[:8] + "@example.com"
	u, err := NewUserStore(db).Create(email, "secret", "Test Author")
	if err != nil {
		t.Fatalf("create test author: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testPost creates a post for the given author and registers cleanup.
func testPost(t *testing.T, db *sql.DB, authorID uuid.UUID, status models.PostStatus) *models.Post {
	t.Helper()

	s := "test-post-" + uuid.NewString()[:8]
	p, err := NewPostStore(db).Create(&models.Post{
		Title:    "Test Post",
		Slug:     s,
		AuthorID: authorID,
		Body:     "body",
		Status:   status,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", p.ID) })
	return p
}

// cleanCategories removes test categories by name. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM categories WHERE name = $1", name)
	}
}

// backdate shifts a comment's created_at to a fixed instant so ordering
// tests are deterministic.
func backdate(t *testing.T, db *sql.DB, commentID uuid.UUID, ts time.Time) {
	t.Helper()
	if _, err := db.Exec("UPDATE comments SET created_at = $1 WHERE id = $2", ts, commentID); err != nil {
		t.Fatalf("backdate comment: %v", err)
	}
}
