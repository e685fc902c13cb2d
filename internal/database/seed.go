package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// author, one category, a published post, and a welcome comment. It is a
// no-op when any users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var authorID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "author@inkwell.local", string(hash), "Author").Scan(&authorID)
	if err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	var categoryID string
	err = db.QueryRow(`
		INSERT INTO categories (name) VALUES ($1) RETURNING id
	`, "General").Scan(&categoryID)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	var postID string
	err = db.QueryRow(`
		INSERT INTO posts (title, slug, author_id, category_id, body, status)
		VALUES ($1, $2, $3, $4, $5, 'published')
		RETURNING id
	`, "Hello, Inkwell", "hello-inkwell", authorID, categoryID,
		"This is your first post. Edit or delete it through the admin API.",
	).Scan(&postID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO comments (post_id, name, email, body)
		VALUES ($1, $2, $3, $4)
	`, postID, "Inkwell", "hello@inkwell.local", "Welcome aboard!")
	if err != nil {
		return fmt.Errorf("seed insert comment: %w", err)
	}

	slog.Info("database seeded with default author and sample content",
		"email", "author@inkwell.local",
	)

	return nil
}
