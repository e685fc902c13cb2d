// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, name, email, body, active, created_at, updated_at`

// scanComment scans a row into a Comment struct.
func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.Name, &c.Email, &c.Body, &c.Active,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActiveByPost returns the active comments on a post, oldest first.
// This is the collection the public detail view attaches to a post.
func (s *CommentStore) ListActiveByPost(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1 AND active
		ORDER BY created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list active comments: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

// ListByPost returns all comments on a post regardless of the active flag,
// oldest first. Used by the admin surface.
func (s *CommentStore) ListByPost(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments by post: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

// FindByID retrieves a comment by its UUID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a new comment and returns it with the generated ID.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	row := s.db.QueryRow(`
		INSERT INTO comments (post_id, name, email, body, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+commentColumns,
		c.PostID, c.Name, c.Email, c.Body, c.Active,
	)
	result, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// Update modifies an existing comment and refreshes updated_at.
func (s *CommentStore) Update(c *models.Comment) error {
	_, err := s.db.Exec(`
		UPDATE comments SET
			name = $1, email = $2, body = $3, active = $4, updated_at = NOW()
		WHERE id = $5
	`, c.Name, c.Email, c.Body, c.Active, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a comment by ID.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// SetActive flips the moderation flag on a batch of comments in a single
// statement, refreshing updated_at. Returns how many rows were touched.
// The statement either applies to every selected row or to none.
func (s *CommentStore) SetActive(ids []uuid.UUID, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.Exec(`
		UPDATE comments SET active = $1, updated_at = NOW()
		WHERE id = ANY($2)
	`, active, ids)
	if err != nil {
		return 0, fmt.Errorf("set comments active=%t: %w", active, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set comments active rows: %w", err)
	}
	return n, nil
}

// CommentFilter narrows the admin comment listing. Zero-valued fields are ignored.
type CommentFilter struct {
	PostID *uuid.UUID // exact match
	Active *bool      // exact match
	Search string     // substring over name, email, and body
}

// ListFiltered returns comments matching the filter, newest first (the
// admin listing order).
func (s *CommentStore) ListFiltered(f CommentFilter) ([]models.Comment, error) {
	var where []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.PostID != nil {
		where = append(where, "post_id = "+arg(*f.PostID))
	}
	if f.Active != nil {
		where = append(where, "active = "+arg(*f.Active))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(name ILIKE "+p+" OR email ILIKE "+p+" OR body ILIKE "+p+")")
	}

	query := `SELECT ` + commentColumns + ` FROM comments`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list filtered comments: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

// collectComments drains a result set into a slice.
func collectComments(rows *sql.Rows) ([]models.Comment, error) {
	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
