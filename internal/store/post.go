// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// PublishedPageSize is how many posts the public list serves per page.
const PublishedPageSize = 10

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, author_id, category_id, body,
	publish_date, status, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.AuthorID, &p.CategoryID, &p.Body,
		&p.PublishDate, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostPage is one page of published posts plus pagination metadata for the
// presentation boundary.
type PostPage struct {
	Posts      []models.Post `json:"posts"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPosts int           `json:"total_posts"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
	HasPrev    bool          `json:"has_previous"`
}

// ListPublishedPage returns the given 1-based page of published posts,
// newest publish date first. A page outside the valid range returns nil
// (the caller answers NotFound). An empty table still has one valid page.
func (s *PostStore) ListPublishedPage(page int) (*PostPage, error) {
	count, err := s.CountPublished()
	if err != nil {
		return nil, err
	}

	totalPages := (count + PublishedPageSize - 1) / PublishedPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		return nil, nil
	}

	posts, err := s.ListPublished(PublishedPageSize, (page-1)*PublishedPageSize)
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:      posts,
		Page:       page,
		PerPage:    PublishedPageSize,
		TotalPosts: count,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// ListPublished returns published posts ordered by publish date descending.
func (s *PostStore) ListPublished(limit, offset int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE status = 'published'
		ORDER BY publish_date DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// CountPublished returns the number of published posts.
func (s *PostStore) CountPublished() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE status = 'published'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

// FindPublishedBySlug retrieves a published post by its slug. Returns nil
// when no published post has that slug — including when the slug belongs
// to a draft, so drafts are never observable through the public surface.
func (s *PostStore) FindPublishedBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts WHERE slug = $1 AND status = 'published'
	`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published post by slug: %w", err)
	}
	return p, nil
}

// FindByID retrieves a post by its UUID regardless of status. Returns nil
// if not found. Used by the admin surface.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by slug regardless of status. Returns nil if
// not found. Used by the admin surface for slug collision checks.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID.
// A zero publish date defaults to now; an empty status defaults to draft.
// A duplicate slug fails with ErrConflict.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	if p.PublishDate.IsZero() {
		p.PublishDate = time.Now()
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}

	row := s.db.QueryRow(`
		INSERT INTO posts (title, slug, author_id, category_id, body, publish_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.AuthorID, p.CategoryID, p.Body, p.PublishDate, p.Status,
	)
	result, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create post slug %q: %w", p.Slug, ErrConflict)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post and refreshes updated_at. Changing the
// slug onto an existing one fails with ErrConflict.
func (s *PostStore) Update(p *models.Post) error {
	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, category_id = $3, body = $4,
			publish_date = $5, status = $6, updated_at = NOW()
		WHERE id = $7
	`, p.Title, p.Slug, p.CategoryID, p.Body, p.PublishDate, p.Status, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update post slug %q: %w", p.Slug, ErrConflict)
		}
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Its comments go with it (ON DELETE CASCADE).
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// PostFilter narrows the admin post listing. Zero-valued fields are ignored.
type PostFilter struct {
	Status     models.PostStatus // exact match
	AuthorID   *uuid.UUID        // exact match
	CategoryID *uuid.UUID        // exact match
	Search     string            // substring over title and body
	From       *time.Time        // publish_date >= From
	To         *time.Time        // publish_date < To
}

// ListFiltered returns posts matching the filter, ordered by status then
// publish date descending (the admin listing order).
func (s *PostStore) ListFiltered(f PostFilter) ([]models.Post, error) {
	var where []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.AuthorID != nil {
		where = append(where, "author_id = "+arg(*f.AuthorID))
	}
	if f.CategoryID != nil {
		where = append(where, "category_id = "+arg(*f.CategoryID))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(title ILIKE "+p+" OR body ILIKE "+p+")")
	}
	if f.From != nil {
		where = append(where, "publish_date >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "publish_date < "+arg(*f.To))
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY status, publish_date DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list filtered posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// collectPosts drains a result set into a slice.
func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
