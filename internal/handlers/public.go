// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Public groups the read-only handlers for the public surface: the
// paginated list of published posts and the per-post detail view with its
// active comments. Responses are checked against the Valkey page cache
// before touching the database, and stored there on miss.
type Public struct {
	posts     *store.PostStore
	comments  *store.CommentStore
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(posts *store.PostStore, comments *store.CommentStore, pageCache *cache.PageCache) *Public {
	return &Public{
		posts:     posts,
		comments:  comments,
		pageCache: pageCache,
	}
}

// postDetail is the detail response: the post plus its active comments as
// a separate named collection.
type postDetail struct {
	Post     models.Post      `json:"post"`
	Comments []models.Comment `json:"comments"`
}

// PostList serves one page of published posts, newest publish date first,
// ten per page. The page number comes from the ?page query parameter and
// defaults to 1; a page outside the valid range is a 404.
func (p *Public) PostList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			notFound(w)
			return
		}
		page = n
	}

	if cached, ok := p.pageCache.Get(ctx, cache.ListKey(page)); ok {
		writeCached(w, cached)
		return
	}

	result, err := p.posts.ListPublishedPage(page)
	if err != nil {
		slog.Error("list published posts failed", "error", err, "page", page)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if result == nil {
		notFound(w)
		return
	}
	if result.Posts == nil {
		result.Posts = []models.Post{}
	}

	body, err := json.Marshal(result)
	if err != nil {
		slog.Error("encode post list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	p.pageCache.Set(ctx, cache.ListKey(page), body)
	writeCached(w, body)
}

// PostDetail serves a single published post by slug together with its
// active comments, oldest first. A slug that matches nothing published —
// including a slug that belongs to a draft — is a 404.
func (p *Public) PostDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, cache.PostKey(slugParam)); ok {
		writeCached(w, cached)
		return
	}

	post, err := p.posts.FindPublishedBySlug(slugParam)
	if err != nil {
		slog.Error("find published post failed", "error", err, "slug", slugParam)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if post == nil {
		notFound(w)
		return
	}

	comments, err := p.comments.ListActiveByPost(post.ID)
	if err != nil {
		slog.Error("list active comments failed", "error", err, "slug", slugParam)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	body, err := json.Marshal(postDetail{Post: *post, Comments: comments})
	if err != nil {
		slog.Error("encode post detail failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	p.pageCache.Set(ctx, cache.PostKey(slugParam), body)
	writeCached(w, body)
}

// writeCached writes a pre-serialized JSON body with a 200.
func writeCached(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
