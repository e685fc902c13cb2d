// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// Admin groups the JSON handlers for the administrative surface: CRUD over
// categories, posts, comments, and author identities, plus the bulk comment
// moderation actions. Every successful write invalidates the public page
// cache, since a single edit can shift any cached list page.
type Admin struct {
	categories *store.CategoryStore
	posts      *store.PostStore
	comments   *store.CommentStore
	users      *store.UserStore
	pageCache  *cache.PageCache
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(categories *store.CategoryStore, posts *store.PostStore, comments *store.CommentStore, users *store.UserStore, pageCache *cache.PageCache) *Admin {
	return &Admin{
		categories: categories,
		posts:      posts,
		comments:   comments,
		users:      users,
		pageCache:  pageCache,
	}
}

// idParam parses the {id} URL parameter as a UUID.
func idParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// decodeBody decodes a JSON request body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

// invalidate clears the public response cache after a write.
func (a *Admin) invalidate(r *http.Request) {
	a.pageCache.InvalidateAll(r.Context())
}

// --- Categories ---

// categoryRequest is the JSON body for category writes.
type categoryRequest struct {
	Name string `json:"name"`
}

// CategoriesList returns all categories with post counts. An optional ?q=
// narrows by name substring.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.categories.List(r.URL.Query().Get("q"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CategoryCreate creates a category. A duplicate name is a 409; the
// existing record is never overwritten.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateCategory(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	created, err := a.categories.Create(&models.Category{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	a.invalidate(r)
	writeJSON(w, http.StatusCreated, created)
}

// CategoryGet returns a single category by ID.
func (a *Admin) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	c, err := a.categories.FindByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if c == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryUpdate renames a category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateCategory(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	c, err := a.categories.FindByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if c == nil {
		notFound(w)
		return
	}

	c.Name = strings.TrimSpace(req.Name)
	if err := a.categories.Update(c); err != nil {
		writeStoreError(w, err)
		return
	}

	a.invalidate(r)
	writeJSON(w, http.StatusOK, c)
}

// CategoryDelete removes a category. Posts referencing it survive with
// their category reference cleared.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	if err := a.categories.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}
	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// --- Posts ---

// postRequest is the JSON body for post writes. Slug and publish date are
// optional on create: the slug derives from the title and the publish date
// defaults to now.
type postRequest struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	AuthorID    uuid.UUID  `json:"author_id"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Body        string     `json:"body"`
	PublishDate *time.Time `json:"publish_date"`
	Status      string     `json:"status"`
}

// PostsList returns posts matching the admin filters: ?status=, ?author_id=,
// ?category_id=, ?q= (title/body substring), ?from= and ?to= (publish date
// range, RFC 3339 or YYYY-MM-DD).
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f store.PostFilter

	switch status := q.Get("status"); status {
	case "":
	case string(models.PostStatusDraft), string(models.PostStatusPublished):
		f.Status = models.PostStatus(status)
	default:
		writeError(w, http.StatusUnprocessableEntity, "status must be draft or published")
		return
	}
	if raw := q.Get("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "author_id is not a valid UUID")
			return
		}
		f.AuthorID = &id
	}
	if raw := q.Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "category_id is not a valid UUID")
			return
		}
		f.CategoryID = &id
	}
	f.Search = q.Get("q")
	if raw := q.Get("from"); raw != "" {
		ts, err := parseTimeParam(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "from is not a valid timestamp")
			return
		}
		f.From = &ts
	}
	if raw := q.Get("to"); raw != "" {
		ts, err := parseTimeParam(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "to is not a valid timestamp")
			return
		}
		f.To = &ts
	}

	items, err := a.posts.ListFiltered(f)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []models.Post{}
	}
	writeJSON(w, http.StatusOK, items)
}

// PostCreate creates a post. The author must exist; a duplicate slug is a 409.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validatePost(req.Title, req.Slug); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	status, ok := parseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "status must be draft or published")
		return
	}

	author, err := a.users.FindByID(req.AuthorID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if author == nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown author")
		return
	}

	p := &models.Post{
		Title:      strings.TrimSpace(req.Title),
		Slug:       req.Slug,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
		Body:       req.Body,
		Status:     status,
	}
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if req.PublishDate != nil {
		p.PublishDate = *req.PublishDate
	}

	created, err := a.posts.Create(p)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("post created", "id", created.ID, "slug", created.Slug, "status", created.Status)
	a.invalidate(r)
	writeJSON(w, http.StatusCreated, created)
}

// PostGet returns a single post by ID regardless of status.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	p, err := a.posts.FindByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if p == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PostUpdate modifies a post. Absent slug keeps the stored one; an empty
// status keeps the stored one.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	var req postRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validatePost(req.Title, req.Slug); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	p, err := a.posts.FindByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if p == nil {
		notFound(w)
		return
	}

	p.Title = strings.TrimSpace(req.Title)
	if req.Slug != "" {
		p.Slug = req.Slug
	}
	p.CategoryID = req.CategoryID
	p.Body = req.Body
	if req.PublishDate != nil {
		p.PublishDate = *req.PublishDate
	}
	if req.Status != "" {
		status, ok := parseStatus(req.Status)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "status must be draft or published")
			return
		}
		p.Status = status
	}

	if err := a.posts.Update(p); err != nil {
		writeStoreError(w, err)
		return
	}

	a.invalidate(r)
	writeJSON(w, http.StatusOK, p)
}

// PostDelete removes a post and, via cascade, its comments.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	if err := a.posts.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}
	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// --- Comments ---

// commentRequest is the JSON body for comment writes. Active defaults to
// true when absent.
type commentRequest struct {
	PostID uuid.UUID `json:"post_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Body   string    `json:"body"`
	Active *bool     `json:"active"`
}

// CommentsList returns comments matching the admin filters: ?post_id=,
// ?active= (true/false), ?q= (name/email/body substring).
func (a *Admin) CommentsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f store.CommentFilter

	if raw := q.Get("post_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "post_id is not a valid UUID")
			return
		}
		f.PostID = &id
	}
	switch raw := q.Get("active"); raw {
	case "":
	case "true":
		active := true
		f.Active = &active
	case "false":
		active := false
		f.Active = &active
	default:
		writeError(w, http.StatusUnprocessableEntity, "active must be true or false")
		return
	}
	f.Search = q.Get("q")

	items, err := a.comments.ListFiltered(f)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CommentCreate creates a comment on an existing post.
func (a *Admin) CommentCreate(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateComment(req.Name, req.Email, req.Body); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	post, err := a.posts.FindByID(req.PostID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if post == nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown post")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := a.comments.Create(&models.Comment{
		PostID: req.PostID,
		Name:   strings.TrimSpace(req.Name),
		Email:  req.Email,
		Body:   req.Body,
		Active: active,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	a.invalidate(r)
	writeJSON(w, http.StatusCreated, created)
}

// CommentGet returns a single comment by ID.
func (a *Admin) CommentGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	c, err := a.comments.FindByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if c == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CommentUpdate modifies a comment's fields, including the active flag.
func (a *Admin) CommentUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	var req commentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateComment(req.Name, req.Email, req.Body); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	c, err := a.comments.FindByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if c == nil {
		notFound(w)
		return
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Email = req.Email
	c.Body = req.Body
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := a.comments.Update(c); err != nil {
		writeStoreError(w, err)
		return
	}

	a.invalidate(r)
	writeJSON(w, http.StatusOK, c)
}

// CommentDelete removes a comment.
func (a *Admin) CommentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	if err := a.comments.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}
	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// moderationRequest is the JSON body for the bulk moderation actions.
type moderationRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// moderationResponse reports the outcome of a bulk moderation action.
type moderationResponse struct {
	Updated int64 `json:"updated"`
	Active  bool  `json:"active"`
}

// CommentsApprove sets active=true on the selected comments in one batch.
func (a *Admin) CommentsApprove(w http.ResponseWriter, r *http.Request) {
	a.moderate(w, r, true)
}

// CommentsDisapprove sets active=false on the selected comments in one batch.
func (a *Admin) CommentsDisapprove(w http.ResponseWriter, r *http.Request) {
	a.moderate(w, r, false)
}

// moderate applies a bulk active-flag change. The write is a single
// statement: it touches every selected row or none.
func (a *Admin) moderate(w http.ResponseWriter, r *http.Request, active bool) {
	var req moderationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "ids must not be empty")
		return
	}

	n, err := a.comments.SetActive(req.IDs, active)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("comments moderated", "active", active, "selected", len(req.IDs), "updated", n)
	a.invalidate(r)
	writeJSON(w, http.StatusOK, moderationResponse{Updated: n, Active: active})
}

// --- Users ---

// userRequest is the JSON body for author-identity creation.
type userRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// UsersList returns all author identities.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// UserCreate registers a new author identity.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Email) > maxEmailLen || !emailShape.MatchString(req.Email) {
		writeError(w, http.StatusUnprocessableEntity, "email is malformed")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "password is required")
		return
	}

	created, err := a.users.Create(req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UserDelete removes an author identity and, via cascade, every post they
// wrote along with those posts' comments.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	if err := a.users.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}
	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// parseStatus maps a request status string onto the model enum. An empty
// string is valid and means "use the default".
func parseStatus(s string) (models.PostStatus, bool) {
	switch s {
	case "":
		return "", true
	case string(models.PostStatusDraft):
		return models.PostStatusDraft, true
	case string(models.PostStatusPublished):
		return models.PostStatusPublished, true
	default:
		return "", false
	}
}

// parseTimeParam accepts RFC 3339 timestamps or bare dates.
func parseTimeParam(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
