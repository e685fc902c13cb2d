// Package router sets up all HTTP routes and middleware chains for the
// Inkwell service. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(admin *handlers.Admin, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	// Admin routes. Authentication is terminated by the fronting proxy;
	// the limiter keeps a runaway client from hammering the database.
	limiter := middleware.NewRateLimiter(300, time.Minute)
	r.Route("/admin", func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.CategoriesList)
			r.Post("/", admin.CategoryCreate)
			r.Get("/{id}", admin.CategoryGet)
			r.Put("/{id}", admin.CategoryUpdate)
			r.Delete("/{id}", admin.CategoryDelete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", admin.PostsList)
			r.Post("/", admin.PostCreate)
			r.Get("/{id}", admin.PostGet)
			r.Put("/{id}", admin.PostUpdate)
			r.Delete("/{id}", admin.PostDelete)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", admin.CommentsList)
			r.Post("/", admin.CommentCreate)
			r.Post("/approve", admin.CommentsApprove)
			r.Post("/disapprove", admin.CommentsDisapprove)
			r.Get("/{id}", admin.CommentGet)
			r.Put("/{id}", admin.CommentUpdate)
			r.Delete("/{id}", admin.CommentDelete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", admin.UsersList)
			r.Post("/", admin.UserCreate)
			r.Delete("/{id}", admin.UserDelete)
		})
	})

	// Public read surface.
	r.Get("/", public.PostList)
	r.Get("/{slug}", public.PostDetail)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
