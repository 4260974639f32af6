package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/bloggerbox/internal/blogservice"
)

// NewRouter creates a chi router with the /v1 API routes, meant to be mounted at /v1.
// allowedOrigins configures CORS. events, if non-nil, is mounted at GET /events.
func NewRouter(categories *blogservice.CategoryService, posts *blogservice.PostService, allowedOrigins []string, events http.Handler) chi.Router {
	h := NewHandler(categories, posts)

	r := chi.NewRouter()
	r.Use(CORSMiddleware(allowedOrigins))

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Get("/{id}", h.GetCategory)
		r.Post("/{id}", h.RenameCategory)
		r.Patch("/{id}", h.RenameCategory)
		r.Put("/{id}", h.RenameCategory)
		r.Delete("/{id}", h.DeleteCategory)
		r.Get("/{id}/posts", h.ListCategoryPosts)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Post("/", h.CreatePost)
		r.Get("/{id}", h.GetPost)
		r.Put("/{id}", h.UpdatePost)
		r.Delete("/{id}", h.DeletePost)
	})

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
