package api

import (
	"net/http"
	"strings"

	"github.com/starford/bloggerbox/internal/apperr"
	"github.com/starford/bloggerbox/internal/blogservice"
)

// Handler holds API route handlers.
type Handler struct {
	categories *blogservice.CategoryService
	posts      *blogservice.PostService
}

// NewHandler creates a new Handler.
func NewHandler(categories *blogservice.CategoryService, posts *blogservice.PostService) *Handler {
	return &Handler{categories: categories, posts: posts}
}

// ListCategories handles GET /v1/categories.
//
//	@Summary		List categories, optionally filtered by name
//	@Tags			categories
//	@Produce		json
//	@Param			name	query		string	false	"Case-insensitive name fragment"
//	@Success		200		{array}		Category
//	@Router			/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	var (
		list []Category
		err  error
	)
	if strings.TrimSpace(name) == "" {
		list, err = h.categories.ListAll(r.Context())
	} else {
		list, err = h.categories.Search(r.Context(), name)
	}
	if err != nil {
		writeError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetCategory handles GET /v1/categories/{id}.
//
//	@Summary		Get a category by id
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"Category id"
//	@Success		200	{object}	Category
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Router			/categories/{id} [get]
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, "get category", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCategory handles POST /v1/categories.
//
//	@Summary		Create a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CategoryRequest	true	"Category to create"
//	@Success		201		{object}	Category
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Router			/categories [post]
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.categories.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, "create category", err)
		return
	}
	w.Header().Set("Location", "/v1/categories/"+c.ID.String())
	writeJSON(w, http.StatusCreated, c)
}

// RenameCategory handles POST, PATCH and PUT /v1/categories/{id}.
//
//	@Summary		Rename a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Category id"
//	@Param			body	body		CategoryRequest	true	"New name"
//	@Success		200		{object}	Category
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Router			/categories/{id} [patch]
func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.categories.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, "rename category", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /v1/categories/{id}.
//
//	@Summary		Delete a category that no post references
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"Category id"
//	@Success		200	{boolean}	bool
//	@Failure		404	{object}	errResponse
//	@Failure		409	{object}	errResponse
//	@Router			/categories/{id} [delete]
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeError(w, "delete category", err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

// ListCategoryPosts handles GET /v1/categories/{id}/posts.
//
//	@Summary		List the posts of a category
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"Category id"
//	@Success		200	{array}		Post
//	@Failure		404	{object}	errResponse
//	@Router			/categories/{id}/posts [get]
func (h *Handler) ListCategoryPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := h.posts.ListByCategory(r.Context(), id)
	if err != nil {
		writeError(w, "list category posts", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListPosts handles GET /v1/posts.
//
//	@Summary		List posts by creation date, or search them by topic
//	@Tags			posts
//	@Produce		json
//	@Param			topic	query		string	false	"Case-insensitive keyword matched against title and content"
//	@Success		200		{array}		Post
//	@Router			/posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	var (
		list []Post
		err  error
	)
	if r.URL.Query().Has("topic") {
		list, err = h.posts.Search(r.Context(), r.URL.Query().Get("topic"))
	} else {
		list, err = h.posts.ListAll(r.Context())
	}
	if err != nil {
		writeError(w, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetPost handles GET /v1/posts/{id}.
//
//	@Summary		Get a post by id
//	@Tags			posts
//	@Produce		json
//	@Param			id	path		string	true	"Post id"
//	@Success		200	{object}	Post
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Router			/posts/{id} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, "get post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePost handles POST /v1/posts.
//
//	@Summary		Create a post in an existing category
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		PostRequest	true	"Post to create"
//	@Success		201		{object}	Post
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/posts [post]
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, "create post", apperr.Invalid(err))
		return
	}
	p, err := h.posts.Create(r.Context(), req.Title, req.Content, *req.CategoryID)
	if err != nil {
		writeError(w, "create post", err)
		return
	}
	w.Header().Set("Location", "/v1/posts/"+p.ID.String())
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePost handles PUT /v1/posts/{id}.
//
//	@Summary		Replace title, content and category of a post
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Post id"
//	@Param			body	body		PostRequest	true	"New post values"
//	@Success		200		{object}	Post
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/posts/{id} [put]
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req PostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, "update post", apperr.Invalid(err))
		return
	}
	p, err := h.posts.Update(r.Context(), id, req.Title, req.Content, *req.CategoryID)
	if err != nil {
		writeError(w, "update post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePost handles DELETE /v1/posts/{id}.
//
//	@Summary		Delete a post
//	@Tags			posts
//	@Produce		json
//	@Param			id	path		string	true	"Post id"
//	@Success		200	{boolean}	bool
//	@Failure		404	{object}	errResponse
//	@Router			/posts/{id} [delete]
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.posts.Delete(r.Context(), id); err != nil {
		writeError(w, "delete post", err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}
