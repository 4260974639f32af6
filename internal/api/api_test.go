package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/starford/bloggerbox/internal/testutil"
)

// testEnv sets up a temp SQLite DB, both services and the router for testing.
func testEnv(t *testing.T, origins ...string) http.Handler {
	t.Helper()
	return testEnvWithEvents(t, nil, origins...)
}

func testEnvWithEvents(t *testing.T, events http.Handler, origins ...string) http.Handler {
	t.Helper()
	cats, posts := testutil.TestServices(t)
	return NewRouter(cats, posts, origins, events)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func createCategory(t *testing.T, h http.Handler, name string) Category {
	t.Helper()
	w := do(t, h, http.MethodPost, "/categories", map[string]string{"name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category status = %d, body = %s", w.Code, w.Body.String())
	}
	return decode[Category](t, w)
}

func createPost(t *testing.T, h http.Handler, title, content string, categoryID uuid.UUID) Post {
	t.Helper()
	w := do(t, h, http.MethodPost, "/posts", map[string]any{
		"title": title, "content": content, "categoryId": categoryID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post status = %d, body = %s", w.Code, w.Body.String())
	}
	return decode[Post](t, w)
}

func TestCreateAndGetCategory(t *testing.T) {
	router := testEnv(t)

	w := do(t, router, http.MethodPost, "/categories", map[string]string{"name": "Sport"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	c := decode[Category](t, w)
	if loc := w.Header().Get("Location"); loc != "/v1/categories/"+c.ID.String() {
		t.Errorf("Location = %q", loc)
	}

	w = do(t, router, http.MethodGet, "/categories/"+c.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	got := decode[map[string]any](t, w)
	if got["name"] != "Sport" || got["id"] != c.ID.String() {
		t.Errorf("body = %v", got)
	}
}

func TestCreateCategoryDuplicate(t *testing.T) {
	router := testEnv(t)
	createCategory(t, router, "Travel")

	w := do(t, router, http.MethodPost, "/categories", map[string]string{"name": "TRAVEL"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate create = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestCreateCategoryInvalid(t *testing.T) {
	router := testEnv(t)

	if w := do(t, router, http.MethodPost, "/categories", map[string]string{"name": "  "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank name = %d, want 400", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/categories", "{not json"); w.Code != http.StatusBadRequest {
		t.Errorf("bad json = %d, want 400", w.Code)
	}
}

func TestListAndSearchCategories(t *testing.T) {
	router := testEnv(t)
	createCategory(t, router, "Science")
	createCategory(t, router, "Sci-Fi")
	createCategory(t, router, "Cooking")

	w := do(t, router, http.MethodGet, "/categories", nil)
	if all := decode[[]Category](t, w); len(all) != 3 {
		t.Errorf("list = %d, want 3", len(all))
	}

	w = do(t, router, http.MethodGet, "/categories?name=SCI", nil)
	if found := decode[[]Category](t, w); len(found) != 2 {
		t.Errorf("search = %+v", found)
	}

	w = do(t, router, http.MethodGet, "/categories?name=%20", nil)
	if all := decode[[]Category](t, w); len(all) != 3 {
		t.Errorf("blank name should list all, got %d", len(all))
	}
}

func TestRenameCategoryMethods(t *testing.T) {
	router := testEnv(t)
	c := createCategory(t, router, "Old")
	createCategory(t, router, "Taken")

	for i, method := range []string{http.MethodPost, http.MethodPatch, http.MethodPut} {
		name := []string{"One", "Two", "Three"}[i]
		w := do(t, router, method, "/categories/"+c.ID.String(), map[string]string{"name": name})
		if w.Code != http.StatusOK {
			t.Fatalf("%s rename = %d, body = %s", method, w.Code, w.Body.String())
		}
		if got := decode[Category](t, w); got.Name != name || got.ID != c.ID {
			t.Errorf("%s renamed = %+v", method, got)
		}
	}

	w := do(t, router, http.MethodPatch, "/categories/"+c.ID.String(), map[string]string{"name": "taken"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("rename to taken = %d, want 400", w.Code)
	}
	w = do(t, router, http.MethodPatch, "/categories/"+uuid.NewString(), map[string]string{"name": "Free"})
	if w.Code != http.StatusNotFound {
		t.Errorf("rename unknown = %d, want 404", w.Code)
	}
}

func TestCategoryNotFoundAndBadID(t *testing.T) {
	router := testEnv(t)

	if w := do(t, router, http.MethodGet, "/categories/"+uuid.NewString(), nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/categories/not-a-uuid", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/categories/"+uuid.NewString(), nil); w.Code != http.StatusNotFound {
		t.Errorf("delete unknown = %d, want 404", w.Code)
	}
}

func TestDeleteCategoryInUse(t *testing.T) {
	router := testEnv(t)
	sport := createCategory(t, router, "Sport")
	p1 := createPost(t, router, "Race Day", "fast", sport.ID)

	w := do(t, router, http.MethodDelete, "/categories/"+sport.ID.String(), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("delete in-use = %d, want 409", w.Code)
	}

	w = do(t, router, http.MethodGet, "/categories/"+sport.ID.String()+"/posts", nil)
	if list := decode[[]Post](t, w); len(list) != 1 || list[0].ID != p1.ID {
		t.Fatalf("posts after refused delete = %+v", list)
	}

	w = do(t, router, http.MethodDelete, "/posts/"+p1.ID.String(), nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "true" {
		t.Fatalf("delete post = %d %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodDelete, "/categories/"+sport.ID.String(), nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "true" {
		t.Fatalf("delete category = %d %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodGet, "/categories/"+sport.ID.String()+"/posts", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("posts of deleted category = %d, want 404", w.Code)
	}
}

func TestCreateAndGetPost(t *testing.T) {
	router := testEnv(t)
	c := createCategory(t, router, "Tech")

	w := do(t, router, http.MethodPost, "/posts", map[string]any{
		"title": "Go", "content": "generics", "categoryId": c.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d, body = %s", w.Code, w.Body.String())
	}
	p := decode[Post](t, w)
	if loc := w.Header().Get("Location"); loc != "/v1/posts/"+p.ID.String() {
		t.Errorf("Location = %q", loc)
	}

	w = do(t, router, http.MethodGet, "/posts/"+p.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}
	raw := decode[map[string]any](t, w)
	for _, k := range []string{"id", "title", "content", "createdDate", "category"} {
		if _, ok := raw[k]; !ok {
			t.Errorf("missing %q in %v", k, raw)
		}
	}
	cat, _ := raw["category"].(map[string]any)
	if cat["name"] != "Tech" {
		t.Errorf("category = %v", raw["category"])
	}
}

func TestCreatePostErrors(t *testing.T) {
	router := testEnv(t)

	w := do(t, router, http.MethodPost, "/posts", map[string]any{"title": "x", "content": "y", "categoryId": uuid.New()})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown category = %d, want 404", w.Code)
	}
	w = do(t, router, http.MethodPost, "/posts", map[string]any{"title": "x", "content": "y"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing category = %d, want 400", w.Code)
	}
	w = do(t, router, http.MethodPost, "/posts", map[string]any{"title": "x", "categoryId": "nope"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed category = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodGet, "/posts", nil)
	if list := decode[[]Post](t, w); len(list) != 0 {
		t.Errorf("failed creates left posts: %+v", list)
	}
}

func TestListAndSearchPosts(t *testing.T) {
	router := testEnv(t)
	c := createCategory(t, router, "Misc")
	createPost(t, router, "Hello World", "intro", c.ID)
	createPost(t, router, "Other", "the world cup", c.ID)
	createPost(t, router, "Third", "nothing", c.ID)

	w := do(t, router, http.MethodGet, "/posts", nil)
	all := decode[[]Post](t, w)
	if len(all) != 3 {
		t.Fatalf("list = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedDate.Before(all[i-1].CreatedDate) {
			t.Errorf("posts not ordered by creation date: %+v", all)
		}
	}

	w = do(t, router, http.MethodGet, "/posts?topic=WORLD", nil)
	if found := decode[[]Post](t, w); len(found) != 2 {
		t.Errorf("search = %+v", found)
	}
	w = do(t, router, http.MethodGet, "/posts?topic=", nil)
	if found := decode[[]Post](t, w); len(found) != 3 {
		t.Errorf("empty topic should match all, got %d", len(found))
	}
}

func TestUpdatePost(t *testing.T) {
	router := testEnv(t)
	a := createCategory(t, router, "A")
	b := createCategory(t, router, "B")
	p := createPost(t, router, "t", "c", a.ID)

	w := do(t, router, http.MethodPut, "/posts/"+p.ID.String(), map[string]any{
		"title": "t2", "content": "c2", "categoryId": b.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", w.Code, w.Body.String())
	}
	upd := decode[Post](t, w)
	if upd.Title != "t2" || upd.Category.ID != b.ID || !upd.CreatedDate.Equal(p.CreatedDate) {
		t.Errorf("updated = %+v", upd)
	}

	w = do(t, router, http.MethodPut, "/posts/"+uuid.NewString(), map[string]any{
		"title": "x", "content": "y", "categoryId": a.ID,
	})
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "post") {
		t.Errorf("update unknown post = %d %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodPut, "/posts/"+uuid.NewString(), map[string]any{
		"title": "x", "content": "y", "categoryId": uuid.New(),
	})
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "category") {
		t.Errorf("update with unknown category = %d %s", w.Code, w.Body.String())
	}
}

func TestDeletePostNotFound(t *testing.T) {
	router := testEnv(t)
	if w := do(t, router, http.MethodDelete, "/posts/"+uuid.NewString(), nil); w.Code != http.StatusNotFound {
		t.Errorf("delete unknown post = %d, want 404", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := testEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/categories", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete) {
		t.Errorf("allow methods = %q", w.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestCORSRestrictedOrigins(t *testing.T) {
	router := testEnv(t, "https://blog.example")

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("Origin", "https://blog.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://blog.example" {
		t.Errorf("allowed origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin got allow header %q", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("simple request from foreign origin = %d", w.Code)
	}
}

func TestEventsMounted(t *testing.T) {
	called := false
	events := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	router := testEnvWithEvents(t, events)

	if w := do(t, router, http.MethodGet, "/events", nil); w.Code != http.StatusOK || !called {
		t.Errorf("events = %d, called = %v", w.Code, called)
	}
	if w := do(t, testEnv(t), http.MethodGet, "/events", nil); w.Code != http.StatusNotFound {
		t.Errorf("events without handler = %d, want 404", w.Code)
	}
}
