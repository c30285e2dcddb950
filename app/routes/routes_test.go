package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/app/controllers"
	"folio/app/repositories"
	"folio/app/services"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func setupTestRouter(t *testing.T) (*mux.Router, string) {
	root := t.TempDir()

	postRepo, err := repositories.NewFilePostRepository(filepath.Join(root, "content", "blogs"))
	require.NoError(t, err)
	articleRepo, err := repositories.NewFilePostRepository(filepath.Join(root, "content", "articles"))
	require.NoError(t, err)

	db, err := repositories.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uploadsDir := filepath.Join(root, "public", "uploads")
	mediaService := services.NewMediaService(repositories.NewBadgerMediaRepository(db), services.MediaOptions{
		Dir:       uploadsDir,
		URLPrefix: "/uploads",
	})

	router := SetupRoutes(Dependencies{
		Posts:         controllers.NewPostController(services.NewPostService(postRepo), ""),
		Media:         controllers.NewMediaController(mediaService),
		Articles:      controllers.NewArticleController(services.NewPostService(articleRepo), ""),
		UploadsDir:    uploadsDir,
		UploadsPrefix: "/uploads",
	})
	return router, root
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostRoutes(t *testing.T) {
	router, root := setupTestRouter(t)

	t.Run("create two posts and list newest first", func(t *testing.T) {
		w := do(router, "POST", "/posts", `{"title":"My First Post","date":"2024-01-01","content":"one"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"slug":"my-first-post"}`, w.Body.String())
		assert.FileExists(t, filepath.Join(root, "content", "blogs", "my-first-post.md"))

		w = do(router, "POST", "/posts", `{"title":"Later Post","date":"2024-06-01","content":"two"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = do(router, "GET", "/posts", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var res struct {
			Posts []struct {
				Slug  string `json:"slug"`
				Title string `json:"title"`
			} `json:"posts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res.Posts, 2)
		assert.Equal(t, "later-post", res.Posts[0].Slug)
		assert.Equal(t, "my-first-post", res.Posts[1].Slug)
	})

	t.Run("show update delete", func(t *testing.T) {
		w := do(router, "GET", "/posts/my-first-post", "")
		require.Equal(t, http.StatusOK, w.Code)
		var shown map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shown))
		assert.Equal(t, "<p>one</p>\n", shown["html"])

		w = do(router, "PUT", "/posts/my-first-post", `{"title":"Changed","date":"2024-01-01","content":"edited"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = do(router, "DELETE", "/posts/my-first-post", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NoFileExists(t, filepath.Join(root, "content", "blogs", "my-first-post.md"))

		w = do(router, "GET", "/posts/my-first-post", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		w := do(router, "POST", "/posts", `{"title":"Later Post","date":"2025-01-01"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("slug outside the slug alphabet", func(t *testing.T) {
		w := do(router, "GET", "/posts/Bad_Slug", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestArticleRoutes(t *testing.T) {
	router, root := setupTestRouter(t)

	dir := filepath.Join(root, "content", "articles")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "older.md"),
		[]byte("---\ntitle: Older\ndate: 2021-05-05\n---\nold words\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "newer.md"),
		[]byte("---\ntitle: Newer\ndate: 2023-05-05\n---\nnew words\n"), 0644))

	t.Run("list newest first", func(t *testing.T) {
		w := do(router, "GET", "/articles", "")
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Articles []struct {
				Slug string `json:"slug"`
			} `json:"articles"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res.Articles, 2)
		assert.Equal(t, "newer", res.Articles[0].Slug)
		assert.Equal(t, "older", res.Articles[1].Slug)
	})

	t.Run("show renders body", func(t *testing.T) {
		w := do(router, "GET", "/articles/older", "")
		require.Equal(t, http.StatusOK, w.Code)

		var shown map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shown))
		assert.Equal(t, "Older", shown["title"])
		assert.Equal(t, "<p>old words</p>\n", shown["html"])
	})

	t.Run("missing article", func(t *testing.T) {
		w := do(router, "GET", "/articles/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("articles are read only", func(t *testing.T) {
		w := do(router, "POST", "/articles", `{"title":"x","date":"2024-01-01"}`)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

		w = do(router, "DELETE", "/articles/older", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.FileExists(t, filepath.Join(dir, "older.md"))
	})

	t.Run("blog list is separate", func(t *testing.T) {
		w := do(router, "GET", "/posts", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "older")
	})
}

func TestRouterErrors(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"unknown path", "GET", "/nope", http.StatusNotFound},
		{"put on collection", "PUT", "/posts", http.StatusMethodNotAllowed},
		{"delete on collection", "DELETE", "/posts", http.StatusMethodNotAllowed},
		{"patch on collection", "PATCH", "/posts", http.StatusMethodNotAllowed},
		{"patch on post", "PATCH", "/posts/some-post", http.StatusMethodNotAllowed},
		{"patch on upload", "PATCH", "/posts/upload", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.target, "")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestUploadRoutes(t *testing.T) {
	router, _ := setupTestRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/posts/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	imageURL := res["imageUrl"]
	require.True(t, strings.HasPrefix(imageURL, "/uploads/"))

	t.Run("uploaded file is served", func(t *testing.T) {
		w := do(router, "GET", imageURL, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, pngBytes, w.Body.Bytes())
	})

	t.Run("media index lists it", func(t *testing.T) {
		w := do(router, "GET", "/media", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), imageURL)
	})

	t.Run("directory listing is hidden", func(t *testing.T) {
		w := do(router, "GET", "/uploads/", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing upload", func(t *testing.T) {
		w := do(router, "GET", "/uploads/missing.png", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
