package controllers

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/sha3"

	"folio/app/models"
	"folio/app/services"
)

// PostController handles HTTP requests for one content collection. The blog
// collection is fully editable; articles are only read. The write handlers
// re-check the method for callers that mount them without a router.
type PostController struct {
	postService *services.PostService
	siteURL     string
	linkPath    string
	listKey     string
}

// NewPostController creates a new PostController. siteURL, when set, is used
// to build the public link of each post.
func NewPostController(postService *services.PostService, siteURL string) *PostController {
	return &PostController{
		postService: postService,
		siteURL:     strings.TrimSuffix(siteURL, "/"),
		linkPath:    "/blogs/",
		listKey:     "posts",
	}
}

// NewArticleController serves the articles collection. Only Index and Show
// are meant to be routed.
func NewArticleController(articleService *services.PostService, siteURL string) *PostController {
	return &PostController{
		postService: articleService,
		siteURL:     strings.TrimSuffix(siteURL, "/"),
		linkPath:    "/articles/",
		listKey:     "articles",
	}
}

// postView is the single-post response: the stored post plus its rendered body.
type postView struct {
	*models.Post
	HTML string `json:"html"`
	URL  string `json:"url,omitempty"`
}

// Index lists posts, newest first, optionally filtered by ?q=
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.URL.Query().Get("q"))
	if err != nil {
		sendServiceError(w, r, err, "Error fetching blog posts")
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		pc.listKey: posts,
	})
}

// Show returns one post with its body rendered to HTML. Responses carry an
// ETag so clients can revalidate with If-None-Match.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	post, err := pc.postService.GetPost(slug)
	if err != nil {
		sendServiceError(w, r, err, "Error fetching blog post")
		return
	}

	html, err := pc.postService.RenderPost(post)
	if err != nil {
		sendServiceError(w, r, err, "Error rendering blog post")
		return
	}

	view := postView{Post: post, HTML: html}
	if pc.siteURL != "" {
		view.URL = pc.siteURL + pc.linkPath + post.Slug
	}

	body, err := json.Marshal(view)
	if err != nil {
		sendServiceError(w, r, err, "Error encoding blog post")
		return
	}

	sum := sha3.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(append(body, '\n'))
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var post models.Post
	if !decodeJSON(w, r, &post) {
		return
	}
	post.Slug = ""

	slug, err := pc.postService.CreatePost(&post)
	if err != nil {
		sendServiceError(w, r, err, "Error saving blog post")
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"slug": slug})
}

// Edit replaces an existing post. The slug in the path is kept even when the
// title changes.
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var post models.Post
	if !decodeJSON(w, r, &post) {
		return
	}

	if err := pc.postService.UpdatePost(mux.Vars(r)["slug"], &post); err != nil {
		sendServiceError(w, r, err, "Error updating blog post")
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"message": "Blog post updated successfully"})
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := pc.postService.DeletePost(mux.Vars(r)["slug"]); err != nil {
		sendServiceError(w, r, err, "Error deleting blog post")
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"message": "Blog post deleted successfully"})
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
