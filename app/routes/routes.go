package routes

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"folio/app/controllers"
	"folio/app/middleware"
)

// Dependencies are the handlers and static directories the router mounts.
type Dependencies struct {
	Posts *controllers.PostController
	Media *controllers.MediaController

	// Articles is optional and mounted read-only.
	Articles *controllers.PostController

	// UploadsDir is served read-only under UploadsPrefix.
	UploadsDir    string
	UploadsPrefix string
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) *mux.Router {
	prefix := "/" + strings.Trim(deps.UploadsPrefix, "/") + "/"

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON(prefix))

	router.NotFoundHandler = middleware.Logger(jsonError("Not found", http.StatusNotFound))
	router.MethodNotAllowedHandler = middleware.Logger(jsonError("Method not allowed", http.StatusMethodNotAllowed))

	// Posts endpoints. upload is registered before {slug} so it is not read as a slug.
	// Routes stay flat on router: a subrouter drops the method mismatch and answers 404.
	router.HandleFunc("/posts", deps.Posts.Index).Methods("GET")
	router.HandleFunc("/posts", deps.Posts.Create).Methods("POST")
	router.HandleFunc("/posts/upload", deps.Media.Upload).Methods("POST")
	router.HandleFunc("/posts/{slug}", deps.Posts.Show).Methods("GET")
	router.HandleFunc("/posts/{slug}", deps.Posts.Edit).Methods("PUT")
	router.HandleFunc("/posts/{slug}", deps.Posts.Delete).Methods("DELETE")

	if deps.Articles != nil {
		router.HandleFunc("/articles", deps.Articles.Index).Methods("GET")
		router.HandleFunc("/articles/{slug}", deps.Articles.Show).Methods("GET")
	}

	router.HandleFunc("/media", deps.Media.List).Methods("GET")

	// Uploaded images
	if deps.UploadsDir != "" {
		static := http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(deps.UploadsDir))))
		router.PathPrefix(prefix).Handler(static).Methods("GET", "HEAD")
	}

	return router
}

func jsonError(message string, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"error":"` + message + `"}` + "\n"))
	})
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
