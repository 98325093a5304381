// Package httpserver is the paste-and-diff web service: upload two files,
// get back a link to their wikidiff2 HTML table diff.
package httpserver

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wmde/wikidiff2/internal/db"
	"github.com/wmde/wikidiff2/internal/storage"
	"github.com/wmde/wikidiff2/internal/webtemplates"
)

// Server holds the dependencies shared by every handler.
type Server struct {
	PublicURL string
	Storage   storage.Storage
	DB        *db.DB
	Output    io.Writer
}

func (s *Server) Router() chi.Router {
	if s.Output == nil {
		s.Output = os.Stdout
	}
	rt := chi.NewRouter()
	rt.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  log.New(s.Output, "", log.LstdFlags),
			NoColor: true,
		}),
		middleware.Recoverer,
		middleware.Timeout(time.Second*60),
		middleware.Compress(5, "text/html", "text/plain"),
	)
	rt.Get("/", s.index)
	rt.Post("/", s.e(s.upload))
	fs := http.FileServer(http.Dir("."))
	rt.Get("/static/*", fs.ServeHTTP)
	rt.Get("/{id}", s.e(s.serveDiff))
	rt.Get("/{id}/red", s.serveFile(0))
	rt.Get("/{id}/green", s.serveFile(1))
	return rt
}

const (
	ctHeader = "Content-Type"
	ctPlain  = "text/plain; charset=utf-8"
)

// reBrowser matches User-Agent substrings sent by mainstream desktop and
// mobile browser engines, so non-browser clients (curl, scripts) get the
// plain-text response instead of the HTML templates.
var (
	reBrowser = regexp.MustCompile(`(?i)(?:chrome|crios|firefox|fxios|safari|gecko|edg|opr|trident)/`)
	errUsage  = errors.New("")
)

func (s *Server) usageString() []byte {
	return []byte("usage: curl -F red=@before.txt -F green=@after.txt " + s.PublicURL + "\n")
}

func isBrowser(r *http.Request) bool {
	return reBrowser.MatchString(r.UserAgent())
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if !isBrowser(r) {
		w.Header().Set(ctHeader, ctPlain)
		w.Write(s.usageString())
		return
	}
	webtemplates.Templates.ExecuteTemplate(
		w,
		"index.tmpl",
		struct{ PublicURL string }{s.PublicURL},
	)
}

// e wraps a handler that can fail, centralizing error-to-status mapping:
// errUsage becomes a 400 with the usage string, anything else a logged 500.
func (s *Server) e(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err != nil {
			if errors.Is(err, errUsage) {
				w.WriteHeader(400)
				w.Write(s.usageString())
				return
			}
			log.Printf("request %s error: %v", middleware.GetReqID(r.Context()), err)
			w.WriteHeader(500)
			w.Write([]byte("500 internal server error\n"))
		}
	}
}
