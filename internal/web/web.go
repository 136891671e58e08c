// Package web serves the storefront shell document and its bootstrap script.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/storefront-backend/internal/catalog"
	"github.com/unclebandit/storefront-backend/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var shell = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type shellData struct {
	Title    string
	Featured []model.Product
}

type ShellHandler struct {
	Title string
	Log   *zap.Logger
}

func NewShellHandler(log *zap.Logger) *ShellHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShellHandler{Title: "Storefront", Log: log}
}

// ServeHTTP renders the shell into a buffer first so a template failure
// still produces a clean 500.
func (h *ShellHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := shell.Execute(&buf, shellData{Title: h.Title, Featured: catalog.Featured()}); err != nil {
		h.Log.Error("failed to render shell", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// StaticHandler serves the embedded static directory. Mount it with
// http.StripPrefix("/static/", ...).
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
