// Package web serves the chat page and its assets.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed static
var embedded embed.FS

// Assets returns the static file system: dir on disk when set, the embedded
// copy otherwise.
func Assets(dir string) (fs.FS, error) {
	if strings.TrimSpace(dir) != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(embedded, "static")
}

// RegisterRoutes serves GET / and /static/* from assets.
func RegisterRoutes(r *gin.Engine, assets fs.FS) {
	r.StaticFS("/static", http.FS(assets))
	r.GET("/", func(c *gin.Context) {
		page, err := fs.ReadFile(assets, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}
