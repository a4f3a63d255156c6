package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"farmacia/internal/apierror"

	"github.com/gin-gonic/gin"
)

const (
	cacheNoStore   = "no-store"
	cacheInmutable = "public, max-age=31536000, immutable"
)

// Estaticos serves the built front end from dir. HTML and the root are never
// cached; hashed assets are cached for a year. Unknown paths outside /api
// fall back to index.html so client-side routes survive a reload.
func Estaticos(dir string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
			return
		}
		p := path.Clean("/" + c.Request.URL.Path)
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(p))
		if p == "/" || !esArchivo(file) {
			file = index
		}
		if !esArchivo(file) {
			c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
			return
		}

		if strings.HasSuffix(file, ".html") {
			c.Header("Cache-Control", cacheNoStore)
		} else {
			c.Header("Cache-Control", cacheInmutable)
		}
		c.File(file)
	}
}

func esArchivo(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
