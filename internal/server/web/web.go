// Package web serves the single-page HP tracker UI.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type indexData struct {
	Title   string
	APIBase string
}

// Register mounts "/" and "/static/*" on r.
func Register(r *gin.Engine) {
	r.SetHTMLTemplate(templates)

	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(sub))

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", indexData{
			Title:   "HP Tracker",
			APIBase: "/api/characters",
		})
	})
}
