package web

import (
	"bytes"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/ancientlore/knownblog/blog"
)

// Sitemap returns an http.Handler that lists the URL of every static blog
// page, one per line, in the text sitemap format.
func Sitemap(b *blog.Blog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sp, err := b.StaticPaths(r.Context())
		if err != nil {
			log.Printf("Sitemap: %s", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		base := baseURL(r)
		var out bytes.Buffer
		for _, slug := range sp.Slugs() {
			out.WriteString(base + PagePrefix + url.PathEscape(slug) + "\n")
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.ServeContent(w, r, "sitemap.txt", time.Time{}, bytes.NewReader(out.Bytes()))
	})
}

// baseURL is the scheme and host the request was made to.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
