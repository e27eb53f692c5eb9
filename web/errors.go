package web

import (
	"io/fs"
	"net/http"
)

// ErrorPages maps status codes to the files served for them.
var ErrorPages = map[int]string{
	http.StatusNotFound:            "404.html",
	http.StatusInternalServerError: "500.html",
}

// ErrorHandler replaces the body of error responses with the matching file
// from ErrorPages, such as /404.html, when fsys has it.
func ErrorHandler(h http.Handler, fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{
			ResponseWriter: w,
			fsys:           fsys,
			head:           r.Method == http.MethodHead,
		}
		h.ServeHTTP(writer, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	fsys    fs.FS
	head    bool
	noWrite bool
	err     error
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.noWrite {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if file, ok := ErrorPages[statusCode]; ok && w.fsys != nil {
		// special processing of response
		b, err := fs.ReadFile(w.fsys, file)
		if err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Del("X-Content-Type-Options")
			w.Header().Del("Content-Length")
			w.ResponseWriter.WriteHeader(statusCode)
			w.noWrite = true
			if !w.head {
				_, w.err = w.ResponseWriter.Write(b)
			}
			return
		}
	}
	// normal processing
	w.ResponseWriter.WriteHeader(statusCode)
}
