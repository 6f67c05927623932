package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

// gzipResponseWriter wraps http.ResponseWriter to support gzip compression.
type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
	wroteHeader bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.Writer.Write(b)
}

// Gzip returns a middleware that compresses HTTP responses with brotli
// when the client's Accept-Encoding lists "br", otherwise with gzip when it
// lists "gzip"; other responses are passed through uncompressed.
func Gzip(next http.Handler) http.Handler {
	// Pool gzip writers to reduce allocations
	gzPool := sync.Pool{
		New: func() interface{} {
			return gzip.NewWriter(io.Discard)
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept-Encoding")
		if strings.Contains(accept, "br") {
			br := brotli.NewWriter(w)
			defer br.Close()
			w.Header().Set("Content-Encoding", "br")
			w.Header().Del("Content-Length")
			next.ServeHTTP(&gzipResponseWriter{Writer: br, ResponseWriter: w}, r)
			return
		}

		// Check if client accepts gzip
		if !strings.Contains(accept, "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		// Get gzip writer from pool
		gz := gzPool.Get().(*gzip.Writer)
		defer gzPool.Put(gz)
		gz.Reset(w)
		defer gz.Close()

		// Set response headers
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length") // Length will change after compression

		// Wrap response writer
		gzw := &gzipResponseWriter{Writer: gz, ResponseWriter: w}
		next.ServeHTTP(gzw, r)
	})
}
