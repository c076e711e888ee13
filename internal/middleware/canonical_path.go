package middleware

import (
	"net/http"
	"strings"
)

// CanonicalPathMiddleware lowercases the URL path and drops a trailing slash,
// so /API/Labels/Printable/ and /api/labels/printable reach the same route.
// Query values such as prod_no keep their case.
func CanonicalPathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.ToLower(r.URL.Path)
		if len(path) > 1 {
			path = strings.TrimRight(path, "/")
			if path == "" {
				path = "/"
			}
		}
		r.URL.Path = path
		r.URL.RawPath = ""

		next.ServeHTTP(w, r)
	})
}
