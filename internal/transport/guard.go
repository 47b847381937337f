package transport

import "net/http"

// PostOnly answers 405 for any non-POST request on paths, including methods the router does not know
// (PROPFIND, custom verbs) and would otherwise route to 404. Other paths go to next untouched.
func PostOnly(next http.Handler, paths ...string) http.Handler {
	guarded := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		guarded[p] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := guarded[r.URL.Path]; ok && r.Method != http.MethodPost {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusMethodNotAllowed)
			_, _ = w.Write([]byte("Method Not Allowed"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
