package api

import (
	"net/http"
	"strings"

	"podofarma/m/internal/auth"
)

// Page routes reachable without a session.
var publicPages = map[string]bool{
	"/login": true,
}

// Page prefix reserved for administration screens. The gate only classifies;
// the fine-grained role check lives in the API handlers behind those screens.
const adminPagePrefix = "/usuarios"

// PageGate fronts the static UI: unauthenticated page requests are redirected
// to /login, a logged-in user hitting /login is sent home, and API routes pass
// through untouched so they can enforce their own checks.
func PageGate(authSvc *auth.Service, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/api") {
			next.ServeHTTP(w, r)
			return
		}

		id := authSvc.FromRequest(r)

		if publicPages[path] {
			if id != nil {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if id == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
