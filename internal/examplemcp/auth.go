package examplemcp

import "net/http"

// RequireBearer wraps a demo server handler with a bearer-token check, for
// exercising the client's reauthentication path without a real identity
// provider. Requests without the expected token get a 401 with a
// WWW-Authenticate hint, the way production MCP deployments answer.
func RequireBearer(next http.Handler, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.Header().Set("WWW-Authenticate", `Bearer realm="demo"`)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"Authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
