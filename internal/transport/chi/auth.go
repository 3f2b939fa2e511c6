package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerScheme = "Bearer "

// BearerAuthMiddleware guards routes that change restaurants or expose the
// query log and token usage. With no non-empty keys configured it passes
// every request through.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			var msg string
			switch {
			case header == "":
				msg = "認証ヘッダーがありません"
			case !strings.HasPrefix(header, bearerScheme):
				msg = "Bearer形式で指定してください"
			case !knownKey(keys, []byte(header[len(bearerScheme):])):
				msg = "APIキーが無効です"
			default:
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("WWW-Authenticate", `Bearer realm="gourmet"`)
			writeError(w, http.StatusUnauthorized, codeUnauthorized, msg)
		})
	}
}

// knownKey reports whether token equals one of keys. Every key is compared in constant time.
func knownKey(keys [][]byte, token []byte) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, token)
	}
	return found == 1
}
