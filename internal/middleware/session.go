package middleware

import (
	"net/http"
	"strings"

	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// SessionHandler requires a session token on every non-public path and puts it
// into the request context. The token is resolved to a principal only when a
// handler asks for it, so an unknown token surfaces as unauthenticated there.
type SessionHandler struct {
	publicPaths         map[string]bool
	publicPathsPrefixes []string
}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{
		publicPaths: map[string]bool{
			"/":        true,
			"/version": true,

			// session endpoints guard themselves
			"/a/session": true,
			"/a/logout":  true,
		},
		publicPathsPrefixes: []string{
			"/debug/",
		},
	}
}

func (h *SessionHandler) pathIsPublic(path string) bool {
	if h.publicPaths[path] {
		return true
	}
	for _, prefix := range h.publicPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *SessionHandler) Session() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.session")
			defer span.End()

			// preflight requests carry no custom headers
			if r.Method == http.MethodOptions || h.pathIsPublic(r.URL.Path) {
				span.SetStatus(codes.Ok, "public")
				next.ServeHTTP(w, r)
				return
			}

			token := auth.TokenFromRequest(r)
			if token == "" {
				log.Tracef("[missing token] [session middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-session-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithSessionToken(ctx, token)))
		})
	}
}
