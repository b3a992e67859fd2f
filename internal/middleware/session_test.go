package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestSessionHandler_Session(t *testing.T) {
	sessionMiddleware := middleware.NewSessionHandler()

	testCases := []struct {
		name               string
		path               string
		method             string
		headerToken        string
		cookieToken        string
		expectedStatusCode int
		expectedToken      string
	}{
		{
			name:               "PublicPathWithoutToken",
			path:               "/a/session",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "PublicPrefixWithoutToken",
			path:               "/debug/pprof/heap",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ProtectedPathWithoutToken",
			path:               "/workouts",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "PreflightWithoutToken",
			path:               "/workouts",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "HeaderToken",
			path:               "/workouts",
			method:             "GET",
			headerToken:        "tkn-header",
			expectedStatusCode: http.StatusOK,
			expectedToken:      "tkn-header",
		},
		{
			name:               "CookieToken",
			path:               "/dashboard",
			method:             "GET",
			cookieToken:        "tkn-cookie",
			expectedStatusCode: http.StatusOK,
			expectedToken:      "tkn-cookie",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seenToken string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenToken, _ = auth.SessionTokenFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.headerToken != "" {
				req.Header.Set(auth.SessionTokenHeader, tc.headerToken)
			}
			if tc.cookieToken != "" {
				req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: tc.cookieToken})
			}

			rr := httptest.NewRecorder()
			sessionMiddleware.Session()(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectedToken, seenToken)
		})
	}
}
