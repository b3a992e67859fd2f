package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	SessionTokenHeader = "X-FITDASH-TOKEN"
	SessionCookieName  = "fitdash_session"
	IdpSecretHeader    = "X-IDP-SECRET"
)

type sessionManager interface {
	Create(ctx context.Context, principalID string, createdAt time.Time) (string, error)
	Delete(ctx context.Context, token string) (bool, error)
}

// Handler serves the session endpoints. A session is opened by the identity
// provider callback, after it authenticated the principal on its side.
type Handler struct {
	sessions           sessionManager
	callbackSecretHash string
}

type sessionResponse struct {
	Token string `json:"token"`
}

func NewHandler(sessions sessionManager, callbackSecretHash string) *Handler {
	return &Handler{
		sessions:           sessions,
		callbackSecretHash: callbackSecretHash,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/session", h.HandleCreateSession).Methods("POST", "OPTIONS").Name("new-session")
	router.HandleFunc("/logout", h.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if !pkg.CheckSecretHash(r.Header.Get(IdpSecretHeader), h.callbackSecretHash) {
		reqIp, _ := pkg.ReadUserIP(r)
		log.Warnf("new session: wrong idp secret, request from %s", reqIp)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Errorf("new session, parse form: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	principalID := r.Form.Get("principal_id")
	if principalID == "" {
		http.Error(w, "error, principal_id empty", http.StatusBadRequest)
		return
	}

	token, err := h.sessions.Create(r.Context(), principalID, time.Now())
	if err != nil {
		log.Errorf("new session for %s: %s", principalID, err)
		http.Error(w, "create session error", http.StatusServiceUnavailable)
		return
	}

	log.Debugf("new session for principal %s", principalID)
	pkg.WriteJSONResponse(w, sessionResponse{Token: token}, http.StatusCreated)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	token := TokenFromRequest(r)
	if token == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	deleted, err := h.sessions.Delete(r.Context(), token)
	if err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "logout error", http.StatusServiceUnavailable)
		return
	}
	if !deleted {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	pkg.WriteTextResponseOK(w, "logged-out")
}

// TokenFromRequest reads the session token from the token header, falling back
// to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(SessionTokenHeader); token != "" {
		return token
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
