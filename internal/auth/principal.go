package auth

import (
	"context"
	"errors"
)

var (
	// ErrNoPrincipal means there is no authenticated principal behind the call.
	ErrNoPrincipal = errors.New("no authenticated principal")
	// ErrNoProfile means the identity provider has no profile for the principal
	// (anymore), e.g. the session expired or the account was removed.
	ErrNoProfile = errors.New("no profile for principal")
	// ErrUnavailable marks infrastructure failures of the auth collaborator itself
	// (session store, identity provider API).
	ErrUnavailable = errors.New("auth backend unavailable")
)

type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// Profile is the subset of the identity provider user we rely on.
type Profile struct {
	ID             string         `json:"id"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
}

type sessionTokenKey struct{}

// WithSessionToken stores the raw session token of the request in ctx.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey{}, token)
}

func SessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenKey{}).(string)
	return token, ok && token != ""
}
