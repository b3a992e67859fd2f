package auth

import (
	"context"
	"errors"
)

type sessionGetter interface {
	Get(ctx context.Context, token string) (*Session, error)
}

type profileFetcher interface {
	FetchProfile(ctx context.Context, principalID string) (*Profile, error)
}

// SessionProvider finds the principal of a request through its session token,
// and the principal's profile through the identity provider.
type SessionProvider struct {
	sessions sessionGetter
	profiles profileFetcher
}

func NewSessionProvider(sessions sessionGetter, profiles profileFetcher) *SessionProvider {
	return &SessionProvider{
		sessions: sessions,
		profiles: profiles,
	}
}

func (p *SessionProvider) CurrentPrincipalID(ctx context.Context) (string, error) {
	token, ok := SessionTokenFromContext(ctx)
	if !ok {
		return "", ErrNoPrincipal
	}

	session, err := p.sessions.Get(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return "", ErrNoPrincipal
	}
	if err != nil {
		return "", err
	}

	return session.PrincipalID, nil
}

// CurrentProfile re-checks the session, since it may have expired after the
// principal was first looked up.
func (p *SessionProvider) CurrentProfile(ctx context.Context) (*Profile, error) {
	principalID, err := p.CurrentPrincipalID(ctx)
	if errors.Is(err, ErrNoPrincipal) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, err
	}
	return p.profiles.FetchProfile(ctx, principalID)
}

// StaticProvider always acts as the same principal. Used by the local tools
// (stdio MCP server, CLI) where there is no request session.
type StaticProvider struct {
	Profile Profile
}

func NewStaticProvider(principalID, email string, firstName, lastName *string) *StaticProvider {
	p := &StaticProvider{
		Profile: Profile{
			ID:        principalID,
			FirstName: firstName,
			LastName:  lastName,
		},
	}
	if email != "" {
		p.Profile.EmailAddresses = []EmailAddress{{EmailAddress: email}}
	}
	return p
}

func (p *StaticProvider) CurrentPrincipalID(context.Context) (string, error) {
	if p.Profile.ID == "" {
		return "", ErrNoPrincipal
	}
	return p.Profile.ID, nil
}

func (p *StaticProvider) CurrentProfile(context.Context) (*Profile, error) {
	if p.Profile.ID == "" {
		return nil, ErrNoProfile
	}
	profile := p.Profile
	return &profile, nil
}
