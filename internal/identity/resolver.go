package identity

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/users"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const fallbackName = "User"

var (
	// ErrUnauthenticated means there is no valid principal behind the call, or it
	// went away between the principal check and the profile fetch.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrProfileIncomplete means the principal has no usable email address.
	ErrProfileIncomplete = errors.New("profile incomplete: email address required")
)

//go:generate mockgen -source=$GOFILE -destination=resolver_mocks_test.go -package=identity_test

type AuthProvider interface {
	CurrentPrincipalID(ctx context.Context) (string, error)
	CurrentProfile(ctx context.Context) (*auth.Profile, error)
}

type UserStore interface {
	GetIDByExternalID(ctx context.Context, externalID string) (int, error)
	Create(ctx context.Context, user users.NewUser) (int, error)
}

// Resolver maps the current external principal to the internal user id,
// provisioning the user on first sight.
type Resolver struct {
	auth    AuthProvider
	users   UserStore
	metrics *metrics.Manager

	// optional external id -> user id cache
	cache    *freecache.Cache
	cacheTTL int
}

func NewResolver(authProvider AuthProvider, userStore UserStore, metricsManager *metrics.Manager) *Resolver {
	return &Resolver{
		auth:    authProvider,
		users:   userStore,
		metrics: metricsManager,
	}
}

// WithCache enables caching of resolved ids for ttlSeconds. Users are never
// deleted by this service, so a cached id stays valid.
func (r *Resolver) WithCache(cache *freecache.Cache, ttlSeconds int) *Resolver {
	r.cache = cache
	r.cacheTTL = ttlSeconds
	return r
}

func (r *Resolver) ResolveCurrentUserID(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "identity.resolveCurrentUserId")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	externalID, err := r.auth.CurrentPrincipalID(ctx)
	if errors.Is(err, auth.ErrNoPrincipal) {
		return 0, ErrUnauthenticated
	}
	if err != nil {
		return 0, fmt.Errorf("current principal: %w", err)
	}
	span.SetAttributes(attribute.String("external_id", externalID))

	if id, ok := r.cachedID(externalID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return id, nil
	}

	id, err := r.users.GetIDByExternalID(ctx, externalID)
	switch {
	case err == nil:
		r.cacheID(externalID, id)
		return id, nil
	case !errors.Is(err, users.ErrUserNotFound):
		return 0, err
	}

	id, err = r.provision(ctx, externalID)
	if errors.Is(err, users.ErrUserExists) {
		// lost the insert race to a concurrent first-time request; the row is there now
		log.Debugf("identity: user for %s provisioned concurrently, looking up again", externalID)
		if r.metrics != nil {
			r.metrics.CounterProvisioningRaces.Inc()
		}
		id, err = r.users.GetIDByExternalID(ctx, externalID)
	}
	if err != nil {
		return 0, err
	}

	r.cacheID(externalID, id)
	span.SetAttributes(attribute.Int("user.id", id))
	return id, nil
}

func (r *Resolver) provision(ctx context.Context, externalID string) (int, error) {
	profile, err := r.auth.CurrentProfile(ctx)
	if errors.Is(err, auth.ErrNoProfile) || (err == nil && profile == nil) {
		return 0, ErrUnauthenticated
	}
	if err != nil {
		return 0, fmt.Errorf("current profile: %w", err)
	}

	email := PrimaryEmail(profile)
	if email == "" {
		return 0, ErrProfileIncomplete
	}

	id, err := r.users.Create(ctx, users.NewUser{
		ExternalID: externalID,
		Name:       DisplayName(profile, email),
		Email:      email,
	})
	if err != nil {
		return 0, err
	}

	log.Infof("identity: provisioned user %d for %s", id, externalID)
	if r.metrics != nil {
		r.metrics.CounterUsersProvisioned.Inc()
	}
	return id, nil
}

func (r *Resolver) cachedID(externalID string) (int, bool) {
	if r.cache == nil {
		return 0, false
	}
	val, err := r.cache.Get([]byte(externalID))
	if err != nil || len(val) != 8 {
		return 0, false
	}
	return int(binary.BigEndian.Uint64(val)), true
}

func (r *Resolver) cacheID(externalID string, id int) {
	if r.cache == nil {
		return
	}
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(id))
	if err := r.cache.Set([]byte(externalID), val, r.cacheTTL); err != nil {
		log.Warnf("identity: cache user id for %s: %s", externalID, err)
	}
}

// PrimaryEmail returns the first non-blank email address of the profile.
func PrimaryEmail(profile *auth.Profile) string {
	for _, e := range profile.EmailAddresses {
		if addr := strings.TrimSpace(e.EmailAddress); addr != "" {
			return addr
		}
	}
	return ""
}

// DisplayName picks the user name: first and last name joined by a single
// space, else the local part of the email, else "User".
func DisplayName(profile *auth.Profile, email string) string {
	var parts []string
	for _, p := range []*string{profile.FirstName, profile.LastName} {
		if p == nil {
			continue
		}
		if s := strings.TrimSpace(*p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	if local, _, _ := strings.Cut(email, "@"); strings.TrimSpace(local) != "" {
		return strings.TrimSpace(local)
	}

	return fallbackName
}
