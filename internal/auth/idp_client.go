package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fitdash/internal/telemetry/tracing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// IdpClient reads user profiles from the identity provider backend API:
//
//	GET {baseURL}/v1/users/{principalID}
//	Authorization: Bearer {apiKey}
type IdpClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewIdpClient(baseURL, apiKey string, httpClient *http.Client) *IdpClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		}
	}
	return &IdpClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *IdpClient) FetchProfile(ctx context.Context, principalID string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.idp.fetchProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("principal.id", principalID))

	reqURL := c.baseURL + "/v1/users/" + url.PathEscape(principalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %w", ErrUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	switch {
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusGone:
		return nil, ErrNoProfile
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: fetch profile: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	profile := &Profile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if profile.ID == "" {
		profile.ID = principalID
	}

	return profile, nil
}
