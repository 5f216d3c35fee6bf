package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ticketline/internal/pkg/config"
	"ticketline/internal/pkg/errs"
)

// tokenCache is the client's own record of the current access token. The
// cached value and its expiry travel together; there is no package-level
// state.
type tokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time

	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// Refresh slightly before the provider-reported expiry to absorb clock skew.
const tokenExpiryMargin = 30 * time.Second

func newTokenCache(cfg config.GatewayConfig, httpClient *http.Client) *tokenCache {
	return &tokenCache{
		tokenURL:     cfg.BaseURL + "/oauth/token",
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
	}
}

func (t *tokenCache) get(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Now().Before(t.expiresAt.Add(-tokenExpiryMargin)) {
		return t.token, nil
	}

	return t.refresh(ctx)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (t *tokenCache) refresh(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", t.clientID)
	form.Set("client_secret", t.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errs.Wrap(err, "failed to build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", errs.Wrap(err, "token request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", errs.New(fmt.Sprintf("token endpoint returned %d: %s", resp.StatusCode, string(raw)))
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errs.Wrap(err, "failed to decode token response")
	}
	if body.AccessToken == "" {
		return "", errs.New("token endpoint returned empty access token")
	}

	t.token = body.AccessToken
	t.expiresAt = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)

	return t.token, nil
}
