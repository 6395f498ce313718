package account

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/logging"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/resilience"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
)

var errAccountTransient = crerr.New("account service transient failure")

// Principal is the authenticated caller as the account service reports it.
type Principal struct {
	UserID string
	Email  string
}

// Client talks to the account service for token introspection and
// leaderboard eligibility. It implements usecase.AccountVerifier.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	eligibilityURL string
	adminKey       string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	cache          *principalCache
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	CacheTTL       time.Duration
	CacheEntries   int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	introspectPath := cfg.IntrospectPath
	if strings.TrimSpace(introspectPath) == "" {
		introspectPath = "/v1/auth/introspect"
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	cacheEntries := cfg.CacheEntries
	if cacheEntries <= 0 {
		cacheEntries = 4096
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(cfg.BaseURL, introspectPath),
		eligibilityURL: buildURL(cfg.BaseURL, "/v1/accounts"),
		adminKey:       strings.TrimSpace(cfg.AdminKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          newPrincipalCache(cacheTTL, cacheEntries),
	}
}

// VerifyAccessToken resolves a bearer token to a principal. Verified tokens
// are cached briefly so hot request paths do not introspect on every call.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "account circuit breaker rejected introspection", "state", c.breaker.State())
			return Principal{}, fmt.Errorf("%w: account service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	principal, err := c.introspect(ctx, token)
	if c.circuitEnabled {
		if isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return Principal{}, err
	}

	c.cache.Set(cacheKey, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (Principal, error) {
	payload := introspectRequest{Token: token}
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: request introspection: %v", errAccountTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Principal{}, fmt.Errorf("%w: read introspect response: %v", errAccountTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		// Forbidden means our admin key is wrong, not that the caller's
		// token is bad. Surface it as an outage rather than a 401.
		return Principal{}, fmt.Errorf("%w: introspection forbidden by account service", usecase.ErrDependencyUnavailable)
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return Principal{}, fmt.Errorf("%w: introspection status=%d", errAccountTransient, resp.StatusCode)
	default:
		return Principal{}, fmt.Errorf("introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
	}, nil
}

// IsEligible reports whether a user may appear on public leaderboards.
// Suspended or deleted accounts come back false; unknown users true, since
// standings rows only exist for users who actually submitted picks.
func (c *Client) IsEligible(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, fmt.Errorf("user id is required")
	}

	url := c.eligibilityURL + "/" + userID + "/eligibility"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create eligibility request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request eligibility: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return true, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("read eligibility response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("eligibility check failed with status %d", resp.StatusCode)
	}

	var decoded eligibilityResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return false, fmt.Errorf("unmarshal eligibility response: %w", err)
	}

	return decoded.Eligible, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type eligibilityResponse struct {
	Eligible bool `json:"eligible"`
}
