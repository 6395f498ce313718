package scorefeed

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/logging"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/resilience"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL = "https://scores.pigskinpicksix.dev/v1"
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 6 << 20
)

var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)
var errFeedTransient = crerr.New("score feed transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls live game scores from the upstream feed. It implements
// usecase.ScoreProvider.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	apiKey         string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchScores returns the feed's current view of every game it tracks for the
// given week. Games the feed does not know about are simply absent.
func (c *Client) FetchScores(ctx context.Context, season, week int) ([]usecase.ExternalScoreReport, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}
	if week <= 0 {
		return nil, fmt.Errorf("week must be greater than zero")
	}

	query := map[string]string{
		"season": strconv.Itoa(season),
		"week":   strconv.Itoa(week),
	}

	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, "/games", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scoreboard season=%d week=%d: %w", season, week, err)
	}

	reports := make([]usecase.ExternalScoreReport, 0, len(envelope.Games))
	for _, game := range envelope.Games {
		id := strings.TrimSpace(game.GameID)
		if id == "" {
			continue
		}
		reports = append(reports, usecase.ExternalScoreReport{
			MatchupID: id,
			HomeScore: game.HomePoints,
			AwayScore: game.AwayPoints,
			Status:    mapFeedStatus(game.Status),
		})
	}

	return reports, nil
}

type scoreboardEnvelope struct {
	Games []scoreboardGame `json:"games"`
}

type scoreboardGame struct {
	GameID     string `json:"game_id"`
	HomePoints *int   `json:"home_points"`
	AwayPoints *int   `json:"away_points"`
	Status     string `json:"status"`
}

// mapFeedStatus translates the feed's status vocabulary into ours. Unknown
// values pass through so the caller can reject them with context.
func mapFeedStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pre", "pregame", "scheduled":
		return "scheduled"
	case "live", "in", "in_progress", "halftime":
		return "in_progress"
	case "final", "completed", "post":
		return "completed"
	default:
		return strings.ToLower(strings.TrimSpace(status))
	}
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "score feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: score feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	if c.apiKey != "" {
		values.Set("api_key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isFeedCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.roundTrip(fullURL)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFeedTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else if status >= 200 && status < 300 {
			return raw, nil
		} else if isRetryableStatus(status) {
			lastErr = fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, abbreviateBody(raw))
		} else {
			return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "score feed request failed", "url", redactFeedURL(fullURL), "error", lastErr)
	return nil, lastErr
}

// roundTrip performs a single GET over fasthttp and copies the response body
// out of the pooled buffers before they are recycled.
func (c *Client) roundTrip(fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, 0, err
	}

	body := resp.Body()
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(body)

	raw := make([]byte, len(buf.B))
	copy(raw, buf.B)
	return raw, resp.StatusCode(), nil
}
