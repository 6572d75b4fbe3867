// Package grid talks to the GRID GraphQL APIs and assembles raw series for a matchup.
package grid

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/metrics"
)

var (
	CentralDataURLs = []string{
		"https://api.grid.gg/central-data/graphql",
		"https://api-op.grid.gg/central-data/graphql",
	}
	SeriesStateURLs = []string{
		"https://api.grid.gg/live-data-feed/series-state/graphql",
		"https://api-op.grid.gg/live-data-feed/series-state/graphql",
	}
)

// Cache stores raw GraphQL data payloads by request key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, payload []byte) error
}

type ClientOptions struct {
	APIKey    string
	RateLimit rate.Limit
	Retries   int
	Backoff   time.Duration
	Timeout   time.Duration
	Cache     Cache
}

func DefaultClientOptions(apiKey string) ClientOptions {
	return ClientOptions{
		APIKey:    apiKey,
		RateLimit: rate.Limit(constants.GridRateLimit),
		Retries:   constants.GridRetries,
		Backoff:   constants.GridBackoff,
		Timeout:   constants.ExternalAPITimeout,
	}
}

type Client struct {
	apiKey  string
	client  *fasthttp.Client
	limiter *rate.Limiter
	retries int
	backoff time.Duration
	timeout time.Duration
	cache   Cache
	logger  zerolog.Logger
}

func NewClient(opts ClientOptions, logger zerolog.Logger) *Client {
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(constants.GridRateLimit)
	}
	if opts.Retries <= 0 {
		opts.Retries = constants.GridRetries
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.ExternalAPITimeout
	}
	return &Client{
		apiKey: opts.APIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         opts.Timeout,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(opts.RateLimit, 1),
		retries: opts.Retries,
		backoff: opts.Backoff,
		timeout: opts.Timeout,
		cache:   opts.Cache,
		logger:  logger,
	}
}

type requestBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type responseBody struct {
	Data   json.RawMessage `json:"data"`
	Errors []GQLError      `json:"errors"`
}

// CacheKey is the hex SHA-1 of the canonical request description.
func CacheKey(url, gql string, vars map[string]any) string {
	if vars == nil {
		vars = map[string]any{}
	}
	src, _ := json.Marshal(map[string]any{"gql": gql, "url": url, "variables": vars})
	sum := sha1.Sum(src)
	return hex.EncodeToString(sum[:])
}

// Query posts one GraphQL request and decodes its data into out.
func (c *Client) Query(ctx context.Context, url, gql string, vars map[string]any, out any) error {
	if vars == nil {
		vars = map[string]any{}
	}

	var key string
	if c.cache != nil {
		key = CacheKey(url, gql, vars)
		if payload, ok, err := c.cache.Get(ctx, key); err != nil {
			c.logger.Warn().Err(err).Msg("Query cache read failed")
		} else if ok {
			metrics.GridRequests.WithLabelValues(metrics.OutcomeCached).Inc()
			return json.Unmarshal(payload, out)
		}
	}

	body, err := json.Marshal(requestBody{Query: gql, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			metrics.GridRetries.Inc()
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		status, respBody, err := c.post(ctx, url, body)
		if err != nil {
			metrics.GridRequests.WithLabelValues(metrics.OutcomeTransport).Inc()
			lastErr = err
			if err := sleep(ctx, c.backoff*time.Duration(attempt+1)); err != nil {
				return err
			}
			continue
		}

		switch status {
		case fasthttp.StatusOK:
		case fasthttp.StatusTooManyRequests, fasthttp.StatusInternalServerError, fasthttp.StatusBadGateway,
			fasthttp.StatusServiceUnavailable, fasthttp.StatusGatewayTimeout:
			metrics.GridRequests.WithLabelValues(metrics.OutcomeStatus).Inc()
			lastErr = &StatusError{Code: status}
			if err := sleep(ctx, c.backoff*time.Duration(attempt+1)); err != nil {
				return err
			}
			continue
		default:
			metrics.GridRequests.WithLabelValues(metrics.OutcomeStatus).Inc()
			return &StatusError{Code: status}
		}

		var resp responseBody
		if err := json.Unmarshal(respBody, &resp); err != nil {
			lastErr = fmt.Errorf("failed to decode response: %w", err)
			if err := sleep(ctx, c.backoff*time.Duration(attempt+1)); err != nil {
				return err
			}
			continue
		}

		if len(resp.Errors) > 0 {
			metrics.GridRequests.WithLabelValues(metrics.OutcomeGraphQL).Inc()
			gqlErr := &GraphQLError{Errors: resp.Errors}
			if gqlErr.RateLimited() && attempt < c.retries-1 {
				c.logger.Debug().Int("attempt", attempt).Str("url", url).Msg("GRID rate limited, backing off")
				lastErr = gqlErr
				if err := sleep(ctx, c.backoff*time.Duration(attempt+2)); err != nil {
					return err
				}
				continue
			}
			return gqlErr
		}
		if len(resp.Data) == 0 || string(resp.Data) == "null" {
			return ErrNoData
		}

		metrics.GridRequests.WithLabelValues(metrics.OutcomeOK).Inc()
		if c.cache != nil {
			if err := c.cache.Put(ctx, key, resp.Data); err != nil {
				c.logger.Warn().Err(err).Msg("Query cache write failed")
			}
		}
		return json.Unmarshal(resp.Data, out)
	}

	return fmt.Errorf("failed after %d attempts: %w", c.retries, lastErr)
}

func (c *Client) post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.SetContentType("application/json")
	req.Header.Set("accept", "application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return 0, nil, err
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return 0, nil, err
		}
	}

	// resp is released on return, so the body must be copied.
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// QueryAcross tries each endpoint in order and returns the url that answered.
func (c *Client) QueryAcross(ctx context.Context, urls []string, gql string, vars map[string]any, out any) (string, error) {
	var lastErr error
	for _, url := range urls {
		err := c.Query(ctx, url, gql, vars, out)
		if err == nil {
			return url, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		c.logger.Debug().Err(err).Str("url", url).Msg("GRID endpoint failed")
		lastErr = err
	}
	return "", fmt.Errorf("%w: %w", ErrAllEndpointsFailed, lastErr)
}

type connection struct {
	Edges []struct {
		Node json.RawMessage `json:"node"`
	} `json:"edges"`
	PageInfo struct {
		EndCursor   string `json:"endCursor"`
		HasNextPage bool   `json:"hasNextPage"`
	} `json:"pageInfo"`
}

// Paginate walks a cursor connection at path, calling fn for every non-empty node.
func (c *Client) Paginate(ctx context.Context, urls []string, gql string, vars map[string]any, path []string, pageSize int, fn func(node json.RawMessage) error) error {
	var cursor any
	for {
		pageVars := make(map[string]any, len(vars)+2)
		for k, v := range vars {
			pageVars[k] = v
		}
		pageVars["first"] = pageSize
		pageVars["after"] = cursor

		var data json.RawMessage
		if _, err := c.QueryAcross(ctx, urls, gql, pageVars, &data); err != nil {
			return err
		}
		conn, err := walk(data, path)
		if err != nil {
			return err
		}

		for _, edge := range conn.Edges {
			if isEmptyNode(edge.Node) {
				continue
			}
			if err := fn(edge.Node); err != nil {
				return err
			}
		}

		if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor == "" {
			return nil
		}
		cursor = conn.PageInfo.EndCursor
	}
}

func walk(data json.RawMessage, path []string) (connection, error) {
	var conn connection
	cur := data
	for _, key := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(cur, &obj); err != nil || obj == nil {
			return conn, nil
		}
		next, ok := obj[key]
		if !ok {
			return conn, nil
		}
		cur = next
	}
	if len(cur) == 0 || string(cur) == "null" {
		return conn, nil
	}
	if err := json.Unmarshal(cur, &conn); err != nil {
		return conn, fmt.Errorf("failed to decode connection: %w", err)
	}
	return conn, nil
}

func isEmptyNode(node json.RawMessage) bool {
	s := string(node)
	return s == "" || s == "null" || s == "{}"
}
