// Package omdb is a client for the OMDb film database, used to enrich
// catalog movies with plot, runtime, release date and IMDb rating.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL     = "https://www.omdbapi.com/"
	defaultTimeout     = 5 * time.Second
	userAgent          = "CinemaShowtimeService/1.0"
	detailsCachePrefix = "omdb:details:"
	maxResponseSize    = 1 << 20
)

// ErrUnavailable is wrapped by every Lookup failure: transport errors,
// non-200 answers, "Response":"False" bodies, malformed JSON and ratings
// that are not decimal numbers.
var ErrUnavailable = errors.New("movie metadata unavailable")

// Metadata is the subset of an OMDb title record the service exposes.
type Metadata struct {
	Title       string          `json:"title"`
	ReleaseDate string          `json:"released"`
	Runtime     string          `json:"runtime"`
	Plot        string          `json:"plot"`
	IMDbRating  decimal.Decimal `json:"imdbRating"`
}

// titleResponse mirrors the OMDb JSON for a lookup by IMDb id.
type titleResponse struct {
	Title      string `json:"Title"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Plot       string `json:"Plot"`
	IMDbRating string `json:"imdbRating"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RatePerSec float64       // <= 0 disables outbound throttling
	CacheTTL   time.Duration // 0 disables the Redis cache
	Logger     *logrus.Logger
	Redis      *redis.Client
	HTTPClient *http.Client // optional; built from Timeout when nil
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
	redis      *redis.Client
	cacheTTL   time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: hc,
		limiter:    limiter,
		logger:     cfg.Logger,
		redis:      cfg.Redis,
		cacheTTL:   cfg.CacheTTL,
	}
}

// Lookup fetches the metadata of a title by its IMDb id.  There are no
// retries; a failed lookup is reported immediately.
func (c *Client) Lookup(ctx context.Context, imdbID string) (Metadata, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return Metadata{}, fmt.Errorf("%w: empty imdb id", ErrUnavailable)
	}
	log := c.logger.WithField("imdb_id", imdbID)

	if md, ok := c.fromCache(ctx, imdbID); ok {
		log.Debug("Retrieved movie metadata from cache")
		return md, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	log.Info("Calling OMDb")
	body, err := c.get(ctx, imdbID)
	if err != nil {
		log.WithError(err).Warn("OMDb request failed")
		return Metadata{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	md, err := decode(body)
	if err != nil {
		log.WithError(err).Warn("OMDb returned unusable metadata")
		return Metadata{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.toCache(ctx, imdbID, md)
	return md, nil
}

func (c *Client) get(ctx context.Context, imdbID string) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("i", imdbID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("response too large: exceeded %d bytes", maxResponseSize)
	}
	return body, nil
}

func decode(body []byte) (Metadata, error) {
	var r titleResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return Metadata{}, fmt.Errorf("malformed response: %w", err)
	}
	if strings.EqualFold(r.Response, "False") {
		if r.Error == "" {
			r.Error = "title not found"
		}
		return Metadata{}, errors.New(r.Error)
	}
	rating, err := decimal.NewFromString(strings.TrimSpace(r.IMDbRating))
	if err != nil {
		return Metadata{}, fmt.Errorf("invalid imdbRating %q", r.IMDbRating)
	}
	return Metadata{
		Title:       r.Title,
		ReleaseDate: r.Released,
		Runtime:     r.Runtime,
		Plot:        r.Plot,
		IMDbRating:  rating,
	}, nil
}

func (c *Client) fromCache(ctx context.Context, imdbID string) (Metadata, bool) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return Metadata{}, false
	}
	cached, err := c.redis.Get(ctx, detailsCachePrefix+imdbID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Warn("Failed to read from Redis")
		}
		return Metadata{}, false
	}
	var md Metadata
	if err := json.Unmarshal(cached, &md); err != nil {
		c.logger.WithError(err).Warn("Failed to unmarshal cached metadata")
		return Metadata{}, false
	}
	return md, true
}

func (c *Client) toCache(ctx context.Context, imdbID string, md Metadata) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(md)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to marshal metadata for caching")
		return
	}
	if err := c.redis.Set(ctx, detailsCachePrefix+imdbID, payload, c.cacheTTL).Err(); err != nil {
		c.logger.WithError(err).Warn("Failed to write metadata to cache")
	}
}
