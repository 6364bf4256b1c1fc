// Package tmdb is a small client for The Movie Database v3 API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joanri79/cine-log/internal/cache"
	"github.com/joanri79/cine-log/internal/middleware"
	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/observability"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the provider has no item for the id.
var ErrNotFound = errors.New("tmdb: not found")

// StatusError is a non-2xx, non-404 answer from the provider.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: %s returned status %d", e.Endpoint, e.Code)
}

// Config configures a Client.
type Config struct {
	APIKey        string
	BaseURL       string
	Language      string
	RatePerSecond float64
	CacheTTL      time.Duration
	Redis         *redis.Client
	HTTPClient    *http.Client
}

// Client calls the provider through a rate limiter and a Redis read-through cache.
type Client struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	language string
	limiter  *rate.Limiter
	rdb      *redis.Client
	ttl      time.Duration
}

// NewClient builds a Client. A zero RatePerSecond disables limiting and a nil Redis disables caching.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := int(cfg.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.MetadataTTL
	}
	lang := cfg.Language
	if lang == "" {
		lang = "es-ES"
	}

	return &Client{
		http:     httpClient,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		language: lang,
		limiter:  limiter,
		rdb:      cfg.Redis,
		ttl:      ttl,
	}
}

// SearchResult is one movie or show from a multi search.
type SearchResult struct {
	ID          int64              `json:"id"`
	Type        models.ContentType `json:"type"`
	Title       string             `json:"title"`
	PosterPath  string             `json:"poster_ref"`
	ReleaseDate string             `json:"release_date,omitempty"`
	Overview    string             `json:"overview,omitempty"`
}

type searchResponse struct {
	Results []struct {
		ID           int64  `json:"id"`
		MediaType    string `json:"media_type"`
		Title        string `json:"title"`
		Name         string `json:"name"`
		PosterPath   string `json:"poster_path"`
		ReleaseDate  string `json:"release_date"`
		FirstAirDate string `json:"first_air_date"`
		Overview     string `json:"overview"`
	} `json:"results"`
}

type detailsResponse struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Name           string `json:"name"`
	PosterPath     string `json:"poster_path"`
	Runtime        int    `json:"runtime"`
	EpisodeRunTime []int  `json:"episode_run_time"`
	Genres         []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

// SearchMulti searches movies and shows; people are dropped from the results.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}

	key := cache.MetadataSearchKey(c.language, query)
	var cached []SearchResult
	if c.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	var raw searchResponse
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if err := c.get(ctx, "/search/multi", "search_multi", params, &raw); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(raw.Results))
	for _, r := range raw.Results {
		kind := models.ContentType(r.MediaType)
		if !kind.Valid() {
			continue
		}
		res := SearchResult{ID: r.ID, Type: kind, PosterPath: r.PosterPath, Overview: r.Overview}
		if kind == models.ContentTypeMovie {
			res.Title, res.ReleaseDate = r.Title, r.ReleaseDate
		} else {
			res.Title, res.ReleaseDate = r.Name, r.FirstAirDate
		}
		results = append(results, res)
	}

	c.toCache(ctx, key, results)
	return results, nil
}

// Details fetches one movie or show and maps it onto a Content row.
// Genre names are joined with ", "; shows use their first episode runtime.
func (c *Client) Details(ctx context.Context, id int64, kind models.ContentType) (*models.Content, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("tmdb: unknown content type %q", kind)
	}

	key := cache.MetadataDetailsKey(string(kind), id, c.language)
	var cached models.Content
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var raw detailsResponse
	if err := c.get(ctx, "/"+string(kind)+"/"+strconv.FormatInt(id, 10), "details_"+string(kind), url.Values{}, &raw); err != nil {
		return nil, err
	}

	content := toContent(raw, kind)
	c.toCache(ctx, key, content)
	return content, nil
}

func toContent(raw detailsResponse, kind models.ContentType) *models.Content {
	title := raw.Title
	if kind == models.ContentTypeTV || title == "" {
		title = raw.Name
	}

	names := make([]string, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		names = append(names, g.Name)
	}

	runtime := raw.Runtime
	if runtime == 0 && len(raw.EpisodeRunTime) > 0 {
		runtime = raw.EpisodeRunTime[0]
	}

	return &models.Content{
		TMDBID:     raw.ID,
		Title:      title,
		Type:       kind,
		Genre:      strings.Join(names, ", "),
		PosterPath: raw.PosterPath,
		Runtime:    runtime,
	}
}

func (c *Client) get(ctx context.Context, path, label string, params url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.MetadataRequestLatency.WithLabelValues(label, "error").Observe(time.Since(start).Seconds())
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	observability.MetadataRequestLatency.WithLabelValues(label, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Endpoint: label, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("tmdb: decode %s: %w", label, err)
	}
	return nil
}

func (c *Client) fromCache(ctx context.Context, key string, dst any) bool {
	if c.rdb == nil {
		return false
	}
	err := cache.GetJSON(ctx, c.rdb, key, dst)
	switch {
	case err == nil:
		observability.MetadataCacheResults.WithLabelValues("hit").Inc()
		return true
	case errors.Is(err, cache.ErrMiss):
		observability.MetadataCacheResults.WithLabelValues("miss").Inc()
	default:
		observability.MetadataCacheResults.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "metadata cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return false
}

func (c *Client) toCache(ctx context.Context, key string, v any) {
	if err := cache.SetJSON(ctx, c.rdb, key, v, c.ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "metadata cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
