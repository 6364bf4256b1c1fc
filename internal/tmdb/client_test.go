package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joanri79/cine-log/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{"results":[
	{"id":603,"media_type":"movie","title":"The Matrix","poster_path":"/m.jpg","release_date":"1999-03-31"},
	{"id":1399,"media_type":"tv","name":"Game of Thrones","poster_path":"/g.jpg","first_air_date":"2011-04-17"},
	{"id":6384,"media_type":"person","name":"Keanu Reeves"}
]}`

func newUpstream(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Query().Get("api_key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/multi":
			_, _ = w.Write([]byte(searchBody))
		case "/movie/603":
			_, _ = w.Write([]byte(`{"id":603,"title":"The Matrix","poster_path":"/m.jpg","runtime":136,"genres":[{"name":"Action"},{"name":"Science Fiction"}]}`))
		case "/tv/1399":
			_, _ = w.Write([]byte(`{"id":1399,"name":"Game of Thrones","poster_path":"/g.jpg","episode_run_time":[60,55],"genres":[{"name":"Drama"}]}`))
		case "/movie/500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchMulti(t *testing.T) {
	var calls int32
	srv := newUpstream(t, &calls)
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})

	results, err := c.SearchMulti(context.Background(), "matrix")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, models.ContentTypeMovie, results[0].Type)
	assert.Equal(t, "The Matrix", results[0].Title)
	assert.Equal(t, "1999-03-31", results[0].ReleaseDate)
	assert.Equal(t, models.ContentTypeTV, results[1].Type)
	assert.Equal(t, "Game of Thrones", results[1].Title)

	empty, err := c.SearchMulti(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDetails(t *testing.T) {
	var calls int32
	srv := newUpstream(t, &calls)
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	ctx := context.Background()

	t.Run("movie", func(t *testing.T) {
		got, err := c.Details(ctx, 603, models.ContentTypeMovie)
		require.NoError(t, err)
		assert.Equal(t, int64(603), got.TMDBID)
		assert.Equal(t, "The Matrix", got.Title)
		assert.Equal(t, "Action, Science Fiction", got.Genre)
		assert.Equal(t, 136, got.Runtime)
	})

	t.Run("show falls back to episode runtime", func(t *testing.T) {
		got, err := c.Details(ctx, 1399, models.ContentTypeTV)
		require.NoError(t, err)
		assert.Equal(t, "Game of Thrones", got.Title)
		assert.Equal(t, 60, got.Runtime)
		assert.Equal(t, models.ContentTypeTV, got.Type)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.Details(ctx, 1, models.ContentTypeMovie)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("upstream failure", func(t *testing.T) {
		_, err := c.Details(ctx, 500, models.ContentTypeMovie)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusInternalServerError, se.Code)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := c.Details(ctx, 603, models.ContentType("person"))
		assert.Error(t, err)
	})
}

func TestCachedLookups(t *testing.T) {
	var calls int32
	srv := newUpstream(t, &calls)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client(), Redis: rdb, CacheTTL: time.Minute})
	ctx := context.Background()

	first, err := c.Details(ctx, 603, models.ContentTypeMovie)
	require.NoError(t, err)
	second, err := c.Details(ctx, 603, models.ContentTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err = c.SearchMulti(ctx, "Matrix")
	require.NoError(t, err)
	_, err = c.SearchMulti(ctx, "  matrix ")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	mr.FastForward(2 * time.Minute)
	_, err = c.Details(ctx, 603, models.ContentTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRateLimiterHonorsContext(t *testing.T) {
	var calls int32
	srv := newUpstream(t, &calls)
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client(), RatePerSecond: 0.001})

	_, err := c.Details(context.Background(), 603, models.ContentTypeMovie)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Details(ctx, 1399, models.ContentTypeTV)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
