package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joanri79/cine-log/internal/cache"
	"github.com/joanri79/cine-log/internal/middleware"
	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/repository"
	"github.com/joanri79/cine-log/internal/tmdb"

	"github.com/redis/go-redis/v9"
)

// MetadataProvider looks content up by its external id.
type MetadataProvider interface {
	SearchMulti(ctx context.Context, query string) ([]tmdb.SearchResult, error)
	Details(ctx context.Context, id int64, kind models.ContentType) (*models.Content, error)
}

// WatchLogService manages a user's own watch history and the catalog it points at.
type WatchLogService struct {
	watchRepo    repository.WatchLogRepository
	contentRepo  repository.ContentRepository
	platformRepo repository.PlatformRepository
	metadata     MetadataProvider
	rdb          *redis.Client
}

// NewWatchLogService returns a new WatchLogService. rdb may be nil.
func NewWatchLogService(
	watchRepo repository.WatchLogRepository,
	contentRepo repository.ContentRepository,
	platformRepo repository.PlatformRepository,
	metadata MetadataProvider,
	rdb *redis.Client,
) *WatchLogService {
	return &WatchLogService{
		watchRepo:    watchRepo,
		contentRepo:  contentRepo,
		platformRepo: platformRepo,
		metadata:     metadata,
		rdb:          rdb,
	}
}

// LogWatchInput describes one watch. A zero WatchedAt means now.
type LogWatchInput struct {
	TMDBID     int64
	Type       models.ContentType
	WatchedAt  time.Time
	Rating     int
	PlatformID string
	Comment    string
}

// UpdateEntryInput carries the editable fields; nil fields are left unchanged.
type UpdateEntryInput struct {
	WatchedAt  *time.Time
	Rating     *int
	PlatformID *string
	Comment    *string
}

func validateRating(r int) error {
	if r < models.MinRating || r > models.MaxRating {
		return models.NewValidationError("Rating must be between 0 and 10")
	}
	return nil
}

func (s *WatchLogService) validatePlatform(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	ok, err := s.platformRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewValidationError("Unknown platform: " + id)
	}
	return nil
}

// LogWatch records that userID watched the given content. The content row is
// upserted from the metadata provider first.
func (s *WatchLogService) LogWatch(ctx context.Context, userID string, in LogWatchInput) (*models.WatchLogEntry, error) {
	if in.TMDBID <= 0 {
		return nil, models.NewValidationError("tmdb_id is required")
	}
	if !in.Type.Valid() {
		return nil, models.NewValidationError("type must be movie or tv")
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if err := s.validatePlatform(ctx, in.PlatformID); err != nil {
		return nil, err
	}

	content, err := s.ContentDetails(ctx, in.Type, in.TMDBID)
	if err != nil {
		return nil, err
	}
	if content.ID == 0 {
		if err := s.contentRepo.Upsert(ctx, content); err != nil {
			return nil, err
		}
	}

	watchedAt := in.WatchedAt
	if watchedAt.IsZero() {
		watchedAt = time.Now().UTC()
	}
	entry := &models.WatchLogEntry{
		UserID:     userID,
		ContentID:  content.ID,
		WatchedAt:  watchedAt,
		Rating:     in.Rating,
		PlatformID: in.PlatformID,
		Comment:    strings.TrimSpace(in.Comment),
	}
	if err := s.watchRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	entry.Content = content
	return entry, nil
}

// History returns userID's entries newest first, optionally filtered by title or platform.
func (s *WatchLogService) History(ctx context.Context, userID, filter string) ([]models.WatchLogEntry, error) {
	return s.watchRepo.ListByUser(ctx, userID, filter)
}

func (s *WatchLogService) ownedEntry(ctx context.Context, userID string, id uint) (*models.WatchLogEntry, error) {
	entry, err := s.watchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, models.NewForbiddenError("You can only modify your own watch log entries")
	}
	return entry, nil
}

// UpdateEntry edits one of userID's entries.
func (s *WatchLogService) UpdateEntry(ctx context.Context, userID string, id uint, in UpdateEntryInput) (*models.WatchLogEntry, error) {
	entry, err := s.ownedEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Rating != nil {
		if err := validateRating(*in.Rating); err != nil {
			return nil, err
		}
		entry.Rating = *in.Rating
	}
	if in.PlatformID != nil {
		if err := s.validatePlatform(ctx, *in.PlatformID); err != nil {
			return nil, err
		}
		entry.PlatformID = *in.PlatformID
	}
	if in.WatchedAt != nil && !in.WatchedAt.IsZero() {
		entry.WatchedAt = *in.WatchedAt
	}
	if in.Comment != nil {
		entry.Comment = strings.TrimSpace(*in.Comment)
	}

	if err := s.watchRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes one of userID's entries.
func (s *WatchLogService) DeleteEntry(ctx context.Context, userID string, id uint) error {
	if _, err := s.ownedEntry(ctx, userID, id); err != nil {
		return err
	}
	return s.watchRepo.Delete(ctx, id)
}

// Stats aggregates userID's whole history.
func (s *WatchLogService) Stats(ctx context.Context, userID string) (*models.WatchStats, error) {
	entries, err := s.watchRepo.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return computeStats(entries), nil
}

func computeStats(entries []models.WatchLogEntry) *models.WatchStats {
	stats := &models.WatchStats{
		TotalEntries: len(entries),
		ByPlatform:   map[string]int{},
		ByGenre:      map[string]int{},
		ByType:       map[string]int{},
		ByMonth:      map[string]int{},
	}

	ratingSum := 0
	for _, e := range entries {
		ratingSum += e.Rating
		stats.ByMonth[e.WatchedAt.UTC().Format("2006-01")]++

		platform := e.PlatformID
		if platform == "" {
			platform = models.UnknownBucket
		}
		stats.ByPlatform[platform]++

		if e.Content == nil {
			stats.ByGenre[models.UnknownBucket]++
			continue
		}
		stats.TotalMinutes += e.Content.Runtime
		stats.ByType[string(e.Content.Type)]++

		genres := strings.Split(e.Content.Genre, ", ")
		counted := false
		for _, g := range genres {
			if g = strings.TrimSpace(g); g != "" {
				stats.ByGenre[g]++
				counted = true
			}
		}
		if !counted {
			stats.ByGenre[models.UnknownBucket]++
		}
	}

	if len(entries) > 0 {
		stats.AverageRating = float64(ratingSum) / float64(len(entries))
	}
	return stats
}

// Platforms returns the platform catalog, served from Redis when cached.
func (s *WatchLogService) Platforms(ctx context.Context) ([]models.Platform, error) {
	var platforms []models.Platform
	err := cache.GetJSON(ctx, s.rdb, cache.PlatformsKey, &platforms)
	if err == nil {
		return platforms, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		middleware.Logger.WarnContext(ctx, "platform cache read failed", slog.String("error", err.Error()))
	}

	platforms, err = s.platformRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.rdb, cache.PlatformsKey, platforms, cache.PlatformsTTL); err != nil {
		middleware.Logger.WarnContext(ctx, "platform cache write failed", slog.String("error", err.Error()))
	}
	return platforms, nil
}

// SearchContent searches the metadata provider for movies and shows.
func (s *WatchLogService) SearchContent(ctx context.Context, query string) ([]tmdb.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []tmdb.SearchResult{}, nil
	}
	results, err := s.metadata.SearchMulti(ctx, query)
	if err != nil {
		return nil, models.NewUnavailableError("Metadata provider", err)
	}
	return results, nil
}

// ContentDetails fetches content from the metadata provider. When the provider is
// down, a previously stored copy is returned instead.
func (s *WatchLogService) ContentDetails(ctx context.Context, kind models.ContentType, tmdbID int64) (*models.Content, error) {
	if !kind.Valid() {
		return nil, models.NewValidationError("type must be movie or tv")
	}

	content, err := s.metadata.Details(ctx, tmdbID, kind)
	if err == nil {
		return content, nil
	}
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, models.NewNotFoundError("Content", tmdbID)
	}

	stored, lookupErr := s.contentRepo.GetByTMDBID(ctx, tmdbID)
	if lookupErr == nil && stored.Type == kind {
		middleware.Logger.WarnContext(ctx, "metadata provider failed, serving stored content",
			slog.Int64("tmdb_id", tmdbID),
			slog.String("error", err.Error()),
		)
		return stored, nil
	}
	return nil, models.NewUnavailableError("Metadata provider", err)
}
