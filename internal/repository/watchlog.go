package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/observability"

	"gorm.io/gorm"
)

// WatchLogRepository persists visionados rows.
type WatchLogRepository interface {
	Create(ctx context.Context, entry *models.WatchLogEntry) error
	GetByID(ctx context.Context, id uint) (*models.WatchLogEntry, error)
	Update(ctx context.Context, entry *models.WatchLogEntry) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID, filter string) ([]models.WatchLogEntry, error)
	LatestForUsers(ctx context.Context, userIDs []string, limit int) ([]models.WatchLogEntry, error)
}

type watchLogRepository struct {
	db *gorm.DB
}

// NewWatchLogRepository returns a gorm-backed WatchLogRepository.
func NewWatchLogRepository(db *gorm.DB) WatchLogRepository {
	return &watchLogRepository{db: db}
}

func (r *watchLogRepository) Create(ctx context.Context, entry *models.WatchLogEntry) error {
	defer observability.TrackQuery("insert", "visionados")()

	if err := r.db.WithContext(ctx).Omit("User", "Content").Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *watchLogRepository) GetByID(ctx context.Context, id uint) (*models.WatchLogEntry, error) {
	var entry models.WatchLogEntry
	if err := r.db.WithContext(ctx).Preload("Content").First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Watch log entry", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

// Update writes the editable columns only.
func (r *watchLogRepository) Update(ctx context.Context, entry *models.WatchLogEntry) error {
	if err := r.db.WithContext(ctx).
		Model(&models.WatchLogEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"fecha_hora":    entry.WatchedAt,
			"nota":          entry.Rating,
			"plataforma_id": entry.PlatformID,
			"comentarios":   entry.Comment,
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *watchLogRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.WatchLogEntry{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByUser returns the user's history newest first. A non-empty filter matches the
// content title or the platform id as a case-insensitive substring.
func (r *watchLogRepository) ListByUser(ctx context.Context, userID, filter string) ([]models.WatchLogEntry, error) {
	defer observability.TrackQuery("select", "visionados")()

	q := r.db.WithContext(ctx).
		Joins("Content").
		Where("visionados.usuario_id = ?", userID)

	if f := strings.TrimSpace(filter); f != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f)) + "%"
		q = q.Where(`(LOWER("Content"."titulo") LIKE ? ESCAPE '\' OR LOWER(visionados.plataforma_id) LIKE ? ESCAPE '\')`,
			pattern, pattern)
	}

	var entries []models.WatchLogEntry
	if err := q.Order("visionados.fecha_hora DESC").Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

// LatestForUsers returns the most recent entries owned by any of userIDs, with owner
// and content preloaded. Callers must not pass an empty id list.
func (r *watchLogRepository) LatestForUsers(ctx context.Context, userIDs []string, limit int) ([]models.WatchLogEntry, error) {
	defer observability.TrackQuery("select", "visionados")()

	var entries []models.WatchLogEntry
	if err := r.db.WithContext(ctx).
		Where("usuario_id IN ?", userIDs).
		Preload("User").
		Preload("Content").
		Order("fecha_hora DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
