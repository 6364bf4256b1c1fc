package repository

import (
	"context"
	"errors"

	"github.com/joanri79/cine-log/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentRepository persists contenidos rows keyed by tmdb_id.
type ContentRepository interface {
	Upsert(ctx context.Context, content *models.Content) error
	GetByTMDBID(ctx context.Context, tmdbID int64) (*models.Content, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository returns a gorm-backed ContentRepository.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

// Upsert inserts content or refreshes its metadata when tmdb_id already exists.
// On return content.ID holds the stored row's id.
func (r *contentRepository) Upsert(ctx context.Context, content *models.Content) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tmdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"titulo", "tipo", "genero", "poster_path", "duracion"}),
	}).Create(content).Error; err != nil {
		return models.NewInternalError(err)
	}

	var stored models.Content
	if err := db.Where("tmdb_id = ?", content.TMDBID).First(&stored).Error; err != nil {
		return models.NewInternalError(err)
	}
	content.ID = stored.ID
	return nil
}

func (r *contentRepository) GetByTMDBID(ctx context.Context, tmdbID int64) (*models.Content, error) {
	var content models.Content
	if err := r.db.WithContext(ctx).Where("tmdb_id = ?", tmdbID).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", tmdbID)
		}
		return nil, models.NewInternalError(err)
	}
	return &content, nil
}
