package repository

import (
	"context"

	"github.com/joanri79/cine-log/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlatformRepository persists the plataformas catalog.
type PlatformRepository interface {
	List(ctx context.Context) ([]models.Platform, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpsertAll(ctx context.Context, platforms []models.Platform) error
}

type platformRepository struct {
	db *gorm.DB
}

// NewPlatformRepository returns a gorm-backed PlatformRepository.
func NewPlatformRepository(db *gorm.DB) PlatformRepository {
	return &platformRepository{db: db}
}

func (r *platformRepository) List(ctx context.Context) ([]models.Platform, error) {
	var platforms []models.Platform
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&platforms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return platforms, nil
}

func (r *platformRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Platform{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *platformRepository) UpsertAll(ctx context.Context, platforms []models.Platform) error {
	if len(platforms) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"descripcion"}),
	}).Create(&platforms).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
