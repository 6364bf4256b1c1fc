package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/joanri79/cine-log/internal/models"

	"gorm.io/gorm"
)

// UserRepository reads profiles owned by the identity provider. Create and Update
// exist for seeding and profile sync only.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Search(ctx context.Context, query string, excludeIDs []string, limit int) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches nickname or contact as a case-insensitive substring. Exclusions are
// applied before the limit so excluded rows never eat into the page.
func (r *userRepository) Search(ctx context.Context, query string, excludeIDs []string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	q := r.db.WithContext(ctx).
		Where(`(LOWER(nickname) LIKE ? ESCAPE '\' OR LOWER(mail) LIKE ? ESCAPE '\')`, pattern, pattern)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var users []models.User
	if err := q.Order("nickname ASC").Limit(limit).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("User already exists", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
