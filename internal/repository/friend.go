// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"github.com/joanri79/cine-log/internal/models"
	"github.com/joanri79/cine-log/internal/observability"

	"gorm.io/gorm"
)

// pairCondition matches the row for the unordered pair {a, b} in either direction.
const pairCondition = "((user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?))"

// FriendRepository defines the interface for friend data operations
type FriendRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	GetBetween(ctx context.Context, userID1, userID2 string) (*models.Friendship, error)
	ListAccepted(ctx context.Context, userID string) ([]models.Friendship, error)
	FriendIDs(ctx context.Context, userID string) ([]string, error)
	ConnectedIDs(ctx context.Context, userID string) ([]string, error)
	ListIncoming(ctx context.Context, userID string) ([]models.Friendship, error)
	ListOutgoing(ctx context.Context, userID string) ([]models.Friendship, error)
	UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus) error
	Delete(ctx context.Context, id uint) error
	DeletePair(ctx context.Context, userID1, userID2 string) (int64, error)
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	defer observability.TrackQuery("insert", "friendships")()

	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("A friendship or request already exists between these users", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).Preload("User").Preload("Friend").First(&friendship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

// GetBetween returns nil, nil when the pair has no row.
func (r *friendRepository) GetBetween(ctx context.Context, userID1, userID2 string) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).
		Where(pairCondition, userID1, userID2, userID2, userID1).
		First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) ListAccepted(ctx context.Context, userID string) ([]models.Friendship, error) {
	defer observability.TrackQuery("select", "friendships")()

	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, models.FriendshipStatusAccepted).
		Preload("User").
		Preload("Friend").
		Order("id ASC").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return friendships, nil
}

// FriendIDs collapses every accepted row touching userID to the opposite party's id.
func (r *friendRepository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	var rows []models.Friendship
	if err := r.db.WithContext(ctx).
		Select("id", "user_id", "friend_id").
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, models.FriendshipStatusAccepted).
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return otherParties(rows, userID), nil
}

// ConnectedIDs is like FriendIDs but for rows in any status.
func (r *friendRepository) ConnectedIDs(ctx context.Context, userID string) ([]string, error) {
	var rows []models.Friendship
	if err := r.db.WithContext(ctx).
		Select("id", "user_id", "friend_id").
		Where("(user_id = ? OR friend_id = ?)", userID, userID).
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return otherParties(rows, userID), nil
}

func otherParties(rows []models.Friendship, userID string) []string {
	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for i := range rows {
		id := rows[i].OtherPartyID(userID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (r *friendRepository) ListIncoming(ctx context.Context, userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("friend_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("User").
		Order("id ASC").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return friendships, nil
}

func (r *friendRepository) ListOutgoing(ctx context.Context, userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("Friend").
		Order("id ASC").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return friendships, nil
}

// UpdateStatus touches only the status column.
func (r *friendRepository) UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus) error {
	defer observability.TrackQuery("update", "friendships")()

	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Friendship{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeletePair removes the pair's row in either direction and reports how many rows went away.
func (r *friendRepository) DeletePair(ctx context.Context, userID1, userID2 string) (int64, error) {
	defer observability.TrackQuery("delete", "friendships")()

	res := r.db.WithContext(ctx).
		Where(pairCondition, userID1, userID2, userID2, userID1).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
