package repository

import (
	"context"
	"errors"

	"socialnet/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	DeleteEdge(ctx context.Context, userID, followedID uint) (bool, error)
	FindEdge(ctx context.Context, userID, followedID uint) (*models.Follow, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	FollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error)
	ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error)
	ListAllFollowing(ctx context.Context, userID uint) ([]models.Follow, error)
	ListAllFollowers(ctx context.Context, userID uint) ([]models.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Already following this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteEdge removes the userID -> followedID edge and reports whether one existed.
func (r *followRepository) DeleteEdge(ctx context.Context, userID, followedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND followed_id = ?", userID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindEdge returns nil, nil when there is no userID -> followedID edge.
func (r *followRepository) FindEdge(ctx context.Context, userID, followedID uint) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND followed_id = ?", userID, followedID).
		First(&follow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &follow, nil
}

// FollowingIDs projects only the followed ids of userID's outgoing edges.
func (r *followRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("followed_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// FollowerIDs projects only the follower ids of userID's incoming edges.
func (r *followRepository) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Order("id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "user_id = ?", userID)
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "followed_id = ?", userID)
}

func (r *followRepository) count(ctx context.Context, cond string, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where(cond, userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Followed", publicUser).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where("followed_id = ?", userID).
		Preload("User", publicUser).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) ListAllFollowing(ctx context.Context, userID uint) ([]models.Follow, error) {
	return r.listAll(ctx, "user_id = ?", userID)
}

func (r *followRepository) ListAllFollowers(ctx context.Context, userID uint) ([]models.Follow, error) {
	return r.listAll(ctx, "followed_id = ?", userID)
}

func (r *followRepository) listAll(ctx context.Context, cond string, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where(cond, userID).
		Preload("User", publicUser).
		Preload("Followed", publicUser).
		Order("id ASC").
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}
