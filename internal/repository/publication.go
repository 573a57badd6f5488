package repository

import (
	"context"
	"errors"

	"socialnet/internal/models"

	"gorm.io/gorm"
)

// PublicationRepository defines persistence operations for publications.
type PublicationRepository interface {
	Create(ctx context.Context, pub *models.Publication) error
	GetByID(ctx context.Context, id uint) (*models.Publication, error)
	GetOwned(ctx context.Context, id, ownerID uint) (*models.Publication, error)
	DeleteOwned(ctx context.Context, id, ownerID uint) (bool, error)
	UpdateFile(ctx context.Context, id uint, file string) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Publication, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (int64, error)
}

type publicationRepository struct {
	db *gorm.DB
}

// NewPublicationRepository returns a new PublicationRepository implementation.
func NewPublicationRepository(db *gorm.DB) PublicationRepository {
	return &publicationRepository{db: db}
}

func (r *publicationRepository) Create(ctx context.Context, pub *models.Publication) error {
	if err := r.db.WithContext(ctx).Create(pub).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *publicationRepository) GetByID(ctx context.Context, id uint) (*models.Publication, error) {
	var pub models.Publication
	if err := r.db.WithContext(ctx).
		Preload("User", publicUser).
		First(&pub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Publication", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &pub, nil
}

// GetOwned returns nil, nil when id does not exist or belongs to someone else.
func (r *publicationRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.Publication, error) {
	var pub models.Publication
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&pub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &pub, nil
}

// DeleteOwned removes the publication only if ownerID authored it.
func (r *publicationRepository) DeleteOwned(ctx context.Context, id, ownerID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Publication{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *publicationRepository) UpdateFile(ctx context.Context, id uint, file string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Publication{}).
		Where("id = ?", id).
		Update("file", file)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Publication", id)
	}
	return nil
}

func (r *publicationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Publication{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ListByAuthors returns publications by any of authorIDs, newest first with
// ties in insertion order, each with its author's public profile attached.
func (r *publicationRepository) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Publication, error) {
	pubs := []models.Publication{}
	if len(authorIDs) == 0 {
		return pubs, nil
	}
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", authorIDs).
		Preload("User", publicUser).
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&pubs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return pubs, nil
}

func (r *publicationRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (int64, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Publication{}).
		Where("user_id IN ?", authorIDs).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
