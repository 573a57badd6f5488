package service

import (
	"context"
	"log/slog"
	"strings"

	"socialnet/internal/models"
	"socialnet/internal/observability"
	"socialnet/internal/storage"
)

const maxPublicationTextLen = 5000

// PublicationStore is the publication persistence used by PublicationService.
type PublicationStore interface {
	Create(ctx context.Context, pub *models.Publication) error
	GetByID(ctx context.Context, id uint) (*models.Publication, error)
	GetOwned(ctx context.Context, id, ownerID uint) (*models.Publication, error)
	DeleteOwned(ctx context.Context, id, ownerID uint) (bool, error)
}

type PublicationService struct {
	publications PublicationStore
	files        storage.FileStore
}

func NewPublicationService(publications PublicationStore, files storage.FileStore) *PublicationService {
	return &PublicationService{publications: publications, files: files}
}

func (s *PublicationService) Create(ctx context.Context, authorID uint, text string) (*models.Publication, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len([]rune(text)) > maxPublicationTextLen {
		return nil, models.NewValidationError("Text too long (max 5000 characters)")
	}

	pub := &models.Publication{UserID: authorID, Text: text}
	if err := s.publications.Create(ctx, pub); err != nil {
		return nil, err
	}
	return pub, nil
}

func (s *PublicationService) Get(ctx context.Context, id uint) (*models.Publication, error) {
	return s.publications.GetByID(ctx, id)
}

// Delete removes the caller's publication and then its image, if any. A
// failed file removal is logged and does not fail the call.
func (s *PublicationService) Delete(ctx context.Context, callerID, id uint) (*models.Publication, error) {
	pub, err := s.publications.GetOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, models.NewNotFoundError("Publication", id)
	}

	deleted, err := s.publications.DeleteOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, models.NewNotFoundError("Publication", id)
	}

	if pub.File != "" && s.files != nil {
		if err := s.files.Remove(context.WithoutCancel(ctx), storage.DirPublications, pub.File); err != nil {
			observability.Logger.WarnContext(ctx, "failed to remove publication image",
				slog.Uint64("publication_id", uint64(id)),
				slog.String("file", pub.File),
				slog.String("error", err.Error()))
		}
	}
	return pub, nil
}
