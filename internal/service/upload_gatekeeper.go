package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"socialnet/internal/models"
	"socialnet/internal/observability"
	"socialnet/internal/storage"

	"github.com/google/uuid"
)

// Upload outcomes recorded in metrics.
const (
	uploadAccepted     = "accepted"
	uploadNoFile       = "no_file"
	uploadBadExtension = "invalid_extension"
	uploadNoPermission = "no_permission"
	uploadFailed       = "failed"
)

// Upload target kinds.
const (
	uploadTargetUser        = "user"
	uploadTargetPublication = "publication"
)

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// UploadSource is one file attached to a request.
type UploadSource interface {
	Filename() string
	Open() (io.ReadCloser, error)
}

type fileHeaderSource struct {
	fh *multipart.FileHeader
}

func (s fileHeaderSource) Filename() string { return s.fh.Filename }

func (s fileHeaderSource) Open() (io.ReadCloser, error) { return s.fh.Open() }

// FromFileHeader adapts a multipart file. A nil header yields a nil source.
func FromFileHeader(fh *multipart.FileHeader) UploadSource {
	if fh == nil {
		return nil
	}
	return fileHeaderSource{fh: fh}
}

// AvatarStore is the user side of avatar uploads.
type AvatarStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateImage(ctx context.Context, id uint, image string) error
}

// PublicationImageStore is the publication side of image uploads.
type PublicationImageStore interface {
	GetByID(ctx context.Context, id uint) (*models.Publication, error)
	GetOwned(ctx context.Context, id, ownerID uint) (*models.Publication, error)
	UpdateFile(ctx context.Context, id uint, file string) error
}

// UploadGatekeeper validates uploaded images and attaches them to their
// target record. Any rejection after the file is stored removes it before
// returning.
type UploadGatekeeper struct {
	files        storage.FileStore
	users        AvatarStore
	publications PublicationImageStore
}

// NewUploadGatekeeper returns a gatekeeper writing into files.
func NewUploadGatekeeper(files storage.FileStore, users AvatarStore, publications PublicationImageStore) *UploadGatekeeper {
	return &UploadGatekeeper{files: files, users: users, publications: publications}
}

// uploadTarget describes where an accepted file ends up.
type uploadTarget struct {
	kind      string
	dir       string
	authorize func(ctx context.Context) error
	// persist attaches name to the record and returns the file it replaced.
	persist func(ctx context.Context, name string) (string, error)
}

// AcceptUserAvatar stores src as the avatar of targetUserID, which must be the caller.
func (g *UploadGatekeeper) AcceptUserAvatar(ctx context.Context, src UploadSource, callerID, targetUserID uint) (*models.User, error) {
	err := g.accept(ctx, src, uploadTarget{
		kind: uploadTargetUser,
		dir:  storage.DirUsers,
		authorize: func(context.Context) error {
			if callerID != targetUserID {
				return models.NewForbiddenError("You do not have permission to update this user's image")
			}
			return nil
		},
		persist: func(ctx context.Context, name string) (string, error) {
			user, err := g.users.GetByID(ctx, targetUserID)
			if err != nil {
				return "", err
			}
			if err := g.users.UpdateImage(ctx, targetUserID, name); err != nil {
				return "", err
			}
			return user.Image, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return g.users.GetByID(ctx, targetUserID)
}

// AcceptPublicationImage stores src as the image of publication pubID, which
// must belong to the caller.
func (g *UploadGatekeeper) AcceptPublicationImage(ctx context.Context, src UploadSource, callerID, pubID uint) (*models.Publication, error) {
	var owned *models.Publication
	err := g.accept(ctx, src, uploadTarget{
		kind: uploadTargetPublication,
		dir:  storage.DirPublications,
		authorize: func(ctx context.Context) error {
			pub, err := g.publications.GetOwned(ctx, pubID, callerID)
			if err != nil {
				return err
			}
			if pub == nil {
				return models.NewForbiddenError("You do not have permission to update this publication")
			}
			owned = pub
			return nil
		},
		persist: func(ctx context.Context, name string) (string, error) {
			if err := g.publications.UpdateFile(ctx, pubID, name); err != nil {
				return "", err
			}
			return owned.File, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return g.publications.GetByID(ctx, pubID)
}

func (g *UploadGatekeeper) accept(ctx context.Context, src UploadSource, target uploadTarget) error {
	if src == nil || strings.TrimSpace(src.Filename()) == "" {
		observability.UploadsTotal.WithLabelValues(target.kind, uploadNoFile).Inc()
		return models.NewValidationError("No file uploaded")
	}

	// Disallowed extensions never reach the stored name.
	ext := strings.ToLower(filepath.Ext(src.Filename()))
	name := uuid.NewString()
	if allowedImageExtensions[ext] {
		name += ext
	}

	if err := g.store(ctx, src, target.dir, name); err != nil {
		observability.UploadsTotal.WithLabelValues(target.kind, uploadFailed).Inc()
		return models.NewInternalError(err)
	}

	if !allowedImageExtensions[ext] {
		return g.reject(ctx, target, name, uploadBadExtension,
			models.NewValidationError("Invalid file extension"))
	}

	if err := target.authorize(ctx); err != nil {
		outcome := uploadNoPermission
		if models.ErrorCode(err) != models.CodeForbidden {
			outcome = uploadFailed
		}
		return g.reject(ctx, target, name, outcome, err)
	}

	previous, err := target.persist(ctx, name)
	if err != nil {
		return g.reject(ctx, target, name, uploadFailed, err)
	}

	observability.UploadsTotal.WithLabelValues(target.kind, uploadAccepted).Inc()
	if previous != "" && previous != name {
		g.removeReplaced(ctx, target.dir, previous)
	}
	return nil
}

// removeReplaced deletes the file an accepted upload superseded. Failures
// are logged and leave the upload accepted.
func (g *UploadGatekeeper) removeReplaced(ctx context.Context, dir, name string) {
	if err := g.files.Remove(context.WithoutCancel(ctx), dir, name); err != nil {
		observability.Logger.WarnContext(ctx, "failed to remove replaced upload",
			slog.String("dir", dir),
			slog.String("file", name),
			slog.String("error", err.Error()))
	}
}

func (g *UploadGatekeeper) store(ctx context.Context, src UploadSource, dir, name string) error {
	f, err := src.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()
	return g.files.Save(ctx, dir, name, f)
}

// reject removes the stored file and returns cause. Removal is awaited and
// survives request cancellation; if it fails the caller gets an internal error.
func (g *UploadGatekeeper) reject(ctx context.Context, target uploadTarget, name, outcome string, cause error) error {
	observability.UploadsTotal.WithLabelValues(target.kind, outcome).Inc()

	if err := g.files.Remove(context.WithoutCancel(ctx), target.dir, name); err != nil {
		observability.Logger.ErrorContext(ctx, "failed to remove rejected upload",
			slog.String("dir", target.dir),
			slog.String("file", name),
			slog.String("rejection", cause.Error()),
			slog.String("error", err.Error()))
		return models.NewInternalError(errors.Join(cause, err))
	}

	return cause
}
