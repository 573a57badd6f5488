package server

import (
	"errors"
	"path/filepath"

	"socialnet/internal/models"
	"socialnet/internal/service"
	"socialnet/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const uploadFormField = "image"

// UploadUserImage handles POST /api/upload-image-user/:id (multipart, field "image")
// @Summary Upload own avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "User ID"
// @Param image formData file true "png, jpg, jpeg or gif"
// @Success 200 {object} object{user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /upload-image-user/{id} [post]
func (s *Server) UploadUserImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	user, err := s.uploads.AcceptUserAvatar(c.UserContext(), uploadedFile(c), currentUserID(c), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// UploadPublicationImage handles POST /api/upload-image-post/:id (multipart, field "image")
// @Summary Upload an image for own publication
// @Tags publications
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Publication ID"
// @Param image formData file true "png, jpg, jpeg or gif"
// @Success 200 {object} object{publication=models.Publication}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /upload-image-post/{id} [post]
func (s *Server) UploadPublicationImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	pub, err := s.uploads.AcceptPublicationImage(c.UserContext(), uploadedFile(c), currentUserID(c), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"publication": pub})
}

// GetUserImage handles GET /api/get-image-user/:imageFile
// @Summary Download an avatar
// @Tags users
// @Produce image/png,image/jpeg,image/gif
// @Param imageFile path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /get-image-user/{imageFile} [get]
func (s *Server) GetUserImage(c *fiber.Ctx) error {
	return s.sendImage(c, storage.DirUsers)
}

// GetPublicationImage handles GET /api/get-image-post/:imageFile
// @Summary Download a publication image
// @Tags publications
// @Produce image/png,image/jpeg,image/gif
// @Param imageFile path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /get-image-post/{imageFile} [get]
func (s *Server) GetPublicationImage(c *fiber.Ctx) error {
	return s.sendImage(c, storage.DirPublications)
}

// uploadedFile returns the request's image part, or nil when none was sent.
func uploadedFile(c *fiber.Ctx) service.UploadSource {
	fh, err := c.FormFile(uploadFormField)
	if err != nil {
		return nil
	}
	return service.FromFileHeader(fh)
}

func (s *Server) sendImage(c *fiber.Ctx, dir string) error {
	name := c.Params("imageFile")
	if err := storage.ValidateName(name); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Image", name))
	}

	rc, err := s.files.Open(c.UserContext(), dir, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Image", name))
		}
		return s.mapServiceError(c, models.NewInternalError(err))
	}

	c.Type(filepath.Ext(name))
	return c.SendStream(rc)
}
