package server

import (
	"socialnet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePublication handles POST /api/publication
// @Summary Create a publication
// @Tags publications
// @Accept json
// @Produce json
// @Param request body object{text=string} true "Publication text"
// @Success 201 {object} object{publication=models.Publication}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /publication [post]
func (s *Server) CreatePublication(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	pub, err := s.publicationService.Create(c.UserContext(), currentUserID(c), req.Text)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"publication": pub})
}

// GetFeed handles GET /api/publications/:page?
// @Summary Get the caller's feed
// @Description Publications by followed users, newest first.
// @Tags publications
// @Produce json
// @Param page path int false "Page (1-indexed)"
// @Success 200 {object} models.FeedPage
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /publications/{page} [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, err := parsePage(c, "page")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	feed, err := s.feed.BuildFeed(c.UserContext(), currentUserID(c), page, s.config.FeedPageSize)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(feed)
}

// GetPublication handles GET /api/publication/:id
// @Summary Get a publication
// @Tags publications
// @Produce json
// @Param id path int true "Publication ID"
// @Success 200 {object} object{publication=models.Publication}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /publication/{id} [get]
func (s *Server) GetPublication(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	pub, err := s.publicationService.Get(c.UserContext(), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"publication": pub})
}

// DeletePublication handles DELETE /api/publication/:id (author only)
// @Summary Delete own publication
// @Tags publications
// @Produce json
// @Param id path int true "Publication ID"
// @Success 200 {object} object{publication=models.Publication}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /publication/{id} [delete]
func (s *Server) DeletePublication(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	pub, err := s.publicationService.Delete(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"publication": pub})
}
