package server

import (
	"socialnet/internal/models"
	"socialnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUser handles GET /api/user/:id
// @Summary Get a user profile
// @Description Returns the user and the follow edges between it and the caller.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /user/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	profile, err := s.userService.Profile(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(profile)
}

// GetUsers handles GET /api/users/:page?
// @Summary List users
// @Tags users
// @Produce json
// @Param page path int false "Page (1-indexed)"
// @Success 200 {object} models.UsersPage
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{page} [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page, err := parsePage(c, "page")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	users, err := s.userService.ListUsers(c.UserContext(), currentUserID(c), page)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(users)
}

// GetCounters handles GET /api/counters/:id?. Defaults to the caller.
// @Summary Get follow and publication counters
// @Tags users
// @Produce json
// @Param id path int false "User ID (defaults to the caller)"
// @Success 200 {object} models.FollowCounters
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /counters/{id} [get]
func (s *Server) GetCounters(c *fiber.Ctx) error {
	id, err := parseOptionalID(c, "id", currentUserID(c))
	if err != nil {
		return s.mapServiceError(c, err)
	}

	counters, err := s.userService.Counters(c.UserContext(), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(counters)
}

// UpdateUser handles PUT /api/update-user/:id. Only name, surname, nick and
// email are read from the body.
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{name=string,surname=string,nick=string,email=string} true "Profile fields"
// @Success 200 {object} object{user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /update-user/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.CallerID = currentUserID(c)
	req.TargetID = id

	user, err := s.userService.UpdateProfile(c.UserContext(), req)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}
