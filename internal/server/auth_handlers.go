package server

import (
	"socialnet/internal/models"
	"socialnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/register
// @Summary Register a user
// @Description Create an account. Email is stored lowercased.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration data"
// @Success 201 {object} object{user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

// Login handles POST /api/login. With getToken set it returns a signed token,
// otherwise the user record.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	res, err := s.userService.Login(c.UserContext(), req)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	if res.Token != "" {
		return c.JSON(fiber.Map{"token": res.Token})
	}
	return c.JSON(fiber.Map{"user": res.User})
}

// Logout handles POST /api/logout by revoking the presented token.
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims := currentClaims(c)
	if claims == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	if err := s.credentials.Revoke(c.UserContext(), claims); err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}
