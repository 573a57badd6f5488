package server

import (
	"socialnet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/follow
// @Summary Follow a user
// @Tags follows
// @Accept json
// @Produce json
// @Param request body object{followed=int} true "User to follow"
// @Success 201 {object} object{follow=models.Follow}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	var req struct {
		Followed uint `json:"followed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	follow, err := s.followService.Follow(c.UserContext(), currentUserID(c), req.Followed)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"follow": follow})
}

// Unfollow handles DELETE /api/follow/:id
// @Summary Unfollow a user
// @Tags follows
// @Produce json
// @Param id path int true "Followed user ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow/{id} [delete]
func (s *Server) Unfollow(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	if err := s.followService.Unfollow(c.UserContext(), currentUserID(c), id); err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Follow removed"})
}

// GetFollowing handles GET /api/following/:id?/:page?
// @Summary List who a user follows
// @Tags follows
// @Produce json
// @Param id path int false "User ID (defaults to the caller)"
// @Param page path int false "Page (1-indexed)"
// @Success 200 {object} models.FollowsPage
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /following/{id}/{page} [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	viewer := currentUserID(c)
	userID, page, err := followListParams(c, viewer)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	res, err := s.followService.Following(c.UserContext(), viewer, userID, page)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(res)
}

// GetFollowers handles GET /api/followed/:id?/:page?
// @Summary List a user's followers
// @Tags follows
// @Produce json
// @Param id path int false "User ID (defaults to the caller)"
// @Param page path int false "Page (1-indexed)"
// @Success 200 {object} models.FollowsPage
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /followed/{id}/{page} [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	viewer := currentUserID(c)
	userID, page, err := followListParams(c, viewer)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	res, err := s.followService.Followers(c.UserContext(), viewer, userID, page)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(res)
}

// GetMyFollows handles GET /api/getFollows/:followed?. Without the segment it
// lists who the caller follows; with it, who follows the caller.
// @Summary List all of the caller's follows
// @Tags follows
// @Produce json
// @Param followed path string false "Any value lists followers instead"
// @Success 200 {object} object{follows=[]models.Follow}
// @Security BearerAuth
// @Router /getFollows/{followed} [get]
func (s *Server) GetMyFollows(c *fiber.Ctx) error {
	followers := c.Params("followed") != ""

	follows, err := s.followService.AllFollows(c.UserContext(), currentUserID(c), followers)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"follows": follows})
}

// followListParams resolves the optional user id and page segments. A lone
// segment is the user id.
func followListParams(c *fiber.Ctx, viewer uint) (uint, int, error) {
	userID, err := parseOptionalID(c, "id", viewer)
	if err != nil {
		return 0, 0, err
	}
	page, err := parsePage(c, "page")
	if err != nil {
		return 0, 0, err
	}
	return userID, page, nil
}
