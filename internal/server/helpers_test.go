package server

import (
	"math"
	"net/http"
	"strconv"
	"testing"

	"socialnet/internal/models"
	"socialnet/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestParsePage(t *testing.T) {
	env := newTestEnv(t, nil)
	viewer := testutil.CreateUser(t, env.db)
	tok := "Bearer " + env.token(t, viewer)

	tests := []struct {
		path string
		want int
	}{
		{"/api/users", http.StatusOK},
		{"/api/users/3", http.StatusOK},
		{"/api/users/0", http.StatusBadRequest},
		{"/api/users/-1", http.StatusBadRequest},
		{"/api/users/x", http.StatusBadRequest},
		{"/api/users/99999999999999999999999", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := env.do(t, http.MethodGet, tt.path, tok, nil)
		assert.Equal(t, tt.want, resp.StatusCode, tt.path)
	}
}

func TestHugePageIsEmpty(t *testing.T) {
	env := newTestEnv(t, nil)
	viewer := testutil.CreateUser(t, env.db)
	author := testutil.CreateUser(t, env.db)
	testutil.CreateFollow(t, env.db, viewer.ID, author.ID)
	testutil.CreatePublication(t, env.db, author.ID, "page one", 100)
	tok := "Bearer " + env.token(t, viewer)

	huge := strconv.Itoa(math.MaxInt/4 + 2)

	resp := env.do(t, http.MethodGet, "/api/publications/"+huge, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	feed := decode[models.FeedPage](t, resp)
	assert.Empty(t, feed.Publications)
	assert.Equal(t, int64(1), feed.TotalItems)

	resp = env.do(t, http.MethodGet, "/api/users/"+huge, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[models.UsersPage](t, resp)
	assert.Empty(t, users.Users)
	assert.Equal(t, int64(2), users.Total)

	resp = env.do(t, http.MethodGet, "/api/following/"+itoa(viewer.ID)+"/"+huge, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	follows := decode[models.FollowsPage](t, resp)
	assert.Empty(t, follows.Follows)
	assert.Equal(t, int64(1), follows.Total)
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, statusForCode(models.CodeNotFound))
	assert.Equal(t, fiber.StatusBadRequest, statusForCode(models.CodeValidation))
	assert.Equal(t, fiber.StatusUnauthorized, statusForCode(models.CodeUnauthorized))
	assert.Equal(t, fiber.StatusForbidden, statusForCode(models.CodeForbidden))
	assert.Equal(t, fiber.StatusConflict, statusForCode(models.CodeConflict))
	assert.Equal(t, fiber.StatusInternalServerError, statusForCode(models.CodeAggregationFailed))
	assert.Equal(t, fiber.StatusInternalServerError, statusForCode(models.CodeInternal))
}
