package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"socialnet/internal/config"
	"socialnet/internal/models"
	"socialnet/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// assertAppErrorCode asserts that err carries an AppError with code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-with-enough-entropy-0123456789",
		JWTTTLHours:     720,
		BcryptCost:      4,
		UsersPageSize:   5,
		FollowsPageSize: 4,
		FeedPageSize:    4,
	}
}

// followReaderStub is a stub for FollowReader.
type followReaderStub struct {
	findEdgeFn       func(context.Context, uint, uint) (*models.Follow, error)
	followingIDsFn   func(context.Context, uint) ([]uint, error)
	followerIDsFn    func(context.Context, uint) ([]uint, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	countFollowersFn func(context.Context, uint) (int64, error)
}

func (s *followReaderStub) FindEdge(ctx context.Context, userID, followedID uint) (*models.Follow, error) {
	return s.findEdgeFn(ctx, userID, followedID)
}
func (s *followReaderStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}
func (s *followReaderStub) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followerIDsFn(ctx, userID)
}
func (s *followReaderStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *followReaderStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}

func noopFollowReader() *followReaderStub {
	return &followReaderStub{
		findEdgeFn:       func(_ context.Context, _, _ uint) (*models.Follow, error) { return nil, nil },
		followingIDsFn:   func(_ context.Context, _ uint) ([]uint, error) { return []uint{}, nil },
		followerIDsFn:    func(_ context.Context, _ uint) ([]uint, error) { return []uint{}, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// publicationCounterStub is a stub for PublicationCounter.
type publicationCounterStub struct {
	countByUserFn func(context.Context, uint) (int64, error)
}

func (s *publicationCounterStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

// feedReaderStub is a stub for FeedReader.
type feedReaderStub struct {
	listByAuthorsFn  func(context.Context, []uint, int, int) ([]models.Publication, error)
	countByAuthorsFn func(context.Context, []uint) (int64, error)
}

func (s *feedReaderStub) ListByAuthors(ctx context.Context, ids []uint, limit, offset int) ([]models.Publication, error) {
	return s.listByAuthorsFn(ctx, ids, limit, offset)
}
func (s *feedReaderStub) CountByAuthors(ctx context.Context, ids []uint) (int64, error) {
	return s.countByAuthorsFn(ctx, ids)
}

// memSource is an in-memory UploadSource.
type memSource struct {
	name string
	data []byte
}

func (m memSource) Filename() string { return m.name }

func (m memSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

// sqliteStores wires real repositories over one in-memory database.
type sqliteStores struct {
	db           *gorm.DB
	users        repository.UserRepository
	follows      repository.FollowRepository
	publications repository.PublicationRepository
	graph        *FollowGraph
}

func newSQLiteStores(db *gorm.DB) *sqliteStores {
	s := &sqliteStores{
		db:           db,
		users:        repository.NewUserRepository(db),
		follows:      repository.NewFollowRepository(db),
		publications: repository.NewPublicationRepository(db),
	}
	s.graph = NewFollowGraph(s.follows, s.publications)
	return s
}
