package service

import (
	"context"

	"socialnet/internal/models"

	"golang.org/x/sync/errgroup"
)

// FollowStore is the follow persistence used by FollowService.
type FollowStore interface {
	Create(ctx context.Context, follow *models.Follow) error
	DeleteEdge(ctx context.Context, userID, followedID uint) (bool, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error)
	ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error)
	ListAllFollowing(ctx context.Context, userID uint) ([]models.Follow, error)
	ListAllFollowers(ctx context.Context, userID uint) ([]models.Follow, error)
}

// UserLookup resolves a user by id.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type FollowService struct {
	follows  FollowStore
	users    UserLookup
	graph    *FollowGraph
	pageSize int
}

func NewFollowService(follows FollowStore, users UserLookup, graph *FollowGraph, pageSize int) *FollowService {
	return &FollowService{follows: follows, users: users, graph: graph, pageSize: pageSize}
}

// Follow creates the edge callerID -> targetID.
func (s *FollowService) Follow(ctx context.Context, callerID, targetID uint) (*models.Follow, error) {
	if targetID == 0 {
		return nil, models.NewValidationError("followed is required")
	}
	if callerID == targetID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	follow := &models.Follow{UserID: callerID, FollowedID: targetID}
	if err := s.follows.Create(ctx, follow); err != nil {
		return nil, err
	}
	return follow, nil
}

// Unfollow removes the edge callerID -> targetID.
func (s *FollowService) Unfollow(ctx context.Context, callerID, targetID uint) error {
	deleted, err := s.follows.DeleteEdge(ctx, callerID, targetID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Follow", targetID)
	}
	return nil
}

// Following pages through the users userID follows.
func (s *FollowService) Following(ctx context.Context, viewerID, userID uint, page int) (*models.FollowsPage, error) {
	return s.listPage(ctx, viewerID, userID, page, s.follows.ListFollowing, s.follows.CountFollowing)
}

// Followers pages through the users following userID.
func (s *FollowService) Followers(ctx context.Context, viewerID, userID uint, page int) (*models.FollowsPage, error) {
	return s.listPage(ctx, viewerID, userID, page, s.follows.ListFollowers, s.follows.CountFollowers)
}

func (s *FollowService) listPage(
	ctx context.Context,
	viewerID, userID uint,
	page int,
	list func(context.Context, uint, int, int) ([]models.Follow, error),
	count func(context.Context, uint) (int64, error),
) (*models.FollowsPage, error) {
	if page < 1 {
		return nil, models.NewValidationError("page must be a positive integer")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var (
		follows []models.Follow
		total   int64
		sets    *models.FollowIDSets
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		follows, err = list(egCtx, userID, s.pageSize, pageOffset(page, s.pageSize))
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = count(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		sets, err = s.graph.FollowerAndFollowingIDSets(egCtx, viewerID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, models.NewAggregationError(opListFollows, err)
	}

	if follows == nil {
		follows = []models.Follow{}
	}
	return &models.FollowsPage{
		Follows:        follows,
		UsersFollowing: sets.Following,
		UsersFollowed:  sets.Followers,
		Total:          total,
		Pages:          pageCount(total, s.pageSize),
	}, nil
}

// AllFollows lists every edge out of callerID, or into it when followers is true.
func (s *FollowService) AllFollows(ctx context.Context, callerID uint, followers bool) ([]models.Follow, error) {
	var (
		follows []models.Follow
		err     error
	)
	if followers {
		follows, err = s.follows.ListAllFollowers(ctx, callerID)
	} else {
		follows, err = s.follows.ListAllFollowing(ctx, callerID)
	}
	if err != nil {
		return nil, err
	}
	if follows == nil {
		follows = []models.Follow{}
	}
	return follows, nil
}
