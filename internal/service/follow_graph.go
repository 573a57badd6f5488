package service

import (
	"context"
	"log/slog"
	"time"

	"socialnet/internal/models"
	"socialnet/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Aggregate operation names used in errors, spans and metrics.
const (
	opRelationBetween      = "RelationBetween"
	opFollowIDSets         = "FollowerAndFollowingIdSets"
	opCountFollowRelations = "CountFollowRelations"
	opBuildFeed            = "BuildFeed"
	opListUsers            = "ListUsers"
	opListFollows          = "ListFollows"
)

// FollowReader is the read side of the follow store used by the graph.
type FollowReader interface {
	FindEdge(ctx context.Context, userID, followedID uint) (*models.Follow, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	FollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
}

// PublicationCounter counts a user's publications.
type PublicationCounter interface {
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// FollowGraph derives relationship facts from follow edges. Each operation
// issues its independent reads concurrently and returns only after all of
// them finish; any failure fails the whole operation.
type FollowGraph struct {
	follows      FollowReader
	publications PublicationCounter
}

// NewFollowGraph returns a FollowGraph over the given stores.
func NewFollowGraph(follows FollowReader, publications PublicationCounter) *FollowGraph {
	return &FollowGraph{follows: follows, publications: publications}
}

// RelationBetween looks up viewer -> target and target -> viewer. A missing
// edge is nil, not an error.
func (g *FollowGraph) RelationBetween(ctx context.Context, viewerID, targetID uint) (rel *models.FollowRelation, err error) {
	ctx, done := startAggregate(ctx, opRelationBetween,
		attribute.Int64("viewer_id", int64(viewerID)),
		attribute.Int64("target_id", int64(targetID)))
	defer func() { done(err) }()

	var following, followed *models.Follow
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		edge, err := g.follows.FindEdge(egCtx, viewerID, targetID)
		following = edge
		return err
	})
	eg.Go(func() error {
		edge, err := g.follows.FindEdge(egCtx, targetID, viewerID)
		followed = edge
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, models.NewAggregationError(opRelationBetween, err)
	}

	return &models.FollowRelation{Following: following, Followed: followed}, nil
}

// FollowerAndFollowingIDSets returns the ids userID follows and the ids
// following userID, in storage order. userID itself is always excluded.
func (g *FollowGraph) FollowerAndFollowingIDSets(ctx context.Context, userID uint) (sets *models.FollowIDSets, err error) {
	ctx, done := startAggregate(ctx, opFollowIDSets, attribute.Int64("user_id", int64(userID)))
	defer func() { done(err) }()

	var following, followers []uint
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		ids, err := g.follows.FollowingIDs(egCtx, userID)
		following = ids
		return err
	})
	eg.Go(func() error {
		ids, err := g.follows.FollowerIDs(egCtx, userID)
		followers = ids
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, models.NewAggregationError(opFollowIDSets, err)
	}

	return &models.FollowIDSets{
		Following: withoutID(following, userID),
		Followers: withoutID(followers, userID),
	}, nil
}

// CountFollowRelations counts outgoing edges, incoming edges and publications.
func (g *FollowGraph) CountFollowRelations(ctx context.Context, userID uint) (counters *models.FollowCounters, err error) {
	ctx, done := startAggregate(ctx, opCountFollowRelations, attribute.Int64("user_id", int64(userID)))
	defer func() { done(err) }()

	var c models.FollowCounters
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		n, err := g.follows.CountFollowing(egCtx, userID)
		c.Following = n
		return err
	})
	eg.Go(func() error {
		n, err := g.follows.CountFollowers(egCtx, userID)
		c.Followed = n
		return err
	})
	eg.Go(func() error {
		n, err := g.publications.CountByUser(egCtx, userID)
		c.Publications = n
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, models.NewAggregationError(opCountFollowRelations, err)
	}

	return &c, nil
}

// withoutID returns ids minus every occurrence of id, never nil.
func withoutID(ids []uint, id uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// startAggregate opens a span and returns a completion func that records
// latency, failures and the span status.
func startAggregate(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "FollowGraph."+op, attrs...)
	return ctx, func(err error) {
		observability.AggregationLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil {
			observability.AggregationFailures.WithLabelValues(op).Inc()
			observability.Logger.ErrorContext(ctx, "aggregate failed",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}
		observability.EndSpan(span, err)
	}
}
