package service

import (
	"context"

	"socialnet/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// FeedReader reads publications by author set.
type FeedReader interface {
	ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Publication, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (int64, error)
}

// FeedBuilder pages through publications authored by the users a viewer follows.
type FeedBuilder struct {
	graph        *FollowGraph
	publications FeedReader
}

// NewFeedBuilder returns a FeedBuilder that resolves authors through graph.
func NewFeedBuilder(graph *FollowGraph, publications FeedReader) *FeedBuilder {
	return &FeedBuilder{graph: graph, publications: publications}
}

// BuildFeed returns page (1-indexed) of the viewer's feed, newest first.
// A viewer following nobody gets an empty page, and a page past the end is
// empty with the real totals.
func (b *FeedBuilder) BuildFeed(ctx context.Context, viewerID uint, page, pageSize int) (feed *models.FeedPage, err error) {
	if page < 1 {
		return nil, models.NewValidationError("page must be a positive integer")
	}
	if pageSize < 1 {
		return nil, models.NewValidationError("page size must be a positive integer")
	}

	ctx, done := startAggregate(ctx, opBuildFeed,
		attribute.Int64("viewer_id", int64(viewerID)),
		attribute.Int("page", page))
	defer func() { done(err) }()

	sets, err := b.graph.FollowerAndFollowingIDSets(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	feed = &models.FeedPage{Publications: []models.Publication{}, Page: page}
	if len(sets.Following) == 0 {
		return feed, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		n, err := b.publications.CountByAuthors(egCtx, sets.Following)
		feed.TotalItems = n
		return err
	})
	eg.Go(func() error {
		items, err := b.publications.ListByAuthors(egCtx, sets.Following, pageSize, pageOffset(page, pageSize))
		if items != nil {
			feed.Publications = items
		}
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, models.NewAggregationError(opBuildFeed, err)
	}

	feed.Pages = pageCount(feed.TotalItems, pageSize)
	return feed, nil
}
