package driven

import (
	"context"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
)

// ReviewSource defines the driven port for reading review feedback from the
// code-review service. List methods are page-scoped: they fetch exactly one
// page and report whether further pages exist (Link-header presence).
type ReviewSource interface {
	// ListInlineComments returns one page of line-anchored review comments.
	ListInlineComments(ctx context.Context, repoFullName string, prNumber, page, perPage int) ([]model.InlineComment, bool, error)
	// ListDiscussionComments returns one page of PR-level general comments.
	ListDiscussionComments(ctx context.Context, repoFullName string, prNumber, page, perPage int) ([]model.DiscussionComment, bool, error)
	// ListReviews returns one page of review events.
	ListReviews(ctx context.Context, repoFullName string, prNumber, page, perPage int) ([]model.Review, bool, error)

	// FetchReviewThreads returns the review threads for a PR via a single
	// batched GraphQL query (up to 100 threads x 100 comments each).
	FetchReviewThreads(ctx context.Context, repoFullName string, prNumber int) ([]model.ReviewThread, error)
}
