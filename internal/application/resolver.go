package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/reviewlens/internal/domain/port/driven"
)

// ThreadResolution maps inline comments to their review threads and records
// which threads are resolved. Zero-value maps mean "nothing resolved", which
// is the fail-open degradation when the graph query is unavailable.
type ThreadResolution struct {
	CommentThreads  map[int64]string // comment id -> thread node id
	ResolvedThreads map[string]bool  // thread node ids flagged resolved
}

// IsCommentResolved reports whether the comment belongs to a resolved thread.
func (r ThreadResolution) IsCommentResolved(commentID int64) bool {
	threadID, ok := r.CommentThreads[commentID]
	return ok && r.ResolvedThreads[threadID]
}

// ThreadResolver fetches thread resolution state for a set of inline
// comments via the source's batched graph query.
type ThreadResolver struct {
	source driven.ReviewSource
}

// NewThreadResolver creates a ThreadResolver backed by the given source.
func NewThreadResolver(source driven.ReviewSource) *ThreadResolver {
	return &ThreadResolver{source: source}
}

// Resolve builds the thread resolution view for the given inline comment
// ids. An empty input short-circuits without a network call. Query failures
// are logged and yield empty maps: the comments stay classified as
// unresolved rather than failing the request.
func (r *ThreadResolver) Resolve(ctx context.Context, repoFullName string, prNumber int, commentIDs []int64) ThreadResolution {
	resolution := ThreadResolution{
		CommentThreads:  map[int64]string{},
		ResolvedThreads: map[string]bool{},
	}

	if len(commentIDs) == 0 {
		return resolution
	}

	threads, err := r.source.FetchReviewThreads(ctx, repoFullName, prNumber)
	if err != nil {
		slog.Warn("thread resolution query failed, treating all threads as unresolved",
			"repo", repoFullName,
			"pr", prNumber,
			"error", err,
		)
		return resolution
	}

	wanted := make(map[int64]bool, len(commentIDs))
	for _, id := range commentIDs {
		wanted[id] = true
	}

	for _, thread := range threads {
		if thread.IsResolved {
			resolution.ResolvedThreads[thread.NodeID] = true
		}
		for _, id := range thread.CommentIDs {
			if wanted[id] {
				resolution.CommentThreads[id] = thread.NodeID
			}
		}
	}

	return resolution
}
