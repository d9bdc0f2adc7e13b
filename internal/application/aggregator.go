package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
	"github.com/ericfisherdev/reviewlens/internal/domain/port/driven"
)

// PageRequest describes one page of aggregation. Cursor is the opaque token
// from a previous page, or empty for the first page.
type PageRequest struct {
	RepoFullName string
	PRNumber     int
	Cursor       string

	// ParseSuggestions enables review-body fetching and suggestion-markup
	// parsing for reviews authored by configured bots.
	ParseSuggestions bool

	Filter          FilterOptions
	Sort            model.SortStrategy
	GroupByCategory bool
}

// AggregationService assembles one page of unified review feedback: it
// fetches the three sources, resolves thread state, parses suggestion
// markup, normalizes, scores, and runs the filter/sort pipeline.
type AggregationService struct {
	source          driven.ReviewSource
	resolver        *ThreadResolver
	botUsernames    []string
	defaultPageSize int
}

// NewAggregationService creates an AggregationService. botUsernames lists
// the logins whose review bodies carry parseable suggestion markup and
// whose comments count as automated; defaultPageSize caps the per-source
// fan-out of one page.
func NewAggregationService(source driven.ReviewSource, botUsernames []string, defaultPageSize int) *AggregationService {
	return &AggregationService{
		source:          source,
		resolver:        NewThreadResolver(source),
		botUsernames:    botUsernames,
		defaultPageSize: defaultPageSize,
	}
}

// sourceFetchResult carries the outcome of one concurrent source fetch.
type sourceFetchResult struct {
	inline     []model.InlineComment
	discussion []model.DiscussionComment
	reviews    []model.Review
	hasMore    bool
	err        error
}

// FetchPage computes one page of aggregated comments. It returns either a
// full page (possibly empty) or an error; partial results are never
// returned. Cancelling ctx aborts the whole page computation.
func (s *AggregationService) FetchPage(ctx context.Context, req PageRequest) (*model.CommentPage, error) {
	start := time.Now()

	var cursor *Cursor
	if req.Cursor != "" {
		decoded, err := DecodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}
		cursor = &decoded
	}

	pagination, err := PageToSourcePagination(cursor, s.defaultPageSize)
	if err != nil {
		return nil, err
	}

	// The three source fetches are independent page-scoped snapshots, so
	// they run concurrently. All consumers wait for all three.
	var inlineRes, discussionRes, reviewRes sourceFetchResult
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		inlineRes.inline, inlineRes.hasMore, inlineRes.err = s.source.ListInlineComments(
			ctx, req.RepoFullName, req.PRNumber, pagination.Page, pagination.PerPage)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		discussionRes.discussion, discussionRes.hasMore, discussionRes.err = s.source.ListDiscussionComments(
			ctx, req.RepoFullName, req.PRNumber, pagination.Page, pagination.PerPage)
	}()

	if req.ParseSuggestions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reviewRes.reviews, reviewRes.hasMore, reviewRes.err = s.source.ListReviews(
				ctx, req.RepoFullName, req.PRNumber, pagination.Page, pagination.PerPage)
		}()
	}

	wg.Wait()

	for _, res := range []sourceFetchResult{inlineRes, discussionRes, reviewRes} {
		if res.err != nil {
			return nil, fmt.Errorf("fetching page %d for %s#%d: %w", pagination.Page, req.RepoFullName, req.PRNumber, res.err)
		}
	}

	// Thread resolution for the inline comments on this page. Failures
	// degrade inside the resolver; everything stays unresolved.
	inlineIDs := make([]int64, 0, len(inlineRes.inline))
	for _, c := range inlineRes.inline {
		inlineIDs = append(inlineIDs, c.ID)
	}
	resolution := s.resolver.Resolve(ctx, req.RepoFullName, req.PRNumber, inlineIDs)

	candidates := s.normalize(inlineRes.inline, discussionRes.discussion, reviewRes.reviews)

	ScoreComments(candidates)

	items := RunPipeline(candidates, PipelineOptions{
		Resolution:      resolution,
		Filter:          req.Filter,
		Sort:            req.Sort,
		GroupByCategory: req.GroupByCategory,
	})

	hasMore := inlineRes.hasMore || discussionRes.hasMore || reviewRes.hasMore

	page := &model.CommentPage{
		Items:      items,
		NextCursor: NextCursor(cursor, pagination.PerPage, hasMore),
		Summary:    summarize(items),
	}

	slog.Debug("page aggregated",
		"repo", req.RepoFullName,
		"pr", req.PRNumber,
		"candidates", len(candidates),
		"items", len(items),
		"has_more", hasMore,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return page, nil
}

// normalize converts the three raw record sets into one candidate list:
// inline and discussion comments map 1:1, bot review bodies are parsed
// into synthesized suggestion comments.
func (s *AggregationService) normalize(inline []model.InlineComment, discussion []model.DiscussionComment, reviews []model.Review) []model.Comment {
	candidates := make([]model.Comment, 0, len(inline)+len(discussion))

	for _, c := range inline {
		candidates = append(candidates, FromInline(c, s.isBot(c.Author)))
	}
	for _, c := range discussion {
		candidates = append(candidates, FromDiscussion(c, s.isBot(c.Author)))
	}

	normalizer := NewNormalizer()
	for _, review := range reviews {
		if review.Body == "" || !s.isBot(review.Author) {
			continue
		}
		sections := ParseSuggestionBlocks(review.Body)
		candidates = append(candidates, normalizer.FromSections(sections, review.Author, review.SubmittedAt)...)
	}

	return candidates
}

// isBot checks the login against the configured bot usernames
// (case-insensitive) and the GitHub "[bot]" login suffix.
func (s *AggregationService) isBot(login string) bool {
	if strings.HasSuffix(strings.ToLower(login), "[bot]") {
		return true
	}
	for _, bot := range s.botUsernames {
		if strings.EqualFold(login, bot) {
			return true
		}
	}
	return false
}

// summarize computes the page's aggregate counters from the filtered items.
func summarize(items []model.Comment) model.PageSummary {
	summary := model.PageSummary{
		Total:    len(items),
		ByAuthor: map[string]int{},
		ByKind:   map[string]int{},
	}

	for _, c := range items {
		summary.ByAuthor[c.Author]++
		summary.ByKind[string(c.Kind)]++

		if c.IsAutomated {
			summary.BotCount++
		} else {
			summary.HumanCount++
		}

		if c.Status == nil {
			continue
		}
		switch {
		case c.Status.PriorityScore >= 70:
			summary.PriorityBuckets.High++
		case c.Status.PriorityScore >= 40:
			summary.PriorityBuckets.Medium++
		default:
			summary.PriorityBuckets.Low++
		}
	}

	return summary
}
