package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
)

func inlineComment(id int64, author string, created time.Time) model.Comment {
	return model.Comment{
		ID:        id,
		Kind:      model.CommentKindInline,
		Author:    author,
		CreatedAt: created,
	}
}

func TestRunPipeline_ResolvedThreadsDropped(t *testing.T) {
	now := time.Now()
	comments := []model.Comment{
		inlineComment(10, "octocat", now),
		inlineComment(11, "octocat", now),
		// Discussion comments have no thread; resolution never touches them.
		{ID: 10, Kind: model.CommentKindDiscussion, Author: "octocat", CreatedAt: now},
	}

	resolution := ThreadResolution{
		CommentThreads:  map[int64]string{10: "T1", 11: "T2"},
		ResolvedThreads: map[string]bool{"T1": true},
	}

	result := RunPipeline(comments, PipelineOptions{Resolution: resolution})

	require.Len(t, result, 2)
	for _, c := range result {
		if c.Kind == model.CommentKindInline {
			assert.Equal(t, int64(11), c.ID)
		}
	}
}

func TestRunPipeline_RepliesDropped(t *testing.T) {
	replyTo := int64(1)
	comments := []model.Comment{
		inlineComment(1, "octocat", time.Now()),
		{ID: 2, Kind: model.CommentKindInline, Author: "maintainer", InReplyTo: &replyTo},
	}

	result := RunPipeline(comments, PipelineOptions{})

	require.Len(t, result, 1)
	assert.Equal(t, int64(1), result[0].ID)
}

func TestRunPipeline_BotFilter(t *testing.T) {
	comments := []model.Comment{
		{ID: 1, Kind: model.CommentKindInline, Author: "octocat"},
		{ID: 2, Kind: model.CommentKindInline, Author: "coderabbitai[bot]", IsAutomated: true},
	}

	kept := RunPipeline(comments, PipelineOptions{Filter: FilterOptions{ExcludeBots: true}})
	require.Len(t, kept, 1)
	assert.Equal(t, "octocat", kept[0].Author)

	all := RunPipeline(comments, PipelineOptions{})
	assert.Len(t, all, 2)
}

func TestRunPipeline_AuthorExclusionCaseInsensitive(t *testing.T) {
	comments := []model.Comment{
		{ID: 1, Kind: model.CommentKindInline, Author: "Octocat"},
		{ID: 2, Kind: model.CommentKindInline, Author: "maintainer"},
	}

	result := RunPipeline(comments, PipelineOptions{
		Filter: FilterOptions{ExcludedAuthors: []string{"octocat"}},
	})

	require.Len(t, result, 1)
	assert.Equal(t, "maintainer", result[0].Author)
}

func TestRunPipeline_CategoryFilter(t *testing.T) {
	comments := []model.Comment{
		{ID: -1, Kind: model.CommentKindSuggestion, Suggestion: &model.SuggestionMetadata{Category: model.CategoryNit}},
		{ID: -2, Kind: model.CommentKindSuggestion, Suggestion: &model.SuggestionMetadata{Category: model.CategoryDuplicate}},
		{ID: -3, Kind: model.CommentKindSuggestion, Suggestion: &model.SuggestionMetadata{Category: model.CategoryActionable}},
		{ID: 4, Kind: model.CommentKindInline, Author: "octocat"},
	}

	t.Run("toggles drop their category", func(t *testing.T) {
		result := RunPipeline(comments, PipelineOptions{
			Filter: FilterOptions{ExcludeNits: true, ExcludeDuplicates: true},
		})

		ids := commentIDs(result)
		assert.NotContains(t, ids, int64(-1))
		assert.NotContains(t, ids, int64(-2))
		assert.Contains(t, ids, int64(-3))
		assert.Contains(t, ids, int64(4))
	})

	t.Run("allow-list restricts synthesized comments only", func(t *testing.T) {
		result := RunPipeline(comments, PipelineOptions{
			Filter: FilterOptions{Categories: []model.SuggestionCategory{model.CategoryNit}},
		})

		ids := commentIDs(result)
		assert.Contains(t, ids, int64(-1))
		assert.NotContains(t, ids, int64(-2))
		// Raw comments carry no category; the allow-list never drops them.
		assert.Contains(t, ids, int64(4))
	})

	t.Run("actionable suggestions are never excludable", func(t *testing.T) {
		result := RunPipeline(comments, PipelineOptions{
			Filter: FilterOptions{
				Categories:  []model.SuggestionCategory{model.CategoryNit},
				ExcludeNits: true,
			},
		})

		assert.Contains(t, commentIDs(result), int64(-3))
	})
}

func TestRunPipeline_ChronologicalSort(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	comments := []model.Comment{
		inlineComment(3, "a", base.Add(2*time.Hour)),
		inlineComment(1, "a", base),
		inlineComment(2, "a", base.Add(time.Hour)),
	}

	result := RunPipeline(comments, PipelineOptions{Sort: model.SortChronological})

	assert.Equal(t, []int64{1, 2, 3}, commentIDs(result))
}

func TestRunPipeline_FileAndAuthorSorts(t *testing.T) {
	comments := []model.Comment{
		{ID: 1, Kind: model.CommentKindInline, Author: "zoe", FilePath: "b.go"},
		{ID: 2, Kind: model.CommentKindInline, Author: "amy", FilePath: "c.go"},
		{ID: 3, Kind: model.CommentKindInline, Author: "mel", FilePath: "a.go"},
	}

	byFile := RunPipeline(comments, PipelineOptions{Sort: model.SortByFile})
	assert.Equal(t, []int64{3, 1, 2}, commentIDs(byFile))

	byAuthor := RunPipeline(comments, PipelineOptions{Sort: model.SortByAuthor})
	assert.Equal(t, []int64{2, 3, 1}, commentIDs(byAuthor))
}

func TestRunPipeline_PrioritySort(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	comments := []model.Comment{
		{ID: 1, Kind: model.CommentKindInline, CreatedAt: base, Status: &model.CommentStatus{PriorityScore: 20}},
		{ID: 2, Kind: model.CommentKindInline, CreatedAt: base, Status: &model.CommentStatus{PriorityScore: 80}},
		// Same score: the remote-action flag breaks the tie.
		{ID: 3, Kind: model.CommentKindInline, CreatedAt: base, Status: &model.CommentStatus{PriorityScore: 50}},
		{ID: 4, Kind: model.CommentKindInline, CreatedAt: base, Status: &model.CommentStatus{PriorityScore: 50, NeedsRemoteAction: true}},
		// Same score and flag: newer first.
		{ID: 5, Kind: model.CommentKindInline, CreatedAt: base.Add(time.Hour), Status: &model.CommentStatus{PriorityScore: 20}},
	}

	result := RunPipeline(comments, PipelineOptions{Sort: model.SortByPriority})

	assert.Equal(t, []int64{2, 4, 3, 5, 1}, commentIDs(result))
}

func TestRunPipeline_PriorityDegradesWithoutStatus(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	comments := []model.Comment{
		{ID: 2, Kind: model.CommentKindInline, CreatedAt: base.Add(time.Hour), Status: &model.CommentStatus{PriorityScore: 90}},
		{ID: 1, Kind: model.CommentKindInline, CreatedAt: base}, // unscored
	}

	result := RunPipeline(comments, PipelineOptions{Sort: model.SortByPriority})

	// One unscored comment forces the chronological fallback.
	assert.Equal(t, []int64{1, 2}, commentIDs(result))
}

func TestRunPipeline_GroupByCategory(t *testing.T) {
	comments := []model.Comment{
		{ID: 1, Kind: model.CommentKindInline, Author: "octocat", FilePath: "z.go"},
		{ID: -1, Kind: model.CommentKindSuggestion, FilePath: "b.go", Suggestion: &model.SuggestionMetadata{Category: model.CategoryNit}},
		{ID: -2, Kind: model.CommentKindSuggestion, FilePath: "a.go", Suggestion: &model.SuggestionMetadata{Category: model.CategoryNit}},
		{ID: -3, Kind: model.CommentKindSuggestion, FilePath: "c.go", Suggestion: &model.SuggestionMetadata{Category: model.CategoryActionable}},
		{ID: -4, Kind: model.CommentKindSuggestion, FilePath: "d.go", Suggestion: &model.SuggestionMetadata{Category: model.CategoryDuplicate}},
	}

	result := RunPipeline(comments, PipelineOptions{GroupByCategory: true})

	// Actionable first, then nits ordered by file, then duplicates, with
	// uncategorized comments trailing.
	assert.Equal(t, []int64{-3, -2, -1, -4, 1}, commentIDs(result))
}

func TestRunPipeline_InputNotMutated(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	comments := []model.Comment{
		inlineComment(2, "a", base.Add(time.Hour)),
		inlineComment(1, "a", base),
	}

	_ = RunPipeline(comments, PipelineOptions{Sort: model.SortChronological})

	assert.Equal(t, []int64{2, 1}, commentIDs(comments))
}

func commentIDs(comments []model.Comment) []int64 {
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	return ids
}
