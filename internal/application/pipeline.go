package application

import (
	"sort"
	"strings"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
)

// FilterOptions configures the filter stages of the pipeline. The zero
// value keeps automated comments and all suggestion categories.
type FilterOptions struct {
	ExcludeBots       bool
	ExcludedAuthors   []string
	Categories        []model.SuggestionCategory // Allow-list for synthesized comments; empty allows all.
	ExcludeNits       bool
	ExcludeDuplicates bool
	ExcludeAdditional bool
}

// PipelineOptions configures one pipeline run.
type PipelineOptions struct {
	Resolution      ThreadResolution
	Filter          FilterOptions
	Sort            model.SortStrategy
	GroupByCategory bool
}

// commentFilter is one predicate stage; comments failing it are dropped.
type commentFilter func(model.Comment) bool

// RunPipeline applies the ordered filter stages, the selected sort, and the
// optional category grouping. The input slice is not mutated.
func RunPipeline(comments []model.Comment, opts PipelineOptions) []model.Comment {
	filters := []commentFilter{
		// 1. Thread-resolution filter: drop inline comments whose thread
		// is resolved.
		func(c model.Comment) bool {
			return c.Kind != model.CommentKindInline || !opts.Resolution.IsCommentResolved(c.ID)
		},
		// 2. Reply filter: only thread-starting comments are surfaced.
		func(c model.Comment) bool {
			return c.InReplyTo == nil
		},
		// 3. Automation filter.
		func(c model.Comment) bool {
			return !opts.Filter.ExcludeBots || !c.IsAutomated
		},
		// 4. Author-exclusion filter.
		func(c model.Comment) bool {
			for _, author := range opts.Filter.ExcludedAuthors {
				if strings.EqualFold(c.Author, author) {
					return false
				}
			}
			return true
		},
		// 5. Suggestion-category filter; applies only to synthesized
		// comments and never excludes actionable ones.
		func(c model.Comment) bool {
			return allowsCategory(c, opts.Filter)
		},
	}

	result := make([]model.Comment, 0, len(comments))
	for _, c := range comments {
		if passesAll(c, filters) {
			result = append(result, c)
		}
	}

	sortComments(result, opts.Sort)

	if opts.GroupByCategory {
		result = groupByCategory(result)
	}

	return result
}

func passesAll(c model.Comment, filters []commentFilter) bool {
	for _, keep := range filters {
		if !keep(c) {
			return false
		}
	}
	return true
}

// allowsCategory applies the allow-list and the per-category toggles to
// synthesized comments.
func allowsCategory(c model.Comment, f FilterOptions) bool {
	if c.Suggestion == nil {
		return true
	}

	category := c.Suggestion.Category
	if category == model.CategoryActionable {
		return true
	}

	if len(f.Categories) > 0 {
		found := false
		for _, allowed := range f.Categories {
			if allowed == category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	switch category {
	case model.CategoryNit:
		return !f.ExcludeNits
	case model.CategoryDuplicate:
		return !f.ExcludeDuplicates
	case model.CategoryAdditional:
		return !f.ExcludeAdditional
	default:
		return true
	}
}

// sortComments orders comments in place using the named strategy. All
// strategies are stable on ties. Priority sort silently degrades to
// chronological when any comment lacks computed status.
func sortComments(comments []model.Comment, strategy model.SortStrategy) {
	if strategy == model.SortByPriority && !allScored(comments) {
		strategy = model.SortChronological
	}

	switch strategy {
	case model.SortByFile:
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].FilePath < comments[j].FilePath
		})
	case model.SortByAuthor:
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].Author < comments[j].Author
		})
	case model.SortByPriority:
		sort.SliceStable(comments, func(i, j int) bool {
			a, b := comments[i].Status, comments[j].Status
			if a.PriorityScore != b.PriorityScore {
				return a.PriorityScore > b.PriorityScore
			}
			if a.NeedsRemoteAction != b.NeedsRemoteAction {
				return a.NeedsRemoteAction
			}
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		})
	default: // chronological
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		})
	}
}

func allScored(comments []model.Comment) bool {
	for _, c := range comments {
		if c.Status == nil {
			return false
		}
	}
	return true
}

// categoryGroupOrder defines the fixed group ordering; comments without
// suggestion metadata form the trailing "other" group.
var categoryGroupOrder = []model.SuggestionCategory{
	model.CategoryActionable,
	model.CategoryNit,
	model.CategoryDuplicate,
	model.CategoryAdditional,
}

// groupByCategory reorders comments into category groups, ordering each
// group internally by file path.
func groupByCategory(comments []model.Comment) []model.Comment {
	groups := make(map[model.SuggestionCategory][]model.Comment)
	var other []model.Comment

	for _, c := range comments {
		if c.Suggestion == nil {
			other = append(other, c)
			continue
		}
		groups[c.Suggestion.Category] = append(groups[c.Suggestion.Category], c)
	}

	result := make([]model.Comment, 0, len(comments))
	for _, category := range categoryGroupOrder {
		group := groups[category]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].FilePath < group[j].FilePath
		})
		result = append(result, group...)
	}

	sort.SliceStable(other, func(i, j int) bool {
		return other[i].FilePath < other[j].FilePath
	})
	return append(result, other...)
}
