package model

// CommentKind distinguishes between different origins of PR feedback.
type CommentKind string

const (
	CommentKindInline     CommentKind = "inline"     // Review comment anchored to a code line.
	CommentKindDiscussion CommentKind = "discussion" // Issue comment / PR-level discussion.
	CommentKindSuggestion CommentKind = "suggestion" // Synthesized from parsed review-body markup.
)

// SuggestionCategory is the four-value taxonomy used by AI-reviewer
// suggestion sections.
type SuggestionCategory string

const (
	CategoryNit        SuggestionCategory = "nit"
	CategoryDuplicate  SuggestionCategory = "duplicate"
	CategoryAdditional SuggestionCategory = "additional"
	CategoryActionable SuggestionCategory = "actionable"
)

// Severity ranks a parsed suggestion by its section's weight.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityFor maps a suggestion category to its severity class.
func SeverityFor(c SuggestionCategory) Severity {
	switch c {
	case CategoryNit:
		return SeverityLow
	case CategoryActionable:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// Topic classifies what a suggestion is about, inferred from its text.
type Topic string

const (
	TopicSecurity    Topic = "security"
	TopicPerformance Topic = "performance"
	TopicStyle       Topic = "style"
	TopicBug         Topic = "bug"
	TopicGeneral     Topic = "general"
)

// ResolutionState is the computed lifecycle state of a comment.
type ResolutionState string

const (
	ResolutionUnresolved   ResolutionState = "unresolved"
	ResolutionAcknowledged ResolutionState = "acknowledged"
	ResolutionInProgress   ResolutionState = "in_progress"
	ResolutionResolved     ResolutionState = "resolved"
)

// SuggestedAction is the recommended next step for a comment.
type SuggestedAction string

const (
	ActionReply       SuggestedAction = "reply"
	ActionResolve     SuggestedAction = "resolve"
	ActionInvestigate SuggestedAction = "investigate"
	ActionIgnore      SuggestedAction = "ignore"
)

// SortStrategy selects the ordering applied by the filter/sort pipeline.
type SortStrategy string

const (
	SortChronological SortStrategy = "chronological"
	SortByFile        SortStrategy = "by_file"
	SortByAuthor      SortStrategy = "by_author"
	SortByPriority    SortStrategy = "priority"
)

// ParseSortStrategy converts a string to a SortStrategy, defaulting to
// chronological for unknown values.
func ParseSortStrategy(s string) SortStrategy {
	switch SortStrategy(s) {
	case SortByFile, SortByAuthor, SortByPriority, SortChronological:
		return SortStrategy(s)
	default:
		return SortChronological
	}
}
