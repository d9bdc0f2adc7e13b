package model

import "time"

// ExtractedDiff is the old/new text pair pulled from a fenced diff block
// inside a parsed suggestion.
type ExtractedDiff struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// SuggestionMetadata is attached to comments synthesized from parsed
// review-body markup. It is never present on comments mapped 1:1 from
// GitHub records.
type SuggestionMetadata struct {
	Category    SuggestionCategory `json:"category"`
	Severity    Severity           `json:"severity"`
	Topic       Topic              `json:"inferred_topic"`
	FileContext string             `json:"file_context"`
	Diff        *ExtractedDiff     `json:"extracted_diff,omitempty"`
	Prompt      string             `json:"generated_prompt,omitempty"`
}

// CommentStatus holds the computed priority indicators for a comment.
type CommentStatus struct {
	PriorityScore     int             `json:"priority_score"`
	NeedsRemoteAction bool            `json:"needs_remote_action"`
	HasReply          bool            `json:"has_reply"`
	IsActionable      bool            `json:"is_actionable"`
	ResolutionState   ResolutionState `json:"resolution_state"`
	SuggestedAction   SuggestedAction `json:"suggested_action"`
}

// Comment is the unified feedback unit aggregated from inline review
// comments, PR-level discussion comments, and parsed review bodies.
//
// IDs are positive for comments sourced from GitHub and strictly negative
// for comments synthesized by the suggestion parser, so the two ranges
// can never collide.
type Comment struct {
	ID            int64               `json:"id"`
	Kind          CommentKind         `json:"kind"`
	Author        string              `json:"author"`
	AuthorRole    string              `json:"author_role,omitempty"`
	IsAutomated   bool                `json:"is_automated"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	FilePath      string              `json:"file_path,omitempty"`
	LineStart     int                 `json:"line_start,omitempty"`
	LineEnd       int                 `json:"line_end,omitempty"`
	Body          string              `json:"body"`
	InReplyTo     *int64              `json:"in_reply_to,omitempty"`
	IsOutdated    bool                `json:"is_outdated"`
	ReactionTotal int                 `json:"reaction_total,omitempty"`
	Suggestion    *SuggestionMetadata `json:"suggestion_metadata,omitempty"`
	Status        *CommentStatus      `json:"status,omitempty"`
}

// IsSynthetic reports whether the comment was manufactured by the
// suggestion parser rather than mapped from a GitHub record.
func (c Comment) IsSynthetic() bool {
	return c.ID < 0
}
