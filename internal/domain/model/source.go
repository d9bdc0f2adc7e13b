package model

import "time"

// The types in this file are the typed records for the three GitHub list
// endpoints this system consumes. The github adapter maps wire responses
// into these; the normalizer converts them into Comment entities. Keeping
// the wire shapes out of the core model isolates API churn here.

// InlineComment is a raw review comment anchored to a file/line
// (GET /repos/{owner}/{repo}/pulls/{number}/comments).
type InlineComment struct {
	ID            int64
	Author        string
	AuthorRole    string // owner/member/contributor/none, lowercased.
	Body          string
	Path          string
	Line          int
	StartLine     int
	InReplyTo     *int64
	IsOutdated    bool // True when the comment's position is gone from the current diff.
	ReactionTotal int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DiscussionComment is a raw PR-level general comment
// (GET /repos/{owner}/{repo}/issues/{number}/comments).
type DiscussionComment struct {
	ID            int64
	Author        string
	AuthorRole    string
	Body          string
	ReactionTotal int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Review is a raw review event whose body may embed AI-reviewer
// suggestion markup (GET /repos/{owner}/{repo}/pulls/{number}/reviews).
type Review struct {
	ID          int64
	Author      string
	AuthorRole  string
	State       string
	Body        string
	CommitID    string
	SubmittedAt time.Time
}
