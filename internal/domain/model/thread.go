package model

// ReviewThread is the GraphQL view of one inline-comment conversation:
// the thread's node id, its resolution flag, and the database ids of its
// member comments. Built fresh per request; never persisted.
type ReviewThread struct {
	NodeID     string
	IsResolved bool
	CommentIDs []int64
}
