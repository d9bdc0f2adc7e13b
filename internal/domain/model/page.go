package model

// PriorityBuckets counts comments by priority band.
type PriorityBuckets struct {
	High   int `json:"high"`   // score >= 70
	Medium int `json:"medium"` // 40 <= score < 70
	Low    int `json:"low"`    // score < 40
}

// PageSummary carries aggregate counters for one page of comments.
type PageSummary struct {
	Total           int             `json:"total"`
	ByAuthor        map[string]int  `json:"by_author"`
	ByKind          map[string]int  `json:"by_kind"`
	BotCount        int             `json:"bot_count"`
	HumanCount      int             `json:"human_count"`
	PriorityBuckets PriorityBuckets `json:"priority_buckets"`
}

// CommentPage is the per-page output envelope. NextCursor is empty when
// no further data exists; its string format is opaque to all consumers.
type CommentPage struct {
	Items      []Comment   `json:"items"`
	NextCursor string      `json:"nextCursor,omitempty"`
	Summary    PageSummary `json:"summary"`
}
