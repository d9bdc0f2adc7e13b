package application

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
)

// topicKeywords drives inferred-topic classification, checked in order so
// security findings win over weaker matches.
var topicKeywords = []struct {
	topic    model.Topic
	keywords []string
}{
	{model.TopicSecurity, []string{"security", "vulnerab", "injection", "xss", "csrf", "sanitiz", "credential", "secret", "auth"}},
	{model.TopicPerformance, []string{"performance", "slow", "alloc", "n+1", "optimiz", "latency", "memory leak", "inefficien"}},
	{model.TopicBug, []string{"bug", "crash", "panic", "nil pointer", "race", "incorrect", "off-by-one", "error handling", "overflow"}},
	{model.TopicStyle, []string{"style", "naming", "readab", "typo", "formatting", "convention", "lint"}},
}

// Normalizer converts raw per-source records and parsed suggestion items
// into unified Comment entities. Synthetic ids are drawn from an arena-style
// counter owned by one instance, so parsing stays deterministic and two
// concurrent requests can never interleave id sequences.
type Normalizer struct {
	nextSyntheticID int64
}

// NewNormalizer creates a Normalizer whose synthetic ids start at -1 and
// decrease.
func NewNormalizer() *Normalizer {
	return &Normalizer{nextSyntheticID: -1}
}

// FromInline maps a raw inline review comment 1:1 into a Comment.
func FromInline(c model.InlineComment, isAutomated bool) model.Comment {
	lineStart := c.StartLine
	if lineStart == 0 {
		lineStart = c.Line
	}

	return model.Comment{
		ID:            c.ID,
		Kind:          model.CommentKindInline,
		Author:        defaultAuthor(c.Author),
		AuthorRole:    c.AuthorRole,
		IsAutomated:   isAutomated,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		FilePath:      c.Path,
		LineStart:     lineStart,
		LineEnd:       c.Line,
		Body:          c.Body,
		InReplyTo:     c.InReplyTo,
		IsOutdated:    c.IsOutdated,
		ReactionTotal: c.ReactionTotal,
	}
}

// FromDiscussion maps a raw PR-level discussion comment 1:1 into a Comment.
func FromDiscussion(c model.DiscussionComment, isAutomated bool) model.Comment {
	return model.Comment{
		ID:            c.ID,
		Kind:          model.CommentKindDiscussion,
		Author:        defaultAuthor(c.Author),
		AuthorRole:    c.AuthorRole,
		IsAutomated:   isAutomated,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		Body:          c.Body,
		ReactionTotal: c.ReactionTotal,
	}
}

// FromParsedItem synthesizes a Comment from one parsed suggestion item,
// assigning the next synthetic negative id. reviewer and createdAt are
// stamped onto the comment, typically the source review's author and
// submission time.
func (n *Normalizer) FromParsedItem(item ParsedItem, category model.SuggestionCategory, reviewer string, createdAt time.Time) model.Comment {
	id := n.nextSyntheticID
	n.nextSyntheticID--

	lineStart, lineEnd := parseLineRange(item.LineRange)

	meta := &model.SuggestionMetadata{
		Category:    category,
		Severity:    item.Severity,
		Topic:       inferTopic(item.Title + " " + item.Description),
		FileContext: item.FilePath,
		Diff:        item.Diff,
		Prompt:      buildPrompt(item),
	}

	body := item.Title
	if item.Description != "" {
		body = item.Title + "\n\n" + item.Description
	}

	return model.Comment{
		ID:          id,
		Kind:        model.CommentKindSuggestion,
		Author:      defaultAuthor(reviewer),
		IsAutomated: true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
		FilePath:    item.FilePath,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		Body:        body,
		Suggestion:  meta,
	}
}

// FromSections synthesizes Comments for every item in the given sections,
// in document order.
func (n *Normalizer) FromSections(sections []ParsedSection, reviewer string, createdAt time.Time) []model.Comment {
	var comments []model.Comment
	for _, section := range sections {
		for _, item := range section.Items {
			comments = append(comments, n.FromParsedItem(item, section.Category, reviewer, createdAt))
		}
	}
	return comments
}

// parseLineRange splits a raw "a" or "a-b" range into numeric bounds. Both
// parts must be positive integers with end >= start; anything else omits
// the numeric fields entirely (zero values), never a negative or zero line.
func parseLineRange(raw string) (int, int) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || start < 1 {
		return 0, 0
	}

	if len(parts) == 1 {
		return start, start
	}

	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || end < start {
		return 0, 0
	}

	return start, end
}

// inferTopic classifies text against the fixed keyword sets,
// case-insensitively, defaulting to general.
func inferTopic(text string) model.Topic {
	lower := strings.ToLower(text)
	for _, set := range topicKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.topic
			}
		}
	}
	return model.TopicGeneral
}

// buildPrompt generates a natural-language instruction from an item's
// description and diff. Display aid only; nothing downstream parses it.
func buildPrompt(item ParsedItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "In %s", item.FilePath)
	if item.LineRange != "" {
		fmt.Fprintf(&b, " (lines %s)", item.LineRange)
	}
	fmt.Fprintf(&b, ": %s", item.Title)

	if item.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", item.Description)
	}

	if item.Diff != nil {
		fmt.Fprintf(&b, "\n\nReplace:\n%s\n\nWith:\n%s", item.Diff.Old, item.Diff.New)
	}

	return b.String()
}

// defaultAuthor substitutes the sentinel "unknown" for missing logins.
func defaultAuthor(author string) string {
	if author == "" {
		return "unknown"
	}
	return author
}
