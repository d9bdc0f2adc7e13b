package application

import (
	"strings"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
)

// actionableKeywords are the actionable-language heuristics checked against
// comment bodies (case-insensitive).
var actionableKeywords = []string{"fix", "suggest", "change"}

// severityScore is the base contribution of a suggestion's severity class.
var severityScore = map[model.Severity]int{
	model.SeverityHigh:   40,
	model.SeverityMedium: 25,
	model.SeverityLow:    10,
}

// categoryScore is the contribution of the suggestion type itself.
var categoryScore = map[model.SuggestionCategory]int{
	model.CategoryActionable: 30,
	model.CategoryAdditional: 20,
	model.CategoryNit:        5,
	model.CategoryDuplicate:  0,
}

// ComputeStatus derives the priority indicators for one comment, using the
// full candidate list for reply detection. The score is clamped to [0,100].
func ComputeStatus(c model.Comment, candidates []model.Comment) model.CommentStatus {
	hasReply := hasManualReply(c, candidates)
	resolvable := hasResolvableHint(c)
	actionable := isActionable(c)

	score := 0
	if c.Suggestion != nil {
		score += severityScore[c.Suggestion.Severity]
		score += categoryScore[c.Suggestion.Category]
	}
	if c.IsAutomated && resolvable {
		score += 20
	}
	if actionable {
		score += 15
	}
	if hasReply {
		score -= 10
	}
	if c.IsOutdated {
		score -= 20
	}
	score = clamp(score, 0, 100)

	state := model.ResolutionUnresolved
	switch {
	case hasReply && actionable:
		state = model.ResolutionInProgress
	case hasReply:
		state = model.ResolutionAcknowledged
	}

	needsRemoteAction := c.IsAutomated && resolvable && !hasReply

	var action model.SuggestedAction
	switch {
	case needsRemoteAction:
		action = model.ActionResolve
	case actionable && !hasReply:
		action = model.ActionReply
	case score < 30:
		action = model.ActionIgnore
	default:
		action = model.ActionInvestigate
	}

	return model.CommentStatus{
		PriorityScore:     score,
		NeedsRemoteAction: needsRemoteAction,
		HasReply:          hasReply,
		IsActionable:      actionable,
		ResolutionState:   state,
		SuggestedAction:   action,
	}
}

// ScoreComments attaches a computed status to every comment in place,
// using the list itself as the reply-detection context.
func ScoreComments(comments []model.Comment) {
	for i := range comments {
		status := ComputeStatus(comments[i], comments)
		comments[i].Status = &status
	}
}

// hasManualReply reports whether any other candidate replies to c.
func hasManualReply(c model.Comment, candidates []model.Comment) bool {
	for _, other := range candidates {
		if other.ID == c.ID {
			continue
		}
		if other.InReplyTo != nil && *other.InReplyTo == c.ID {
			return true
		}
	}
	return false
}

// hasResolvableHint reports whether the comment carries something a remote
// action could apply directly: an extracted diff or a committable GitHub
// suggestion block.
func hasResolvableHint(c model.Comment) bool {
	if c.Suggestion != nil && c.Suggestion.Diff != nil {
		return true
	}
	return strings.Contains(c.Body, "```suggestion")
}

// isActionable reports whether the body matches actionable-language
// heuristics or the suggestion category is actionable.
func isActionable(c model.Comment) bool {
	if c.Suggestion != nil && c.Suggestion.Category == model.CategoryActionable {
		return true
	}

	lower := strings.ToLower(c.Body)
	for _, kw := range actionableKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
