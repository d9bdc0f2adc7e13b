package application

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
)

// descriptionLookahead bounds how many lines past an item line the parser
// scans while accumulating the item's description and diff.
const descriptionLookahead = 20

// unknownFile is the sentinel file context used when a section declares
// items before any file summary line.
const unknownFile = "unknown-file"

// ParsedSection is one severity-classed block of suggestions extracted from
// a review body. Transient: consumed into Comment entities by the normalizer.
type ParsedSection struct {
	Category      model.SuggestionCategory
	DeclaredCount int
	Items         []ParsedItem
}

// ParsedItem is one line-anchored suggestion inside a section. LineRange is
// kept as raw text; malformed ranges are carried through unparsed and the
// numeric line fields are derived (or omitted) later by the normalizer.
type ParsedItem struct {
	FilePath    string
	LineRange   string
	Title       string
	Description string
	Diff        *model.ExtractedDiff
	Severity    model.Severity
}

var (
	// summaryRe strips the collapsible summary tags from a line.
	summaryRe = regexp.MustCompile(`^\s*<summary>(.*?)</summary>\s*$`)

	// taggedSectionRe matches "<emoji> <title> (<count>)" summary text.
	taggedSectionRe = regexp.MustCompile(`^(\S+)\s+(.+?)\s*\((\d+)\)$`)

	// untaggedSectionRe matches "<title>: <count>" summary text.
	untaggedSectionRe = regexp.MustCompile(`^(.+?):\s*(\d+)$`)

	// fileContextRe matches a "`path` (count)" per-file summary.
	fileContextRe = regexp.MustCompile("^`([^`]+)`\\s*\\((\\d+)\\)$")

	// itemRe matches a "`<range>`: **<title>**" item line. The range is
	// captured as raw text so malformed values never fail the parse.
	itemRe = regexp.MustCompile("^`([^`]+)`:\\s*\\*\\*(.+?)\\*\\*\\s*(.*)$")
)

// categoryForEmoji classifies a section by the leading rune of its emoji
// tag. Unrecognized emoji default to actionable.
func categoryForEmoji(tag string) (model.SuggestionCategory, bool) {
	runes := []rune(tag)
	if len(runes) == 0 || runes[0] <= unicode.MaxASCII {
		return "", false
	}

	switch runes[0] {
	case '\U0001F9F9': // broom
		return model.CategoryNit, true
	case '♻': // recycling
		return model.CategoryDuplicate, true
	case '\U0001F6E0': // hammer and wrench
		return model.CategoryAdditional, true
	case '⚠': // warning sign
		return model.CategoryActionable, true
	default:
		return model.CategoryActionable, true
	}
}

// parseSectionSummary recognizes a section-opening summary line and returns
// its category and declared item count.
func parseSectionSummary(text string) (model.SuggestionCategory, int, bool) {
	if m := taggedSectionRe.FindStringSubmatch(text); m != nil {
		if category, ok := categoryForEmoji(m[1]); ok {
			count, _ := strconv.Atoi(m[3])
			return category, count, true
		}
	}

	if m := untaggedSectionRe.FindStringSubmatch(text); m != nil {
		if strings.Contains(strings.ToLower(m[1]), "actionable") {
			count, _ := strconv.Atoi(m[2])
			return model.CategoryActionable, count, true
		}
	}

	return "", 0, false
}

// unescapeFence removes backslash escapes in front of backticks, so fence
// markers quoted inside blockquotes ("\```diff") are still recognized.
func unescapeFence(line string) string {
	return strings.ReplaceAll(line, "\\`", "`")
}

// ParseSuggestionBlocks runs the line-oriented state machine over one review
// body and returns its suggestion sections in document order. An empty or
// non-matching body yields zero sections; parsing never fails.
func ParseSuggestionBlocks(body string) []ParsedSection {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	lines := strings.Split(body, "\n")

	var sections []ParsedSection
	var current *ParsedSection
	currentFile := ""

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		// Section detection: an opening collapsible marker followed by a
		// matching summary line.
		if strings.HasPrefix(line, "<details") && i+1 < len(lines) {
			if m := summaryRe.FindStringSubmatch(lines[i+1]); m != nil {
				if category, count, ok := parseSectionSummary(strings.TrimSpace(m[1])); ok {
					sections = append(sections, ParsedSection{
						Category:      category,
						DeclaredCount: count,
					})
					current = &sections[len(sections)-1]
					currentFile = ""
					i += 2 // Consume the marker and the summary line.
					continue
				}
			}
		}

		if current == nil {
			i++
			continue
		}

		// File-context detection: a "`path` (count)" summary sets the
		// current file for subsequent items until superseded.
		text := line
		if m := summaryRe.FindStringSubmatch(lines[i]); m != nil {
			text = strings.TrimSpace(m[1])
		}
		if m := fileContextRe.FindStringSubmatch(text); m != nil {
			currentFile = m[1]
			i++
			continue
		}

		// Item detection.
		if m := itemRe.FindStringSubmatch(line); m != nil {
			item, next := scanItem(lines, i, m)
			item.Severity = model.SeverityFor(current.Category)
			item.FilePath = currentFile
			if item.FilePath == "" {
				item.FilePath = unknownFile
			}
			current.Items = append(current.Items, item)
			i = next
			continue
		}

		i++
	}

	return sections
}

// scanItem accumulates an item's description and optional diff block from
// the lines following its opening line. It returns the item and the index
// at which the main loop should resume.
func scanItem(lines []string, start int, match []string) (ParsedItem, int) {
	item := ParsedItem{
		LineRange: match[1],
		Title:     match[2],
	}

	var description []string
	if rest := strings.TrimSpace(match[3]); rest != "" {
		description = append(description, rest)
	}

	var diffOld, diffNew []string
	inDiff := false
	sawDiff := false

	end := start + 1 + descriptionLookahead
	if end > len(lines) {
		end = len(lines)
	}

	i := start + 1
scan:
	for i < end {
		line := strings.TrimSpace(unescapeFence(lines[i]))

		if inDiff {
			switch {
			case strings.HasPrefix(line, "```"):
				// Closing diff fence ends the scan.
				inDiff = false
				i++
				break scan
			case strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++"):
				// Diff header lines are not content.
			case strings.HasPrefix(line, "-"):
				diffOld = append(diffOld, strings.TrimSpace(strings.TrimPrefix(line, "-")))
			case strings.HasPrefix(line, "+"):
				diffNew = append(diffNew, strings.TrimSpace(strings.TrimPrefix(line, "+")))
			}
			i++
			continue
		}

		if line == "```diff" {
			inDiff = true
			sawDiff = true
			i++
			continue
		}

		if line == "</blockquote>" || strings.HasPrefix(strings.TrimSpace(lines[i]), "<summary>") {
			break scan
		}

		// A new item line ends this item's description.
		if itemRe.MatchString(line) {
			break scan
		}

		if line != "" {
			description = append(description, line)
		}
		i++
	}

	item.Description = strings.Join(description, "\n")
	if sawDiff {
		item.Diff = &model.ExtractedDiff{
			Old: strings.Join(diffOld, "\n"),
			New: strings.Join(diffNew, "\n"),
		}
	}

	return item, i
}
