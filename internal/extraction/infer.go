package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	priorityPattern = regexp.MustCompile(
		`(?i)\b(?:priority|prio|urgent|important|critical|high|medium|low)\s*:?\s*(high|medium|low|critical|urgent)`)

	dueDatePattern = regexp.MustCompile(
		`(?i)\b(?:due|deadline|by|before|on)\s*(?:date)?\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s+\d{1,2},?\s+\d{4})`)

	hoursPattern = regexp.MustCompile(
		`(?i)\b(?:estimate|estimated|hours|hrs|time|duration)\s*:?\s*(\d+)\s*(?:hours?|hrs?|h)?`)

	titlePrefixPattern = regexp.MustCompile(
		`(?i)^(?:task|item|step|requirement|feature|deliverable)\s*[#:]?\s*\d+[.:]?\s*`)

	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Date layouts tried in order; the first successful parse wins.
var dueDateLayouts = []string{
	"01/02/2006",
	"02/01/2006",
	"2006-01-02",
	"01-02-2006",
	"January 2, 2006",
}

var taskKeywords = []string{
	"implement", "create", "develop", "build", "design", "write", "test", "fix", "update",
	"add", "remove", "modify", "improve", "refactor", "deploy", "configure", "setup",
	"task", "feature", "requirement", "deliverable", "milestone", "sprint", "story",
}

// isLikelyTask reports whether the text contains a task-indicating keyword.
func isLikelyTask(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range taskKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// cleanTitle collapses whitespace runs, strips a leading marker-and-number
// prefix, and capitalizes the first letter.
func cleanTitle(title string) string {
	title = strings.TrimSpace(whitespaceRuns.ReplaceAllString(title, " "))
	title = titlePrefixPattern.ReplaceAllString(title, "")

	runes := []rune(title)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// inferPriority maps priority vocabulary in the text to a priority level,
// defaulting to MEDIUM when no cue is found.
func inferPriority(text string) string {
	match := priorityPattern.FindStringSubmatch(text)
	if match == nil {
		return PriorityMedium
	}

	switch strings.ToUpper(match[1]) {
	case "CRITICAL", "URGENT":
		return PriorityCritical
	case "HIGH":
		return PriorityHigh
	case "LOW":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// inferDueDate finds a due-date cue followed by a date in a recognized
// format. Returns nil when no cue matches or no layout parses.
func inferDueDate(text string) *time.Time {
	match := dueDatePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	for _, layout := range dueDateLayouts {
		if d, err := time.Parse(layout, match[1]); err == nil {
			return &d
		}
	}
	return nil
}

// inferEstimatedHours finds an estimate cue followed by an integer hour count.
func inferEstimatedHours(text string) *int {
	match := hoursPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	hours, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	return &hours
}

// snippet bounds raw matched text at 500 characters.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) > 500 {
		return string(runes[:500])
	}
	return text
}

// findLineNumber returns the 1-based index of the first line containing the
// leading 50 characters of the snippet, or nil when no line matches.
func findLineNumber(text string, lines []string) *int {
	runes := []rune(text)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	search := strings.TrimSpace(string(runes))

	for i, line := range lines {
		if strings.Contains(line, search) {
			n := i + 1
			return &n
		}
	}
	return nil
}

// truncate bounds a string at n characters.
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n])
	}
	return text
}
