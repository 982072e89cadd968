package extraction

import (
	"regexp"
	"strings"
)

// Strategy span boundaries. Each pattern matches the prefix that introduces
// a span; the span body runs from the end of one prefix to the start of the
// next (or end of text), which stands in for the lookahead the original
// patterns relied on.
var (
	markerPrefix   = regexp.MustCompile(`(?i)(?:task|item|step|requirement|feature|deliverable)\s*[#:]?\s*\d+[.:]?\s*`)
	bulletPrefix   = regexp.MustCompile(`(?m)^[*+-]\s+`)
	numberedPrefix = regexp.MustCompile(`(?m)^\d+[.)]\s+`)
)

// span is a matched region of text: the prefix that introduced it and the
// body running to the next prefix.
type span struct {
	full string
	body string
}

func findSpans(pattern *regexp.Regexp, text string) []span {
	matches := pattern.FindAllStringIndex(text, -1)
	spans := make([]span, 0, len(matches))

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		spans = append(spans, span{
			full: strings.TrimSpace(text[m[0]:end]),
			body: strings.TrimSpace(text[m[1]:end]),
		})
	}

	return spans
}

// markerStrategy extracts spans introduced by task/item/step/requirement/
// feature/deliverable markers with a number and separator.
type markerStrategy struct{}

func (markerStrategy) Generate(text string) []Candidate {
	lines := strings.Split(text, "\n")
	var candidates []Candidate

	for _, s := range findSpans(markerPrefix, text) {
		if len([]rune(s.body)) < 5 {
			continue
		}

		candidates = append(candidates, Candidate{
			Title:          cleanTitle(s.body),
			Priority:       inferPriority(s.full),
			DueDate:        inferDueDate(s.full),
			EstimatedHours: inferEstimatedHours(s.full),
			Confidence:     0.85,
			Method:         MethodTaskMarker,
			Snippet:        snippet(s.full),
			LineNumber:     findLineNumber(s.full, lines),
		})
	}

	return candidates
}

// listStrategy extracts list items, accepting only entries that are at
// least 10 characters and contain a task-indicating keyword.
type listStrategy struct {
	prefix     *regexp.Regexp
	confidence float64
	method     string
}

func (s listStrategy) Generate(text string) []Candidate {
	lines := strings.Split(text, "\n")
	var candidates []Candidate

	for _, sp := range findSpans(s.prefix, text) {
		content := sp.body
		if len([]rune(content)) < 10 || !isLikelyTask(content) {
			continue
		}

		var description *string
		if len([]rune(content)) > 255 {
			description = &content
		}

		candidates = append(candidates, Candidate{
			Title:          cleanTitle(truncate(content, 255)),
			Description:    description,
			Priority:       inferPriority(content),
			DueDate:        inferDueDate(content),
			EstimatedHours: inferEstimatedHours(content),
			Confidence:     s.confidence,
			Method:         s.method,
			Snippet:        snippet(content),
			LineNumber:     findLineNumber(content, lines),
		})
	}

	return candidates
}

// LocalStrategies returns the rule-based strategies in their canonical
// order: markers, bullets, numbered lists.
func LocalStrategies() []Strategy {
	return []Strategy{
		markerStrategy{},
		listStrategy{prefix: bulletPrefix, confidence: 0.70, method: MethodBulletList},
		listStrategy{prefix: numberedPrefix, confidence: 0.75, method: MethodNumberedList},
	}
}
