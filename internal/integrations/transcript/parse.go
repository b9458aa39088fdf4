package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is one timed utterance. Text is kept exactly as found in the
// caption document, HTML entities included. Decoding entities is a
// presentation concern, not ours.
type Entry struct {
	Text     string  `json:"text"`
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
	Lang     string  `json:"lang"`
}

// The caption document is a flat sequence of <text> elements. It is not
// well-formed XML in general (unescaped entities appear), so a lenient
// pattern match beats a strict parser here.
var captionPattern = regexp.MustCompile(
	`<text start="([^"]*)" dur="([^"]*)">([^<]*)</text>`,
)

// parseCaptions extracts the timed entries from a caption document in
// document order. No sorting, no deduplication.
func parseCaptions(body, lang string) []Entry {

	matches := captionPattern.FindAllStringSubmatch(body, -1)
	entries := make([]Entry, 0, len(matches))

	for _, match := range matches {
		offset, _ := strconv.ParseFloat(match[1], 64)
		duration, _ := strconv.ParseFloat(match[2], 64)
		entries = append(entries, Entry{
			Text:     match[3],
			Offset:   offset,
			Duration: duration,
			Lang:     lang,
		})
	}

	return entries
}

// JoinText concatenates the entries' text in order with single spaces.
// Downstream consumers depend on this exact joining rule.
func JoinText(entries []Entry) string {

	parts := make([]string, len(entries))
	for i, entry := range entries {
		parts[i] = entry.Text
	}

	return strings.Join(parts, " ")
}
