// Package chunker splits document text into ordered chunks using one of
// three strategies: fixed-size windows with overlap, sentence grouping,
// or paragraph grouping. All strategies are pure in-memory transforms and
// never produce empty or whitespace-only chunks.
package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default sizes, in runes, applied by Split when an Options field is unset.
// They match the defaults documents were originally indexed with.
const (
	DefaultFixedSize    = 800
	DefaultFixedOverlap = 200
	DefaultSentenceMax  = 1000
	DefaultParagraphMax = 1200
)

// commonAbbreviations are tokens that end with a period but do not end a
// sentence. A buffer ending in one of these absorbs the next sentence
// candidate unconditionally, even past the length limit.
var commonAbbreviations = map[string]struct{}{
	"Mr.": {}, "Mrs.": {}, "Ms.": {}, "Dr.": {}, "Prof.": {}, "Sr.": {}, "Jr.": {},
	"St.": {}, "Mt.": {}, "Capt.": {}, "Sgt.": {}, "Col.": {}, "Gen.": {},
	"Inc.": {}, "Ltd.": {}, "Co.": {}, "Corp.": {},
	"e.g.": {}, "i.e.": {}, "etc.": {}, "vs.": {},
	"U.S.": {}, "U.S.A.": {}, "U.K.": {}, "EU.": {}, "UN.": {},
	"Jan.": {}, "Feb.": {}, "Mar.": {}, "Apr.": {}, "Aug.": {}, "Sept.": {}, "Oct.": {}, "Nov.": {}, "Dec.": {},
}

var blankLines = regexp.MustCompile(`\n\s*\n+`)

// ChunkFixed splits text into windows of size runes, advancing the window
// start by size-overlap so consecutive windows share exactly overlap runes
// before trimming. Each window is whitespace-trimmed; windows that trim to
// nothing are dropped. The last window may be shorter than size.
func ChunkFixed(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than 0, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		// A non-positive stride would stall or move the window backward.
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", overlap, size)
	}

	runes := []rune(text)
	step := size - overlap
	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		if c := strings.TrimSpace(string(runes[i:end])); c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

// ChunkBySentences splits text at sentence boundaries (., ! or ? followed
// by whitespace) and greedily groups sentences into chunks of fewer than
// maxLen runes. When the accumulated buffer ends in a known abbreviation
// the apparent boundary is spurious, so the next candidate is appended
// regardless of length.
func ChunkBySentences(text string, maxLen int) ([]string, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("max length must be greater than 0, got %d", maxLen)
	}

	var chunks []string
	var buffer string
	for _, sentence := range splitSentences(text) {
		switch {
		case isAbbreviation(lastWord(buffer)):
			buffer += " " + sentence
		case utf8.RuneCountInString(buffer)+utf8.RuneCountInString(sentence) < maxLen:
			if buffer == "" {
				buffer = sentence
			} else {
				buffer += " " + sentence
			}
		default:
			if c := strings.TrimSpace(buffer); c != "" {
				chunks = append(chunks, c)
			}
			buffer = sentence
		}
	}
	if c := strings.TrimSpace(buffer); c != "" {
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// ChunkByParagraphs collapses runs of blank lines into a single blank-line
// separator, splits text into paragraphs, and greedily groups them into
// chunks of fewer than maxLen runes. A single paragraph longer than maxLen
// is kept whole; paragraphs are never force-split.
func ChunkByParagraphs(text string, maxLen int) ([]string, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("max length must be greater than 0, got %d", maxLen)
	}

	normalized := strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
	if normalized == "" {
		return nil, nil
	}

	var chunks []string
	var buffer string
	for _, para := range strings.Split(normalized, "\n\n") {
		if utf8.RuneCountInString(buffer)+utf8.RuneCountInString(para) < maxLen {
			if buffer == "" {
				buffer = para
			} else {
				buffer += "\n\n" + para
			}
		} else {
			if c := strings.TrimSpace(buffer); c != "" {
				chunks = append(chunks, c)
			}
			buffer = para
		}
	}
	if c := strings.TrimSpace(buffer); c != "" {
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// splitSentences breaks text into sentence candidates after each
// terminator rune that is followed by whitespace. The whitespace run
// between candidates is consumed. Go's regexp has no lookbehind, so this
// is a scanner rather than a split pattern.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	i := 0
	for i < len(runes) {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			out = append(out, string(runes[start:i+1]))
			i++
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// lastWord returns the final whitespace-delimited token of s, or "".
func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func isAbbreviation(word string) bool {
	_, ok := commonAbbreviations[word]
	return ok
}
