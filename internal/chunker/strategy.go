package chunker

import (
	"fmt"
	"strings"
)

// Strategy identifies one of the three splitting strategies. The tag is
// recorded alongside every stored chunk.
type Strategy string

const (
	Fixed     Strategy = "fixed"
	Sentence  Strategy = "sentence"
	Paragraph Strategy = "paragraph"
)

// ParseStrategy maps a strategy tag to its Strategy value. Unknown tags
// are rejected at the boundary rather than defaulted.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Fixed, Sentence, Paragraph:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q (want one of: %s)", s, strings.Join(Strategies(), ", "))
}

// Strategies lists the valid strategy tags, for flag help and error text.
func Strategies() []string {
	return []string{string(Fixed), string(Sentence), string(Paragraph)}
}

// Options carries the per-strategy size settings, in runes. Fields left
// zero fall back to the package defaults.
type Options struct {
	FixedSize    int
	FixedOverlap int
	SentenceMax  int
	ParagraphMax int
}

func (o Options) withDefaults() Options {
	if o.FixedSize == 0 {
		o.FixedSize = DefaultFixedSize
	}
	if o.FixedOverlap == 0 {
		o.FixedOverlap = DefaultFixedOverlap
	}
	if o.SentenceMax == 0 {
		o.SentenceMax = DefaultSentenceMax
	}
	if o.ParagraphMax == 0 {
		o.ParagraphMax = DefaultParagraphMax
	}
	return o
}

// Split runs the chunker selected by strategy over text.
func Split(text string, strategy Strategy, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	switch strategy {
	case Fixed:
		return ChunkFixed(text, opts.FixedSize, opts.FixedOverlap)
	case Sentence:
		return ChunkBySentences(text, opts.SentenceMax)
	case Paragraph:
		return ChunkByParagraphs(text, opts.ParagraphMax)
	}
	return nil, fmt.Errorf("unknown strategy %q (want one of: %s)", strategy, strings.Join(Strategies(), ", "))
}
