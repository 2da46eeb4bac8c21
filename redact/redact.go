// Package redact replaces personally identifiable substrings in free text
// with typed placeholder tokens such as {{EMAIL}}.
package redact

import (
	"regexp"
	"sort"
	"strings"
)

// Redactor rewrites text so that detected identifiers are replaced by placeholders.
// Implementations must leave already-redacted text unchanged.
type Redactor interface {
	Redact(text string) (string, error)
}

// Func adapts an ordinary function to the Redactor interface.
type Func func(text string) (string, error)

// Redact calls f(text).
func (f Func) Redact(text string) (string, error) {
	return f(text)
}

// Span is a detected identifier as a half-open byte range of the input.
type Span struct {
	Start int
	End   int
	Kind  string
}

// Detector finds identifiers of one kind.
type Detector interface {
	Kind() string
	Find(text string) []Span
}

// Placeholder returns the token a span of the given kind is replaced with.
func Placeholder(kind string) string {
	return "{{" + kind + "}}"
}

// placeholderRegexp matches tokens produced by Placeholder for upper-case kinds.
var placeholderRegexp = regexp.MustCompile(`\{\{[A-Z0-9_]+\}\}`)

// Scrubber runs a fixed, ordered set of detectors over each value.
// When spans overlap, the earliest start wins, then the longest match,
// then the detector listed first.
type Scrubber struct {
	detectors []Detector
}

// NewScrubber returns a Scrubber using the given detectors, or the default set when none are given.
func NewScrubber(detectors ...Detector) *Scrubber {
	if len(detectors) == 0 {
		detectors = DefaultDetectors()
	}
	return &Scrubber{detectors: detectors}
}

// Detect returns the non-overlapping spans one redaction pass would replace, in
// input order. Placeholder tokens already in text are opaque: detectors run on
// the text between them and never see a token.
func (s *Scrubber) Detect(text string) []Span {
	type ranked struct {
		Span
		order int
	}

	var all []ranked
	prev := 0
	segments := append(placeholderRegexp.FindAllStringIndex(text, -1), []int{len(text), len(text)})
	for _, tok := range segments {
		seg := text[prev:tok[0]]
		if seg != "" {
			for i, d := range s.detectors {
				for _, sp := range d.Find(seg) {
					if sp.Start < 0 || sp.End > len(seg) || sp.End <= sp.Start {
						continue
					}
					sp.Start += prev
					sp.End += prev
					all = append(all, ranked{Span: sp, order: i})
				}
			}
		}
		prev = tok[1]
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if la, lb := a.End-a.Start, b.End-b.Start; la != lb {
			return la > lb
		}
		return a.order < b.order
	})

	out := make([]Span, 0, len(all))
	end := -1
	for _, r := range all {
		if r.Start < end {
			continue
		}
		out = append(out, r.Span)
		end = r.End
	}
	return out
}

// Redact replaces every detected span with its placeholder. Passes repeat until
// nothing new is found, so identifiers that only become visible once a
// neighbouring span is replaced are caught too and Redact(Redact(x)) == Redact(x).
// Every pass consumes at least one byte outside placeholder tokens, which bounds
// the number of passes by the input length.
func (s *Scrubber) Redact(text string) (string, error) {
	limit := len(text)
	for pass := 0; pass <= limit; pass++ {
		spans := s.Detect(text)
		if len(spans) == 0 {
			return text, nil
		}
		text = replaceSpans(text, spans)
	}
	return text, nil
}

func replaceSpans(text string, spans []Span) string {
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, sp := range spans {
		b.WriteString(text[prev:sp.Start])
		b.WriteString(Placeholder(sp.Kind))
		prev = sp.End
	}
	b.WriteString(text[prev:])
	return b.String()
}
