package redact

import (
	"regexp"
	"strings"
)

const (
	KindEmail      = "EMAIL"
	KindURL        = "URL"
	KindSSN        = "SSN"
	KindCreditCard = "CREDIT_CARD"
	KindPhone      = "PHONE"
	KindTwitter    = "TWITTER"
	KindName       = "NAME"
)

var (
	emailRegexp = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	urlRegexp   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']+`)
	ssnRegexp   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	// cardRegexp matches runs of 13 or more digits optionally grouped by single
	// spaces or dashes; card-length windows inside a run are checked separately.
	cardRegexp    = regexp.MustCompile(`\b\d(?:[ \-]?\d){12,}\b`)
	phoneRegexp   = regexp.MustCompile(`(?:\+?1[\s.\-]?)?(?:\(\d{3}\)|\b\d{3})[\s.\-]?\d{3}[\s.\-]?\d{4}\b`)
	twitterRegexp = regexp.MustCompile(`(?:^|[^\w@{}])(@[A-Za-z0-9_]{1,15})\b`)
	// nameRegexp requires an honorific so capitalised prose is left alone.
	nameRegexp = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Miss|Dr|Prof)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`)
)

// DefaultDetectors returns the detectors used by NewScrubber when none are given.
func DefaultDetectors() []Detector {
	return []Detector{
		RegexpDetector(KindEmail, emailRegexp),
		RegexpDetector(KindURL, urlRegexp),
		RegexpDetector(KindSSN, ssnRegexp),
		CreditCardDetector(),
		RegexpDetector(KindPhone, phoneRegexp),
		// A handle directly followed by "@" is the local part of an email address.
		&regexpDetector{kind: KindTwitter, re: twitterRegexp, group: 1, notBefore: "@"},
		RegexpDetector(KindName, nameRegexp),
	}
}

type regexpDetector struct {
	kind  string
	re    *regexp.Regexp
	group int
	// notBefore rejects a match whose next byte is one of these.
	notBefore string
}

// RegexpDetector reports every match of re as a span of the given kind.
func RegexpDetector(kind string, re *regexp.Regexp) Detector {
	return &regexpDetector{kind: kind, re: re}
}

// CreditCardDetector reports card-length digit windows (13 to 19 digits) that
// pass the Luhn check, wherever they sit inside a longer digit run.
func CreditCardDetector() Detector {
	return cardDetector{}
}

func (d *regexpDetector) Kind() string { return d.kind }

func (d *regexpDetector) Find(text string) []Span {
	var spans []Span
	for _, m := range d.re.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2*d.group], m[2*d.group+1]
		if start < 0 {
			continue
		}
		if d.notBefore != "" && end < len(text) && strings.IndexByte(d.notBefore, text[end]) >= 0 {
			continue
		}
		spans = append(spans, Span{Start: start, End: end, Kind: d.kind})
	}
	return spans
}

const (
	minCardDigits = 13
	maxCardDigits = 19
)

type cardDetector struct{}

func (cardDetector) Kind() string { return KindCreditCard }

// Find scans each digit run left to right and takes the longest Luhn-valid
// window starting at each digit; digits covered by a window are not reused.
func (cardDetector) Find(text string) []Span {
	var spans []Span
	for _, m := range cardRegexp.FindAllStringIndex(text, -1) {
		var digits []int
		for i := m[0]; i < m[1]; i++ {
			if text[i] >= '0' && text[i] <= '9' {
				digits = append(digits, i)
			}
		}

		for i := 0; i+minCardDigits <= len(digits); {
			n := len(digits) - i
			if n > maxCardDigits {
				n = maxCardDigits
			}
			for ; n >= minCardDigits; n-- {
				start, end := digits[i], digits[i+n-1]+1
				if luhnValid(text[start:end]) {
					spans = append(spans, Span{Start: start, End: end, Kind: KindCreditCard})
					break
				}
			}
			if n >= minCardDigits {
				i += n
				continue
			}
			i++
		}
	}
	return spans
}

// luhnValid reports whether the digits of s pass the Luhn checksum. Separators are skipped.
func luhnValid(s string) bool {
	sum, n := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int(c - '0')
		if n%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		n++
	}
	return n >= 13 && sum%10 == 0
}
