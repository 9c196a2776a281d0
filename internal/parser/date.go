package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxDateTokens bounds how far into a line FindDate looks for a date.
const maxDateTokens = 6

// canonicalDateLayout is the time layout of every recognized date.
const canonicalDateLayout = "2006-01-02"

// dateRule is one recognized surface form. span is the number of
// whitespace-delimited tokens the form occupies.
type dateRule struct {
	name      string
	span      int
	pattern   *regexp.Regexp
	normalize func(m []string) (string, bool)
}

// Numeric dates are always read month first: 01/02/2024 is January 2nd.
var dateRules = []dateRule{
	{
		name:    "iso",
		span:    1,
		pattern: regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`),
		normalize: func(m []string) (string, bool) {
			return ymd(m[1], m[2], m[3])
		},
	},
	{
		name:    "us-slash",
		span:    1,
		pattern: regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`),
		normalize: func(m []string) (string, bool) {
			return ymd(m[3], m[1], m[2])
		},
	},
	{
		name:    "us-dash",
		span:    1,
		pattern: regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`),
		normalize: func(m []string) (string, bool) {
			return ymd(m[3], m[1], m[2])
		},
	},
	{
		name:    "month-name",
		span:    3,
		pattern: regexp.MustCompile(`^([A-Za-z]{3,})\.? (\d{1,2}), (\d{4})$`),
		normalize: func(m []string) (string, bool) {
			month, ok := monthNumbers[strings.ToLower(m[1])]
			if !ok {
				return "", false
			}
			return ymd(m[3], fmt.Sprintf("%02d", month), m[2])
		},
	},
}

var monthNumbers = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// ymd assembles a canonical date and rejects impossible calendar dates.
func ymd(year, month, day string) (string, bool) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	s := fmt.Sprintf("%s-%s-%02d", year, month, d)
	if _, err := time.Parse(canonicalDateLayout, s); err != nil {
		return "", false
	}
	return s, true
}

// RecognizeDate converts a candidate token (or short token window) to
// YYYY-MM-DD. Rules are tried in order and the first match wins.
func RecognizeDate(candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	for _, rule := range dateRules {
		if m := rule.pattern.FindStringSubmatch(candidate); m != nil {
			if iso, ok := rule.normalize(m); ok {
				return iso, true
			}
		}
	}
	return "", false
}

// DateMatch is a date located inside a line.
type DateMatch struct {
	ISO     string // canonical YYYY-MM-DD
	Surface string // text as it appeared in the line
	Token   int    // index of the first token of the match
}

// FindDate scans the first six tokens of a line for a date. For each token
// every rule is tried over its own token window; the earliest token with a
// match wins.
func FindDate(line string) (DateMatch, bool) {
	tokens := strings.Fields(line)
	limit := len(tokens)
	if limit > maxDateTokens {
		limit = maxDateTokens
	}

	for i := 0; i < limit; i++ {
		for _, rule := range dateRules {
			if i+rule.span > len(tokens) {
				continue
			}
			surface := strings.Join(tokens[i:i+rule.span], " ")
			m := rule.pattern.FindStringSubmatch(surface)
			if m == nil {
				continue
			}
			if iso, ok := rule.normalize(m); ok {
				return DateMatch{ISO: iso, Surface: surface, Token: i}, true
			}
		}
	}
	return DateMatch{}, false
}
