package extract

import (
	"regexp"
	"strings"
)

// Some page layouts put the observation date in the heading a location is
// read from. These patterns recognise the forms seen there.
var (
	wholeDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\w+\s+\d{1,2}\s+\w+\s+\d{4}$`),     // Sun 31 Aug 2025
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`),         // 8/31/2025
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),               // 2025-08-31
		regexp.MustCompile(`^\w+,?\s+\w+\s+\d{1,2},?\s+\d{4}$`), // Sunday, August 31, 2025
	}

	embeddedDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\b`),
		regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b`),
	}
)

// IsDateLike reports whether text is, or contains, a date. Month
// abbreviations are matched as whole words, so place names such as
// "Cape May" are rejected too.
func IsDateLike(text string) bool {
	text = strings.TrimSpace(text)
	for _, re := range wholeDatePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	for _, re := range embeddedDatePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
