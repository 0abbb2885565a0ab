package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const timestampLayout = "2006-01-02T15:04:05"

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)

// ValidTimeStampFormat reports whether value matches YYYY-MM-DDTHH:MM:SS.
// The length assertion is kept alongside the pattern match.
func ValidTimeStampFormat(value string) bool {
	return timestampPattern.MatchString(value) && len(value) == 19
}

// ParseTimeStamp converts a declared timestamp into UTC time. Callers check
// the format first; parse failures on pattern-valid input (e.g. month 13)
// still return an error.
func ParseTimeStamp(value string) (time.Time, error) {
	return time.ParseInLocation(timestampLayout, value, time.UTC)
}

// ValidAmountPrecision reports whether value is a decimal number with at most
// two fractional digits. The fractional part is counted on the string form so
// float representation artifacts cannot widen or narrow it.
func ValidAmountPrecision(value string) bool {
	if _, err := decimal.NewFromString(value); err != nil {
		return false
	}
	_, frac, found := strings.Cut(value, ".")
	return !found || len(frac) <= 2
}
