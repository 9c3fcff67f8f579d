package weather

import (
	"math"
	"regexp"
	"strings"

	"skycast/internal/common"
	"skycast/internal/errs"
)

const (
	minQueryLength = 2
	maxQueryLength = 100
)

// dangerousPatterns short-circuit a search query to zero results. Matching is
// case-insensitive; search stays non-fatal, so these never raise.
var dangerousPatterns = []string{
	"<script",
	"javascript:",
	"onerror=",
	"onload=",
	"onclick=",
	"union",
	"select",
	"insert",
	"update",
	"delete",
	"drop",
	"create",
	"alter",
	"exec",
}

var sanitizePattern = regexp.MustCompile(`[^\w\s-]`)

// ValidateCoordinates checks latitude/longitude, first failure wins.
// Non-numeric input cannot reach this signature; NaN is the first runtime
// concern.
func ValidateCoordinates(latitude, longitude float64) error {
	if math.IsNaN(latitude) || math.IsNaN(longitude) {
		return errs.NewValidationError("Coordinates cannot be NaN")
	}
	if latitude < -90 || latitude > 90 {
		return errs.NewValidationError("Latitude must be between -90 and 90 degrees")
	}
	if longitude < -180 || longitude > 180 {
		return errs.NewValidationError("Longitude must be between -180 and 180 degrees")
	}
	return nil
}

// ValidateSearchQuery reports whether a free-text location query is worth
// sending upstream. Invalid queries yield an empty result set, never an
// error.
func ValidateSearchQuery(query string) bool {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < minQueryLength || len(trimmed) > maxQueryLength {
		return false
	}
	return !common.HasAnyFold(trimmed, dangerousPatterns...)
}

// SanitizeQuery strips everything outside word characters, whitespace and
// hyphens before the query goes on the wire.
func SanitizeQuery(query string) string {
	return sanitizePattern.ReplaceAllString(strings.TrimSpace(query), "")
}
