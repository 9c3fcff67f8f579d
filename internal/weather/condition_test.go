package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionFromCodeKnownCodes(t *testing.T) {
	for code, description := range conditionDescriptions {
		cond := ConditionFromCode(code)
		assert.Equal(t, code, cond.Code)
		assert.Equal(t, description, cond.Description)
		assert.NotEmpty(t, cond.Icon)
		assert.NotEmpty(t, cond.Severity)
	}
}

func TestConditionFromCode(t *testing.T) {
	tests := []struct {
		code        int
		description string
		icon        string
		severity    Severity
	}{
		{0, "Clear sky", "sun", SeverityLow},
		{1, "Mainly clear", "partly-cloudy", SeverityLow},
		{2, "Partly cloudy", "cloudy", SeverityMedium},
		{3, "Overcast", "overcast", SeverityMedium},
		{45, "Fog", "fog", SeverityMedium},
		{48, "Depositing rime fog", "fog", SeverityMedium},
		{51, "Light drizzle", "drizzle", SeverityMedium},
		{55, "Dense drizzle", "drizzle", SeverityHigh},
		{61, "Slight rain", "rain", SeverityHigh},
		{63, "Moderate rain", "rain", SeverityHigh},
		{65, "Heavy rain", "heavy-rain", SeverityExtreme},
		{71, "Slight snow fall", "snow", SeverityHigh},
		{73, "Moderate snow fall", "snow", SeverityHigh},
		{75, "Heavy snow fall", "heavy-snow", SeverityExtreme},
		{95, "Thunderstorm", "thunderstorm", SeverityExtreme},
		{99, "Thunderstorm with heavy hail", "thunderstorm", SeverityExtreme},
	}

	for _, tc := range tests {
		cond := ConditionFromCode(tc.code)
		assert.Equal(t, tc.code, cond.Code, "code %d", tc.code)
		assert.Equal(t, tc.description, cond.Description, "code %d", tc.code)
		assert.Equal(t, tc.icon, cond.Icon, "code %d", tc.code)
		assert.Equal(t, tc.severity, cond.Severity, "code %d", tc.code)
	}
}

// Unmapped codes come back as Unknown with extreme severity, never a zero
// value or a panic.
func TestConditionFromCodeUnknown(t *testing.T) {
	for _, code := range []int{-1, 4, 42, 100, 9999} {
		cond := ConditionFromCode(code)
		assert.Equal(t, code, cond.Code)
		assert.Equal(t, "Unknown", cond.Description)
		assert.Equal(t, "unknown", cond.Icon)
		assert.Equal(t, SeverityExtreme, cond.Severity)
	}
}

// Some codes have a description but no dedicated icon (56, 57, 66, 67, 77,
// the shower variants). They still resolve, with the unknown icon.
func TestConditionFromCodeDescribedWithoutIcon(t *testing.T) {
	for _, code := range []int{56, 57, 66, 67, 77, 80, 81, 82, 85, 86} {
		cond := ConditionFromCode(code)
		assert.NotEqual(t, "Unknown", cond.Description, "code %d", code)
		assert.Equal(t, "unknown", cond.Icon, "code %d", code)
	}
}

func TestSeverityBuckets(t *testing.T) {
	assert.Equal(t, SeverityLow, severityFromCode(0))
	assert.Equal(t, SeverityLow, severityFromCode(1))

	for _, code := range []int{2, 3, 45, 48, 51, 53} {
		assert.Equal(t, SeverityMedium, severityFromCode(code), "code %d", code)
	}
	for _, code := range []int{55, 61, 63, 71, 73} {
		assert.Equal(t, SeverityHigh, severityFromCode(code), "code %d", code)
	}
	for _, code := range []int{65, 75, 95, 96, 99, 123} {
		assert.Equal(t, SeverityExtreme, severityFromCode(code), "code %d", code)
	}
}
