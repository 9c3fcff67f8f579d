package weather

// Severity buckets a weather condition for downstream UI indicators.
type Severity string

const (
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
	SeverityExtreme Severity = "extreme"
)

// Condition is the normalized view of a WMO weather code.
type Condition struct {
	Code        int      `json:"code"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Severity    Severity `json:"severity"`
}

var conditionDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

var conditionIcons = map[int]string{
	0:  "sun",
	1:  "partly-cloudy",
	2:  "cloudy",
	3:  "overcast",
	45: "fog",
	48: "fog",
	51: "drizzle",
	53: "drizzle",
	55: "drizzle",
	61: "rain",
	63: "rain",
	65: "heavy-rain",
	71: "snow",
	73: "snow",
	75: "heavy-snow",
	95: "thunderstorm",
	96: "thunderstorm",
	99: "thunderstorm",
}

// ConditionFromCode maps a WMO weather code to a Condition. It is total:
// codes outside the table come back with description "Unknown", icon
// "unknown" and, through the bucket fall-through below, severity "extreme".
// That double labelling is long-standing behaviour the UI severity
// indicators depend on; do not remap it to a safe default.
func ConditionFromCode(code int) Condition {
	description, ok := conditionDescriptions[code]
	if !ok {
		description = "Unknown"
	}

	return Condition{
		Code:        code,
		Description: description,
		Icon:        iconFromCode(code),
		Severity:    severityFromCode(code),
	}
}

func iconFromCode(code int) string {
	if icon, ok := conditionIcons[code]; ok {
		return icon
	}
	return "unknown"
}

func severityFromCode(code int) Severity {
	switch code {
	case 0, 1:
		return SeverityLow
	case 2, 3, 45, 48, 51, 53:
		return SeverityMedium
	case 55, 61, 63, 71, 73:
		return SeverityHigh
	default:
		return SeverityExtreme
	}
}
