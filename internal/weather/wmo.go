package weather

// UnknownCondition is the label for codes outside the WMO table.
const UnknownCondition = "Unknown"

var wmoCodes = map[int]string{
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

// Condition maps a WMO weather code to text. Never fails.
func Condition(code int) string {
	if text, ok := wmoCodes[code]; ok {
		return text
	}
	return UnknownCondition
}

// DominantCode returns the most frequent non-nil code. Ties go to the code
// seen first. ok is false when there are no codes.
func DominantCode(codes []*int) (code int, ok bool) {
	counts := make(map[int]int)
	var order []int
	for _, c := range codes {
		if c == nil {
			continue
		}
		if counts[*c] == 0 {
			order = append(order, *c)
		}
		counts[*c]++
	}

	best := -1
	for _, c := range order {
		if counts[c] > best {
			best = counts[c]
			code = c
			ok = true
		}
	}
	return code, ok
}
