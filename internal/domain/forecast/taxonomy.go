package forecast

// CodeInfo is the display form of a canonical (WMO) weather code.
type CodeInfo struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// UnknownCode is returned for codes outside the taxonomy.
var UnknownCode = CodeInfo{Emoji: "❓", Label: "Unknown"}

var codeTable = map[int]CodeInfo{
	0:  {Emoji: "☀️", Label: "Clear sky"},
	1:  {Emoji: "🌤️", Label: "Mainly clear"},
	2:  {Emoji: "⛅", Label: "Partly cloudy"},
	3:  {Emoji: "☁️", Label: "Overcast"},
	45: {Emoji: "🌫️", Label: "Fog"},
	48: {Emoji: "🌫️", Label: "Dense fog"},
	51: {Emoji: "🌦️", Label: "Light drizzle"},
	53: {Emoji: "🌦️", Label: "Drizzle"},
	55: {Emoji: "🌦️", Label: "Heavy drizzle"},
	56: {Emoji: "🌧️", Label: "Freezing drizzle"},
	57: {Emoji: "🌧️", Label: "Heavy freezing drizzle"},
	61: {Emoji: "🌧️", Label: "Light rain"},
	63: {Emoji: "🌧️", Label: "Rain"},
	65: {Emoji: "🌧️", Label: "Heavy rain"},
	66: {Emoji: "🌧️", Label: "Freezing rain"},
	67: {Emoji: "🌧️", Label: "Heavy freezing rain"},
	71: {Emoji: "🌨️", Label: "Light snow"},
	73: {Emoji: "🌨️", Label: "Snow"},
	75: {Emoji: "❄️", Label: "Heavy snow"},
	77: {Emoji: "❄️", Label: "Snow grains"},
	80: {Emoji: "🌧️", Label: "Light showers"},
	81: {Emoji: "🌧️", Label: "Showers"},
	82: {Emoji: "🌧️", Label: "Violent showers"},
	85: {Emoji: "🌨️", Label: "Light snow showers"},
	86: {Emoji: "🌨️", Label: "Heavy snow showers"},
	95: {Emoji: "⛈️", Label: "Thunderstorm"},
	96: {Emoji: "⛈️", Label: "Thunderstorm with hail"},
	99: {Emoji: "⛈️", Label: "Severe thunderstorm with hail"},
}

// LookupCode resolves a code, falling back to UnknownCode.
func LookupCode(code int) CodeInfo {
	if info, ok := codeTable[code]; ok {
		return info
	}
	return UnknownCode
}

// KnownCode reports whether the code is part of the taxonomy.
func KnownCode(code int) bool {
	_, ok := codeTable[code]
	return ok
}

// Canonical codes used by provider adapters that remap their own code space.
const (
	CodeClear           = 0
	CodePartlyCloudy    = 2
	CodeOvercast        = 3
	CodeLightDrizzle    = 51
	CodeFreezingDrizzle = 56
	CodeRain            = 63
	CodeFreezingRain    = 66
	CodeLightSnow       = 71
	CodeSnow            = 73
	CodeLightShowers    = 80
)
