package outfit

import "fmt"

const (
	insufficientDataLine = "Not enough weather data for this day"
	snowDayLine          = "❄️ Snow expected today, waterproof shoes are a must"
	rainDayLine          = "🌧️ Rain expected, don't forget an umbrella"
	sameAllDayLine       = "👍 The same outfit works all day"
	mildDayLine          = "✅ Pleasant weather, dress comfortably"

	largeSwing    = 10
	moderateSwing = 6
)

// Summarize turns a day's block results into short narrative lines. Nil
// results (blocks without data) are ignored.
func Summarize(results []*BlockResult) []string {
	valid := make([]*BlockResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return []string{insufficientDataLine}
	}

	lowest, highest := valid[0].MinApparent, valid[0].MaxApparent
	maxWind := valid[0].MaxWind
	var anySnow, anyRain, anyWind bool
	for _, r := range valid {
		lowest = min(lowest, r.MinApparent)
		highest = max(highest, r.MaxApparent)
		maxWind = max(maxWind, r.MaxWind)
		anySnow = anySnow || r.HasSnow
		anyRain = anyRain || r.HasRain
		anyWind = anyWind || r.IsWindy
	}

	lines := make([]string, 0, 4)
	switch swing := highest - lowest; {
	case swing >= largeSwing:
		lines = append(lines, fmt.Sprintf("🌡️ A large %d° swing today, dress in layers!", swing))
	case swing >= moderateSwing:
		lines = append(lines, fmt.Sprintf("🌡️ A %d° swing, bring a light outer layer", swing))
	}

	switch {
	case anySnow:
		lines = append(lines, snowDayLine)
	case anyRain:
		lines = append(lines, rainDayLine)
	}

	if anyWind {
		lines = append(lines, fmt.Sprintf("💨 Wind up to %dkm/h, a windbreaker is recommended", maxWind))
	}

	if len(valid) >= 2 {
		allSame := true
		for _, r := range valid[1:] {
			if !SameClothes(valid[0], r) {
				allSame = false
				break
			}
		}
		if allSame {
			lines = append(lines, sameAllDayLine)
		}
	}

	if len(lines) == 0 {
		lines = append(lines, mildDayLine)
	}
	return lines
}

// DedupeLines drops repeated lines, keeping first occurrences in order.
func DedupeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
