package forecast

import "math"

const (
	windChillMaxTemp = 10.0
	windChillMinWind = 4.8
	heatIndexMinTemp = 27.0
)

// ApparentTemperature derives the felt temperature in °C from air temperature,
// wind speed (km/h) and relative humidity (%). Cold and windy conditions use
// the wind chill formula, hot conditions the heat index polynomial; anything
// in between is the rounded air temperature.
func ApparentTemperature(tempC, windKmh, humidityPct float64) int {
	switch {
	case tempC <= windChillMaxTemp && windKmh >= windChillMinWind:
		return Round(windChill(tempC, windKmh))
	case tempC >= heatIndexMinTemp:
		return Round(heatIndex(tempC, humidityPct))
	default:
		return Round(tempC)
	}
}

func windChill(t, v float64) float64 {
	vp := math.Pow(v, 0.16)
	return 13.12 + 0.6215*t - 11.37*vp + 0.3965*t*vp
}

func heatIndex(t, r float64) float64 {
	return -8.78469475556 +
		1.61139411*t +
		2.33854883889*r -
		0.14611605*t*r -
		0.012308094*t*t -
		0.0164248277778*r*r +
		0.002211732*t*t*r +
		0.00072546*t*r*r -
		0.000003582*t*t*r*r
}

// Round rounds half up, so -2.5 becomes -2.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}
