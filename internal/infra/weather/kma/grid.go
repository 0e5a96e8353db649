package kma

import "math"

// Lambert Conformal Conic parameters of the KMA 5 km forecast grid.
const (
	earthRadiusKm = 6371.00877
	gridKm        = 5.0
	stdLat1       = 30.0
	stdLat2       = 60.0
	originLon     = 126.0
	originLat     = 38.0
	originX       = 43
	originY       = 136

	degToRad = math.Pi / 180.0
)

// GridPoint is a cell of the KMA forecast grid.
type GridPoint struct {
	NX int `json:"nx"`
	NY int `json:"ny"`
}

// Project converts WGS84 coordinates into the KMA grid cell that covers them.
func Project(lat, lon float64) GridPoint {
	re := earthRadiusKm / gridKm
	slat1 := stdLat1 * degToRad
	slat2 := stdLat2 * degToRad
	olon := originLon * degToRad
	olat := originLat * degToRad

	sn := math.Tan(math.Pi*0.25+slat2*0.5) / math.Tan(math.Pi*0.25+slat1*0.5)
	sn = math.Log(math.Cos(slat1)/math.Cos(slat2)) / math.Log(sn)

	sf := math.Tan(math.Pi*0.25 + slat1*0.5)
	sf = math.Pow(sf, sn) * math.Cos(slat1) / sn

	ro := math.Tan(math.Pi*0.25 + olat*0.5)
	ro = re * sf / math.Pow(ro, sn)

	ra := math.Tan(math.Pi*0.25 + lat*degToRad*0.5)
	ra = re * sf / math.Pow(ra, sn)

	theta := lon*degToRad - olon
	if theta > math.Pi {
		theta -= 2.0 * math.Pi
	}
	if theta < -math.Pi {
		theta += 2.0 * math.Pi
	}
	theta *= sn

	return GridPoint{
		NX: int(math.Floor(ra*math.Sin(theta) + originX + 0.5)),
		NY: int(math.Floor(ro - ra*math.Cos(theta) + originY + 0.5)),
	}
}
