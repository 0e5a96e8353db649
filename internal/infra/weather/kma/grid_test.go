package kma

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProjectGoldenValues(t *testing.T) {
	cases := map[string]struct {
		lat, lon float64
		want     GridPoint
	}{
		"seoul":  {lat: 37.5665, lon: 126.9780, want: GridPoint{NX: 60, NY: 127}},
		"busan":  {lat: 35.1796, lon: 129.0756, want: GridPoint{NX: 98, NY: 76}},
		"jeju":   {lat: 33.4996, lon: 126.5312, want: GridPoint{NX: 53, NY: 38}},
		"origin": {lat: 38, lon: 126, want: GridPoint{NX: 43, NY: 136}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, Project(tc.lat, tc.lon))
		})
	}
}
