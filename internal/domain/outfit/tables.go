package outfit

import "math"

// Clothing categories, in display order.
const (
	CategoryTop         = "top"
	CategoryBottom      = "bottom"
	CategoryShoes       = "shoes"
	CategoryAccessories = "accessories"
)

// Categories lists the clothing categories every tier fills in.
var Categories = []string{CategoryTop, CategoryBottom, CategoryShoes, CategoryAccessories}

// CategoryLabels are the human readable category names.
var CategoryLabels = map[string]string{
	CategoryTop:         "Top",
	CategoryBottom:      "Bottom",
	CategoryShoes:       "Shoes",
	CategoryAccessories: "Accessories",
}

const noAccessories = "None"

// Clothes maps a category to the recommended item.
type Clothes map[string]string

// Clone copies the map so overrides never touch the tier template.
func (c Clothes) Clone() Clothes {
	out := make(Clothes, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Tier is a band of apparent temperature with a clothing preset.
type Tier struct {
	Key     string  `json:"key"`
	Min     float64 `json:"-"`
	Max     float64 `json:"-"`
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	Icon    string  `json:"icon"`
	Clothes Clothes `json:"clothes"`
}

// tiers runs from hottest to coldest. Bands are contiguous: a value belongs
// to the coldest band whose Max is not below it.
var tiers = []Tier{
	{
		Key: "scorching", Min: 28, Max: math.Inf(1), Label: "Very hot", Color: "#e74c3c", Icon: "🥵",
		Clothes: Clothes{CategoryTop: "Sleeveless / short sleeves", CategoryBottom: "Shorts", CategoryShoes: "Sandals / slides", CategoryAccessories: "Hat, sunglasses"},
	},
	{
		Key: "hot", Min: 23, Max: 27, Label: "Hot", Color: "#e67e22", Icon: "😎",
		Clothes: Clothes{CategoryTop: "Short sleeves", CategoryBottom: "Chinos / shorts", CategoryShoes: "Sneakers / sandals", CategoryAccessories: noAccessories},
	},
	{
		Key: "warm", Min: 20, Max: 22, Label: "Warm", Color: "#f1c40f", Icon: "😊",
		Clothes: Clothes{CategoryTop: "Light long sleeves / cardigan", CategoryBottom: "Chinos", CategoryShoes: "Sneakers", CategoryAccessories: noAccessories},
	},
	{
		Key: "mild", Min: 17, Max: 19, Label: "Mild", Color: "#2ecc71", Icon: "🙂",
		Clothes: Clothes{CategoryTop: "Long sleeves / light jacket", CategoryBottom: "Jeans", CategoryShoes: "Sneakers", CategoryAccessories: noAccessories},
	},
	{
		Key: "cool", Min: 12, Max: 16, Label: "Cool", Color: "#1abc9c", Icon: "🧥",
		Clothes: Clothes{CategoryTop: "Knit / sweatshirt + jacket", CategoryBottom: "Jeans", CategoryShoes: "Sneakers / boots", CategoryAccessories: noAccessories},
	},
	{
		Key: "chilly", Min: 9, Max: 11, Label: "Chilly", Color: "#3498db", Icon: "🥶",
		Clothes: Clothes{CategoryTop: "Knit + coat / padded jacket", CategoryBottom: "Fleece-lined pants", CategoryShoes: "Boots", CategoryAccessories: "Scarf"},
	},
	{
		Key: "cold", Min: 5, Max: 8, Label: "Very cold", Color: "#2980b9", Icon: "🧣",
		Clothes: Clothes{CategoryTop: "Thermal + heavy knit + long padded coat", CategoryBottom: "Fleece-lined pants", CategoryShoes: "Winter boots", CategoryAccessories: "Scarf, gloves"},
	},
	{
		Key: "freezing", Min: math.Inf(-1), Max: 4, Label: "Extreme cold", Color: "#8e44ad", Icon: "🥶",
		Clothes: Clothes{CategoryTop: "Thermal + fleece base layer + long padded coat", CategoryBottom: "Fleece-lined pants", CategoryShoes: "Winter boots", CategoryAccessories: "Scarf, gloves, earmuffs"},
	},
}

// Tiers returns the tier table, hottest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierFor selects the tier for an apparent temperature. NaN falls back to the
// coldest tier.
func TierFor(apparent float64) Tier {
	for i := len(tiers) - 1; i >= 0; i-- {
		if apparent <= tiers[i].Max {
			return tiers[i]
		}
	}
	return tiers[len(tiers)-1]
}

// TimeBlock is a fixed segment of the day.
type TimeBlock struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Emoji     string `json:"emoji"`
	StartHour int    `json:"startHour"`
	EndHour   int    `json:"endHour"`
}

// Contains reports whether hour falls inside the inclusive range.
func (b TimeBlock) Contains(hour int) bool {
	return hour >= b.StartHour && hour <= b.EndHour
}

// TimeBlocks partition 0-23 without gaps.
var TimeBlocks = []TimeBlock{
	{Key: "dawn", Label: "Dawn", Emoji: "🌃", StartHour: 0, EndHour: 6},
	{Key: "morning", Label: "Morning", Emoji: "🌅", StartHour: 7, EndHour: 12},
	{Key: "afternoon", Label: "Afternoon", Emoji: "🌤", StartHour: 13, EndHour: 18},
	{Key: "evening", Label: "Evening", Emoji: "🌙", StartHour: 19, EndHour: 23},
}

type codeSet map[int]struct{}

func newCodeSet(codes ...int) codeSet {
	set := make(codeSet, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

func (s codeSet) has(code int) bool {
	_, ok := s[code]
	return ok
}

type weatherAlert struct {
	codes   codeSet
	message string
}

// Checked in this order.
var weatherAlerts = []weatherAlert{
	{codes: newCodeSet(51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82), message: "☂️ Bring an umbrella"},
	{codes: newCodeSet(71, 73, 75, 77, 85, 86), message: "🥾 Waterproof boots recommended"},
	{codes: newCodeSet(95, 96, 99), message: "⚡ Thunderstorms forecast, avoid going out"},
}

var (
	// Thunder counts as rain for block level clothing.
	blockRainCodes = newCodeSet(51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82, 95, 96, 99)
	blockSnowCodes = newCodeSet(71, 73, 75, 77, 85, 86)
	clearSkyCodes  = newCodeSet(0, 1)
)

const (
	// WindThreshold is the wind speed (km/h) at which wind becomes notable.
	WindThreshold  = 30
	sunnyStartHour = 10
	sunnyEndHour   = 16

	windAlert = "💨 Strong wind, a windbreaker is a good idea"
	uvAlert   = "🧴 Put on sunscreen"
)
