package outfit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yanqian/outfitcast/internal/domain/forecast"
)

// BlockResult summarizes the hours of one time block.
type BlockResult struct {
	Tier         Tier     `json:"tier"`
	Clothes      Clothes  `json:"clothes"`
	Comments     []string `json:"comments"`
	MinApparent  int      `json:"minApparent"`
	MaxApparent  int      `json:"maxApparent"`
	AvgTemp      int      `json:"avgTemp"`
	MaxWind      int      `json:"maxWind"`
	HasSnow      bool     `json:"hasSnow"`
	HasRain      bool     `json:"hasRain"`
	IsWindy      bool     `json:"isWindy"`
	DominantCode int      `json:"dominantCode"`
}

const (
	snowShoes = "Waterproof boots (a must in snow!)"
	umbrella  = "Umbrella"
)

// AggregateBlock builds the block result for the given hours, or nil when
// there are none. The tier follows the coldest felt temperature in the block.
func AggregateBlock(hours []forecast.HourlyRecord) *BlockResult {
	if len(hours) == 0 {
		return nil
	}

	minApparent, maxApparent := hours[0].ApparentTemp, hours[0].ApparentTemp
	maxWind := hours[0].WindSpeed
	sumTemp := 0
	var hasSnow, hasRain bool
	counts := newCodeCounter()

	for _, h := range hours {
		minApparent = min(minApparent, h.ApparentTemp)
		maxApparent = max(maxApparent, h.ApparentTemp)
		maxWind = max(maxWind, h.WindSpeed)
		sumTemp += h.Temp
		hasSnow = hasSnow || blockSnowCodes.has(h.WeatherCode)
		hasRain = hasRain || blockRainCodes.has(h.WeatherCode)
		counts.add(h.WeatherCode)
	}

	tier := TierFor(float64(minApparent))
	clothes := tier.Clothes.Clone()
	isWindy := maxWind >= WindThreshold
	comments := make([]string, 0, 3)

	if hasSnow {
		clothes[CategoryShoes] = snowShoes
		comments = append(comments, "🌨️ Snow in the forecast, watch out for slippery ground")
	}
	if hasRain {
		if clothes[CategoryAccessories] == noAccessories {
			clothes[CategoryAccessories] = umbrella
		} else {
			clothes[CategoryAccessories] += ", " + strings.ToLower(umbrella)
		}
		comments = append(comments, "☂️ Rain in the forecast, don't forget an umbrella")
	}
	if isWindy {
		comments = append(comments, fmt.Sprintf("💨 Wind up to %dkm/h, zip up!", maxWind))
		top := strings.ToLower(clothes[CategoryTop])
		if !strings.Contains(top, "windbreaker") && !strings.Contains(top, "padded") {
			comments = append(comments, "🧥 A windbreaker is recommended")
		}
	}

	return &BlockResult{
		Tier:         tier,
		Clothes:      clothes,
		Comments:     comments,
		MinApparent:  minApparent,
		MaxApparent:  maxApparent,
		AvgTemp:      forecast.Round(float64(sumTemp) / float64(len(hours))),
		MaxWind:      maxWind,
		HasSnow:      hasSnow,
		HasRain:      hasRain,
		IsWindy:      isWindy,
		DominantCode: counts.mode(),
	}
}

// codeCounter tallies codes while remembering first appearance, so the mode
// breaks ties deterministically.
type codeCounter struct {
	order  []int
	counts map[int]int
}

func newCodeCounter() *codeCounter {
	return &codeCounter{counts: make(map[int]int)}
}

func (c *codeCounter) add(code int) {
	if _, seen := c.counts[code]; !seen {
		c.order = append(c.order, code)
	}
	c.counts[code]++
}

func (c *codeCounter) mode() int {
	best, bestCount := 0, 0
	for _, code := range c.order {
		if c.counts[code] > bestCount {
			best, bestCount = code, c.counts[code]
		}
	}
	return best
}

// SameClothes reports whether both results recommend identical items in
// every category. Comments and temperatures are ignored.
func SameClothes(a, b *BlockResult) bool {
	if a == nil || b == nil {
		return false
	}
	for _, category := range Categories {
		if a.Clothes[category] != b.Clothes[category] {
			return false
		}
	}
	return true
}

// BlockOutlook pairs a time block with its result.
type BlockOutlook struct {
	Block          TimeBlock    `json:"block"`
	Result         *BlockResult `json:"result"`
	SameAsPrevious string       `json:"sameAsPrevious,omitempty"`
}

// DayAnalysis is the block breakdown and narrative for one day.
type DayAnalysis struct {
	Blocks  []BlockOutlook `json:"blocks"`
	Summary []string       `json:"summary"`
}

// AnalyzeDay slices a day's hours into time blocks, aggregates each one and
// flags blocks that repeat the previous block's clothing.
func AnalyzeDay(hours []forecast.HourlyRecord) DayAnalysis {
	blocks := make([]BlockOutlook, 0, len(TimeBlocks))
	for _, block := range TimeBlocks {
		slice := make([]forecast.HourlyRecord, 0, block.EndHour-block.StartHour+1)
		for _, h := range hours {
			if block.Contains(h.Hour) {
				slice = append(slice, h)
			}
		}
		blocks = append(blocks, BlockOutlook{Block: block, Result: AggregateBlock(slice)})
	}

	for i := 1; i < len(blocks); i++ {
		prev, curr := blocks[i-1], &blocks[i]
		if SameClothes(prev.Result, curr.Result) {
			curr.SameAsPrevious = prev.Block.Label
		}
	}

	results := make([]*BlockResult, 0, len(blocks))
	for _, b := range blocks {
		results = append(results, b.Result)
	}
	return DayAnalysis{Blocks: blocks, Summary: Summarize(results)}
}

// DayGroup holds the hours that share a calendar date.
type DayGroup struct {
	Date  string
	Hours []forecast.HourlyRecord
}

// GroupByDate buckets hourly records by their local date, sorted by date.
func GroupByDate(hours []forecast.HourlyRecord) []DayGroup {
	index := make(map[string]int)
	groups := make([]DayGroup, 0)
	for _, h := range hours {
		i, ok := index[h.Date]
		if !ok {
			i = len(groups)
			index[h.Date] = i
			groups = append(groups, DayGroup{Date: h.Date})
		}
		groups[i].Hours = append(groups[i].Hours, h)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date < groups[j].Date
	})
	return groups
}
