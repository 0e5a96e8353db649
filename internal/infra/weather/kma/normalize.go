package kma

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/outfitcast/internal/domain/forecast"
)

const (
	providerName = "kma"
	stampLayout  = "200601021504"
	mpsToKmh     = 3.6

	heatIndexFloor = 27.0
)

// KST is the zone every KMA timestamp is expressed in.
var KST = time.FixedZone("KST", 9*60*60)

type apiResponse struct {
	Response *struct {
		Header *struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body *struct {
			Items struct {
				Item []apiItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type apiItem struct {
	FcstDate  string `json:"fcstDate"`
	FcstTime  string `json:"fcstTime"`
	Category  string `json:"category"`
	FcstValue string `json:"fcstValue"`
}

// ptyCodes maps precipitation types onto the shared weather code taxonomy.
var ptyCodes = map[int]int{
	1: forecast.CodeRain,
	2: forecast.CodeFreezingRain,
	3: forecast.CodeSnow,
	4: forecast.CodeLightShowers,
	5: forecast.CodeLightDrizzle,
	6: forecast.CodeFreezingDrizzle,
	7: forecast.CodeLightSnow,
}

var skyCodes = map[int]int{
	1: forecast.CodeClear,
	3: forecast.CodePartlyCloudy,
	4: forecast.CodeOvercast,
}

// slot collects the categories reported for one forecast hour.
type slot struct {
	key      string
	temp     *float64
	sky      *int
	pty      int
	wind     float64
	humidity *float64
}

// Normalizer converts the KMA village forecast item list into the canonical forecast.
type Normalizer struct{}

// Normalize implements forecast.Normalizer.
func (Normalizer) Normalize(payload []byte, now time.Time) (forecast.Forecast, error) {
	if len(payload) == 0 {
		return forecast.Forecast{}, forecast.ErrDataUnavailable
	}
	if trimmed := bytes.TrimSpace(payload); bytes.HasPrefix(trimmed, []byte("<")) {
		return forecast.Forecast{}, gatewayError(trimmed)
	}
	var raw apiResponse
	if err := json.Unmarshal(payload, &raw); err != nil {
		return forecast.Forecast{}, forecast.Malformed("decode kma response: %v", err)
	}
	if raw.Response == nil || raw.Response.Header == nil {
		return forecast.Forecast{}, forecast.Malformed("kma response lacks header")
	}
	if code := strings.TrimSpace(raw.Response.Header.ResultCode); code != resultNormal {
		return forecast.Forecast{}, &forecast.ProviderError{Provider: providerName, Code: code, Message: resultMessage(code)}
	}
	if raw.Response.Body == nil {
		return forecast.Forecast{}, forecast.Malformed("kma response lacks body")
	}

	records, err := buildRecords(raw.Response.Body.Items.Item)
	if err != nil {
		return forecast.Forecast{}, err
	}
	if len(records) == 0 {
		return forecast.Forecast{}, forecast.ErrDataUnavailable
	}

	hourly := make([]forecast.HourlyRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Time.Before(now) {
			hourly = append(hourly, rec)
		}
	}
	return forecast.Forecast{Current: nearest(records, now), Hourly: hourly}, nil
}

// gatewayResponse is the XML envelope data.go.kr answers with when it rejects
// a call before it reaches the forecast service, whatever dataType was asked.
type gatewayResponse struct {
	XMLName xml.Name `xml:"OpenAPI_ServiceResponse"`
	Header  struct {
		ErrMsg           string `xml:"errMsg"`
		ReturnAuthMsg    string `xml:"returnAuthMsg"`
		ReturnReasonCode string `xml:"returnReasonCode"`
	} `xml:"cmmMsgHeader"`
}

func gatewayError(payload []byte) error {
	var raw gatewayResponse
	if err := xml.Unmarshal(payload, &raw); err != nil {
		return forecast.Malformed("decode kma gateway response: %v", err)
	}
	code := strings.TrimSpace(raw.Header.ReturnReasonCode)
	if code == "" {
		return forecast.Malformed("kma gateway response lacks returnReasonCode")
	}
	return &forecast.ProviderError{Provider: providerName, Code: code, Message: resultMessage(code)}
}

func buildRecords(items []apiItem) ([]forecast.HourlyRecord, error) {
	slots := make(map[string]*slot)
	for _, it := range items {
		key := it.FcstDate + it.FcstTime
		s, ok := slots[key]
		if !ok {
			s = &slot{key: key}
			slots[key] = s
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(it.FcstValue), 64)
		if err != nil {
			continue
		}
		switch it.Category {
		case "TMP", "T1H":
			s.temp = &value
		case "SKY":
			sky := int(value)
			s.sky = &sky
		case "PTY":
			s.pty = int(value)
		case "WSD":
			s.wind = value * mpsToKmh
		case "REH":
			s.humidity = &value
		}
	}

	complete := make([]*slot, 0, len(slots))
	for _, s := range slots {
		if s.temp != nil && s.sky != nil {
			complete = append(complete, s)
		}
	}
	sort.Slice(complete, func(i, j int) bool { return complete[i].key < complete[j].key })

	records := make([]forecast.HourlyRecord, 0, len(complete))
	for _, s := range complete {
		ts, err := time.ParseInLocation(stampLayout, s.key, KST)
		if err != nil {
			return nil, forecast.Malformed("forecast time %q: %v", s.key, err)
		}
		records = append(records, s.record(ts))
	}
	return records, nil
}

func (s *slot) record(ts time.Time) forecast.HourlyRecord {
	temp := *s.temp
	// Without humidity the heat index is undefined, so hot hours keep the air temperature.
	apparent := forecast.Round(temp)
	if s.humidity != nil || temp < heatIndexFloor {
		humidity := 0.0
		if s.humidity != nil {
			humidity = *s.humidity
		}
		apparent = forecast.ApparentTemperature(temp, s.wind, humidity)
	}

	rec := forecast.NewRecord(ts, temp, float64(apparent), s.code(), s.wind)
	if s.humidity != nil {
		rec = rec.WithHumidity(*s.humidity)
	}
	return rec
}

func (s *slot) code() int {
	if code, ok := ptyCodes[s.pty]; ok {
		return code
	}
	if s.sky != nil {
		if code, ok := skyCodes[*s.sky]; ok {
			return code
		}
	}
	return forecast.CodeClear
}

// nearest picks the record closest to now; the earliest wins on ties.
func nearest(records []forecast.HourlyRecord, now time.Time) forecast.HourlyRecord {
	best := records[0]
	bestGap := absDuration(best.Time.Sub(now))
	for _, rec := range records[1:] {
		if gap := absDuration(rec.Time.Sub(now)); gap < bestGap {
			best, bestGap = rec, gap
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
