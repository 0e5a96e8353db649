package kma

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfitcast/internal/domain/forecast"
)

const samplePayload = `{"response":{"header":{"resultCode":"00","resultMsg":"NORMAL_SERVICE"},"body":{"dataType":"JSON","items":{"item":[
{"fcstDate":"20240115","fcstTime":"1600","category":"TMP","fcstValue":"2"},
{"fcstDate":"20240115","fcstTime":"1600","category":"SKY","fcstValue":"4"},
{"fcstDate":"20240115","fcstTime":"1600","category":"PTY","fcstValue":"3"},
{"fcstDate":"20240115","fcstTime":"1600","category":"WSD","fcstValue":"5"},
{"fcstDate":"20240115","fcstTime":"1600","category":"REH","fcstValue":"80"},
{"fcstDate":"20240115","fcstTime":"1600","category":"PCP","fcstValue":"강수없음"},
{"fcstDate":"20240115","fcstTime":"1500","category":"TMP","fcstValue":"3"},
{"fcstDate":"20240115","fcstTime":"1500","category":"SKY","fcstValue":"1"},
{"fcstDate":"20240115","fcstTime":"1500","category":"PTY","fcstValue":"0"},
{"fcstDate":"20240115","fcstTime":"1500","category":"WSD","fcstValue":"2"},
{"fcstDate":"20240115","fcstTime":"1500","category":"REH","fcstValue":"40"},
{"fcstDate":"20240115","fcstTime":"1700","category":"TMP","fcstValue":"1"},
{"fcstDate":"20240115","fcstTime":"1700","category":"PTY","fcstValue":"0"},
{"fcstDate":"20240116","fcstTime":"0000","category":"TMP","fcstValue":"30"},
{"fcstDate":"20240116","fcstTime":"0000","category":"SKY","fcstValue":"3"},
{"fcstDate":"20240116","fcstTime":"0000","category":"WSD","fcstValue":"1"},
{"fcstDate":"20240116","fcstTime":"0100","category":"TMP","fcstValue":"30"},
{"fcstDate":"20240116","fcstTime":"0100","category":"SKY","fcstValue":"1"},
{"fcstDate":"20240116","fcstTime":"0100","category":"WSD","fcstValue":"1"},
{"fcstDate":"20240116","fcstTime":"0100","category":"REH","fcstValue":"70"}
]},"pageNo":1,"numOfRows":1000,"totalCount":20}}}`

func TestNormalizeSamplePayload(t *testing.T) {
	now := time.Date(2024, 1, 15, 15, 20, 0, 0, KST)

	fc, err := Normalizer{}.Normalize([]byte(samplePayload), now)
	require.NoError(t, err)

	require.Equal(t, 15, fc.Current.Hour)
	require.Equal(t, forecast.CodeClear, fc.Current.WeatherCode)
	require.Equal(t, 7, fc.Current.WindSpeed)
	require.Equal(t, 1, fc.Current.ApparentTemp)
	require.Equal(t, 40, *fc.Current.Humidity)

	require.Len(t, fc.Hourly, 3)

	snowy := fc.Hourly[0]
	require.Equal(t, 16, snowy.Hour)
	require.Equal(t, forecast.CodeSnow, snowy.WeatherCode)
	require.Equal(t, 18, snowy.WindSpeed)
	require.Equal(t, -2, snowy.ApparentTemp)

	noHumidity := fc.Hourly[1]
	require.Equal(t, "2024-01-16", noHumidity.Date)
	require.Equal(t, forecast.CodePartlyCloudy, noHumidity.WeatherCode)
	require.Nil(t, noHumidity.Humidity)
	require.Equal(t, 30, noHumidity.ApparentTemp)

	require.Equal(t, 35, fc.Hourly[2].ApparentTemp)
}

func TestNormalizeCurrentTieKeepsEarlier(t *testing.T) {
	now := time.Date(2024, 1, 15, 15, 30, 0, 0, KST)
	fc, err := Normalizer{}.Normalize([]byte(samplePayload), now)
	require.NoError(t, err)
	require.Equal(t, 15, fc.Current.Hour)
}

func TestNormalizeIsIdempotentUnderCanonicalize(t *testing.T) {
	now := time.Date(2024, 1, 15, 15, 0, 0, 0, KST)
	fc, err := Normalizer{}.Normalize([]byte(samplePayload), now)
	require.NoError(t, err)
	require.Equal(t, fc.Hourly, forecast.Canonicalize(fc.Hourly, now))
}

func TestPrecipitationCodeWins(t *testing.T) {
	cases := map[int]int{
		1: forecast.CodeRain,
		2: forecast.CodeFreezingRain,
		3: forecast.CodeSnow,
		4: forecast.CodeLightShowers,
		5: forecast.CodeLightDrizzle,
		6: forecast.CodeFreezingDrizzle,
		7: forecast.CodeLightSnow,
	}
	sky := 1
	for pty, want := range cases {
		s := slot{sky: &sky, pty: pty}
		require.Equal(t, want, s.code(), "pty %d", pty)
	}

	overcast := 4
	require.Equal(t, forecast.CodeOvercast, (&slot{sky: &overcast}).code())
	unknown := 2
	require.Equal(t, forecast.CodeClear, (&slot{sky: &unknown}).code())
}

func TestNormalizeProviderError(t *testing.T) {
	payload := `{"response":{"header":{"resultCode":"30","resultMsg":"SERVICE_KEY_IS_NOT_REGISTERED_ERROR"}}}`
	_, err := Normalizer{}.Normalize([]byte(payload), time.Now())

	var providerErr *forecast.ProviderError
	require.True(t, errors.As(err, &providerErr))
	require.Equal(t, "30", providerErr.Code)
	require.Equal(t, "service key is not registered", providerErr.Message)
}

const gatewayPayload = `<OpenAPI_ServiceResponse>
	<cmmMsgHeader>
		<errMsg>SERVICE ERROR</errMsg>
		<returnAuthMsg>SERVICE_KEY_IS_NOT_REGISTERED_ERROR</returnAuthMsg>
		<returnReasonCode>30</returnReasonCode>
	</cmmMsgHeader>
</OpenAPI_ServiceResponse>`

func TestNormalizeGatewayRejection(t *testing.T) {
	_, err := Normalizer{}.Normalize([]byte("\n"+gatewayPayload), time.Now())

	var providerErr *forecast.ProviderError
	require.True(t, errors.As(err, &providerErr))
	require.Equal(t, providerName, providerErr.Provider)
	require.Equal(t, "30", providerErr.Code)
	require.Equal(t, "service key is not registered", providerErr.Message)
	require.NotErrorIs(t, err, forecast.ErrMalformedInput)
}

func TestNormalizeRejectsBadPayloads(t *testing.T) {
	cases := map[string]struct {
		payload string
		target  error
	}{
		"empty":      {payload: "", target: forecast.ErrDataUnavailable},
		"xml":        {payload: "<OpenAPI_ServiceResponse/>", target: forecast.ErrMalformedInput},
		"broken xml": {payload: "<OpenAPI_ServiceResponse><cmmMsgHeader>", target: forecast.ErrMalformedInput},
		"no header":  {payload: `{"response":{}}`, target: forecast.ErrMalformedInput},
		"no body":    {payload: `{"response":{"header":{"resultCode":"00"}}}`, target: forecast.ErrMalformedInput},
		"no records": {payload: `{"response":{"header":{"resultCode":"00"},"body":{"items":{"item":[]}}}}`, target: forecast.ErrDataUnavailable},
		"incomplete": {
			payload: `{"response":{"header":{"resultCode":"00"},"body":{"items":{"item":[{"fcstDate":"20240115","fcstTime":"1500","category":"TMP","fcstValue":"3"}]}}}}`,
			target:  forecast.ErrDataUnavailable,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Normalizer{}.Normalize([]byte(tc.payload), time.Now())
			require.ErrorIs(t, err, tc.target)
		})
	}
}

func TestResultMessageFallback(t *testing.T) {
	require.Equal(t, "service request limit exceeded", resultMessage("22"))
	require.Equal(t, "KMA API returned an unexpected result", resultMessage("77"))
}
