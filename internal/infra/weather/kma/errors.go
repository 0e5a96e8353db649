package kma

const resultNormal = "00"

var resultMessages = map[string]string{
	"00": "normal service",
	"01": "application error",
	"02": "database error",
	"03": "no data",
	"04": "HTTP error",
	"05": "service connection timeout",
	"10": "invalid request parameter",
	"11": "missing mandatory request parameter",
	"12": "no such service or the service was retired",
	"20": "service access denied",
	"21": "service key temporarily disabled",
	"22": "service request limit exceeded",
	"30": "service key is not registered",
	"31": "service key has expired",
	"32": "client IP address is not registered",
	"33": "unsigned call",
	"99": "unknown error",
}

// resultMessage returns the readable description of a KMA result code.
func resultMessage(code string) string {
	if msg, ok := resultMessages[code]; ok {
		return msg
	}
	return "KMA API returned an unexpected result"
}
