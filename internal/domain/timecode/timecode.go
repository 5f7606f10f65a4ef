// Package timecode converts between textual timestamps and seconds.
// Accepted literal forms: H:MM:SS(.mmm), M:SS(.mmm) and bare decimal
// seconds. A comma decimal separator (subtitle convention) is normalized
// to a dot before parsing.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse converts a timestamp token to seconds. Malformed input returns an
// error, never a silently wrong number.
func Parse(token string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(token), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("parse timecode: empty token")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("parse timecode %q: too many fields", token)
	}

	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("parse timecode %q: %w", token, err)
		}
		total = total*60 + v
	}
	return total, nil
}

// Format renders seconds as H:MM:SS.mmm when hours are present, else
// M:SS.mmm. The fractional part is omitted when it rounds to zero, and
// millisecond rounding carries up through seconds, minutes and hours.
// Negative durations keep a single leading sign.
func Format(sec float64) string {
	sign := ""
	if sec < 0 {
		sign = "-"
		sec = -sec
	}

	totalMs := int64(math.Round(sec * 1000))
	ms := totalMs % 1000
	rest := totalMs / 1000
	s := rest % 60
	rest /= 60
	m := rest % 60
	h := rest / 60

	frac := ""
	if ms != 0 {
		frac = fmt.Sprintf(".%03d", ms)
	}
	if h > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d%s", sign, h, m, s, frac)
	}
	return fmt.Sprintf("%s%d:%02d%s", sign, m, s, frac)
}
