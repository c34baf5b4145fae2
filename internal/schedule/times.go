package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the day-first format every date uses at the boundary.
const DateLayout = "02/01/2006"

// fallbackEnd is assumed when a booking's start time cannot be parsed.
const fallbackEnd = "22:00"

var weekdayIndex = map[string]int{
	"Domingo": 0,
	"Segunda": 1,
	"Terça":   2,
	"Quarta":  3,
	"Quinta":  4,
	"Sexta":   5,
	"Sábado":  6,
}

func ParseDayFirst(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

func FormatDayFirst(t time.Time) string {
	return t.Format(DateLayout)
}

// ToMinutes converts an HH:MM string to minutes since midnight.
// Malformed values convert to 0 so that broken rows contribute no overlap
// instead of aborting the batch.
func ToMinutes(clock string) int {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	return h*60 + m
}

// EffectiveEnd resolves a booking's end time: the recorded end when present,
// otherwise start + 3 hours wrapping midnight, or 22:00 when the start itself
// is unparseable.
func EffectiveEnd(start, end string) string {
	if trimmed := strings.TrimSpace(end); trimmed != "" {
		return trimmed
	}

	parts := strings.SplitN(strings.TrimSpace(start), ":", 2)
	if len(parts) != 2 {
		return fallbackEnd
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return fallbackEnd
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return fallbackEnd
	}

	return fmt.Sprintf("%02d:%02d", (h+3)%24, m)
}

// Overlaps reports whether two [start, end) minute intervals intersect.
func Overlaps(start1, end1, start2, end2 int) bool {
	return !(end1 <= start2 || end2 <= start1)
}

// OverlapMinutes returns the duration both intervals share, floored at zero.
func OverlapMinutes(start1, end1, start2, end2 int) int {
	d := min(end1, end2) - max(start1, start2)
	if d < 0 {
		return 0
	}

	return d
}
