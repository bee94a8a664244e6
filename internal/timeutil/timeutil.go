// README: Pure time helpers shared by the POI and assistant modules.
package timeutil

import (
	"fmt"
	"time"
)

// Layout matches the HTML datetime-local input the planner UI round-trips.
const DatetimeLocal = "2006-01-02T15:04"

var weekdays = []string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

// FormatDatetimeLocal renders t without zone information, minute precision.
func FormatDatetimeLocal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DatetimeLocal)
}

// ParseDatetimeLocal is the inverse of FormatDatetimeLocal in the local zone.
func ParseDatetimeLocal(s string) (time.Time, error) {
	return time.ParseInLocation(DatetimeLocal, s, time.Local)
}

// AddSeconds shifts t forward by a route duration.
func AddSeconds(t time.Time, seconds float64) time.Time {
	return t.Add(time.Duration(seconds * float64(time.Second)))
}

// SubtractSeconds shifts t backward by a route duration.
func SubtractSeconds(t time.Time, seconds float64) time.Time {
	return t.Add(-time.Duration(seconds * float64(time.Second)))
}

// WithinOpenHours reports whether the clock time of at falls inside the
// open..close window given as "HH:MM" strings. A close at or before open
// means the place closes past midnight and the window wraps. Malformed
// hours count as open: bad catalog data should widen results, not hide them.
func WithinOpenHours(open, close string, at time.Time) bool {
	openMins, err1 := parseClock(open)
	closeMins, err2 := parseClock(close)
	if err1 != nil || err2 != nil {
		return true
	}

	nowMins := at.Hour()*60 + at.Minute()
	if closeMins <= openMins {
		closeMins += 24 * 60
		if nowMins < openMins {
			nowMins += 24 * 60
		}
	}
	return nowMins >= openMins && nowMins <= closeMins
}

// FormatRelativeDay renders t relative to now: "Hoy a las 14:30h",
// "Mañana a las 09:00h", or "el martes 12 a las 18:15h" further out.
func FormatRelativeDay(t, now time.Time, lowercase bool) string {
	if t.IsZero() {
		return ""
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	diffDays := int(target.Sub(today).Hours() / 24)

	var prefix string
	switch diffDays {
	case 0:
		prefix = "Hoy "
		if lowercase {
			prefix = "hoy "
		}
	case 1:
		prefix = "Mañana "
		if lowercase {
			prefix = "mañana "
		}
	default:
		prefix = fmt.Sprintf("el %s %d ", weekdays[int(t.Weekday())], t.Day())
	}

	return fmt.Sprintf("%sa las %02d:%02dh", prefix, t.Hour(), t.Minute())
}

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock out of range: %s", s)
	}
	return h*60 + m, nil
}
