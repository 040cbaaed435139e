package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, a plain date, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if t, err := time.Parse("2006-01-02", s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// AlignFromTo rounds the time range to candle boundaries for the interval.
// Daily and weekly candles are keyed to midnight UTC.
func AlignFromTo(from, to time.Time, interval string) (time.Time, time.Time) {
    switch interval {
    case "1wk":
        from = startOfWeek(from)
        to = startOfDay(to)
    default: // 1d
        from = startOfDay(from)
        to = startOfDay(to)
    }
    return from, to
}

func startOfDay(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// startOfWeek returns the Monday at or before t.
func startOfWeek(t time.Time) time.Time {
    d := startOfDay(t)
    offset := (int(d.Weekday()) + 6) % 7
    return d.AddDate(0, 0, -offset)
}
