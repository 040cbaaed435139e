package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}
func TestParseTimeDateOnly(t *testing.T) {
    got, ok := ParseTime("2024-02-01")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestAlignFromToDaily(t *testing.T) {
    from := time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC)
    to := time.Date(2024, 3, 8, 9, 15, 0, 0, time.UTC)
    gf, gt := AlignFromTo(from, to, "1d")
    if !gf.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("unexpected from %v", gf)
    }
    if !gt.Equal(time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("unexpected to %v", gt)
    }
}

func TestAlignFromToWeekly(t *testing.T) {
    // Thursday aligns back to Monday of the same week.
    from := time.Date(2024, 3, 7, 13, 45, 0, 0, time.UTC)
    gf, _ := AlignFromTo(from, from, "1wk")
    if !gf.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("unexpected from %v", gf)
    }
}
