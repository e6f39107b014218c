package util

import "time"

func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, timeStr)
}

// FormatTime renders t in UTC using the layout ParseTime accepts.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
