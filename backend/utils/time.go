package utils

import "time"

// TimestampLayout matches JavaScript's Date.toISOString, which is what the
// web client writes and compares against.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
