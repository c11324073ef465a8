package utils

import "time"

// ReadingDateLayout is the MM/DD/YYYY layout used for book reading dates.
const ReadingDateLayout = "01/02/2006"

// Now is the clock used by CurrentDateStamp. Tests may replace it.
var Now = time.Now

// FormatReadingDate formats t as a zero-padded MM/DD/YYYY string in t's location.
func FormatReadingDate(t time.Time) string {
	return t.Format(ReadingDateLayout)
}

// CurrentDateStamp returns today's date as MM/DD/YYYY.
func CurrentDateStamp() string {
	return FormatReadingDate(Now())
}
