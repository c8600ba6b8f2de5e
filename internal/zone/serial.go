package zone

import (
	"fmt"
	"time"
)

// SerialWidth is the number of digits in every serial.
const SerialWidth = 12

// Serial derives the SOA serial from t as YYMMDDHHMM, zero-padded to
// SerialWidth digits. The value fits the 32-bit serial field through 2042.
// Publishes within the same minute share a serial.
func Serial(t time.Time) string {
	v := (t.Year()%100)*100000000 +
		int(t.Month())*1000000 +
		t.Day()*10000 +
		t.Hour()*100 +
		t.Minute()
	return fmt.Sprintf("%0*d", SerialWidth, v)
}
