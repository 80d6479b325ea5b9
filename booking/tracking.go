package booking

import (
	"crypto/rand"
	"time"
)

const (
	trackingPrefix   = "CF"
	trackingCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingRandLen  = 4
	trackingDateForm = "060102" // YYMMDD
)

// NewTrackingID generates a client-side tracking identifier: a fixed prefix,
// four random alphanumerics, and the booking date as YYMMDD.
func NewTrackingID(now time.Time) string {
	buf := make([]byte, trackingRandLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for this process.
		panic("booking: read random bytes: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = trackingCharset[int(b)%len(trackingCharset)]
	}
	return trackingPrefix + string(buf) + now.Format(trackingDateForm)
}
