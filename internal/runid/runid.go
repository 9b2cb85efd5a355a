// Package runid issues sortable identifiers for command runs and tool calls.
package runid

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID string stamped with the current time.
func New() string {
	return At(time.Now())
}

// At returns a ULID stamped with ts.
func At(ts time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(ts), entropy).String()
}
