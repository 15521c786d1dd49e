// SPDX-License-Identifier: MIT

package transport

import "time"

// SystemClock is a Clock backed by the process's monotonic start time,
// matching the "monotonic milliseconds in practice" the core expects
// from an embedded host's millis() call.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock whose Timestamp is milliseconds since
// the clock was created.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Timestamp returns milliseconds elapsed since the clock was created,
// wrapping at uint32 overflow the same way an embedded millis() counter
// would.
func (c *SystemClock) Timestamp() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
