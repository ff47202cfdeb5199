package discovery

import "time"

// Summary is the terminal report of one discovery run (spec §4.7, §7).
type Summary struct {
	Queued        int
	Completed     int
	NewDevices    int
	Failed        int
	Boundary      int
	Skipped       int
	TimeoutResets int
	HardCapped    bool
	Elapsed       time.Duration
}
