package discovery

import "time"

// Config is the engine's immutable runtime configuration (spec §6 [discovery]).
type Config struct {
	MaxDepth               int
	DiscoveryTimeout       time.Duration
	ConcurrentDevices      int
	EnableProgressTracking bool
	ConnectionTimeout      time.Duration
}

// DefaultConfig mirrors the spec's stated defaults: 10 workers, a 7200s
// discovery timeout.
func DefaultConfig() Config {
	return Config{
		MaxDepth:               9,
		DiscoveryTimeout:       2 * time.Hour,
		ConcurrentDevices:      10,
		EnableProgressTracking: true,
		ConnectionTimeout:      30 * time.Second,
	}
}

// maxTimeoutResets is the hard cap on idle-timeout extensions (spec §4.7).
const maxTimeoutResets = 10

// idleExtensionThreshold: extend the deadline once less than this fraction
// of discovery_timeout remains and at least one admission occurred in the
// current window (spec §4.7).
const idleExtensionThreshold = 0.20
