package transport

import "errors"

// Error taxonomy from spec §7. ConnectManager failures are classified into
// one of these so the collector can record the right DeviceIdentity status
// without inspecting transport-library-specific error strings.
var (
	ErrConnectRefused = errors.New("transport: connection refused")
	ErrAuthFailed     = errors.New("transport: authentication failed")
	ErrConnectFailed  = errors.New("transport: connection failed on all transports")
	ErrCommandTimeout = errors.New("transport: command timed out")
)
