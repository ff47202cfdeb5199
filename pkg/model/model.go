// Package model holds the domain types shared across the discovery pipeline:
// platform classification, parsed device records, and the work-queue entry
// that moves through the discovery engine.
package model

import "time"

// Platform identifies a device family.
type Platform string

const (
	PlatformIOS    Platform = "ios"
	PlatformIOSXE  Platform = "ios-xe"
	PlatformNXOS   Platform = "nx-os"
	PlatformPANOS  Platform = "pan-os"
	PlatformUnknown Platform = "unknown"
)

// Status is the lifecycle state of a DeviceIdentity.
type Status string

const (
	StatusWalked   Status = "walked"
	StatusObserved Status = "observed"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
	StatusBoundary Status = "boundary"
	StatusPurge    Status = "purge"
)

// UnknownSerial is the placeholder serial for observed-only devices.
const UnknownSerial = "unknown"

// CommandPlan is the set of commands a platform handler issues against a device.
// Empty strings and nil slices mean "do not run this step".
type CommandPlan struct {
	PagerOff   string
	Identity   string
	Neighbors  []string
	VLAN       string
	Interfaces string
}

// DeviceIdentity is the persisted identity of a walked or observed device (spec §3).
type DeviceIdentity struct {
	Hostname        string
	Serial          string
	PrimaryIP       string
	ManagementIPs   map[string]struct{}
	Platform        Platform
	HardwareModel   string
	SoftwareVersion string
	Capabilities    map[string]struct{}
	Status          Status
	FirstSeen       time.Time
	LastSeen        time.Time
}

// Interface is a per-device interface record.
type Interface struct {
	Name           string
	IPMask         string
	Status         string
	VLANMembership string
}

// VLANRecord is a per-device VLAN entry.
type VLANRecord struct {
	VLANID             int
	Name               string
	PortCount          int
	PortchannelCount   int
	ConnectedPortCount int
}

// Neighbor is a directed CDP/LLDP adjacency edge.
type Neighbor struct {
	LocalPort          string
	RemoteHostname     string
	RemotePort         string
	RemoteIP           string
	RemotePlatform     Platform
	RemoteCapabilities map[string]struct{}
}

// QueueEntry is a unit of work owned exclusively by the discovery engine
// between pop and completion.
type QueueEntry struct {
	HostnameHint string
	IP           string
	Depth        int
	Origin       string
}

// TransportKind records which transport a session used.
type TransportKind string

const (
	TransportSSH     TransportKind = "ssh"
	TransportTelnet  TransportKind = "plaintext"
	TransportUnknown TransportKind = ""
)

// DeviceRecord is the output of one device collection (C4).
type DeviceRecord struct {
	Identity   DeviceIdentity
	Interfaces []Interface
	VLANs      []VLANRecord
	Neighbors  []Neighbor
	Transport  TransportKind
	Status     Status
	Err        error
}

// Credentials carries the username/password/enable-password trio used to open a session.
// Never logged.
type Credentials struct {
	Username        string
	Password        string
	EnablePassword  string
	PromptForEnable bool
}
