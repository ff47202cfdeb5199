// Package platform classifies a device family from its version banner and
// prompt, and maps a family to the fixed set of commands we run against it.
//
// Grounded on the teacher's table-driven config dispatch (pkg/discovery/types.go)
// rather than dynamic per-type methods: a new platform is a table addition, per
// design note §9 of the spec this module implements.
package platform

import (
	"strings"

	"github.com/lumatek/netwalk/pkg/model"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Detect classifies a device family. First match wins, in the order below.
func (*Handler) Detect(versionOutput, promptHint string) model.Platform {
	switch {
	case strings.Contains(versionOutput, "NXOS:") || strings.Contains(versionOutput, "Nexus"):
		return model.PlatformNXOS
	case strings.Contains(versionOutput, "IOS-XE") || strings.Contains(versionOutput, "IOS XE"):
		return model.PlatformIOSXE
	case strings.Contains(versionOutput, "Cisco IOS"):
		return model.PlatformIOS
	case strings.Contains(versionOutput, "sw-version:") ||
		strings.HasSuffix(strings.TrimSpace(promptHint), "-FW") ||
		strings.Contains(versionOutput, "PAN-OS"):
		return model.PlatformPANOS
	default:
		return model.PlatformUnknown
	}
}

// CommandsFor returns the fixed command plan for a platform family (spec §4.1).
func (*Handler) CommandsFor(p model.Platform) model.CommandPlan {
	switch p {
	case model.PlatformIOS, model.PlatformIOSXE:
		return model.CommandPlan{
			PagerOff:   "terminal length 0",
			Identity:   "show version",
			Neighbors:  []string{"show cdp neighbors detail", "show lldp neighbors detail"},
			VLAN:       "show vlan brief",
			Interfaces: "show interfaces status",
		}
	case model.PlatformNXOS:
		return model.CommandPlan{
			PagerOff:   "terminal length 0",
			Identity:   "show version",
			Neighbors:  []string{"show cdp neighbors detail", "show lldp neighbors detail"},
			VLAN:       "show vlan",
			Interfaces: "show interface status",
		}
	case model.PlatformPANOS:
		return model.CommandPlan{
			PagerOff: "set cli pager off",
			Identity: "show system info",
		}
	default:
		return model.CommandPlan{
			PagerOff:  "terminal length 0",
			Identity:  "show version",
			Neighbors: []string{"show cdp neighbors detail", "show lldp neighbors detail"},
		}
	}
}
