package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumatek/netwalk/pkg/model"
	"github.com/lumatek/netwalk/pkg/platform"
)

func TestDetect(t *testing.T) {
	h := platform.NewHandler()

	cases := []struct {
		name    string
		version string
		prompt  string
		want    model.Platform
	}{
		{"nxos", "Cisco Nexus Operating System (NXOS) Software\nNXOS: version 9.3", "switch#", model.PlatformNXOS},
		{"nexus-substring", "Nexus 9000 Series", "switch#", model.PlatformNXOS},
		{"ios-xe", "Cisco IOS-XE Software", "router#", model.PlatformIOSXE},
		{"ios-xe-space", "Cisco IOS XE Software", "router#", model.PlatformIOSXE},
		{"ios", "Cisco IOS Software, C3750E", "switch#", model.PlatformIOS},
		{"panos-banner", "sw-version: 10.1.0", "fw>", model.PlatformPANOS},
		{"panos-prompt", "unrecognized", "edge-FW", model.PlatformPANOS},
		{"panos-string", "PAN-OS 11.0", "fw>", model.PlatformPANOS},
		{"unknown", "some other box", "box>", model.PlatformUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, h.Detect(tc.version, tc.prompt))
		})
	}
}

func TestCommandsFor(t *testing.T) {
	h := platform.NewHandler()

	plan := h.CommandsFor(model.PlatformNXOS)
	assert.Equal(t, "show vlan", plan.VLAN)
	assert.Equal(t, "show interface status", plan.Interfaces)

	plan = h.CommandsFor(model.PlatformPANOS)
	assert.Empty(t, plan.Neighbors)
	assert.Empty(t, plan.VLAN)
	assert.Equal(t, "show system info", plan.Identity)

	plan = h.CommandsFor(model.PlatformIOS)
	assert.Equal(t, "show vlan brief", plan.VLAN)
}
