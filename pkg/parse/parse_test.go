package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumatek/netwalk/pkg/model"
	"github.com/lumatek/netwalk/pkg/parse"
)

func TestCleanHostnameIdempotent(t *testing.T) {
	cases := []string{
		"LUMT-CORE-A(FOX1849GQKY)",
		"host.example.com",
		"weird!!name##123",
		string(make([]byte, 50)),
	}

	for _, c := range cases {
		once := parse.CleanHostname(c)
		twice := parse.CleanHostname(once)
		assert.Equal(t, once, twice, "clean(clean(h)) must equal clean(h) for %q", c)
	}
}

func TestCleanHostnameScenario4(t *testing.T) {
	assert.Equal(t, "LUMT-CORE-A", parse.CleanHostname("LUMT-CORE-A(FOX1849GQKY)"))

	serial, ok := parse.ExtractParenSerial("LUMT-CORE-A(FOX1849GQKY)")
	assert.True(t, ok)
	assert.Equal(t, "FOX1849GQKY", serial)
}

func TestExtractSoftwareVersionSkipsGPL(t *testing.T) {
	output := "Cisco IOS Software, C3750E Software\n" +
		"This software is covered under the GPL Version 2.\n" +
		"ROM: Bootstrap program\nswitch uptime is 10 weeks\nVersion 15.2(4)E10, RELEASE SOFTWARE\n"

	v, ok := parse.ExtractSoftwareVersion(output)
	assert.True(t, ok)
	assert.Equal(t, "15.2(4)E10", v)
}

func TestParseVLANZeroPortScenario3(t *testing.T) {
	output := "VLAN Name                             Status    Ports\n" +
		"461  FW-RINGCENTRAL                   active\n"

	vlans := parse.ParseVLAN(output, model.PlatformIOSXE)

	assert.Len(t, vlans, 1)
	assert.Equal(t, 461, vlans[0].VLANID)
	assert.Equal(t, "FW-RINGCENTRAL", vlans[0].Name)
	assert.Equal(t, 0, vlans[0].PortCount)
}

func TestParseVLANNXOSStopsAtVLANType(t *testing.T) {
	output := "1    default                          active    Gi1/0/1, Po1\n" +
		"10   default                          active    Gi1/0/2\n" +
		"VLAN Type\n" +
		"1    enet                             active\n"

	vlans := parse.ParseVLAN(output, model.PlatformNXOS)

	assert.Len(t, vlans, 2)
	assert.Equal(t, "default", vlans[0].Name)
	assert.Equal(t, 1, vlans[0].PortchannelCount)
}

func TestParseVLANDuplicateKeepsFirst(t *testing.T) {
	output := "1    default                          active\n" +
		"1    enet                             active\n"

	vlans := parse.ParseVLAN(output, model.PlatformIOS)

	assert.Len(t, vlans, 1)
	assert.Equal(t, "default", vlans[0].Name)
}

func TestParseCDPDropsSelfLoopAndMissingIP(t *testing.T) {
	output := "-------------------------\n" +
		"Device ID: core-a\n" +
		"Entry address(es):\n" +
		"  IP address: 10.1.1.1\n" +
		"Platform: cisco WS-C2960,  Capabilities: Switch IGMP\n" +
		"Interface: GigabitEthernet1/0/1,  Port ID (outgoing port): GigabitEthernet0/1\n" +
		"-------------------------\n" +
		"Device ID: SW01\n" +
		"Platform: cisco WS-C2960,  Capabilities: Switch\n" +
		"Interface: GigabitEthernet1/0/2,  Port ID (outgoing port): GigabitEthernet0/2\n"

	neighbors := parse.ParseCDP(output, "CORE-A")

	assert.Len(t, neighbors, 0, "self-loop and missing-ip entries must both be dropped")
}

func TestParseCDPScenario1(t *testing.T) {
	output := "-------------------------\n" +
		"Device ID: SW01\n" +
		"Entry address(es):\n" +
		"  IP address: 10.1.1.10\n" +
		"Platform: cisco WS-C2960,  Capabilities: Switch\n" +
		"Interface: GigabitEthernet1/0/1,  Port ID (outgoing port): GigabitEthernet0/1\n" +
		"-------------------------\n" +
		"Device ID: SEP001122334455\n" +
		"Entry address(es):\n" +
		"  IP address: 10.1.1.99\n" +
		"Platform: Cisco IP Phone,  Capabilities: Phone\n" +
		"Interface: GigabitEthernet1/0/2,  Port ID (outgoing port): Port 1\n"

	neighbors := parse.ParseCDP(output, "CORE-A")

	assert.Len(t, neighbors, 2)
	assert.Equal(t, "SW01", neighbors[0].RemoteHostname)
	_, isPhone := neighbors[1].RemoteCapabilities["Phone"]
	assert.True(t, isPhone)
}
